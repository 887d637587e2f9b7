package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftDuration_OverflowMinutesPreserved(t *testing.T) {
	d := ShiftDuration{Hours: 10, Minutes: 90}

	// Исходные компоненты не трогаем
	assert.Equal(t, 10, d.Hours)
	assert.Equal(t, 90, d.Minutes)
	assert.Equal(t, 690, d.TotalMinutes())

	n := d.Normalized()
	assert.Equal(t, 11, n.Hours)
	assert.Equal(t, 30, n.Minutes)
}

func TestShiftDuration_Add(t *testing.T) {
	sum := ShiftDuration{Hours: 5, Minutes: 45}.Add(ShiftDuration{Hours: 6, Minutes: 30})

	assert.Equal(t, 11, sum.Hours)
	assert.Equal(t, 75, sum.Minutes)
	assert.Equal(t, "12:15", sum.String())
}

func TestShiftDuration_HoursFloat(t *testing.T) {
	assert.InDelta(t, 10.5, ShiftDuration{Hours: 10, Minutes: 30}.HoursFloat(), 1e-9)
}

func TestShiftDuration_IsValid(t *testing.T) {
	assert.True(t, ShiftDuration{Hours: 0, Minutes: 30}.IsValid())
	assert.False(t, ShiftDuration{}.IsValid())
	assert.False(t, ShiftDuration{Hours: -1, Minutes: 30}.IsValid())
}
