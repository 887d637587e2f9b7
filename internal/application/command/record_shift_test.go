package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smk-hub/residency-training-hub/internal/domain/compliance"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
)

func newShiftHandler(env *testEnv) *RecordShiftHandler {
	return NewRecordShiftHandler(
		env.shiftRepo, env.internRepo,
		compliance.NewValidator(), env.idGen, env.recomputer, env.invalidator,
	)
}

func TestRecordShift_KeepsDenormalizedMinutes(t *testing.T) {
	env := newTestEnv()
	_, _, internship := env.seedSpecialization()
	handler := newShiftHandler(env)

	result, err := handler.Handle(context.Background(), RecordShiftCommand{
		InternshipID:    internship.ID,
		Date:            time.Date(2026, 2, 3, 19, 0, 0, 0, time.UTC),
		DurationHours:   10,
		DurationMinutes: 90,
	})

	require.NoError(t, err)
	saved, err := env.shiftRepo.GetByID(context.Background(), result.ShiftID)
	require.NoError(t, err)

	// Minutes are stored exactly as entered, not normalized to 11:30.
	assert.Equal(t, 10, saved.Duration.Hours)
	assert.Equal(t, 90, saved.Duration.Minutes)
	assert.InDelta(t, 11.5, saved.Duration.HoursFloat(), 0.001)
}

func TestRecordShift_RejectsZeroDuration(t *testing.T) {
	env := newTestEnv()
	_, _, internship := env.seedSpecialization()
	handler := newShiftHandler(env)

	result, err := handler.Handle(context.Background(), RecordShiftCommand{
		InternshipID: internship.ID,
		Date:         time.Date(2026, 2, 3, 19, 0, 0, 0, time.UTC),
	})

	require.ErrorIs(t, err, ErrComplianceRejected)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, compliance.ReasonInvalidDuration, result.Errors[0].Code)
}

func TestRecordShift_WarnsAboveWeeklyCap(t *testing.T) {
	env := newTestEnv()
	_, _, internship := env.seedSpecialization()
	handler := newShiftHandler(env)

	// Monday through Wednesday of the same ISO week, 12.5 hours each.
	for day := 2; day <= 4; day++ {
		result, err := handler.Handle(context.Background(), RecordShiftCommand{
			InternshipID:    internship.ID,
			Date:            time.Date(2026, 2, day, 19, 0, 0, 0, time.UTC),
			DurationHours:   12,
			DurationMinutes: 30,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
	}

	// Thursday pushes the week to 49.5 hours, above the 48 hour cap.
	result, err := handler.Handle(context.Background(), RecordShiftCommand{
		InternshipID:  internship.ID,
		Date:          time.Date(2026, 2, 5, 19, 0, 0, 0, time.UTC),
		DurationHours: 12,
	})

	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, compliance.ReasonWeeklyHoursExceeded, result.Warnings[0].Code)
	assert.InDelta(t, 49.5, result.WeekHours, 0.001)

	// The record is saved despite the warning.
	shifts, err := env.shiftRepo.GetByInternship(context.Background(), internship.ID)
	require.NoError(t, err)
	assert.Len(t, shifts, 4)
}

func TestRecordShift_OnlyApprovedHoursCount(t *testing.T) {
	env := newTestEnv()
	_, module, internship := env.seedSpecialization()
	handler := newShiftHandler(env)

	result, err := handler.Handle(context.Background(), RecordShiftCommand{
		InternshipID:  internship.ID,
		Date:          time.Date(2026, 2, 3, 19, 0, 0, 0, time.UTC),
		DurationHours: 12,
	})
	require.NoError(t, err)

	// A freshly recorded shift is not yet approved by SMK.
	updated, err := env.moduleRepo.GetByID(context.Background(), module.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.Counters.CompletedShiftHours)

	// Approval makes the hours count on the next recompute.
	saved, err := env.shiftRepo.GetByID(context.Background(), result.ShiftID)
	require.NoError(t, err)
	saved.SyncStatus = shared.SyncStatusApproved
	require.NoError(t, env.shiftRepo.Update(context.Background(), saved))

	require.NoError(t, env.recomputer.RecomputeModule(context.Background(), module.ID))
	updated, err = env.moduleRepo.GetByID(context.Background(), module.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, updated.Counters.CompletedShiftHours, 0.001)
}

func TestDeleteShift_RefusesSubmittedRecord(t *testing.T) {
	env := newTestEnv()
	_, _, internship := env.seedSpecialization()

	env.shiftRepo.items["shift-1"] = &training.MedicalShift{
		ID:           "shift-1",
		InternshipID: internship.ID,
		Date:         time.Date(2026, 2, 3, 19, 0, 0, 0, time.UTC),
		Duration:     training.ShiftDuration{Hours: 12},
		SyncStatus:   shared.SyncStatusSubmitted,
	}

	handler := NewDeleteShiftHandler(
		env.shiftRepo, env.internRepo,
		compliance.NewValidator(), env.recomputer, env.invalidator,
	)

	err := handler.Handle(context.Background(), DeleteShiftCommand{ShiftID: "shift-1"})
	require.ErrorIs(t, err, shared.ErrRecordLocked)
}
