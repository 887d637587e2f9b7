package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smk-hub/residency-training-hub/internal/domain/compliance"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

func shift(id string, date time.Time, hours, minutes int, status shared.SyncStatus) *training.MedicalShift {
	return &training.MedicalShift{
		ID:           id,
		InternshipID: "int-1",
		Date:         date,
		Duration:     training.ShiftDuration{Hours: hours, Minutes: minutes},
		SyncStatus:   status,
	}
}

func TestMonthlyShiftStats_Breakdown(t *testing.T) {
	repo := &stubShiftRepo{shifts: []*training.MedicalShift{
		// Tuesday evening, approved.
		shift("s-1", timeutil.DateTime(2026, 2, 3, 19, 0, 0), 12, 0, shared.SyncStatusApproved),
		// Saturday night shift, approved, denormalized minutes.
		shift("s-2", timeutil.DateTime(2026, 2, 7, 22, 30, 0), 10, 90, shared.SyncStatusApproved),
		// Wednesday, still local.
		shift("s-3", timeutil.DateTime(2026, 2, 11, 8, 0, 0), 8, 0, shared.SyncStatusNotSynced),
		// Thursday, rejected.
		shift("s-4", timeutil.DateTime(2026, 2, 12, 8, 0, 0), 6, 30, shared.SyncStatusRejected),
	}}

	handler := NewGetMonthlyShiftStatsHandler(repo, compliance.NewValidator(), nil, nil, 0)

	dto, err := handler.Handle(context.Background(), GetMonthlyShiftStatsQuery{
		InternshipID: "int-1",
		Year:         2026,
		Month:        time.February,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, dto.ShiftCount)
	assert.Equal(t, "38.0", dto.TotalHours.StringFixed(1))
	assert.Equal(t, "23.5", dto.ApprovedHours.StringFixed(1))
	assert.Equal(t, "8.0", dto.PendingHours.StringFixed(1))
	assert.Equal(t, "6.5", dto.RejectedHours.StringFixed(1))
	assert.Equal(t, "9.50", dto.AverageHours.StringFixed(2))

	assert.Equal(t, 1, dto.WeekendShifts)
	assert.Equal(t, 1, dto.NightShifts)

	// Approved hours are far below the 160 hour monthly norm.
	require.NotEmpty(t, dto.Warnings)
	found := false
	for _, w := range dto.Warnings {
		if w.Code == compliance.ReasonMonthlyHoursDeficit {
			found = true
		}
	}
	assert.True(t, found, "monthly deficit warning expected")
}

func TestMonthlyShiftStats_WeeklyCapFlag(t *testing.T) {
	// One ISO week with 50 hours across two shifts.
	repo := &stubShiftRepo{shifts: []*training.MedicalShift{
		shift("s-1", timeutil.DateTime(2026, 2, 3, 8, 0, 0), 26, 0, shared.SyncStatusApproved),
		shift("s-2", timeutil.DateTime(2026, 2, 5, 8, 0, 0), 24, 0, shared.SyncStatusApproved),
	}}

	handler := NewGetMonthlyShiftStatsHandler(repo, compliance.NewValidator(), nil, nil, 0)

	dto, err := handler.Handle(context.Background(), GetMonthlyShiftStatsQuery{
		InternshipID: "int-1",
		Year:         2026,
		Month:        time.February,
	})
	require.NoError(t, err)

	week := dto.Weeks[timeutil.ISOWeekKey(timeutil.Date(2026, 2, 3))]
	assert.True(t, week.OverWeeklyCap)
	assert.Equal(t, 2, week.ShiftCount)
	assert.Equal(t, "50.0", week.Hours.StringFixed(1))
}

func TestMonthlyShiftStats_CacheHitSkipsRepository(t *testing.T) {
	repo := &stubShiftRepo{shifts: []*training.MedicalShift{
		shift("s-1", timeutil.DateTime(2026, 2, 3, 8, 0, 0), 12, 0, shared.SyncStatusApproved),
	}}
	cache := newMemCache()

	cacheKey := func(internshipID string, year int, month time.Month) string {
		return "test:" + internshipID
	}
	handler := NewGetMonthlyShiftStatsHandler(repo, compliance.NewValidator(), cache, cacheKey, time.Hour)

	query := GetMonthlyShiftStatsQuery{InternshipID: "int-1", Year: 2026, Month: time.February}

	first, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	second, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second call must be served from cache")
	assert.Equal(t, first.ShiftCount, second.ShiftCount)
	assert.True(t, first.TotalHours.Equal(second.TotalHours))
}

func TestMonthlyShiftStats_ValidatesInput(t *testing.T) {
	handler := NewGetMonthlyShiftStatsHandler(&stubShiftRepo{}, compliance.NewValidator(), nil, nil, 0)

	_, err := handler.Handle(context.Background(), GetMonthlyShiftStatsQuery{
		Year:  2026,
		Month: time.February,
	})
	require.Error(t, err)

	_, err = handler.Handle(context.Background(), GetMonthlyShiftStatsQuery{
		InternshipID: "int-1",
		Year:         2026,
		Month:        13,
	})
	require.Error(t, err)
}
