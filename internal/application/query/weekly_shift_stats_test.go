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

func TestWeeklyShiftStats_DailyBreakdown(t *testing.T) {
	// Week of Monday 2026-02-02: two shifts on Monday, one on Thursday.
	repo := &stubShiftRepo{shifts: []*training.MedicalShift{
		shift("s-1", timeutil.DateTime(2026, 2, 2, 8, 0, 0), 10, 0, shared.SyncStatusApproved),
		shift("s-2", timeutil.DateTime(2026, 2, 2, 20, 0, 0), 2, 30, shared.SyncStatusNotSynced),
		shift("s-3", timeutil.DateTime(2026, 2, 5, 8, 0, 0), 12, 0, shared.SyncStatusApproved),
	}}

	handler := NewGetWeeklyShiftStatsHandler(repo, compliance.NewValidator(), nil, nil, 0)

	dto, err := handler.Handle(context.Background(), GetWeeklyShiftStatsQuery{
		InternshipID: "int-1",
		Date:         timeutil.DateTime(2026, 2, 4, 12, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-W06", dto.Week)
	assert.Equal(t, 3, dto.ShiftCount)
	assert.Equal(t, "24.5", dto.TotalHours.StringFixed(1))

	// Only days with shifts appear, in chronological order.
	require.Len(t, dto.Days, 2)
	assert.Equal(t, time.Monday, dto.Days[0].Date.Weekday())
	assert.Equal(t, "12.5", dto.Days[0].Hours.StringFixed(1))
	assert.Equal(t, 2, dto.Days[0].ShiftCount)
	assert.Equal(t, time.Thursday, dto.Days[1].Date.Weekday())
	assert.Equal(t, "12.0", dto.Days[1].Hours.StringFixed(1))

	// 24.5 hours is within the 48 hour weekly norm.
	assert.Empty(t, dto.Warnings)
}

func TestWeeklyShiftStats_WarnsAboveWeeklyCap(t *testing.T) {
	repo := &stubShiftRepo{shifts: []*training.MedicalShift{
		shift("s-1", timeutil.DateTime(2026, 2, 2, 8, 0, 0), 26, 0, shared.SyncStatusApproved),
		shift("s-2", timeutil.DateTime(2026, 2, 4, 8, 0, 0), 24, 0, shared.SyncStatusApproved),
	}}

	handler := NewGetWeeklyShiftStatsHandler(repo, compliance.NewValidator(), nil, nil, 0)

	dto, err := handler.Handle(context.Background(), GetWeeklyShiftStatsQuery{
		InternshipID: "int-1",
		Date:         timeutil.DateTime(2026, 2, 2, 0, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, "50.0", dto.TotalHours.StringFixed(1))
	require.Len(t, dto.Warnings, 1)
	assert.Equal(t, compliance.ReasonWeeklyHoursExceeded, dto.Warnings[0].Code)
}

func TestWeeklyShiftStats_CacheHitSkipsRepository(t *testing.T) {
	repo := &stubShiftRepo{shifts: []*training.MedicalShift{
		shift("s-1", timeutil.DateTime(2026, 2, 2, 8, 0, 0), 12, 0, shared.SyncStatusApproved),
	}}
	cache := newMemCache()
	cacheKey := func(internshipID, isoWeek string) string { return "stats:weekly:" + internshipID + ":" + isoWeek }

	handler := NewGetWeeklyShiftStatsHandler(repo, compliance.NewValidator(), cache, cacheKey, time.Hour)

	query := GetWeeklyShiftStatsQuery{
		InternshipID: "int-1",
		Date:         timeutil.DateTime(2026, 2, 2, 0, 0, 0),
	}

	first, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	second, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second call must be served from cache")
	assert.Equal(t, first.TotalHours.StringFixed(1), second.TotalHours.StringFixed(1))
}

func TestWeeklyShiftStats_ValidatesInput(t *testing.T) {
	handler := NewGetWeeklyShiftStatsHandler(&stubShiftRepo{}, compliance.NewValidator(), nil, nil, 0)

	_, err := handler.Handle(context.Background(), GetWeeklyShiftStatsQuery{})
	require.Error(t, err)
}
