package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
)

func testModule() *specialization.Module {
	return &specialization.Module{
		ID:                  "mod-1",
		SpecializationID:    "spec-1",
		Name:                "Moduł specjalistyczny",
		Type:                specialization.ModuleTypeSpecialistic,
		SmkVersion:          shared.SmkVersionNew,
		StartDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		NominalDurationDays: 365,
		EndDate:             time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Counters: specialization.Counters{
			RequiredInternships: 2,
			RequiredCourses:     2,
			RequiredProceduresA: 10,
			RequiredProceduresB: 5,
			RequiredShiftHours:  520,
		},
	}
}

func TestModuleProgress_PercentCappedAt100(t *testing.T) {
	m := testModule()
	// Every counter over-fulfilled.
	m.Counters.CompletedInternships = 5
	m.Counters.CompletedCourses = 4
	m.Counters.CompletedProceduresA = 30
	m.Counters.CompletedProceduresB = 9
	m.Counters.CompletedShiftHours = 800

	repo := &stubModuleRepo{modules: []*specialization.Module{m}}
	handler := NewGetModuleProgressHandler(repo, nil, nil, 0)

	dto, err := handler.Handle(context.Background(), GetModuleProgressQuery{
		ModuleID: "mod-1",
		Now:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, dto.ProgressPercent)
	assert.Equal(t, 1.0, dto.InternshipRatio)
	assert.Equal(t, 1.0, dto.ShiftHoursRatio)
	assert.Equal(t, ModuleStatusCompleted, dto.Status)
}

func TestModuleProgress_StatusDerivation(t *testing.T) {
	tests := []struct {
		name       string
		progress   float64
		hoursRatio float64
		elapsed    float64
		want       ModuleStatus
	}{
		{"before start", 0.1, 0, 0, ModuleStatusNotStarted},
		{"on track", 0.5, 0.5, 0.5, ModuleStatusInProgress},
		// Близость к концу определяется календарём, не взвешенным прогрессом.
		{"near completion by elapsed time", 0.5, 0.7, 0.85, ModuleStatusNearCompletion},
		{"high progress but mid-window", 0.9, 0.6, 0.5, ModuleStatusInProgress},
		// Отставание по часам: меньше 80% от пропорциональной нормы.
		{"delayed by shift hours", 0.7, 0.3, 0.6, ModuleStatusDelayed},
		{"delayed outranks near completion", 0.7, 0.4, 0.9, ModuleStatusDelayed},
		{"hours barely keeping pace", 0.5, 0.49, 0.6, ModuleStatusInProgress},
		{"completed", 1.0, 1.0, 0.2, ModuleStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, moduleStatus(tt.progress, tt.hoursRatio, tt.elapsed))
		})
	}
}

func TestModuleProgress_WeightedFormula(t *testing.T) {
	m := testModule()
	// Half of everything except procedures.
	m.Counters.CompletedInternships = 1
	m.Counters.CompletedCourses = 1
	m.Counters.CompletedProceduresA = 0
	m.Counters.CompletedProceduresB = 0

	repo := &stubModuleRepo{modules: []*specialization.Module{m}}
	handler := NewGetModuleProgressHandler(repo, nil, nil, 0)

	dto, err := handler.Handle(context.Background(), GetModuleProgressQuery{
		ModuleID: "mod-1",
		Now:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// 0.35*0.5 + 0.25*0.5 + 0.30*0 + 0.10 = 0.40
	assert.InDelta(t, 40.0, dto.ProgressPercent, 0.001)
}

func TestModuleProgress_UnknownModule(t *testing.T) {
	handler := NewGetModuleProgressHandler(&stubModuleRepo{}, nil, nil, 0)

	_, err := handler.Handle(context.Background(), GetModuleProgressQuery{ModuleID: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestModuleProgress_CacheHit(t *testing.T) {
	repo := &stubModuleRepo{modules: []*specialization.Module{testModule()}}
	cache := newMemCache()
	cacheKey := func(moduleID string) string { return "progress:module:" + moduleID }

	handler := NewGetModuleProgressHandler(repo, cache, cacheKey, time.Hour)
	query := GetModuleProgressQuery{ModuleID: "mod-1", Now: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}

	_, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	_, err = handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}
