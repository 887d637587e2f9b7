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

func testSpecialization() *specialization.Specialization {
	return &specialization.Specialization{
		ID:                  "spec-1",
		ResidentID:          "res-1",
		Name:                "Kardiologia",
		ProgramCode:         "0730",
		SmkVersion:          shared.SmkVersionNew,
		StartDate:           time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		NominalDurationDays: 365 * 5,
		PlannedEndDate:      time.Date(2029, 9, 29, 0, 0, 0, 0, time.UTC),
	}
}

func TestYearProgress_MeanOverModules(t *testing.T) {
	spec := testSpecialization()

	full := testModule()
	full.ID = "mod-full"
	full.Counters.CompletedInternships = 2
	full.Counters.CompletedCourses = 2
	full.Counters.CompletedProceduresA = 10
	full.Counters.CompletedProceduresB = 5
	full.Counters.CompletedShiftHours = 520

	empty := testModule()
	empty.ID = "mod-empty"

	handler := NewGetYearProgressHandler(
		&stubSpecRepo{spec: spec},
		&stubModuleRepo{modules: []*specialization.Module{full, empty}},
		nil, nil, 0,
	)

	dto, err := handler.Handle(context.Background(), GetYearProgressQuery{
		SpecializationID: "spec-1",
		Year:             1,
		Now:              time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// (100 + 10) / 2: the empty module still carries the constant
	// other-activity weight.
	assert.InDelta(t, 55.0, dto.MeanModulePercent, 0.001)
	assert.Len(t, dto.Modules, 2)
}

func TestYearProgress_RejectsFutureYear(t *testing.T) {
	spec := testSpecialization()

	handler := NewGetYearProgressHandler(
		&stubSpecRepo{spec: spec}, &stubModuleRepo{}, nil, nil, 0,
	)

	// 18 months in, only years 1-2 are available.
	_, err := handler.Handle(context.Background(), GetYearProgressQuery{
		SpecializationID: "spec-1",
		Year:             4,
		Now:              time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not yet available")
}

func TestYearProgress_ZeroYearMeansCurrent(t *testing.T) {
	spec := testSpecialization()

	handler := NewGetYearProgressHandler(
		&stubSpecRepo{spec: spec}, &stubModuleRepo{}, nil, nil, 0,
	)

	dto, err := handler.Handle(context.Background(), GetYearProgressQuery{
		SpecializationID: "spec-1",
		Now:              time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, dto.Year)
	assert.Equal(t, 2, dto.AvailableYears)
}

func TestDeficientAreas_FlagsLaggingCounters(t *testing.T) {
	counters := specialization.Counters{
		RequiredInternships:  4,
		CompletedInternships: 2, // ratio 0.5, on pace
		RequiredCourses:      4,
		CompletedCourses:     0, // ratio 0, lagging
		RequiredProceduresA:  10,
		CompletedProceduresA: 1, // ratio 0.1, lagging
		RequiredShiftHours:   500,
		CompletedShiftHours:  300, // ratio 0.6, on pace
	}

	areas := deficientAreas(counters, 0.5)

	require.Len(t, areas, 2)
	assert.Equal(t, AreaCourses, areas[0].Area)
	assert.Equal(t, AreaProceduresA, areas[1].Area)
	assert.Equal(t, "1 of 10 completed", areas[1].Detail)
}

func TestDeficientAreas_IgnoresUnrequired(t *testing.T) {
	// Nothing required means nothing can lag, whatever elapsed says.
	areas := deficientAreas(specialization.Counters{}, 0.9)
	assert.Empty(t, areas)
}
