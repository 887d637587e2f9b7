package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
)

func TestRecomputeModule_RebuildsCompletedCounters(t *testing.T) {
	env := newTestEnv()
	_, module, internship := env.seedSpecialization()

	internship.IsCompleted = true
	env.courseRepo.items["c-1"] = &training.Course{
		ID: "c-1", ModuleID: module.ID, IsCompleted: true, CountsTowardRequired: true,
	}
	env.courseRepo.items["c-2"] = &training.Course{
		ID: "c-2", ModuleID: module.ID, IsCompleted: true, CountsTowardRequired: false,
	}
	env.procRepo.items["p-1"] = &training.Procedure{
		ID: "p-1", InternshipID: internship.ID, ModuleID: module.ID,
		Role: shared.RoleOperator, Status: training.ProcedureStatusApproved,
	}
	env.procRepo.items["p-2"] = &training.Procedure{
		ID: "p-2", InternshipID: internship.ID, ModuleID: module.ID,
		Role: shared.RoleAssistant, Status: training.ProcedureStatusPending,
	}
	env.shiftRepo.items["s-1"] = &training.MedicalShift{
		ID: "s-1", InternshipID: internship.ID,
		Duration:   training.ShiftDuration{Hours: 10, Minutes: 90},
		SyncStatus: shared.SyncStatusApproved,
	}

	require.NoError(t, env.recomputer.RecomputeModule(context.Background(), module.ID))

	updated, err := env.moduleRepo.GetByID(context.Background(), module.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Counters.CompletedInternships)
	assert.Equal(t, 1, updated.Counters.CompletedCourses, "non-counting course is excluded")
	assert.Equal(t, 1, updated.Counters.CompletedProceduresA)
	assert.Equal(t, 0, updated.Counters.CompletedProceduresB, "pending procedure does not count")
	assert.InDelta(t, 11.5, updated.Counters.CompletedShiftHours, 0.001)

	// Required side stays as seeded from the template.
	assert.Equal(t, 2, updated.Counters.RequiredInternships)
	assert.Equal(t, 10, updated.Counters.RequiredProceduresA)
}

func TestRecomputeModule_Idempotent(t *testing.T) {
	env := newTestEnv()
	_, module, internship := env.seedSpecialization()

	env.procRepo.items["p-1"] = &training.Procedure{
		ID: "p-1", InternshipID: internship.ID, ModuleID: module.ID,
		Role: shared.RoleOperator, Status: training.ProcedureStatusCompleted,
	}

	require.NoError(t, env.recomputer.RecomputeModule(context.Background(), module.ID))
	first, err := env.moduleRepo.GetByID(context.Background(), module.ID)
	require.NoError(t, err)

	require.NoError(t, env.recomputer.RecomputeModule(context.Background(), module.ID))
	second, err := env.moduleRepo.GetByID(context.Background(), module.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Counters, second.Counters)
}

func TestRecomputeModule_MissingModuleIsNoOp(t *testing.T) {
	env := newTestEnv()
	assert.NoError(t, env.recomputer.RecomputeModule(context.Background(), "missing"))
}

func TestRecomputeSpecialization_MissingIsNoOp(t *testing.T) {
	env := newTestEnv()
	assert.NoError(t, env.recomputer.RecomputeSpecialization(context.Background(), "missing"))
}

func TestRecomputeSpecialization_RollsUpModulesAndSelfEducation(t *testing.T) {
	env := newTestEnv()
	spec, module, internship := env.seedSpecialization()

	env.procRepo.items["p-1"] = &training.Procedure{
		ID: "p-1", InternshipID: internship.ID, ModuleID: module.ID,
		Role: shared.RoleOperator, Status: training.ProcedureStatusCompleted,
	}
	env.selfEduRepo.items["se-1"] = &training.SelfEducation{
		ID: "se-1", SpecializationID: spec.ID, DurationDays: 6, CountsTowardRequired: true,
	}
	env.selfEduRepo.items["se-2"] = &training.SelfEducation{
		ID: "se-2", SpecializationID: spec.ID, DurationDays: 3, CountsTowardRequired: false,
	}

	require.NoError(t, env.recomputer.RecomputeModule(context.Background(), module.ID))
	require.NoError(t, env.recomputer.RecomputeSpecialization(context.Background(), spec.ID))

	updated, err := env.specRepo.GetByID(context.Background(), spec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Counters.CompletedProceduresA)
	assert.Equal(t, 10, updated.Counters.RequiredProceduresA)
	assert.Equal(t, 6, updated.Counters.CompletedSelfEducationDays)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), updated.PlannedEndDate)
}
