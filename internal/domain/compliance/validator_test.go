package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

func testSpecialization(t *testing.T, version shared.SmkVersion) *specialization.Specialization {
	t.Helper()
	spec, err := specialization.NewSpecialization(specialization.NewSpecializationParams{
		ID:                  "3f1d7a52-9f1e-4f55-8d7a-111111111111",
		ResidentID:          "3f1d7a52-9f1e-4f55-8d7a-222222222222",
		Name:                "Kardiologia",
		ProgramCode:         "703",
		SmkVersion:          version,
		StartDate:           timeutil.Date(2022, 1, 1),
		NominalDurationDays: 1826,
	})
	require.NoError(t, err)
	return spec
}

func testInternship() *training.Internship {
	return &training.Internship{
		ID:        "int-1",
		StartDate: timeutil.Date(2022, 1, 1),
		EndDate:   timeutil.Date(2022, 12, 31),
	}
}

func testProcedure(version shared.SmkVersion) *training.Procedure {
	return &training.Procedure{
		ID:           "proc-1",
		InternshipID: "int-1",
		Date:         timeutil.Date(2022, 6, 15),
		Code:         "A12",
		Role:         shared.RoleOperator,
		Status:       training.ProcedureStatusCompleted,
		SmkVersion:   version,
	}
}

func TestValidateProcedure_OldVersionRequiresPerformingPerson(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionOld)
	now := timeutil.Date(2022, 7, 1)

	p := testProcedure(shared.SmkVersionOld)
	p.PerformingPerson = ""

	result := v.ValidateProcedure(p, spec, testInternship(), now)
	require.False(t, result.Valid())
	assert.Equal(t, ReasonMissingPerformingPerson, result.FirstError().Code)

	p.PerformingPerson = "Dr. X"
	result = v.ValidateProcedure(p, spec, testInternship(), now)
	assert.True(t, result.Valid())
}

func TestValidateProcedure_NewVersionRequiresSupervisor(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionNew)
	now := timeutil.Date(2022, 7, 1)

	p := testProcedure(shared.SmkVersionNew)

	result := v.ValidateProcedure(p, spec, testInternship(), now)
	require.False(t, result.Valid())
	assert.Equal(t, ReasonMissingSupervisor, result.FirstError().Code)

	p.Supervisor = "Prof. Kowalska"
	result = v.ValidateProcedure(p, spec, testInternship(), now)
	assert.True(t, result.Valid())
}

func TestValidateProcedure_PendingStatusDoesNotRequireFields(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionOld)

	p := testProcedure(shared.SmkVersionOld)
	p.Status = training.ProcedureStatusPending

	result := v.ValidateProcedure(p, spec, testInternship(), timeutil.Date(2022, 7, 1))
	assert.True(t, result.Valid())
}

func TestValidateProcedure_TrainingYearRange(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionOld)
	p := testProcedure(shared.SmkVersionOld)
	p.PerformingPerson = "Dr. X"

	// В середине второго года доступны годы 1..2
	now := timeutil.Date(2023, 6, 1)

	p.TrainingYear = 2
	assert.True(t, v.ValidateProcedure(p, spec, testInternship(), now).Valid())

	p.TrainingYear = 4
	result := v.ValidateProcedure(p, spec, testInternship(), now)
	require.False(t, result.Valid())
	assert.Equal(t, ReasonYearOutOfRange, result.FirstError().Code)

	// Ноль означает "не назначен" и проходит всегда
	p.TrainingYear = shared.TrainingYearUnassigned
	assert.True(t, v.ValidateProcedure(p, spec, testInternship(), now).Valid())
}

func TestValidateProcedure_NewVersionNonZeroYearIsWarning(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionNew)

	p := testProcedure(shared.SmkVersionNew)
	p.Supervisor = "Prof. Kowalska"
	p.TrainingYear = 2

	result := v.ValidateProcedure(p, spec, testInternship(), timeutil.Date(2022, 7, 1))
	assert.True(t, result.Valid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, ReasonYearNotAllowed, result.Warnings[0].Code)
}

func TestValidateProcedure_DateOutsideInternship(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionOld)

	p := testProcedure(shared.SmkVersionOld)
	p.PerformingPerson = "Dr. X"
	p.Date = timeutil.Date(2023, 2, 1) // стаж закончился 2022-12-31

	result := v.ValidateProcedure(p, spec, testInternship(), timeutil.Date(2023, 3, 1))
	require.False(t, result.Valid())
	assert.Equal(t, ReasonDateOutsideInternship, result.FirstError().Code)
}

func TestValidateProcedure_MissingInternship(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionOld)

	p := testProcedure(shared.SmkVersionOld)
	p.PerformingPerson = "Dr. X"

	result := v.ValidateProcedure(p, spec, nil, timeutil.Date(2022, 7, 1))
	require.False(t, result.Valid())
	assert.Equal(t, ReasonInternshipMissing, result.FirstError().Code)
}

func TestValidateProcedure_InvalidRole(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionOld)

	p := testProcedure(shared.SmkVersionOld)
	p.PerformingPerson = "Dr. X"
	p.Role = "C"

	result := v.ValidateProcedure(p, spec, testInternship(), timeutil.Date(2022, 7, 1))
	require.False(t, result.Valid())
	assert.Equal(t, ReasonInvalidRole, result.FirstError().Code)
}

func TestValidateShift(t *testing.T) {
	v := NewValidator()

	shift := &training.MedicalShift{
		ID:           "shift-1",
		InternshipID: "int-1",
		Date:         timeutil.DateTime(2022, 6, 15, 22, 0, 0),
		Duration:     training.ShiftDuration{Hours: 10, Minutes: 5},
	}

	assert.True(t, v.ValidateShift(shift, testInternship()).Valid())

	shift.Duration = training.ShiftDuration{}
	result := v.ValidateShift(shift, testInternship())
	require.False(t, result.Valid())
	assert.Equal(t, ReasonInvalidDuration, result.FirstError().Code)
}

func TestEnsureMutable(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.EnsureMutable(shared.SyncStatusNotSynced))
	assert.NoError(t, v.EnsureMutable(shared.SyncStatusRejected))
	assert.ErrorIs(t, v.EnsureMutable(shared.SyncStatusSubmitted), shared.ErrLocked)
	assert.ErrorIs(t, v.EnsureMutable(shared.SyncStatusApproved), shared.ErrLocked)
}

func TestCheckSameDayCount_DuplicateThreshold(t *testing.T) {
	v := NewValidator()

	// Четыре существующих процедуры того же кода: предупреждение (пятая запись)
	issue := v.CheckSameDayCount("A12", 4)
	require.NotNil(t, issue)
	assert.Equal(t, ReasonLikelyDuplicate, issue.Code)

	// Три существующих (четвёртая запись) - ещё тихо
	assert.Nil(t, v.CheckSameDayCount("A12", 3))
}

func TestCheckSameDayCount_ConfiguredDailyLimit(t *testing.T) {
	v := NewValidatorWithLimits(map[string]int{"A12": 2})

	issue := v.CheckSameDayCount("A12", 2)
	require.NotNil(t, issue)
	assert.Equal(t, ReasonDailyLimitExceeded, issue.Code)

	assert.Nil(t, v.CheckSameDayCount("A12", 1))
	assert.Nil(t, v.CheckSameDayCount("B07", 2)) // лимита на код нет
}

func TestCheckWeeklyHours(t *testing.T) {
	v := NewValidator()

	require.Nil(t, v.CheckWeeklyHours("2022-W24", 48.0))

	issue := v.CheckWeeklyHours("2022-W24", 48.5)
	require.NotNil(t, issue)
	assert.Equal(t, ReasonWeeklyHoursExceeded, issue.Code)
}

func TestCheckMonthlyApprovedHours(t *testing.T) {
	v := NewValidator()

	require.Nil(t, v.CheckMonthlyApprovedHours(160))

	issue := v.CheckMonthlyApprovedHours(120)
	require.NotNil(t, issue)
	assert.Equal(t, ReasonMonthlyHoursDeficit, issue.Code)
}

func TestValidateProcedure_AccumulatesAllErrors(t *testing.T) {
	v := NewValidator()
	spec := testSpecialization(t, shared.SmkVersionOld)

	p := testProcedure(shared.SmkVersionOld)
	p.Role = "X"
	p.PerformingPerson = ""
	p.Date = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	result := v.ValidateProcedure(p, spec, testInternship(), timeutil.Date(2022, 7, 1))
	require.False(t, result.Valid())
	// Все нарушения возвращаются сразу, а не по одному
	assert.GreaterOrEqual(t, len(result.Errors), 3)
}
