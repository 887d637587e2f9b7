// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMPUTE PROGRESS COMMAND
// Rebuilds the completed-side counters of a module or a specialization from
// the leaf records, and refreshes absence-adjusted end dates. Idempotent:
// recomputing twice in a row changes nothing, and a missing entity is a
// silent no-op so queued recomputes for deleted entities do not fail.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRecomputer triggers a recompute after a record write. Record
// handlers call it best-effort: a failed recompute never fails the write,
// because counters can always be rebuilt later.
type ProgressRecomputer interface {
	// RecomputeModule rebuilds the counters of a single module.
	RecomputeModule(ctx context.Context, moduleID string) error

	// RecomputeSpecialization rolls module counters up into the
	// specialization and refreshes absence-adjusted end dates.
	RecomputeSpecialization(ctx context.Context, specializationID string) error
}

// CacheInvalidator drops derived cache entries of a specialization after
// its records change.
type CacheInvalidator interface {
	// InvalidateModule drops cached module progress.
	InvalidateModule(ctx context.Context, moduleID string) error

	// InvalidateInternship drops cached shift statistics of an internship.
	InvalidateInternship(ctx context.Context, internshipID string) error

	// InvalidateSpecialization drops year progress and important dates
	// of a specialization.
	InvalidateSpecialization(ctx context.Context, specializationID string) error
}

// RecomputeProgressHandler implements ProgressRecomputer over the
// repositories.
type RecomputeProgressHandler struct {
	specRepo    specialization.Repository
	moduleRepo  specialization.ModuleRepository
	internRepo  training.InternshipRepository
	procRepo    training.ProcedureRepository
	shiftRepo   training.ShiftRepository
	courseRepo  training.CourseRepository
	selfEduRepo training.SelfEducationRepository
	absenceRepo training.AbsenceRepository
}

// NewRecomputeProgressHandler creates a new RecomputeProgressHandler.
func NewRecomputeProgressHandler(
	specRepo specialization.Repository,
	moduleRepo specialization.ModuleRepository,
	internRepo training.InternshipRepository,
	procRepo training.ProcedureRepository,
	shiftRepo training.ShiftRepository,
	courseRepo training.CourseRepository,
	selfEduRepo training.SelfEducationRepository,
	absenceRepo training.AbsenceRepository,
) *RecomputeProgressHandler {
	return &RecomputeProgressHandler{
		specRepo:    specRepo,
		moduleRepo:  moduleRepo,
		internRepo:  internRepo,
		procRepo:    procRepo,
		shiftRepo:   shiftRepo,
		courseRepo:  courseRepo,
		selfEduRepo: selfEduRepo,
		absenceRepo: absenceRepo,
	}
}

// RecomputeModule rebuilds the completed-side counters of a module.
// Required-side counters were seeded from the template at enrollment and
// are left untouched.
func (h *RecomputeProgressHandler) RecomputeModule(ctx context.Context, moduleID string) error {
	m, err := h.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("recompute_progress: failed to load module: %w", err)
	}

	internships, err := h.internRepo.GetByModule(ctx, moduleID)
	if err != nil {
		return fmt.Errorf("recompute_progress: failed to load internships: %w", err)
	}

	completedInternships := 0
	var shiftTotal training.ShiftDuration
	for _, in := range internships {
		if in.IsCompleted {
			completedInternships++
		}

		shifts, err := h.shiftRepo.GetByInternship(ctx, in.ID)
		if err != nil {
			return fmt.Errorf("recompute_progress: failed to load shifts: %w", err)
		}
		for _, s := range shifts {
			// Only approved hours count toward the requirement.
			if s.IsApproved() {
				shiftTotal = shiftTotal.Add(s.Duration)
			}
		}
	}

	courses, err := h.courseRepo.GetByModule(ctx, moduleID)
	if err != nil {
		return fmt.Errorf("recompute_progress: failed to load courses: %w", err)
	}
	completedCourses := 0
	for _, c := range courses {
		if c.IsCompleted && c.CountsTowardRequired {
			completedCourses++
		}
	}

	procedures, err := h.procRepo.GetByModule(ctx, moduleID)
	if err != nil {
		return fmt.Errorf("recompute_progress: failed to load procedures: %w", err)
	}
	completedA, completedB := 0, 0
	for _, p := range procedures {
		if !p.Status.CountsAsCompleted() {
			continue
		}
		switch p.Role {
		case shared.RoleOperator:
			completedA++
		case shared.RoleAssistant:
			completedB++
		}
	}

	m.Counters.CompletedInternships = completedInternships
	m.Counters.CompletedCourses = completedCourses
	m.Counters.CompletedProceduresA = completedA
	m.Counters.CompletedProceduresB = completedB
	m.Counters.CompletedShiftHours = shiftTotal.HoursFloat()
	m.UpdatedAt = time.Now().UTC()

	if err := h.moduleRepo.Update(ctx, m); err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("recompute_progress: failed to update module: %w", err)
	}

	return nil
}

// RecomputeSpecialization rolls module counters up into the specialization,
// adds specialization-level records, and refreshes absence-adjusted end
// dates of the programme and its modules.
func (h *RecomputeProgressHandler) RecomputeSpecialization(ctx context.Context, specializationID string) error {
	spec, err := h.specRepo.GetByID(ctx, specializationID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("recompute_progress: failed to load specialization: %w", err)
	}

	modules, err := h.moduleRepo.GetBySpecialization(ctx, specializationID)
	if err != nil {
		return fmt.Errorf("recompute_progress: failed to load modules: %w", err)
	}

	absences, err := h.absenceRepo.GetBySpecialization(ctx, specializationID)
	if err != nil {
		return fmt.Errorf("recompute_progress: failed to load absences: %w", err)
	}
	windows := absenceWindows(absences)

	// Refresh module end dates: absences clip to each module's nominal
	// window before shifting its end.
	for _, m := range modules {
		endDate := specialization.ComputeModuleEndDate(m.StartDate, m.NominalDurationDays, windows)
		if !endDate.Equal(m.EndDate) {
			m.EndDate = endDate
			m.UpdatedAt = time.Now().UTC()
			if err := h.moduleRepo.Update(ctx, m); err != nil && !shared.IsNotFound(err) {
				return fmt.Errorf("recompute_progress: failed to update module end date: %w", err)
			}
		}
	}

	total := specialization.RollupCounters(modules)

	selfEdu, err := h.selfEduRepo.GetBySpecialization(ctx, specializationID)
	if err != nil {
		return fmt.Errorf("recompute_progress: failed to load self-education records: %w", err)
	}
	for _, s := range selfEdu {
		if s.CountsTowardRequired {
			total.CompletedSelfEducationDays += s.DurationDays
		}
	}

	spec.Counters = total
	spec.PlannedEndDate = specialization.ComputeEndDate(spec.StartDate, spec.NominalDurationDays, windows)
	spec.UpdatedAt = time.Now().UTC()

	if err := h.specRepo.Update(ctx, spec); err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("recompute_progress: failed to update specialization: %w", err)
	}

	return nil
}

// absenceWindows converts absence records into calendar windows.
func absenceWindows(absences []*training.Absence) []specialization.AbsenceWindow {
	windows := make([]specialization.AbsenceWindow, 0, len(absences))
	for _, a := range absences {
		windows = append(windows, specialization.AbsenceWindow{
			Kind:  a.Kind,
			Start: a.StartDate,
			End:   a.EndDate,
		})
	}
	return windows
}
