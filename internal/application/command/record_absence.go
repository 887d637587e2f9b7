package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ABSENCE COMMAND
// Records an absence interval of a resident. Sick leave and parental leaves
// extend the programme, recognition of prior training shortens it, the
// remaining kinds leave the timeline untouched. Every write triggers a
// recompute of the specialization's planned end date and module end dates.
// ══════════════════════════════════════════════════════════════════════════════

// RecordAbsenceCommand contains the data needed to record an absence.
type RecordAbsenceCommand struct {
	// SpecializationID is the programme the absence belongs to.
	SpecializationID string

	// Kind classifies the absence (sick_leave, maternity_leave, ...).
	Kind string

	// StartDate is the first day of the absence.
	StartDate time.Time

	// EndDate is the last day of the absence, inclusive.
	EndDate time.Time

	// Description is an optional comment.
	Description string
}

// Validate validates the command.
func (c RecordAbsenceCommand) Validate() error {
	if c.SpecializationID == "" {
		return errors.New("record_absence: specialization_id is required")
	}
	if !shared.AbsenceKind(c.Kind).IsValid() {
		return fmt.Errorf("record_absence: unknown absence kind %q", c.Kind)
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return errors.New("record_absence: start and end dates are required")
	}
	if c.EndDate.Before(c.StartDate) {
		return errors.New("record_absence: end date must not precede start date")
	}
	return nil
}

// RecordAbsenceResult contains the result of recording an absence.
type RecordAbsenceResult struct {
	// AbsenceID is the ID of the created record.
	AbsenceID string

	// AffectsTimeline is true when the absence kind shifts the
	// programme's planned end date.
	AffectsTimeline bool

	// DurationDays is the inclusive length of the interval in days.
	DurationDays int

	// RecordedAt is when the record was persisted.
	RecordedAt time.Time
}

// RecordAbsenceHandler handles the RecordAbsenceCommand.
type RecordAbsenceHandler struct {
	absenceRepo training.AbsenceRepository
	idGenerator IDGenerator
	recomputer  ProgressRecomputer
	caches      CacheInvalidator
}

// NewRecordAbsenceHandler creates a new RecordAbsenceHandler.
func NewRecordAbsenceHandler(
	absenceRepo training.AbsenceRepository,
	idGenerator IDGenerator,
	recomputer ProgressRecomputer,
	caches CacheInvalidator,
) *RecordAbsenceHandler {
	return &RecordAbsenceHandler{
		absenceRepo: absenceRepo,
		idGenerator: idGenerator,
		recomputer:  recomputer,
		caches:      caches,
	}
}

// Handle executes the record absence command.
func (h *RecordAbsenceHandler) Handle(ctx context.Context, cmd RecordAbsenceCommand) (*RecordAbsenceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_absence: validation failed: %w", err)
	}

	now := timeutil.Now().UTC()
	absence := &training.Absence{
		ID:               h.idGenerator.GenerateID(),
		SpecializationID: cmd.SpecializationID,
		Kind:             shared.AbsenceKind(cmd.Kind),
		StartDate:        cmd.StartDate,
		EndDate:          cmd.EndDate,
		Description:      cmd.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.absenceRepo.Create(ctx, absence); err != nil {
		return nil, fmt.Errorf("record_absence: failed to save absence: %w", err)
	}

	// End dates must follow the absence immediately, so this recompute is
	// not best-effort: a failure is reported to the caller even though the
	// record itself is already saved.
	if err := h.recomputer.RecomputeSpecialization(ctx, cmd.SpecializationID); err != nil {
		return nil, fmt.Errorf("record_absence: failed to recompute timeline: %w", err)
	}
	_ = h.caches.InvalidateSpecialization(ctx, cmd.SpecializationID)

	return &RecordAbsenceResult{
		AbsenceID:       absence.ID,
		AffectsTimeline: absence.AffectsTimeline(),
		DurationDays:    timeutil.DaysBetween(absence.StartDate, absence.EndDate),
		RecordedAt:      now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE ABSENCE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteAbsenceCommand removes an absence record.
type DeleteAbsenceCommand struct {
	// AbsenceID is the record to delete.
	AbsenceID string
}

// Validate validates the command.
func (c DeleteAbsenceCommand) Validate() error {
	if c.AbsenceID == "" {
		return errors.New("delete_absence: absence_id is required")
	}
	return nil
}

// DeleteAbsenceHandler handles the DeleteAbsenceCommand.
type DeleteAbsenceHandler struct {
	absenceRepo training.AbsenceRepository
	recomputer  ProgressRecomputer
	caches      CacheInvalidator
}

// NewDeleteAbsenceHandler creates a new DeleteAbsenceHandler.
func NewDeleteAbsenceHandler(
	absenceRepo training.AbsenceRepository,
	recomputer ProgressRecomputer,
	caches CacheInvalidator,
) *DeleteAbsenceHandler {
	return &DeleteAbsenceHandler{
		absenceRepo: absenceRepo,
		recomputer:  recomputer,
		caches:      caches,
	}
}

// Handle executes the delete absence command and restores the timeline
// without the removed interval.
func (h *DeleteAbsenceHandler) Handle(ctx context.Context, cmd DeleteAbsenceCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_absence: validation failed: %w", err)
	}

	absence, err := h.absenceRepo.GetByID(ctx, cmd.AbsenceID)
	if err != nil {
		return fmt.Errorf("delete_absence: failed to load absence: %w", err)
	}

	if err := h.absenceRepo.Delete(ctx, cmd.AbsenceID); err != nil {
		return fmt.Errorf("delete_absence: failed to delete absence: %w", err)
	}

	if err := h.recomputer.RecomputeSpecialization(ctx, absence.SpecializationID); err != nil {
		return fmt.Errorf("delete_absence: failed to recompute timeline: %w", err)
	}
	_ = h.caches.InvalidateSpecialization(ctx, absence.SpecializationID)

	return nil
}
