package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/compliance"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD MEDICAL SHIFT COMMAND
// Records an on-call duty shift. Duration is stored exactly as entered:
// minutes may exceed 59 and are normalized only when displayed or
// aggregated. After the write the ISO week of the shift is re-checked
// against the weekly hour cap and a warning is attached when exceeded.
// ══════════════════════════════════════════════════════════════════════════════

// RecordShiftCommand contains the data needed to record a medical shift.
type RecordShiftCommand struct {
	// InternshipID is the parent internship.
	InternshipID string

	// Date is the date and start time of the shift.
	Date time.Time

	// DurationHours is the whole-hour part of the duration.
	DurationHours int

	// DurationMinutes is the minute part. Values above 59 are legal
	// and kept as entered.
	DurationMinutes int

	// Location is where the shift took place.
	Location string
}

// Validate validates the command.
func (c RecordShiftCommand) Validate() error {
	if c.InternshipID == "" {
		return errors.New("record_shift: internship_id is required")
	}
	if c.Date.IsZero() {
		return errors.New("record_shift: date is required")
	}
	if c.DurationHours < 0 || c.DurationMinutes < 0 {
		return errors.New("record_shift: duration parts must not be negative")
	}
	return nil
}

// RecordShiftResult contains the result of recording a shift.
type RecordShiftResult struct {
	// ShiftID is the ID of the created record (empty on rejection).
	ShiftID string

	// Errors contains the blocking violations when the record was rejected.
	Errors []compliance.Issue

	// Warnings contains advisory findings, such as an exceeded weekly cap.
	Warnings []compliance.Issue

	// WeekHours is the total shift hours of the record's ISO week
	// including the new record.
	WeekHours float64

	// RecordedAt is when the record was persisted.
	RecordedAt time.Time
}

// RecordShiftHandler handles the RecordShiftCommand.
type RecordShiftHandler struct {
	shiftRepo      training.ShiftRepository
	internshipRepo training.InternshipRepository
	validator      *compliance.Validator
	idGenerator    IDGenerator
	recomputer     ProgressRecomputer
	caches         CacheInvalidator
}

// NewRecordShiftHandler creates a new RecordShiftHandler.
func NewRecordShiftHandler(
	shiftRepo training.ShiftRepository,
	internshipRepo training.InternshipRepository,
	validator *compliance.Validator,
	idGenerator IDGenerator,
	recomputer ProgressRecomputer,
	caches CacheInvalidator,
) *RecordShiftHandler {
	return &RecordShiftHandler{
		shiftRepo:      shiftRepo,
		internshipRepo: internshipRepo,
		validator:      validator,
		idGenerator:    idGenerator,
		recomputer:     recomputer,
		caches:         caches,
	}
}

// Handle executes the record shift command.
func (h *RecordShiftHandler) Handle(ctx context.Context, cmd RecordShiftCommand) (*RecordShiftResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_shift: validation failed: %w", err)
	}

	internship, err := h.internshipRepo.GetByID(ctx, cmd.InternshipID)
	if err != nil {
		return nil, fmt.Errorf("record_shift: failed to load internship: %w", err)
	}

	now := timeutil.Now().UTC()
	shift := &training.MedicalShift{
		ID:           h.idGenerator.GenerateID(),
		InternshipID: internship.ID,
		Date:         cmd.Date,
		Duration: training.ShiftDuration{
			Hours:   cmd.DurationHours,
			Minutes: cmd.DurationMinutes,
		},
		Location:   cmd.Location,
		SyncStatus: shared.SyncStatusNotSynced,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	verdict := h.validator.ValidateShift(shift, internship)
	if !verdict.Valid() {
		return &RecordShiftResult{Errors: verdict.Errors, Warnings: verdict.Warnings},
			ErrComplianceRejected
	}

	result := &RecordShiftResult{
		ShiftID:    shift.ID,
		Warnings:   verdict.Warnings,
		RecordedAt: now,
	}

	// Weekly cap check over the shift's ISO week, including this record.
	weekHours, err := h.weekHours(ctx, internship.ID, shift.Date)
	if err != nil {
		return nil, fmt.Errorf("record_shift: failed to load week shifts: %w", err)
	}
	result.WeekHours = weekHours + shift.Duration.HoursFloat()
	if issue := h.validator.CheckWeeklyHours(timeutil.ISOWeekKey(shift.Date), result.WeekHours); issue != nil {
		result.Warnings = append(result.Warnings, *issue)
	}

	if err := h.shiftRepo.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("record_shift: failed to save shift: %w", err)
	}

	_ = h.recomputer.RecomputeModule(ctx, internship.ModuleID)
	_ = h.recomputer.RecomputeSpecialization(ctx, internship.SpecializationID)
	_ = h.caches.InvalidateModule(ctx, internship.ModuleID)
	_ = h.caches.InvalidateInternship(ctx, internship.ID)
	_ = h.caches.InvalidateSpecialization(ctx, internship.SpecializationID)

	return result, nil
}

// weekHours sums already recorded shift hours of the ISO week of date.
func (h *RecordShiftHandler) weekHours(ctx context.Context, internshipID string, date time.Time) (float64, error) {
	from := timeutil.StartOfWeek(date)
	to := timeutil.EndOfWeek(date)

	shifts, err := h.shiftRepo.GetByInternshipAndRange(ctx, internshipID, from, to)
	if err != nil {
		return 0, err
	}

	var total training.ShiftDuration
	for _, s := range shifts {
		total = total.Add(s.Duration)
	}
	return total.HoursFloat(), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE MEDICAL SHIFT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteShiftCommand removes a medical shift record.
type DeleteShiftCommand struct {
	// ShiftID is the record to delete.
	ShiftID string
}

// Validate validates the command.
func (c DeleteShiftCommand) Validate() error {
	if c.ShiftID == "" {
		return errors.New("delete_shift: shift_id is required")
	}
	return nil
}

// DeleteShiftHandler handles the DeleteShiftCommand.
type DeleteShiftHandler struct {
	shiftRepo      training.ShiftRepository
	internshipRepo training.InternshipRepository
	validator      *compliance.Validator
	recomputer     ProgressRecomputer
	caches         CacheInvalidator
}

// NewDeleteShiftHandler creates a new DeleteShiftHandler.
func NewDeleteShiftHandler(
	shiftRepo training.ShiftRepository,
	internshipRepo training.InternshipRepository,
	validator *compliance.Validator,
	recomputer ProgressRecomputer,
	caches CacheInvalidator,
) *DeleteShiftHandler {
	return &DeleteShiftHandler{
		shiftRepo:      shiftRepo,
		internshipRepo: internshipRepo,
		validator:      validator,
		recomputer:     recomputer,
		caches:         caches,
	}
}

// Handle executes the delete shift command. A shift already synced with
// SMK is locked and cannot be removed locally.
func (h *DeleteShiftHandler) Handle(ctx context.Context, cmd DeleteShiftCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_shift: validation failed: %w", err)
	}

	shift, err := h.shiftRepo.GetByID(ctx, cmd.ShiftID)
	if err != nil {
		return fmt.Errorf("delete_shift: failed to load shift: %w", err)
	}

	if err := h.validator.EnsureMutable(shift.SyncStatus); err != nil {
		return fmt.Errorf("delete_shift: %w", err)
	}

	if err := h.shiftRepo.Delete(ctx, cmd.ShiftID); err != nil {
		return fmt.Errorf("delete_shift: failed to delete shift: %w", err)
	}

	_ = h.caches.InvalidateInternship(ctx, shift.InternshipID)

	if internship, err := h.internshipRepo.GetByID(ctx, shift.InternshipID); err == nil {
		_ = h.recomputer.RecomputeModule(ctx, internship.ModuleID)
		_ = h.recomputer.RecomputeSpecialization(ctx, internship.SpecializationID)
		_ = h.caches.InvalidateModule(ctx, internship.ModuleID)
		_ = h.caches.InvalidateSpecialization(ctx, internship.SpecializationID)
	}

	return nil
}
