package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/compliance"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PROCEDURE COMMAND
// Records a performed medical procedure inside an internship. The record is
// validated against SMK revision rules before it is persisted; blocking
// violations reject the write, advisory findings are returned as warnings
// alongside the saved record.
// ══════════════════════════════════════════════════════════════════════════════

// ErrComplianceRejected is returned when a record fails blocking compliance
// rules. The result carries the individual issues.
var ErrComplianceRejected = errors.New("record rejected by compliance validation")

// IDGenerator generates unique identifiers for new records.
type IDGenerator interface {
	GenerateID() string
}

// RecordProcedureCommand contains the data needed to record a procedure.
type RecordProcedureCommand struct {
	// InternshipID is the parent internship.
	InternshipID string

	// Date is the calendar day the procedure was performed.
	Date time.Time

	// Code is the procedure code from the classification.
	Code string

	// Role is the execution role: "A" (operator) or "B" (assistant).
	Role string

	// Status is the procedure lifecycle status. Empty means pending.
	Status string

	// PerformingPerson is required for completed old-revision records.
	PerformingPerson string

	// Supervisor is required for completed new-revision records.
	Supervisor string

	// TrainingYear assigns the record to a training year (old revision
	// only; 0 leaves it unassigned).
	TrainingYear int

	// RequirementID links the record to a template requirement item
	// (new revision only).
	RequirementID string

	// Location is where the procedure was performed.
	Location string

	// PatientInitials identify the patient without exposing personal data.
	PatientInitials string
}

// Validate validates the command.
func (c RecordProcedureCommand) Validate() error {
	if c.InternshipID == "" {
		return errors.New("record_procedure: internship_id is required")
	}
	if strings.TrimSpace(c.Code) == "" {
		return errors.New("record_procedure: procedure code is required")
	}
	if c.Date.IsZero() {
		return errors.New("record_procedure: date is required")
	}
	return nil
}

// RecordProcedureResult contains the result of recording a procedure.
type RecordProcedureResult struct {
	// ProcedureID is the ID of the created record (empty on rejection).
	ProcedureID string

	// Errors contains the blocking violations when the record was rejected.
	Errors []compliance.Issue

	// Warnings contains advisory findings attached to a successful write,
	// such as a likely same-day duplicate.
	Warnings []compliance.Issue

	// RecordedAt is when the record was persisted.
	RecordedAt time.Time
}

// RecordProcedureHandler handles the RecordProcedureCommand.
type RecordProcedureHandler struct {
	procedureRepo  training.ProcedureRepository
	internshipRepo training.InternshipRepository
	specRepo       specialization.Repository
	validator      *compliance.Validator
	idGenerator    IDGenerator
	recomputer     ProgressRecomputer
	caches         CacheInvalidator
}

// NewRecordProcedureHandler creates a new RecordProcedureHandler.
func NewRecordProcedureHandler(
	procedureRepo training.ProcedureRepository,
	internshipRepo training.InternshipRepository,
	specRepo specialization.Repository,
	validator *compliance.Validator,
	idGenerator IDGenerator,
	recomputer ProgressRecomputer,
	caches CacheInvalidator,
) *RecordProcedureHandler {
	return &RecordProcedureHandler{
		procedureRepo:  procedureRepo,
		internshipRepo: internshipRepo,
		specRepo:       specRepo,
		validator:      validator,
		idGenerator:    idGenerator,
		recomputer:     recomputer,
		caches:         caches,
	}
}

// Handle executes the record procedure command.
func (h *RecordProcedureHandler) Handle(ctx context.Context, cmd RecordProcedureCommand) (*RecordProcedureResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_procedure: validation failed: %w", err)
	}

	internship, err := h.internshipRepo.GetByID(ctx, cmd.InternshipID)
	if err != nil {
		return nil, fmt.Errorf("record_procedure: failed to load internship: %w", err)
	}

	spec, err := h.specRepo.GetByID(ctx, internship.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("record_procedure: failed to load specialization: %w", err)
	}

	now := timeutil.Now()
	procedure := &training.Procedure{
		ID:               h.idGenerator.GenerateID(),
		InternshipID:     internship.ID,
		ModuleID:         internship.ModuleID,
		Date:             cmd.Date,
		Code:             strings.TrimSpace(cmd.Code),
		Role:             shared.ExecutionRole(cmd.Role),
		Status:           procedureStatusOrPending(cmd.Status),
		SmkVersion:       spec.SmkVersion,
		PerformingPerson: strings.TrimSpace(cmd.PerformingPerson),
		Supervisor:       strings.TrimSpace(cmd.Supervisor),
		TrainingYear:     shared.TrainingYear(cmd.TrainingYear),
		RequirementID:    cmd.RequirementID,
		Location:         cmd.Location,
		PatientInitials:  cmd.PatientInitials,
		SyncStatus:       shared.SyncStatusNotSynced,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}

	verdict := h.validator.ValidateProcedure(procedure, spec, internship, now)
	if !verdict.Valid() {
		return &RecordProcedureResult{Errors: verdict.Errors, Warnings: verdict.Warnings},
			ErrComplianceRejected
	}

	result := &RecordProcedureResult{
		ProcedureID: procedure.ID,
		Warnings:    verdict.Warnings,
		RecordedAt:  now.UTC(),
	}

	// Same-day duplicate detection counts the records that already exist
	// for this code and day. The write always goes through; the finding
	// is advisory.
	sameDay, err := h.procedureRepo.CountByCodeAndDate(ctx, internship.ID, procedure.Code, procedure.Date)
	if err != nil {
		return nil, fmt.Errorf("record_procedure: failed to count same-day records: %w", err)
	}
	if issue := h.validator.CheckSameDayCount(procedure.Code, sameDay); issue != nil {
		result.Warnings = append(result.Warnings, *issue)
	}

	if err := h.procedureRepo.Create(ctx, procedure); err != nil {
		return nil, fmt.Errorf("record_procedure: failed to save procedure: %w", err)
	}

	// Counters and caches are rebuilt best-effort; a failure here never
	// loses the record itself.
	_ = h.recomputer.RecomputeModule(ctx, internship.ModuleID)
	_ = h.recomputer.RecomputeSpecialization(ctx, internship.SpecializationID)
	h.invalidate(ctx, internship)

	return result, nil
}

func (h *RecordProcedureHandler) invalidate(ctx context.Context, internship *training.Internship) {
	_ = h.caches.InvalidateModule(ctx, internship.ModuleID)
	_ = h.caches.InvalidateInternship(ctx, internship.ID)
	_ = h.caches.InvalidateSpecialization(ctx, internship.SpecializationID)
}

// procedureStatusOrPending parses the status, defaulting empty to pending.
// Unknown values are kept as-is and rejected by the validator.
func procedureStatusOrPending(s string) training.ProcedureStatus {
	if s == "" {
		return training.ProcedureStatusPending
	}
	return training.ProcedureStatus(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE PROCEDURE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteProcedureCommand removes a procedure record.
type DeleteProcedureCommand struct {
	// ProcedureID is the record to delete.
	ProcedureID string
}

// Validate validates the command.
func (c DeleteProcedureCommand) Validate() error {
	if c.ProcedureID == "" {
		return errors.New("delete_procedure: procedure_id is required")
	}
	return nil
}

// DeleteProcedureHandler handles the DeleteProcedureCommand.
type DeleteProcedureHandler struct {
	procedureRepo  training.ProcedureRepository
	internshipRepo training.InternshipRepository
	validator      *compliance.Validator
	recomputer     ProgressRecomputer
	caches         CacheInvalidator
}

// NewDeleteProcedureHandler creates a new DeleteProcedureHandler.
func NewDeleteProcedureHandler(
	procedureRepo training.ProcedureRepository,
	internshipRepo training.InternshipRepository,
	validator *compliance.Validator,
	recomputer ProgressRecomputer,
	caches CacheInvalidator,
) *DeleteProcedureHandler {
	return &DeleteProcedureHandler{
		procedureRepo:  procedureRepo,
		internshipRepo: internshipRepo,
		validator:      validator,
		recomputer:     recomputer,
		caches:         caches,
	}
}

// Handle executes the delete procedure command. The lock check runs before
// anything else: a record already synced with SMK cannot be removed locally.
func (h *DeleteProcedureHandler) Handle(ctx context.Context, cmd DeleteProcedureCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_procedure: validation failed: %w", err)
	}

	procedure, err := h.procedureRepo.GetByID(ctx, cmd.ProcedureID)
	if err != nil {
		return fmt.Errorf("delete_procedure: failed to load procedure: %w", err)
	}

	if err := h.validator.EnsureMutable(procedure.SyncStatus); err != nil {
		return fmt.Errorf("delete_procedure: %w", err)
	}

	if err := h.procedureRepo.Delete(ctx, cmd.ProcedureID); err != nil {
		return fmt.Errorf("delete_procedure: failed to delete procedure: %w", err)
	}

	_ = h.recomputer.RecomputeModule(ctx, procedure.ModuleID)
	_ = h.caches.InvalidateModule(ctx, procedure.ModuleID)
	_ = h.caches.InvalidateInternship(ctx, procedure.InternshipID)

	if internship, err := h.internshipRepo.GetByID(ctx, procedure.InternshipID); err == nil {
		_ = h.recomputer.RecomputeSpecialization(ctx, internship.SpecializationID)
		_ = h.caches.InvalidateSpecialization(ctx, internship.SpecializationID)
	}

	return nil
}
