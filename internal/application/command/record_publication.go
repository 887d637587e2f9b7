package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PUBLICATION COMMAND
// Records a scientific publication of a resident. Publications do not feed
// the progress counters; they are collected for the final certification
// dossier only, so no recompute runs on write.
// ══════════════════════════════════════════════════════════════════════════════

// RecordPublicationCommand contains the data needed to record a publication.
type RecordPublicationCommand struct {
	// SpecializationID is the programme the publication belongs to.
	SpecializationID string

	// Title is the publication title.
	Title string

	// Kind classifies the publication (article, abstract, chapter).
	Kind string

	// Date is the publication date.
	Date time.Time

	// CountsTowardRequired marks the publication as counting toward the
	// programme's required totals.
	CountsTowardRequired bool
}

// Validate validates the command.
func (c RecordPublicationCommand) Validate() error {
	if c.SpecializationID == "" {
		return errors.New("record_publication: specialization_id is required")
	}
	if c.Title == "" {
		return errors.New("record_publication: title is required")
	}
	switch training.PublicationKind(c.Kind) {
	case training.PublicationArticle, training.PublicationAbstract, training.PublicationChapter:
	default:
		return fmt.Errorf("record_publication: unknown publication kind %q", c.Kind)
	}
	if c.Date.IsZero() {
		return errors.New("record_publication: date is required")
	}
	return nil
}

// RecordPublicationResult contains the result of recording a publication.
type RecordPublicationResult struct {
	// PublicationID is the ID of the created record.
	PublicationID string

	// RecordedAt is when the record was persisted.
	RecordedAt time.Time
}

// RecordPublicationHandler handles the RecordPublicationCommand.
type RecordPublicationHandler struct {
	publicationRepo training.PublicationRepository
	idGenerator     IDGenerator
}

// NewRecordPublicationHandler creates a new RecordPublicationHandler.
func NewRecordPublicationHandler(
	publicationRepo training.PublicationRepository,
	idGenerator IDGenerator,
) *RecordPublicationHandler {
	return &RecordPublicationHandler{
		publicationRepo: publicationRepo,
		idGenerator:     idGenerator,
	}
}

// Handle executes the record publication command.
func (h *RecordPublicationHandler) Handle(ctx context.Context, cmd RecordPublicationCommand) (*RecordPublicationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_publication: validation failed: %w", err)
	}

	now := timeutil.Now().UTC()
	publication := &training.Publication{
		ID:                   h.idGenerator.GenerateID(),
		SpecializationID:     cmd.SpecializationID,
		Title:                cmd.Title,
		Kind:                 training.PublicationKind(cmd.Kind),
		Date:                 cmd.Date,
		CountsTowardRequired: cmd.CountsTowardRequired,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := h.publicationRepo.Create(ctx, publication); err != nil {
		return nil, fmt.Errorf("record_publication: failed to save publication: %w", err)
	}

	return &RecordPublicationResult{
		PublicationID: publication.ID,
		RecordedAt:    now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE PUBLICATION COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeletePublicationCommand removes a publication record.
type DeletePublicationCommand struct {
	// PublicationID is the record to delete.
	PublicationID string
}

// Validate validates the command.
func (c DeletePublicationCommand) Validate() error {
	if c.PublicationID == "" {
		return errors.New("delete_publication: publication_id is required")
	}
	return nil
}

// DeletePublicationHandler handles the DeletePublicationCommand.
type DeletePublicationHandler struct {
	publicationRepo training.PublicationRepository
}

// NewDeletePublicationHandler creates a new DeletePublicationHandler.
func NewDeletePublicationHandler(publicationRepo training.PublicationRepository) *DeletePublicationHandler {
	return &DeletePublicationHandler{publicationRepo: publicationRepo}
}

// Handle executes the delete publication command.
func (h *DeletePublicationHandler) Handle(ctx context.Context, cmd DeletePublicationCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_publication: validation failed: %w", err)
	}

	if err := h.publicationRepo.Delete(ctx, cmd.PublicationID); err != nil {
		return fmt.Errorf("delete_publication: failed to delete publication: %w", err)
	}

	return nil
}
