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

func TestRecordPublication_Persists(t *testing.T) {
	repo := newMemPublicationRepo()
	handler := NewRecordPublicationHandler(repo, &fakeIDGen{})

	result, err := handler.Handle(context.Background(), RecordPublicationCommand{
		SpecializationID:     "spec-1",
		Title:                "Przezskórna interwencja wieńcowa u pacjentów po 80 roku życia",
		Kind:                 string(training.PublicationArticle),
		Date:                 time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CountsTowardRequired: true,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	saved, ok := repo.items[result.PublicationID]
	require.True(t, ok)
	assert.Equal(t, training.PublicationArticle, saved.Kind)
	assert.True(t, saved.CountsTowardRequired)
}

func TestRecordPublication_RejectsUnknownKind(t *testing.T) {
	repo := newMemPublicationRepo()
	handler := NewRecordPublicationHandler(repo, &fakeIDGen{})

	_, err := handler.Handle(context.Background(), RecordPublicationCommand{
		SpecializationID: "spec-1",
		Title:            "Tezy",
		Kind:             "poster",
		Date:             time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Empty(t, repo.items)
}

func TestDeletePublication_RemovesRecord(t *testing.T) {
	repo := newMemPublicationRepo()
	repo.items["pub-1"] = &training.Publication{ID: "pub-1", SpecializationID: "spec-1"}

	handler := NewDeletePublicationHandler(repo)
	require.NoError(t, handler.Handle(context.Background(), DeletePublicationCommand{PublicationID: "pub-1"}))
	assert.Empty(t, repo.items)
}

func TestDeletePublication_UnknownRecord(t *testing.T) {
	handler := NewDeletePublicationHandler(newMemPublicationRepo())

	err := handler.Handle(context.Background(), DeletePublicationCommand{PublicationID: "missing"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
