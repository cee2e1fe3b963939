package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/momonga11/notenext-server/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReconcileKeepsReferencedImages(t *testing.T) {
	store := newFakeAttachmentStore()
	reconciler := NewImageReconciler(store, nopLogger{})
	noteId := uuid.New()

	a := store.add(entity.OwnerNote, noteId, "a.png")
	b := store.add(entity.OwnerNote, noteId, "b.png")
	c := store.add(entity.OwnerNote, noteId, "c.png")

	body := fmt.Sprintf(`<p><img src="%s"></p>`, store.ResolveURL(b))
	err := reconciler.Reconcile(context.Background(), noteId, body)
	assert.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{a.Id, c.Id}, store.purged)
	remaining, _ := store.List(context.Background(), entity.OwnerNote, noteId)
	assert.Len(t, remaining, 1)
	assert.Equal(t, b.Id, remaining[0].Id)
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := newFakeAttachmentStore()
	reconciler := NewImageReconciler(store, nopLogger{})
	noteId := uuid.New()

	kept := store.add(entity.OwnerNote, noteId, "kept.png")
	store.add(entity.OwnerNote, noteId, "stale.png")

	body := fmt.Sprintf(`<img src="%s">`, store.ResolveURL(kept))
	assert.NoError(t, reconciler.Reconcile(context.Background(), noteId, body))
	purgedOnce := len(store.purged)

	assert.NoError(t, reconciler.Reconcile(context.Background(), noteId, body))
	assert.Equal(t, purgedOnce, len(store.purged))
}

func TestReconcileEmptyBodyPurgesAll(t *testing.T) {
	store := newFakeAttachmentStore()
	reconciler := NewImageReconciler(store, nopLogger{})
	noteId := uuid.New()

	store.add(entity.OwnerNote, noteId, "a.png")
	store.add(entity.OwnerNote, noteId, "b.png")

	assert.NoError(t, reconciler.Reconcile(context.Background(), noteId, "<p>no images left</p>"))

	remaining, _ := store.List(context.Background(), entity.OwnerNote, noteId)
	assert.Empty(t, remaining)
	assert.Len(t, store.purged, 2)
}

func TestReconcileIgnoresForeignReferences(t *testing.T) {
	store := newFakeAttachmentStore()
	reconciler := NewImageReconciler(store, nopLogger{})
	noteId := uuid.New()

	mine := store.add(entity.OwnerNote, noteId, "mine.png")

	// A body embedding someone else's image must not shield unreferenced
	// attachments of this note, nor purge anything it does not own.
	body := fmt.Sprintf(`<img src="%s"><img src="http://elsewhere/other.png">`, store.ResolveURL(mine))
	assert.NoError(t, reconciler.Reconcile(context.Background(), noteId, body))

	remaining, _ := store.List(context.Background(), entity.OwnerNote, noteId)
	assert.Len(t, remaining, 1)
	assert.Empty(t, store.purged)
}

func TestReconcileDuplicateAttachmentsShareNoReference(t *testing.T) {
	store := newFakeAttachmentStore()
	reconciler := NewImageReconciler(store, nopLogger{})
	noteId := uuid.New()

	// Two attachments resolving to the same URL: one reference in the body
	// keeps only one of them.
	first := store.add(entity.OwnerNote, noteId, "same.png")
	second := store.add(entity.OwnerNote, noteId, "same.png")

	body := fmt.Sprintf(`<img src="%s">`, store.ResolveURL(first))
	assert.NoError(t, reconciler.Reconcile(context.Background(), noteId, body))

	remaining, _ := store.List(context.Background(), entity.OwnerNote, noteId)
	assert.Len(t, remaining, 1)
	assert.Equal(t, first.Id, remaining[0].Id)
	assert.Equal(t, []uuid.UUID{second.Id}, store.purged)
}

func TestReconcileOtherNotesUntouched(t *testing.T) {
	store := newFakeAttachmentStore()
	reconciler := NewImageReconciler(store, nopLogger{})
	noteId := uuid.New()
	otherNoteId := uuid.New()

	store.add(entity.OwnerNote, noteId, "gone.png")
	other := store.add(entity.OwnerNote, otherNoteId, "other.png")

	assert.NoError(t, reconciler.Reconcile(context.Background(), noteId, ""))

	otherRemaining, _ := store.List(context.Background(), entity.OwnerNote, otherNoteId)
	assert.Len(t, otherRemaining, 1)
	assert.Equal(t, other.Id, otherRemaining[0].Id)
}
