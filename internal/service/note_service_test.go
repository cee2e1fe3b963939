package service

import (
	"context"
	"testing"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingReconciler struct {
	calls []string
}

func (r *recordingReconciler) Reconcile(_ context.Context, _ uuid.UUID, htmlBody string) error {
	r.calls = append(r.calls, htmlBody)
	return nil
}

type noteFixture struct {
	uow        *fakeUnitOfWork
	svc        INoteService
	store      *fakeAttachmentStore
	reconciler *recordingReconciler
	publisher  *fakePublisher

	userId    uuid.UUID
	projectId uuid.UUID
	folderId  uuid.UUID
}

func newNoteFixture() *noteFixture {
	uow := newFakeUnitOfWork()
	factory := &fakeFactory{uow: uow}
	store := newFakeAttachmentStore()
	reconciler := &recordingReconciler{}
	publisher := &fakePublisher{}

	f := &noteFixture{
		uow:        uow,
		store:      store,
		reconciler: reconciler,
		publisher:  publisher,
		userId:     uuid.New(),
		projectId:  uuid.New(),
		folderId:   uuid.New(),
	}
	f.svc = NewNoteService(factory, &allowAuthorizer{}, store, reconciler, publisher, nopLogger{})

	uow.folders.byId[f.folderId] = &entity.Folder{Id: f.folderId, ProjectId: f.projectId, Name: "notes"}
	return f
}

func (f *noteFixture) seedNote(version int, htmlText string) *entity.Note {
	note := &entity.Note{
		Id:          uuid.New(),
		ProjectId:   f.projectId,
		FolderId:    f.folderId,
		Title:       "seeded",
		HtmlText:    htmlText,
		LockVersion: version,
	}
	f.uow.notes.byId[note.Id] = note
	return note
}

func TestNoteCreateRequiresFolderInProject(t *testing.T) {
	f := newNoteFixture()

	_, err := f.svc.Create(context.Background(), f.userId, f.projectId, uuid.New(), &dto.CreateNoteRequest{Title: "orphan"})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	res, err := f.svc.Create(context.Background(), f.userId, f.projectId, f.folderId, &dto.CreateNoteRequest{Title: "ok"})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.LockVersion)
	assert.Len(t, f.uow.notes.byId, 1)
}

func TestNoteShowFolderMismatch(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(0, "")

	otherFolder := uuid.New()
	_, err := f.svc.Show(context.Background(), f.userId, f.projectId, otherFolder, note.Id)

	// The note id must not be confirmed through a wrong folder path.
	var appErr *apperror.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	assert.Equal(t, "folder", appErr.Resource)
}

func TestNoteUpdateRequiresLockVersion(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(0, "")

	_, err := f.svc.Update(context.Background(), f.userId, f.projectId, f.folderId, note.Id, &dto.UpdateNoteRequest{Title: "renamed"})
	assert.True(t, apperror.IsKind(err, apperror.KindMissingVersion))
}

func TestNoteUpdateVersionIncrementsMonotonically(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(0, "")

	for want := 1; want <= 3; want++ {
		claimed := want - 1
		res, err := f.svc.Update(context.Background(), f.userId, f.projectId, f.folderId, note.Id, &dto.UpdateNoteRequest{
			Title:       "rev",
			LockVersion: &claimed,
		})
		assert.NoError(t, err)
		assert.Equal(t, want, res.LockVersion)
	}

	stale := 0
	_, err := f.svc.Update(context.Background(), f.userId, f.projectId, f.folderId, note.Id, &dto.UpdateNoteRequest{
		Title:       "too late",
		LockVersion: &stale,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestNoteUpdateReconcilesOnlyWhenBodyChanged(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(0, "<p>same</p>")

	v := 0
	_, err := f.svc.Update(context.Background(), f.userId, f.projectId, f.folderId, note.Id, &dto.UpdateNoteRequest{
		Title:       "title only",
		HtmlText:    "<p>same</p>",
		LockVersion: &v,
	})
	assert.NoError(t, err)
	assert.Empty(t, f.reconciler.calls)

	v = 1
	_, err = f.svc.Update(context.Background(), f.userId, f.projectId, f.folderId, note.Id, &dto.UpdateNoteRequest{
		Title:       "body changed",
		HtmlText:    "<p>different</p>",
		LockVersion: &v,
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"<p>different</p>"}, f.reconciler.calls)
}

func TestNoteDeletePurgesAttachments(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(0, "")
	f.store.add(entity.OwnerNote, note.Id, "a.png")
	f.store.add(entity.OwnerNote, note.Id, "b.png")

	assert.NoError(t, f.svc.Delete(context.Background(), f.userId, f.projectId, f.folderId, note.Id))

	assert.Empty(t, f.uow.notes.byId)
	assert.Len(t, f.store.purged, 2)
}

func TestAttachImageBumpsVersion(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(2, "")

	v := 2
	res, err := f.svc.AttachImage(context.Background(), f.userId, f.projectId, note.Id, &dto.AttachImageRequest{
		Image:       &dto.ImagePayload{Data: "aGVsbG8=", Filename: "shot.png", ContentType: "image/png"},
		LockVersion: &v,
	})

	assert.NoError(t, err)
	assert.Equal(t, note.Id, res.Id)
	assert.Equal(t, 3, res.LockVersion)
	assert.NotEmpty(t, res.ImageURL)
	assert.Equal(t, 1, f.uow.committed)

	images, _ := f.store.List(context.Background(), entity.OwnerNote, note.Id)
	assert.Len(t, images, 1)
}

func TestAttachImageStaleVersionWritesNothing(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(5, "")

	stale := 4
	_, err := f.svc.AttachImage(context.Background(), f.userId, f.projectId, note.Id, &dto.AttachImageRequest{
		Image:       &dto.ImagePayload{Data: "aGVsbG8=", Filename: "shot.png", ContentType: "image/png"},
		LockVersion: &stale,
	})

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, 0, f.uow.committed)

	images, _ := f.store.List(context.Background(), entity.OwnerNote, note.Id)
	assert.Empty(t, images)
}

func TestAttachImageRequiresLockVersion(t *testing.T) {
	f := newNoteFixture()
	note := f.seedNote(0, "")

	_, err := f.svc.AttachImage(context.Background(), f.userId, f.projectId, note.Id, &dto.AttachImageRequest{
		Image: &dto.ImagePayload{Data: "aGVsbG8=", Filename: "shot.png", ContentType: "image/png"},
	})
	assert.True(t, apperror.IsKind(err, apperror.KindMissingVersion))
}
