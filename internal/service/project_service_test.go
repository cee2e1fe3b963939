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

func newProjectService(uow *fakeUnitOfWork) (IProjectService, *allowAuthorizer, *fakePublisher, *fakeAttachmentStore) {
	factory := &fakeFactory{uow: uow}
	authorizer := &allowAuthorizer{}
	publisher := &fakePublisher{}
	store := newFakeAttachmentStore()
	return NewProjectService(factory, authorizer, store, publisher, nopLogger{}), authorizer, publisher, store
}

func TestProjectCreate(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc, _, publisher, _ := newProjectService(uow)
	userId := uuid.New()

	res, err := svc.Create(context.Background(), userId, &dto.CreateProjectRequest{
		Name:        "First project",
		Description: "mine",
	})

	assert.NoError(t, err)
	assert.Equal(t, "First project", res.Name)
	assert.Equal(t, 0, res.LockVersion)

	assert.Len(t, uow.memberships.members, 1)
	assert.True(t, uow.memberships.members[0].IsOwner)
	assert.Equal(t, userId, uow.memberships.members[0].UserId)
	assert.Equal(t, 1, uow.committed)

	assert.Len(t, publisher.published, 1)
	assert.Equal(t, "PROJECT_CREATED", publisher.published[0].Type)
}

func TestProjectCreateOwnershipCeiling(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc, _, _, _ := newProjectService(uow)
	userId := uuid.New()

	_, err := svc.Create(context.Background(), userId, &dto.CreateProjectRequest{Name: "first"})
	assert.NoError(t, err)

	_, err = svc.Create(context.Background(), userId, &dto.CreateProjectRequest{Name: "second"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Len(t, uow.projects.byId, 1)

	// Membership in a project someone else owns does not count against the
	// ceiling.
	other := uuid.New()
	uow.memberships.members = append(uow.memberships.members, &entity.ProjectMember{
		UserId:    other,
		ProjectId: uuid.New(),
		IsOwner:   false,
	})
	_, err = svc.Create(context.Background(), other, &dto.CreateProjectRequest{Name: "theirs"})
	assert.NoError(t, err)
}

func TestProjectUpdateRequiresLockVersion(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc, _, _, _ := newProjectService(uow)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &dto.UpdateProjectRequest{Name: "renamed"})
	assert.True(t, apperror.IsKind(err, apperror.KindMissingVersion))
}

func TestProjectUpdateVersioning(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc, _, _, _ := newProjectService(uow)

	projectId := uuid.New()
	uow.projects.byId[projectId] = &entity.Project{Id: projectId, Name: "before", LockVersion: 3}

	stale := 2
	_, err := svc.Update(context.Background(), uuid.New(), projectId, &dto.UpdateProjectRequest{
		Name:        "renamed",
		LockVersion: &stale,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, "before", uow.projects.byId[projectId].Name)

	current := 3
	res, err := svc.Update(context.Background(), uuid.New(), projectId, &dto.UpdateProjectRequest{
		Name:        "renamed",
		LockVersion: &current,
	})
	assert.NoError(t, err)
	assert.Equal(t, "renamed", res.Name)
	assert.Equal(t, 4, res.LockVersion)
}

func TestProjectShowForbiddenForNonMembers(t *testing.T) {
	uow := newFakeUnitOfWork()
	factory := &fakeFactory{uow: uow}
	svc := NewProjectService(factory, denyAuthorizer{}, newFakeAttachmentStore(), &fakePublisher{}, nopLogger{})

	projectId := uuid.New()
	uow.projects.byId[projectId] = &entity.Project{Id: projectId, Name: "hidden"}

	_, err := svc.Show(context.Background(), uuid.New(), projectId)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestProjectDeletePurgesNoteImages(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc, authorizer, publisher, store := newProjectService(uow)

	userId := uuid.New()
	projectId := uuid.New()
	noteId := uuid.New()

	uow.projects.byId[projectId] = &entity.Project{Id: projectId, Name: "doomed"}
	uow.memberships.members = append(uow.memberships.members, &entity.ProjectMember{
		UserId: userId, ProjectId: projectId, IsOwner: true,
	})
	uow.notes.byId[noteId] = &entity.Note{Id: noteId, ProjectId: projectId}
	store.add(entity.OwnerNote, noteId, "attached.png")

	assert.NoError(t, svc.Delete(context.Background(), userId, projectId))

	assert.Empty(t, uow.projects.byId)
	assert.Empty(t, uow.memberships.members)
	assert.Len(t, store.purged, 1)
	assert.Len(t, authorizer.invalidated, 1)

	assert.Len(t, publisher.published, 1)
	assert.Equal(t, "PROJECT_DELETED", publisher.published[0].Type)
	assert.Equal(t, []uuid.UUID{userId}, publisher.published[0].UserIds)
}
