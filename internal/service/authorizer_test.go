package service

import (
	"context"
	"testing"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeProject(t *testing.T) {
	factory, uow := newFakeFactory()
	authorizer := NewAuthorizer(factory)

	userId := uuid.New()
	projectId := uuid.New()
	uow.memberships.members = append(uow.memberships.members, &entity.ProjectMember{
		UserId:    userId,
		ProjectId: projectId,
	})

	assert.NoError(t, authorizer.AuthorizeProject(context.Background(), userId, projectId))

	err := authorizer.AuthorizeProject(context.Background(), uuid.New(), projectId)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	// Membership of one project grants nothing on another.
	err = authorizer.AuthorizeProject(context.Background(), userId, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestAuthorizeProjectCachesDecision(t *testing.T) {
	factory, uow := newFakeFactory()
	authorizer := NewAuthorizer(factory)

	userId := uuid.New()
	projectId := uuid.New()
	uow.memberships.members = append(uow.memberships.members, &entity.ProjectMember{
		UserId:    userId,
		ProjectId: projectId,
	})

	assert.NoError(t, authorizer.AuthorizeProject(context.Background(), userId, projectId))
	assert.NoError(t, authorizer.AuthorizeProject(context.Background(), userId, projectId))
	assert.Equal(t, 1, uow.memberships.existsCalls)

	// Denials are cached too.
	outsider := uuid.New()
	assert.Error(t, authorizer.AuthorizeProject(context.Background(), outsider, projectId))
	assert.Error(t, authorizer.AuthorizeProject(context.Background(), outsider, projectId))
	assert.Equal(t, 2, uow.memberships.existsCalls)
}

func TestInvalidateForcesRelookup(t *testing.T) {
	factory, uow := newFakeFactory()
	authorizer := NewAuthorizer(factory)

	userId := uuid.New()
	projectId := uuid.New()

	err := authorizer.AuthorizeProject(context.Background(), userId, projectId)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	// The user joins the project; without invalidation the cached denial
	// would stand until the TTL expires.
	uow.memberships.members = append(uow.memberships.members, &entity.ProjectMember{
		UserId:    userId,
		ProjectId: projectId,
	})
	authorizer.Invalidate(userId, projectId)

	assert.NoError(t, authorizer.AuthorizeProject(context.Background(), userId, projectId))
	assert.Equal(t, 2, uow.memberships.existsCalls)
}
