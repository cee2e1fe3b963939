package service

import (
	"context"
	"fmt"
	"time"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IAuthorizer interface {
	// AuthorizeProject verifies that the user belongs to the project.
	// A non-member gets Forbidden regardless of whether the project exists.
	AuthorizeProject(ctx context.Context, userId, projectId uuid.UUID) error

	// Invalidate drops the cached membership decision for one user/project
	// pair, called when a membership is created or removed.
	Invalidate(userId, projectId uuid.UUID)
}

type authorizer struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewAuthorizer(uowFactory unitofwork.RepositoryFactory) IAuthorizer {
	// Memberships change rarely; a short TTL keeps revocations timely
	// without a lookup per request.
	c := cache.New(1*time.Minute, 5*time.Minute)
	return &authorizer{
		uowFactory: uowFactory,
		cache:      c,
	}
}

func membershipKey(userId, projectId uuid.UUID) string {
	return fmt.Sprintf("%s:%s", userId, projectId)
}

func (a *authorizer) AuthorizeProject(ctx context.Context, userId, projectId uuid.UUID) error {
	key := membershipKey(userId, projectId)
	if member, found := a.cache.Get(key); found {
		if member.(bool) {
			return nil
		}
		return apperror.NewForbidden()
	}

	uow := a.uowFactory.NewUnitOfWork(ctx)
	member, err := uow.MembershipRepository().Exists(ctx, userId, projectId)
	if err != nil {
		return err
	}

	a.cache.Set(key, member, cache.DefaultExpiration)
	if !member {
		return apperror.NewForbidden()
	}
	return nil
}

func (a *authorizer) Invalidate(userId, projectId uuid.UUID) {
	a.cache.Delete(membershipKey(userId, projectId))
}
