package entity

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id          uuid.UUID
	Name        string
	Description string
	LockVersion int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ProjectMember links a user to a project. IsOwner marks the project the user
// created; a user may own at most one project but can be a member of many.
type ProjectMember struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ProjectId uuid.UUID
	IsOwner   bool
	CreatedAt time.Time
}
