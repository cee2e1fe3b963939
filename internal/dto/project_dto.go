package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	LockVersion *int   `json:"lock_version"`
}

type ProjectResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LockVersion int        `json:"lock_version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// UserHeader is the abbreviated user block embedded in project payloads.
type UserHeader struct {
	Id     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type FolderWithTaskCountResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LockVersion int       `json:"lock_version"`
	TasksCount  int64     `json:"tasks_count"`
}

// ProjectWithAssociationResponse backs the initial page render: the project,
// its folders with open-task counts, and the requesting user.
type ProjectWithAssociationResponse struct {
	Id      uuid.UUID                     `json:"id"`
	Name    string                        `json:"name"`
	User    UserHeader                    `json:"user"`
	Folders []FolderWithTaskCountResponse `json:"folders"`
}
