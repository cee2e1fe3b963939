package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFolderRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type UpdateFolderRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	LockVersion *int   `json:"lock_version"`
}

type FolderResponse struct {
	Id          uuid.UUID  `json:"id"`
	ProjectId   uuid.UUID  `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LockVersion int        `json:"lock_version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// FolderWithNotesResponse backs the folder note listing when the client asks
// for the folder header alongside its notes.
type FolderWithNotesResponse struct {
	Id          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	LockVersion int                  `json:"lock_version"`
	Notes       []NoteHeaderResponse `json:"notes"`
}
