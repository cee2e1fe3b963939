package entity

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	Id          uuid.UUID
	ProjectId   uuid.UUID
	Name        string
	Description string
	LockVersion int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// FolderWithTaskCount carries the number of open tasks under the folder's
// notes, used by the project initial-draw payload.
type FolderWithTaskCount struct {
	Folder
	TasksCount int64
}
