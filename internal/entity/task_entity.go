package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task is the single optional todo attached to a note.
type Task struct {
	Id          uuid.UUID
	ProjectId   uuid.UUID
	NoteId      uuid.UUID
	DateTo      *time.Time
	Completed   bool
	LockVersion int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
