package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	DateTo    *time.Time `json:"date_to"`
	Completed bool       `json:"completed"`
}

type UpdateTaskRequest struct {
	DateTo      *time.Time `json:"date_to"`
	Completed   bool       `json:"completed"`
	LockVersion *int       `json:"lock_version"`
}

type TaskResponse struct {
	Id          uuid.UUID  `json:"id"`
	ProjectId   uuid.UUID  `json:"project_id"`
	NoteId      uuid.UUID  `json:"note_id"`
	DateTo      *time.Time `json:"date_to"`
	Completed   bool       `json:"completed"`
	LockVersion int        `json:"lock_version"`
}

type TaskHeaderResponse struct {
	Id          uuid.UUID  `json:"id"`
	DateTo      *time.Time `json:"date_to"`
	Completed   bool       `json:"completed"`
	LockVersion int        `json:"lock_version"`
}
