package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title    string `json:"title" validate:"max=255"`
	Text     string `json:"text"`
	HtmlText string `json:"htmltext"`
}

type UpdateNoteRequest struct {
	Title       string `json:"title" validate:"max=255"`
	Text        string `json:"text"`
	HtmlText    string `json:"htmltext"`
	LockVersion *int   `json:"lock_version"`
}

type NoteResponse struct {
	Id          uuid.UUID           `json:"id"`
	ProjectId   uuid.UUID           `json:"project_id"`
	FolderId    uuid.UUID           `json:"folder_id"`
	Title       string              `json:"title"`
	Text        string              `json:"text"`
	HtmlText    string              `json:"htmltext"`
	LockVersion int                 `json:"lock_version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
	Task        *TaskHeaderResponse `json:"task,omitempty"`
}

type NoteHeaderResponse struct {
	Id          uuid.UUID  `json:"id"`
	FolderId    uuid.UUID  `json:"folder_id"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	LockVersion int        `json:"lock_version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// ListNotesQuery carries the optional search, sort and pagination parameters.
// Sort is "column:asc" or "column:desc"; unknown columns are ignored.
type ListNotesQuery struct {
	Search string `query:"search"`
	Sort   string `query:"sort"`
	Page   int    `query:"page"`
}

// ImagePayload is an inline upload: base64 body plus metadata.
type ImagePayload struct {
	Data        string `json:"data" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

type AttachImageRequest struct {
	Image       *ImagePayload `json:"image" validate:"required"`
	LockVersion *int          `json:"lock_version"`
}

type AttachImageResponse struct {
	Id          uuid.UUID `json:"id"`
	ImageURL    string    `json:"image_url"`
	LockVersion int       `json:"lock_version"`
}
