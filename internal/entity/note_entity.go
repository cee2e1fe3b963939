package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note carries both a plain-text body (Text) used for search and a rich-text
// body (HtmlText) whose embedded img tags own attached images.
type Note struct {
	Id          uuid.UUID
	ProjectId   uuid.UUID
	FolderId    uuid.UUID
	Title       string
	Text        string
	HtmlText    string
	LockVersion int
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	Task *Task
}
