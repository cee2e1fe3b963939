package events

import "time"

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "NOTE_UPDATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	ProjectCreated = "PROJECT_CREATED"
	ProjectUpdated = "PROJECT_UPDATED"
	ProjectDeleted = "PROJECT_DELETED"
	FolderCreated  = "FOLDER_CREATED"
	FolderUpdated  = "FOLDER_UPDATED"
	FolderDeleted  = "FOLDER_DELETED"
	NoteCreated    = "NOTE_CREATED"
	NoteUpdated    = "NOTE_UPDATED"
	NoteDeleted    = "NOTE_DELETED"
	TaskCreated    = "TASK_CREATED"
	TaskUpdated    = "TASK_UPDATED"
	TaskDeleted    = "TASK_DELETED"
	ImageAttached  = "IMAGE_ATTACHED"
	ImagePurged    = "IMAGE_PURGED"
)

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
