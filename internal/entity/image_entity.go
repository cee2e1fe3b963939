package entity

import (
	"time"

	"github.com/google/uuid"
)

// Image owner kinds. Images are owned exclusively by one note (body
// illustrations) or one user (avatar); they are never shared.
const (
	OwnerNote = "note"
	OwnerUser = "user"
)

// Image is the metadata row for one stored blob. Key locates the blob in
// BlobStorage and never changes after attach.
type Image struct {
	Id          uuid.UUID
	OwnerType   string
	OwnerId     uuid.UUID
	Key         string
	Filename    string
	ContentType string
	ByteSize    int64
	CreatedAt   time.Time
}
