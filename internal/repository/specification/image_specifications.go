package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters images by their exclusive owner (a note or a user).
type OwnedBy struct {
	OwnerType string
	OwnerID   uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_type = ? AND owner_id = ?", s.OwnerType, s.OwnerID)
}

// OwnedByAny filters images owned by any of the given owners of one type.
type OwnedByAny struct {
	OwnerType string
	OwnerIDs  []uuid.UUID
}

func (s OwnedByAny) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_type = ? AND owner_id IN ?", s.OwnerType, s.OwnerIDs)
}

// InsertionOrder returns images oldest-first, the order they were attached.
type InsertionOrder struct{}

func (s InsertionOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}
