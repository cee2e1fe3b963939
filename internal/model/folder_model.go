package model

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	LockVersion int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE"`
}

func (Folder) TableName() string {
	return "folders"
}
