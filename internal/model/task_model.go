package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Task struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId   uuid.UUID       `gorm:"type:uuid;not null;index"`
	NoteId      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	DateTo      *datatypes.Date `gorm:"type:date"`
	Completed   bool            `gorm:"not null;default:false"`
	LockVersion int             `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE"`
	Note    *Note    `gorm:"constraint:OnDelete:CASCADE"`
}

func (Task) TableName() string {
	return "tasks"
}
