package model

import (
	"time"

	"github.com/google/uuid"
)

// Note carries project_id redundantly next to folder_id; the service layer
// verifies the folder belongs to the same project before any write.
type Note struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId   uuid.UUID `gorm:"type:uuid;not null;index"`
	FolderId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255)"`
	Text        string    `gorm:"type:text"`
	HtmlText    string    `gorm:"column:htmltext;type:text"`
	LockVersion int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE"`
	Folder  *Folder  `gorm:"constraint:OnDelete:CASCADE"`
	Task    *Task
}

func (Note) TableName() string {
	return "notes"
}
