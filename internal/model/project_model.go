package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	LockVersion int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

type ProjectMember struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_members_user_project,unique"`
	ProjectId uuid.UUID `gorm:"type:uuid;not null;index:idx_members_user_project,unique"`
	IsOwner   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User    *User    `gorm:"constraint:OnDelete:CASCADE"`
	Project *Project `gorm:"constraint:OnDelete:CASCADE"`
}

func (ProjectMember) TableName() string {
	return "users_projects"
}
