package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InFolder struct {
	FolderID uuid.UUID
}

func (s InFolder) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id = ?", s.FolderID)
}

// NoteAmbiguousText matches the search text against title OR text.
type NoteAmbiguousText struct {
	Text string
}

func (s NoteAmbiguousText) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Text + "%"
	return db.Where("notes.title LIKE ? OR notes.text LIKE ?", pattern, pattern)
}

// WithTask preloads the note's optional task.
type WithTask struct{}

func (s WithTask) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Task")
}

// NoteSortColumns whitelists the sortable columns of a note listing.
// date_to lives on the joined task row and gets special ordering.
var NoteSortColumns = map[string]bool{
	"title":      true,
	"text":       true,
	"created_at": true,
	"updated_at": true,
	"date_to":    true,
}

// NoteOrder sorts a note listing. For date_to: notes with an open task and a
// due date come first in the requested direction, then open tasks without a
// due date, then completed tasks, then notes without any task.
type NoteOrder struct {
	Column    string
	Direction string
}

func (s NoteOrder) Apply(db *gorm.DB) *gorm.DB {
	direction := s.Direction
	if direction != "asc" && direction != "desc" {
		direction = "asc"
	}
	if !NoteSortColumns[s.Column] {
		return db.Order("notes.id ASC")
	}

	if s.Column == "date_to" {
		return db.
			Joins("LEFT JOIN tasks ON tasks.note_id = notes.id").
			Order(fmt.Sprintf(
				"tasks.id IS NULL, tasks.completed, tasks.date_to IS NULL, tasks.date_to %s, tasks.id ASC, notes.id",
				direction))
	}

	return db.Order(fmt.Sprintf("notes.%s %s", s.Column, direction))
}
