package specification

import "gorm.io/gorm"

// HasNotes restricts folders to those containing at least one note,
// optionally filtered by ambiguous note search text.
type HasNotes struct {
	Search string
}

func (s HasNotes) Apply(db *gorm.DB) *gorm.DB {
	db = db.Joins("JOIN notes ON notes.folder_id = folders.id").Distinct()
	if s.Search != "" {
		pattern := "%" + s.Search + "%"
		db = db.Where("notes.title LIKE ? OR notes.text LIKE ?", pattern, pattern)
	}
	return db.Order("folders.id ASC")
}
