package model

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// The versioned update path hands GORM raw column maps, so every key sent by
// the services must resolve to a mapped schema field; an unmatched key would
// be emitted verbatim and fail against Postgres.
func TestVersionedUpdateColumnsAreMapped(t *testing.T) {
	tests := []struct {
		name    string
		model   interface{}
		columns []string
	}{
		{"note", &Note{}, []string{"title", "text", "htmltext", "lock_version"}},
		{"project", &Project{}, []string{"name", "description", "lock_version"}},
		{"folder", &Folder{}, []string{"name", "description", "lock_version"}},
		{"task", &Task{}, []string{"date_to", "completed", "lock_version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schema.Parse(tt.model, &sync.Map{}, schema.NamingStrategy{})
			if err != nil {
				t.Fatalf("parse schema: %v", err)
			}
			for _, column := range tt.columns {
				if _, ok := s.FieldsByDBName[column]; !ok {
					t.Errorf("column %q is not mapped on %s", column, tt.name)
				}
			}
		})
	}
}

func TestNoteHtmlTextColumnName(t *testing.T) {
	s, err := schema.Parse(&Note{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}

	field := s.LookUpField("HtmlText")
	if field == nil {
		t.Fatal("HtmlText field not found")
	}
	// The column keeps the original single-word name, not the snake-cased
	// default, so it matches the JSON field and the update map key.
	if field.DBName != "htmltext" {
		t.Errorf("HtmlText column = %q, want %q", field.DBName, "htmltext")
	}
	if _, ok := s.FieldsByDBName["html_text"]; ok {
		t.Error("unexpected html_text column mapping")
	}
}
