package model

import (
	"github.com/jackc/pgtype"
	"gorm.io/gorm"
)

// Blob is a named JSON document in the database. The workout log is stored
// as a single Blob.
type Blob struct {
	gorm.Model
	Name  string       `gorm:"uniqueIndex;size:191"`
	Value pgtype.JSONB `gorm:"type:jsonb;default:'[]'"`
}
