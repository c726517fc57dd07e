package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Table represents a physical dining table. Whether a table is free is a
// derived fact: it is computed by querying for sibling orders whose status is
// not terminal, never from a stored counter.
type Table struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Number    int            `gorm:"not null;uniqueIndex" json:"number"`
	Area      string         `gorm:"size:100" json:"area,omitempty"`
	Seats     int            `gorm:"default:4" json:"seats"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new table
func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Table model
func (Table) TableName() string {
	return "tables"
}
