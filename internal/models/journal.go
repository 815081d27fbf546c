package models

import (
	"gorm.io/gorm"
)

// JournalEntry is a dated free-text note owned by one user.
type JournalEntry struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Title   string `json:"title" gorm:"not null"`
	Content string `json:"content"`
	Mood    int    `json:"mood" gorm:"default:3"` // 1 (low) to 5 (high)
	Tags    string `json:"tags"`                  // comma-separated
	Date    string `json:"date"`
	UserID  string `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for JournalEntry Model
func (JournalEntry) TableName() string {
	return "journal_entries"
}
