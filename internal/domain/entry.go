package domain

import "time"

// Entry is a single journal record. UserID is set at creation and never changes.
type Entry struct {
	ID        int64
	UserID    int64
	Title     string
	TimeSpent int
	Content   string
	Resources string
	EntryDate time.Time

	CreatedAt time.Time
}
