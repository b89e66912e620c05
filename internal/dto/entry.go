package dto

import (
	"time"

	"github.com/andradm/Journal-project/internal/validate"
)

// EntryForm is the JSON body for creating and editing entries. Date uses the
// MM/DD/YYYY format; the validation layer parses it and reports format errors
// per field instead of failing the bind.
type EntryForm struct {
	Title     string `json:"title"`
	TimeSpent int    `json:"time_spent"`
	Content   string `json:"content"`
	Resources string `json:"resources"`
	Date      string `json:"date"`
}

type EntryResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	TimeSpent int       `json:"time_spent"`
	Content   string    `json:"content"`
	Resources string    `json:"resources"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type ListEntriesResponse struct {
	Items []EntryResponse `json:"items"`
}

// StreamResponse is one user's entry stream.
type StreamResponse struct {
	User  UserResponse    `json:"user"`
	Items []EntryResponse `json:"items"`
}

// FormResponse carries a form's current values plus any field errors, so a
// failed submission preserves what the user typed.
type FormResponse struct {
	Values any                   `json:"values"`
	Errors []validate.FieldError `json:"errors,omitempty"`
}
