package handlers

import (
	"tracker-api/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const dateLayout = "2006-01-02"

// CreateJournalRequest represents the request payload for creating a journal entry
type CreateJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    int    `json:"mood"`
	Tags    string `json:"tags"`
	Date    string `json:"date"`
}

// Validate implements validation.Validatable.
func (r CreateJournalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Length(0, 20000)),
		validation.Field(&r.Mood, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Tags, validation.Length(0, 500)),
		validation.Field(&r.Date, validation.Date(dateLayout)),
	)
}

// UpdateJournalRequest represents a partial update of a journal entry
type UpdateJournalRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Mood    *int    `json:"mood"`
	Tags    *string `json:"tags"`
	Date    *string `json:"date"`
}

// Validate implements validation.Validatable.
func (r UpdateJournalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Length(0, 20000)),
		validation.Field(&r.Mood, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Tags, validation.Length(0, 500)),
		validation.Field(&r.Date, validation.Date(dateLayout)),
	)
}

// CreateWorkoutRequest represents the request payload for logging a workout
type CreateWorkoutRequest struct {
	Type            models.WorkoutType `json:"type"`
	DurationMinutes int                `json:"durationMinutes"`
	Calories        int                `json:"calories"`
	Notes           string             `json:"notes"`
	Date            string             `json:"date"`
}

// Validate implements validation.Validatable.
func (r CreateWorkoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(workoutTypes()...)),
		validation.Field(&r.DurationMinutes, validation.Required, validation.Min(1), validation.Max(24*60)),
		validation.Field(&r.Calories, validation.Min(0)),
		validation.Field(&r.Notes, validation.Length(0, 2000)),
		validation.Field(&r.Date, validation.Required, validation.Date(dateLayout)),
	)
}

func workoutTypes() []interface{} {
	out := make([]interface{}, len(models.WorkoutTypes))
	for i, t := range models.WorkoutTypes {
		out[i] = t
	}
	return out
}
