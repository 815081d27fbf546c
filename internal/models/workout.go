package models

import (
	"gorm.io/gorm"
)

// WorkoutType is the activity category of a workout.
type WorkoutType string

const (
	WorkoutRun      WorkoutType = "run"
	WorkoutCycle    WorkoutType = "cycle"
	WorkoutStrength WorkoutType = "strength"
	WorkoutYoga     WorkoutType = "yoga"
	WorkoutOther    WorkoutType = "other"
)

// WorkoutTypes lists the accepted workout types.
var WorkoutTypes = []WorkoutType{WorkoutRun, WorkoutCycle, WorkoutStrength, WorkoutYoga, WorkoutOther}

// Workout is a single logged fitness session.
type Workout struct {
	ID              string      `json:"id" gorm:"primaryKey"`
	Type            WorkoutType `json:"type" gorm:"not null;index"`
	DurationMinutes int         `json:"durationMinutes"`
	Calories        int         `json:"calories"`
	Notes           string      `json:"notes"`
	Date            string      `json:"date"`
	UserID          string      `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Workout Model
func (Workout) TableName() string {
	return "workouts"
}
