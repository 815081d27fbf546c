package handlers

import (
	"context"
	"errors"
	"net/http"

	"tracker-api/internal/cache"
	"tracker-api/internal/models"
	"tracker-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutTotals aggregates one workout type.
type WorkoutTotals struct {
	Type     models.WorkoutType `json:"type"`
	Count    int64              `json:"count"`
	Minutes  int64              `json:"minutes"`
	Calories int64              `json:"calories"`
}

// WorkoutSummary aggregates all of a user's workouts.
type WorkoutSummary struct {
	ByType        []WorkoutTotals `json:"byType"`
	TotalCount    int64           `json:"totalCount"`
	TotalMinutes  int64           `json:"totalMinutes"`
	TotalCalories int64           `json:"totalCalories"`
}

func workoutFamily(userID string) string {
	return "workouts:" + userID
}

// GetWorkouts handles GET /api/workouts
// Lists the caller's workouts by date, newest first. Optional query param: type.
func (h *Handler) GetWorkouts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, limit := pagination(c, 20)
	workoutType := c.Query("type")

	key := cache.GenerateKey(workoutFamily(userID), map[string]any{"page": page, "limit": limit, "type": workoutType})
	workouts, err := cache.GetOrSet(c.Request.Context(), h.cache, key, func(ctx context.Context) ([]models.Workout, error) {
		query := h.db.WithContext(ctx).Where("user_id = ?", userID)
		if workoutType != "" {
			query = query.Where("type = ?", workoutType)
		}
		var out []models.Workout
		err := query.Order("date desc, created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&out).Error
		return out, err
	}, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workouts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workouts": workouts,
		"count":    len(workouts),
		"page":     page,
		"limit":    limit,
	})
}

// GetWorkoutSummary handles GET /api/workouts/summary
func (h *Handler) GetWorkoutSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	key := cache.GenerateKey(workoutFamily(userID), map[string]any{"summary": true})
	summary, err := cache.GetOrSetShared(c.Request.Context(), h.cache, key, func(ctx context.Context) (WorkoutSummary, error) {
		var rows []WorkoutTotals
		err := h.db.WithContext(ctx).Model(&models.Workout{}).
			Select("type, COUNT(*) as count, COALESCE(SUM(duration_minutes), 0) as minutes, COALESCE(SUM(calories), 0) as calories").
			Where("user_id = ?", userID).
			Group("type").
			Order("type asc").
			Scan(&rows).Error
		if err != nil {
			return WorkoutSummary{}, err
		}

		s := WorkoutSummary{ByType: rows}
		for _, r := range rows {
			s.TotalCount += r.Count
			s.TotalMinutes += r.Minutes
			s.TotalCalories += r.Calories
		}
		return s, nil
	}, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute workout summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CreateWorkout handles POST /api/workouts
func (h *Handler) CreateWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workout := models.Workout{
		ID:              uuid.NewString(),
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		Calories:        req.Calories,
		Notes:           req.Notes,
		Date:            req.Date,
		UserID:          userID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&workout).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workout"})
		return
	}

	h.invalidate(workoutFamily(userID))
	h.hub.Publish(realtime.Event{Type: "workout_created", ID: workout.ID, UserID: userID})

	c.JSON(http.StatusCreated, workout)
}

// DeleteWorkout handles DELETE /api/workouts/:id
func (h *Handler) DeleteWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var workout models.Workout
	err := h.db.WithContext(c.Request.Context()).Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workout not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workout"})
		}
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&workout).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete workout"})
		return
	}

	h.invalidate(workoutFamily(userID))
	h.hub.Publish(realtime.Event{Type: "workout_deleted", ID: workout.ID, UserID: userID})

	c.JSON(http.StatusOK, gin.H{
		"message": "Workout deleted successfully",
		"id":      workout.ID,
	})
}
