package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"tracker-api/internal/cache"
	"tracker-api/internal/models"
	"tracker-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Status      models.TaskStatus   `json:"status"`
	ProjectID   string              `json:"projectId"`
	Assignee    models.Assignee     `json:"assignee" binding:"required"`
	StartDate   string              `json:"startDate" binding:"required"`
	EndDate     string              `json:"endDate" binding:"required"`
	Priority    models.TaskPriority `json:"priority"`
	TaskType    models.TaskType     `json:"taskType" binding:"required"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	ProjectID   *string              `json:"projectId"`
	Assignee    *models.Assignee     `json:"assignee"`
	StartDate   *string              `json:"startDate"`
	EndDate     *string              `json:"endDate"`
	Priority    *models.TaskPriority `json:"priority"`
	TaskType    *models.TaskType     `json:"taskType"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// Task linkage errors; all map to 400.
var (
	errProjectRequired = errors.New("projectId is required for subtask/defect and must reference a story id")
	errParentNotFound  = errors.New("invalid projectId: parent story not found")
	errInvalidTaskType = errors.New("invalid taskType")
)

// taskPage is the cached result of one paginated task listing.
type taskPage struct {
	Tasks []models.Task
	Total int64
}

// TaskStats counts tasks by status for one assignee.
type TaskStats struct {
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"inProgress"`
	Done       int64 `json:"done"`
	Total      int64 `json:"total"`
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02",  // ISO date
		"2 Jan 2006",  // e.g., 30 Oct 2025
		time.RFC3339,  // full RFC3339
		"02 Jan 2006", // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func calculateEffortDays(startDateStr, endDateStr string) int {
	start, okStart := parseDateFlexible(startDateStr)
	end, okEnd := parseDateFlexible(endDateStr)
	if !okStart || !okEnd {
		// Fallback to minimum effort 1 when dates invalid/missing
		return 1
	}
	// Normalize to midnight to avoid partial-day rounding issues
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	if end.Before(start) {
		start, end = end, start
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// taskKey is the cache key of a single task as seen by its owner.
func taskKey(taskID, userID string) string {
	return cache.GenerateKey("task:"+taskID, map[string]any{"userId": userID})
}

// invalidateTask drops every cached view a task write can change.
func (h *Handler) invalidateTask(taskID string) {
	h.invalidate("tasks", "task:"+taskID, "stats")
}

// enrichAssignees fills Assignee from the cached user list.
func (h *Handler) enrichAssignees(ctx context.Context, tasks []models.Task) {
	users, err := h.listUsers(ctx)
	if err != nil {
		return
	}
	byID := make(map[string]UserResponse, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range tasks {
		if u, ok := byID[tasks[i].AssigneeID]; ok {
			tasks[i].Assignee = models.Assignee{ID: u.ID, Name: u.Username}
		}
	}
}

// validateParent enforces project linkage: stories carry no projectId,
// subtasks and defects must reference an existing story.
func (h *Handler) validateParent(ctx context.Context, task *models.Task) error {
	switch task.TaskType {
	case models.TypeStory:
		task.ProjectID = ""
		return nil
	case models.TypeDefect, models.TypeSubtask:
		task.ProjectID = strings.TrimSpace(task.ProjectID)
		if task.ProjectID == "" {
			return errProjectRequired
		}
		var parent models.Task
		err := h.db.WithContext(ctx).Where("id = ? AND task_type = ?", task.ProjectID, models.TypeStory).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errParentNotFound
		}
		return err
	default:
		return errInvalidTaskType
	}
}

/*
*
GetTasks handles GET /api/tasks
Returns all tasks (team-wide) for authenticated users.
Optional query param: userId to filter tasks created by a specific user.
*/
func (h *Handler) GetTasks(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	page, limit := pagination(c, 5)
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))
	if sortParam != "asc" {
		sortParam = "desc"
	}
	filterUserID := c.Query("userId") // optional: filter by creator

	ctx := c.Request.Context()
	key := cache.GenerateKey("tasks", map[string]any{
		"page":   page,
		"limit":  limit,
		"sort":   sortParam,
		"userId": filterUserID,
	})
	result, err := cache.GetOrSet(ctx, h.cache, key, func(ctx context.Context) (taskPage, error) {
		query := h.db.WithContext(ctx).Model(&models.Task{})
		if filterUserID != "" {
			query = query.Where("user_id = ?", filterUserID)
		}

		var res taskPage
		if err := query.Count(&res.Total).Error; err != nil {
			return taskPage{}, err
		}
		err := query.Session(&gorm.Session{}).
			Order("created_at " + sortParam).
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&res.Tasks).Error
		if err != nil {
			return taskPage{}, err
		}
		h.enrichAssignees(ctx, res.Tasks)
		return res, nil
	}, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch tasks",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": result.Tasks,
		"count": len(result.Tasks), // number of items in this page
		"total": result.Total,      // total tasks (all pages) for current filter
		"page":  page,
		"limit": limit,
		"sort":  sortParam,
	})
}

/*
*
CreateTask handles POST /api/tasks
Creates a new task for the authenticated user
*/
func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.Assignee.ID,
		Assignee:    req.Assignee,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Effort:      calculateEffortDays(req.StartDate, req.EndDate), // client-provided effort is ignored
		Priority:    priority,
		TaskType:    req.TaskType,
		UserID:      userID,
	}

	ctx := c.Request.Context()
	if err := h.validateParent(ctx, &task); err != nil {
		h.parentError(c, err)
		return
	}

	if err := h.db.WithContext(ctx).Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create task",
		})
		return
	}

	h.invalidateTask(task.ID)
	h.hub.Publish(realtime.Event{Type: "task_created", ID: task.ID, UserID: userID})

	c.JSON(http.StatusCreated, task)
}

func (h *Handler) parentError(c *gin.Context, err error) {
	if errors.Is(err, errProjectRequired) || errors.Is(err, errParentNotFound) || errors.Is(err, errInvalidTaskType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate projectId"})
}

// findOwnedTask loads a task owned by userID straight from the store.
func (h *Handler) findOwnedTask(c *gin.Context, userID string) (models.Task, bool) {
	taskID := c.Param("id")
	var task models.Task
	err := h.db.WithContext(c.Request.Context()).Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return models.Task{}, false
	}
	return task, true
}

// UpdateTask handles PUT /api/tasks/:id
// Updates a task owned by the authenticated user
func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	existingTask, ok := h.findOwnedTask(c, userID)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if req.Title != nil {
		existingTask.Title = *req.Title
	}
	if req.Description != nil {
		existingTask.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		existingTask.Status = *req.Status
	}
	if req.ProjectID != nil {
		existingTask.ProjectID = *req.ProjectID
	}
	if req.Assignee != nil {
		existingTask.AssigneeID = req.Assignee.ID
		existingTask.Assignee = *req.Assignee
	}
	if req.StartDate != nil {
		existingTask.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		existingTask.EndDate = *req.EndDate
	}
	// Recalculate effort only when a date changed
	if req.StartDate != nil || req.EndDate != nil {
		existingTask.Effort = calculateEffortDays(existingTask.StartDate, existingTask.EndDate)
	}
	if req.Priority != nil {
		existingTask.Priority = *req.Priority
	}
	if req.TaskType != nil {
		existingTask.TaskType = *req.TaskType
	}

	ctx := c.Request.Context()
	if err := h.validateParent(ctx, &existingTask); err != nil {
		h.parentError(c, err)
		return
	}

	if err := h.db.WithContext(ctx).Save(&existingTask).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update task",
		})
		return
	}

	h.invalidateTask(existingTask.ID)
	tasks := []models.Task{existingTask}
	h.enrichAssignees(ctx, tasks)
	h.hub.Publish(realtime.Event{Type: "task_updated", ID: existingTask.ID, UserID: userID})

	c.JSON(http.StatusOK, tasks[0])
}

// GetTaskByID handles GET /api/tasks/:id
// Returns a single task owned by the authenticated user
func (h *Handler) GetTaskByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	ctx := c.Request.Context()
	task, err := cache.GetOrSet(ctx, h.cache, taskKey(taskID, userID), func(ctx context.Context) (models.Task, error) {
		var task models.Task
		if err := h.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			return models.Task{}, err
		}
		tasks := []models.Task{task}
		h.enrichAssignees(ctx, tasks)
		return tasks[0], nil
	}, h.ttl)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
// Updates only the status of a task owned by the authenticated user
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	task, ok := h.findOwnedTask(c, userID)
	if !ok {
		return
	}

	// Explicitly update only the status column to ensure persistence
	task.Status = req.Status
	if err := h.db.WithContext(c.Request.Context()).Model(&task).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	h.invalidateTask(task.ID)
	tasks := []models.Task{task}
	h.enrichAssignees(c.Request.Context(), tasks)
	h.hub.Publish(realtime.Event{Type: "task_status_changed", ID: task.ID, UserID: userID})

	c.JSON(http.StatusOK, tasks[0])
}

// DeleteTask handles DELETE /api/tasks/:id
// Deletes a task owned by the authenticated user
func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	task, ok := h.findOwnedTask(c, userID)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete task",
		})
		return
	}

	h.invalidateTask(task.ID)
	h.hub.Publish(realtime.Event{Type: "task_deleted", ID: task.ID, UserID: userID})

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      task.ID,
	})
}

// GetStatsByUser handles GET /api/stats/:userid
// Returns counts of tasks by status (todo, inProgress, done) where the assignee matches :userid
func (h *Handler) GetStatsByUser(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	targetUserID := strings.TrimSpace(c.Param("userid"))
	if targetUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userid is required"})
		return
	}

	key := cache.GenerateKey("stats:"+targetUserID, nil)
	stats, err := cache.GetOrSet(c.Request.Context(), h.cache, key, func(ctx context.Context) (TaskStats, error) {
		type row struct {
			Status string
			Count  int64
		}
		var rows []row
		err := h.db.WithContext(ctx).Model(&models.Task{}).
			Select("status, COUNT(*) as count").
			Where("assignee_id = ?", targetUserID).
			Group("status").
			Scan(&rows).Error
		if err != nil {
			return TaskStats{}, err
		}

		var s TaskStats
		for _, r := range rows {
			switch models.TaskStatus(r.Status) {
			case models.StatusTodo:
				s.Todo = r.Count
			case models.StatusInProgress:
				s.InProgress = r.Count
			case models.StatusDone:
				s.Done = r.Count
			}
			s.Total += r.Count
		}
		return s, nil
	}, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
