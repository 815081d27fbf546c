package handlers

import (
	"net/http"
	"testing"

	"tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

type tasksBody struct {
	Tasks []models.Task `json:"tasks"`
	Count int           `json:"count"`
	Total int64         `json:"total"`
}

func storyPayload(title string, assignee models.User) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "Desc",
		"assignee":    map[string]string{"id": assignee.ID, "name": assignee.Username},
		"startDate":   "2025-01-01",
		"endDate":     "2025-01-03",
		"taskType":    "story",
	}
}

func TestCreateTask_Success(t *testing.T) {
	env := newTestEnv(t)
	assignee := models.User{ID: "u-2", Username: "bob", Password: "x"}
	require.NoError(t, env.db.Create(&assignee).Error)

	w := env.do(t, http.MethodPost, "/api/tasks", "u-1", storyPayload("Test Task", assignee))
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Task](t, w)
	require.Equal(t, 2, created.Effort) // 2025-01-01 to 2025-01-03 => 2 days
	require.Equal(t, assignee.ID, created.Assignee.ID)
	require.Equal(t, models.StatusTodo, created.Status)
	require.Equal(t, models.PriorityMedium, created.Priority)
}

func TestCreateTask_SubtaskNeedsStoryParent(t *testing.T) {
	env := newTestEnv(t)
	assignee := models.User{ID: "u-2", Username: "bob", Password: "x"}

	payload := storyPayload("Sub", assignee)
	payload["taskType"] = "subtask"
	w := env.do(t, http.MethodPost, "/api/tasks", "u-1", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	payload["projectId"] = "missing"
	w = env.do(t, http.MethodPost, "/api/tasks", "u-1", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/tasks", "u-1", storyPayload("Story", assignee))
	require.Equal(t, http.StatusCreated, w.Code)
	payload["projectId"] = decode[models.Task](t, w).ID
	w = env.do(t, http.MethodPost, "/api/tasks", "u-1", payload)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestGetTasks_ServedFromCacheUntilWrite(t *testing.T) {
	env := newTestEnv(t)
	assignee := models.User{ID: "u-2", Username: "bob", Password: "x"}
	require.NoError(t, env.db.Create(&assignee).Error)

	w := env.do(t, http.MethodPost, "/api/tasks", "u-1", storyPayload("First", assignee))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks", "u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[tasksBody](t, w)
	require.Equal(t, int64(1), body.Total)
	require.Equal(t, "bob", body.Tasks[0].Assignee.Name)

	// A row written behind the API's back stays invisible while the listing is cached.
	require.NoError(t, env.db.Create(&models.Task{ID: "direct", Title: "Direct", UserID: "u-1", TaskType: models.TypeStory}).Error)
	w = env.do(t, http.MethodGet, "/api/tasks", "u-1", nil)
	require.Equal(t, int64(1), decode[tasksBody](t, w).Total)

	w = env.do(t, http.MethodPost, "/api/tasks", "u-1", storyPayload("Second", assignee))
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodGet, "/api/tasks", "u-1", nil)
	require.Equal(t, int64(3), decode[tasksBody](t, w).Total)

	stats := env.cache.GetStats()
	require.Positive(t, stats.TotalHits)
}

func TestTaskLifecycle_InvalidatesSingleTaskAndStats(t *testing.T) {
	env := newTestEnv(t)
	assignee := models.User{ID: "u-2", Username: "bob", Password: "x"}
	require.NoError(t, env.db.Create(&assignee).Error)

	w := env.do(t, http.MethodPost, "/api/tasks", "u-1", storyPayload("Story", assignee))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.Task](t, w).ID

	w = env.do(t, http.MethodGet, "/api/tasks/"+id, "u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/stats/u-2", "u-1", nil)
	require.Equal(t, TaskStats{Todo: 1, Total: 1}, decode[TaskStats](t, w))

	w = env.do(t, http.MethodPatch, "/api/tasks/"+id+"/status", "u-1", map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks/"+id, "u-1", nil)
	require.Equal(t, models.StatusDone, decode[models.Task](t, w).Status)
	w = env.do(t, http.MethodGet, "/api/stats/u-2", "u-1", nil)
	require.Equal(t, TaskStats{Done: 1, Total: 1}, decode[TaskStats](t, w))

	w = env.do(t, http.MethodPut, "/api/tasks/"+id, "u-1", map[string]string{"title": "Renamed", "endDate": "2025-01-11"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Task](t, w)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, 10, updated.Effort)

	w = env.do(t, http.MethodDelete, "/api/tasks/"+id, "u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/tasks/"+id, "u-1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTask_OtherUsersCannotModify(t *testing.T) {
	env := newTestEnv(t)
	assignee := models.User{ID: "u-2", Username: "bob", Password: "x"}

	w := env.do(t, http.MethodPost, "/api/tasks", "u-1", storyPayload("Mine", assignee))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.Task](t, w).ID

	w = env.do(t, http.MethodDelete, "/api/tasks/"+id, "u-3", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/api/tasks/"+id, "u-3", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTaskStatus_RejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/tasks", "u-1", storyPayload("Story", models.User{ID: "u-2"}))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.Task](t, w).ID

	w = env.do(t, http.MethodPatch, "/api/tasks/"+id+"/status", "u-1", map[string]string{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateEffortDays(t *testing.T) {
	require.Equal(t, 2, calculateEffortDays("2025-01-01", "2025-01-03"))
	require.Equal(t, 2, calculateEffortDays("2025-01-03", "2025-01-01"))
	require.Equal(t, 1, calculateEffortDays("2025-01-01", "2025-01-01"))
	require.Equal(t, 30, calculateEffortDays("1 Oct 2025", "31 Oct 2025"))
	require.Equal(t, 1, calculateEffortDays("", "2025-01-01"))
}
