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

// journalPage is the cached result of one paginated journal listing.
type journalPage struct {
	Entries []models.JournalEntry
	Total   int64
}

// Journal keys live under one family per owner so any write can drop them together.
func journalFamily(userID string) string {
	return "journals:" + userID
}

func journalKey(userID, entryID string) string {
	return cache.GenerateKey(journalFamily(userID), map[string]any{"id": entryID})
}

// GetJournals handles GET /api/journals
// Lists the caller's entries, newest first. Optional query param: tag.
func (h *Handler) GetJournals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, limit := pagination(c, 10)
	tag := strings.ToLower(strings.TrimSpace(c.Query("tag")))

	key := cache.GenerateKey(journalFamily(userID), map[string]any{"page": page, "limit": limit, "tag": tag})
	result, err := cache.GetOrSet(c.Request.Context(), h.cache, key, func(ctx context.Context) (journalPage, error) {
		query := h.db.WithContext(ctx).Model(&models.JournalEntry{}).Where("user_id = ?", userID)
		if tag != "" {
			query = query.Where("(',' || tags || ',') LIKE ?", "%,"+tag+",%")
		}

		var res journalPage
		if err := query.Count(&res.Total).Error; err != nil {
			return journalPage{}, err
		}
		err := query.Session(&gorm.Session{}).
			Order("created_at desc").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&res.Entries).Error
		if err != nil {
			return journalPage{}, err
		}
		return res, nil
	}, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal entries"})
		return
	}

	// Warm the single-entry keys so a follow-up GET /api/journals/:id is a hit.
	warm := make([]cache.Item, 0, len(result.Entries))
	for _, e := range result.Entries {
		warm = append(warm, cache.Item{Key: journalKey(userID, e.ID), Value: e, TTL: h.ttl})
	}
	if err := h.cache.SetMany(warm); err != nil {
		c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": result.Entries,
		"count":   len(result.Entries),
		"total":   result.Total,
		"page":    page,
		"limit":   limit,
	})
}

// GetJournalByID handles GET /api/journals/:id
func (h *Handler) GetJournalByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID := c.Param("id")

	entry, err := cache.GetOrSet(c.Request.Context(), h.cache, journalKey(userID, entryID), func(ctx context.Context) (models.JournalEntry, error) {
		var e models.JournalEntry
		err := h.db.WithContext(ctx).Where("id = ? AND user_id = ?", entryID, userID).First(&e).Error
		return e, err
	}, h.ttl)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CreateJournal handles POST /api/journals
func (h *Handler) CreateJournal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.JournalEntry{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Tags:    normalizeTags(req.Tags),
		Date:    req.Date,
		UserID:  userID,
	}
	if entry.Mood == 0 {
		entry.Mood = 3
	}
	if entry.Date == "" {
		entry.Date = time.Now().Format(dateLayout)
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry"})
		return
	}

	h.invalidate(journalFamily(userID))
	h.hub.Publish(realtime.Event{Type: "journal_created", ID: entry.ID, UserID: userID})

	c.JSON(http.StatusCreated, entry)
}

// UpdateJournal handles PUT /api/journals/:id
func (h *Handler) UpdateJournal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, ok := h.findOwnedJournal(c, userID)
	if !ok {
		return
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Content != nil {
		entry.Content = *req.Content
	}
	if req.Mood != nil {
		entry.Mood = *req.Mood
	}
	if req.Tags != nil {
		entry.Tags = normalizeTags(*req.Tags)
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal entry"})
		return
	}

	h.invalidate(journalFamily(userID))
	h.hub.Publish(realtime.Event{Type: "journal_updated", ID: entry.ID, UserID: userID})

	c.JSON(http.StatusOK, entry)
}

// DeleteJournal handles DELETE /api/journals/:id
func (h *Handler) DeleteJournal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entry, ok := h.findOwnedJournal(c, userID)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journal entry"})
		return
	}

	h.invalidate(journalFamily(userID))
	h.hub.Publish(realtime.Event{Type: "journal_deleted", ID: entry.ID, UserID: userID})

	c.JSON(http.StatusOK, gin.H{
		"message": "Journal entry deleted successfully",
		"id":      entry.ID,
	})
}

func (h *Handler) findOwnedJournal(c *gin.Context, userID string) (models.JournalEntry, bool) {
	var entry models.JournalEntry
	err := h.db.WithContext(c.Request.Context()).Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal entry"})
		}
		return models.JournalEntry{}, false
	}
	return entry, true
}

// normalizeTags lowercases, trims and de-duplicates a comma-separated tag list.
func normalizeTags(raw string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return strings.Join(out, ",")
}
