package handlers

import (
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"tracker-api/internal/auth"
	"tracker-api/internal/cache"
	"tracker-api/internal/middleware"
	"tracker-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler holds the collaborators shared by every controller.
type Handler struct {
	db     *gorm.DB
	cache  *cache.Engine
	hub    *realtime.Hub
	tokens *auth.Manager

	// ttl is passed to every cache write; zero selects the engine default.
	ttl time.Duration
}

// New builds a Handler.
func New(db *gorm.DB, c *cache.Engine, hub *realtime.Hub, tokens *auth.Manager) *Handler {
	return &Handler{db: db, cache: c, hub: hub, tokens: tokens}
}

// currentUser returns the authenticated user ID or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return "", false
	}
	return userID, true
}

// pagination reads page/limit query params with the given default limit; limit is capped at 100.
func pagination(c *gin.Context, defaultLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// familyPattern matches every key generated with prefix.
func familyPattern(prefix string) string {
	return "^" + regexp.QuoteMeta(prefix+cache.KeySeparator)
}

// invalidate drops every key family named by prefixes.
func (h *Handler) invalidate(prefixes ...string) {
	for _, p := range prefixes {
		if _, err := h.cache.DeleteByPattern(familyPattern(p)); err != nil {
			log.Printf("cache invalidation %q failed: %v", p, err)
		}
	}
}
