package handlers

import (
	"context"
	"net/http"

	"tracker-api/internal/cache"
	"tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// listUsers returns every user as a safe response payload, cached under the users family.
func (h *Handler) listUsers(ctx context.Context) ([]UserResponse, error) {
	key := cache.GenerateKey("users", nil)
	return cache.GetOrSet(ctx, h.cache, key, func(ctx context.Context) ([]UserResponse, error) {
		var users []models.User
		if err := h.db.WithContext(ctx).Order("username asc").Find(&users).Error; err != nil {
			return nil, err
		}
		resp := make([]UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, UserResponse{ID: u.ID, Username: u.Username})
		}
		return resp, nil
	}, h.ttl)
}

// GetAllUsers handles GET /api/users
func (h *Handler) GetAllUsers(c *gin.Context) {
	users, err := h.listUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
