package handlers

import (
	"net/http"
	"testing"

	"tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

type usersBody struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

func TestGetAllUsers(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.User{ID: "u-1", Username: "alice", Password: "x"}).Error)
	require.NoError(t, env.db.Create(&models.User{ID: "u-2", Username: "bob", Password: "y"}).Error)

	w := env.do(t, http.MethodGet, "/api/users", "u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[usersBody](t, w)
	require.Equal(t, 2, body.Count)
	require.Equal(t, "alice", body.Users[0].Username)
	require.NotContains(t, w.Body.String(), "password")
}

func TestGetAllUsers_RefreshedAfterRegistration(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/users", "u-1", nil)
	require.Equal(t, 1, decode[usersBody](t, w).Count)

	w = env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "carol", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/users", "u-1", nil)
	require.Equal(t, 2, decode[usersBody](t, w).Count)
}
