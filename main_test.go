package main

import (
	"net/http"
	"testing"

	"cityguide/models"
	"cityguide/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_RegistersEveryGroup(t *testing.T) {
	testutil.Setup(t)
	app := NewApp()
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	token := testutil.Token(t, alice)

	for _, path := range []string{
		"/users/me",
		"/places",
		"/events",
		"/promotions",
		"/reservations/me",
		"/messages",
		"/messages/unread-count",
		"/chat/sessions",
		"/auth/login/history",
	} {
		status, env := testutil.Do(t, app, http.MethodGet, path, nil, token)
		assert.Equal(t, http.StatusOK, status, "%s: %s", path, env.Message)
	}

	status, env := testutil.Do(t, app, http.MethodGet, "/unknown", nil, "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found!", env.Message)
}
