package userRoutes

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"cityguide/database"
	"cityguide/models"
	"cityguide/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMe(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	status, env := testutil.Do(t, app, http.MethodGet, "/users/me", nil, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status)

	var me map[string]interface{}
	env.DecodeData(t, &me)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.NotContains(t, me, "password")
}

func TestListUsers_AdminOnly(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	testutil.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)

	status, _ := testutil.Do(t, app, http.MethodGet, "/users", nil, testutil.Token(t, alice))
	assert.Equal(t, http.StatusForbidden, status)

	status, env := testutil.Do(t, app, http.MethodGet, "/users?search=bob", nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Users      []models.User `json:"users"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	env.DecodeData(t, &data)
	require.Len(t, data.Users, 1)
	assert.Equal(t, "Bob", data.Users[0].Name)
	assert.Equal(t, int64(1), data.Pagination.Total)

	status, env = testutil.Do(t, app, http.MethodGet, "/users?limit=500", nil, testutil.Token(t, admin))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("limit"))
}

func TestGetUser_PublicProfile(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)

	status, env := testutil.Do(t, app, http.MethodGet, "/users/"+strconv.Itoa(int(bob.ID)), nil, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status)
	var profile map[string]interface{}
	env.DecodeData(t, &profile)
	assert.Equal(t, "Bob", profile["name"])
	assert.NotContains(t, profile, "email")

	status, env = testutil.Do(t, app, http.MethodGet, "/users/abc", nil, testutil.Token(t, alice))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("id"))

	status, _ = testutil.Do(t, app, http.MethodGet, "/users/9999", nil, testutil.Token(t, alice))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateUser(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, "Bob", "bob@example.com", models.RoleUser)
	token := testutil.Token(t, alice)
	path := "/users/" + strconv.Itoa(int(alice.ID))

	status, env := testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{"name": "Alicia"}, token)
	require.Equal(t, http.StatusOK, status, env.Message)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, alice.ID).Error)
	assert.Equal(t, "Alicia", stored.Name)

	status, env = testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("body"))

	status, _ = testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{"email": "bob@example.com"}, token)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = testutil.Do(t, app, http.MethodPut, "/users/"+strconv.Itoa(int(bob.ID)), map[string]interface{}{"name": "Bobby"}, token)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdateUser_ConcurrentEmailIsConflict(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	now := time.Now().UTC()
	testutil.ExecBeforeWrite(t, db, "users",
		"INSERT INTO users (name, email, password, role, failed_login_attempts, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"Bob", "bob@example.com", "x", models.RoleUser, 0, now, now,
	)

	status, env := testutil.Do(t, app, http.MethodPut, "/users/"+strconv.Itoa(int(alice.ID)),
		map[string]interface{}{"email": "bob@example.com"}, testutil.Token(t, alice))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email is already registered!", env.Message)
}

func TestUpdateUser_PasswordKeptAsSent(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	path := "/users/" + strconv.Itoa(int(alice.ID))
	token := testutil.Token(t, alice)

	status, env := testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{"password": " new secret "}, token)
	require.Equal(t, http.StatusOK, status, env.Message)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, alice.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(" new secret ")))

	status, env = testutil.Do(t, app, http.MethodPut, path, map[string]interface{}{"password": strings.Repeat("é", 40)}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("password"))
}

func TestDeleteUser_InvalidatesPlaceCache(t *testing.T) {
	testutil.Setup(t)
	cache := testutil.UseMemoryCache(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "cache:/places/1", []byte(`{"average_rating":4}`), time.Minute))
	require.NoError(t, cache.Set(ctx, "cache:/events", []byte(`[]`), time.Minute))

	status, env := testutil.Do(t, app, http.MethodDelete, "/users/"+strconv.Itoa(int(alice.ID)), nil, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, []string{"cache:/events"}, cache.Keys())
}

func TestUpdateRoleAndDelete(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	path := "/users/" + strconv.Itoa(int(alice.ID))

	status, env := testutil.Do(t, app, http.MethodPatch, path+"/role", map[string]interface{}{"role": "root"}, testutil.Token(t, admin))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, env.HasError("role"))

	status, _ = testutil.Do(t, app, http.MethodPatch, path+"/role", map[string]interface{}{"role": "admin"}, testutil.Token(t, alice))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = testutil.Do(t, app, http.MethodPatch, path+"/role", map[string]interface{}{"role": "admin"}, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, status)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, alice.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	status, _ = testutil.Do(t, app, http.MethodDelete, path, nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, status)
	status, _ = testutil.Do(t, app, http.MethodDelete, path, nil, testutil.Token(t, admin))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserReviews(t *testing.T) {
	db := testutil.Setup(t)
	app := testutil.NewApp(SetupUserRoutes)
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	place := models.Place{Name: "Louvre"}
	require.NoError(t, db.Create(&place).Error)
	require.NoError(t, db.Create(&models.Review{UserID: alice.ID, PlaceID: place.ID, Rating: 5, Comment: "Great"}).Error)

	status, env := testutil.Do(t, app, http.MethodGet, "/users/"+strconv.Itoa(int(alice.ID))+"/reviews", nil, "")
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Reviews []models.ReviewView `json:"reviews"`
	}
	env.DecodeData(t, &data)
	require.Len(t, data.Reviews, 1)
	assert.Equal(t, "Alice", data.Reviews[0].UserName)
	assert.Equal(t, 5, data.Reviews[0].Rating)
}
