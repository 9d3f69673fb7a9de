package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cityguide/config"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/testutil"
	"cityguide/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func protectedApp(extra ...fiber.Handler) *fiber.App {
	return testutil.NewApp(func(app *fiber.App) {
		handlers := append([]fiber.Handler{middleware.JWTMiddleware}, extra...)
		handlers = append(handlers, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"userId": middleware.CurrentUserID(c)})
		})
		app.Get("/protected", handlers...)
	})
}

func TestJWTMiddleware(t *testing.T) {
	testutil.Setup(t)
	app := protectedApp()
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	status, env := testutil.Do(t, app, http.MethodGet, "/protected", nil, testutil.Token(t, alice))
	require.Equal(t, http.StatusOK, status)
	var data struct {
		UserID uint `json:"userId"`
	}
	env.DecodeData(t, &data)
	assert.Equal(t, alice.ID, data.UserID)

	status, _ = testutil.Do(t, app, http.MethodGet, "/protected", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestJWTMiddleware_RejectsBadTokens(t *testing.T) {
	testutil.Setup(t)
	app := protectedApp()

	sign := func(claims jwt.MapClaims, key string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}

	cases := map[string]string{
		"expired":     sign(jwt.MapClaims{"userId": 1, "exp": time.Now().Add(-time.Hour).Unix()}, config.AppConfig.JWTKey),
		"wrong key":   sign(jwt.MapClaims{"userId": 1, "exp": time.Now().Add(time.Hour).Unix()}, "another-secret"),
		"no user id":  sign(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, config.AppConfig.JWTKey),
		"not a token": "abc.def.ghi",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			status, env := testutil.Do(t, app, http.MethodGet, "/protected", nil, token)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.False(t, env.Success)
		})
	}
}

func TestJWTMiddleware_RequiresBearerScheme(t *testing.T) {
	testutil.Setup(t)
	app := protectedApp()
	alice := testutil.CreateUser(t, "Alice", "alice@example.com", models.RoleUser)

	req, err := http.NewRequest(http.MethodGet, "/protected", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Token "+testutil.Token(t, alice))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnly_ReadsRoleFromDatabase(t *testing.T) {
	db := testutil.Setup(t)
	app := protectedApp(middleware.AdminOnly)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	token := testutil.Token(t, admin)

	status, _ := testutil.Do(t, app, http.MethodGet, "/protected", nil, token)
	assert.Equal(t, http.StatusOK, status)

	// a demotion applies to tokens issued before it
	require.NoError(t, db.Model(admin).Update("role", models.RoleUser).Error)
	status, _ = testutil.Do(t, app, http.MethodGet, "/protected", nil, token)
	assert.Equal(t, http.StatusForbidden, status)

	require.NoError(t, db.Delete(&models.User{}, admin.ID).Error)
	status, _ = testutil.Do(t, app, http.MethodGet, "/protected", nil, token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestErrorResponse_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found app error", utils.NewNotFoundError("Place not found!"), http.StatusNotFound, "Place not found!"},
		{"forbidden app error", utils.NewForbiddenError("nope"), http.StatusForbidden, "nope"},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, "Resource not found!"},
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusConflict, "Resource already exists!"},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "teapot"), http.StatusTeapot, "teapot"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Something went wrong!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.err
			app := testutil.NewApp(func(app *fiber.App) {
				app.Get("/fail", func(c *fiber.Ctx) error { return err })
			})

			status, env := testutil.Do(t, app, http.MethodGet, "/fail", nil, "")
			assert.Equal(t, tc.status, status)
			assert.False(t, env.Success)
			assert.Equal(t, tc.msg, env.Message)
		})
	}
}

func TestNotFound(t *testing.T) {
	app := testutil.NewApp()

	status, env := testutil.Do(t, app, http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found!", env.Message)
}

func TestCache_ServesHitsUntilInvalidated(t *testing.T) {
	testutil.Setup(t)
	testutil.UseMemoryCache(t)

	calls := 0
	app := testutil.NewApp(func(app *fiber.App) {
		app.Get("/places", middleware.Cache(), func(c *fiber.Ctx) error {
			calls++
			return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"calls": calls})
		})
		app.Get("/broken", middleware.Cache(), func(c *fiber.Ctx) error {
			calls++
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "down", nil)
		})
	})

	get := func(path string) (int, string) {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		require.NoError(t, err)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode, resp.Header.Get("X-Cache")
	}

	status, hit := get("/places")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "MISS", hit)
	_, hit = get("/places")
	assert.Equal(t, "HIT", hit)
	assert.Equal(t, 1, calls)

	middleware.InvalidateCache(context.Background(), "/places")
	_, hit = get("/places")
	assert.Equal(t, "MISS", hit)
	assert.Equal(t, 2, calls)

	// errors are never stored
	get("/broken")
	get("/broken")
	assert.Equal(t, 4, calls)
}

func TestCache_PassThroughWithoutBackend(t *testing.T) {
	testutil.Setup(t)
	previous := utils.ResponseCache
	utils.ResponseCache = nil
	t.Cleanup(func() { utils.ResponseCache = previous })

	calls := 0
	app := testutil.NewApp(func(app *fiber.App) {
		app.Get("/places", middleware.Cache(), func(c *fiber.Ctx) error {
			calls++
			return c.SendStatus(fiber.StatusOK)
		})
	})

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodGet, "/places", nil)
		require.NoError(t, err)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, 2, calls)
}
