// Package testutil wires an in-memory sqlite database and a Fiber app for handler tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cityguide/config"
	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const Password = "password123"

// Envelope mirrors middleware.Response with a raw payload
type Envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Errors  []rules.FieldError `json:"errors"`
}

// DecodeData unmarshals the payload into v
func (e Envelope) DecodeData(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, v), string(e.Data))
}

// HasError reports whether the errors list mentions field
func (e Envelope) HasError(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Setup installs test configuration and a fresh migrated sqlite database
func Setup(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.FromEnv()
	cfg.JWTKey = "test-secret"
	cfg.SaltRound = bcrypt.MinCost
	cfg.SendGridAPIKey = ""
	config.AppConfig = cfg

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db))

	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// NewApp builds an app with the production error handler and registers routes
func NewApp(register ...func(app *fiber.App)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	for _, r := range register {
		r(app)
	}
	app.Use(middleware.NotFound)
	return app
}

// CreateUser inserts a user whose password is Password
func CreateUser(t *testing.T, name, email, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Name: name, Email: email, Password: string(hash), Role: role}
	require.NoError(t, database.Database.Db.Create(user).Error)
	return user
}

// Token signs a JWT for user
func Token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user)
	require.NoError(t, err)
	return token
}

// Do sends a request and decodes the response envelope. body may be nil, a string of
// raw JSON, or any value to marshal.
func Do(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (int, Envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

// ExecBeforeWrite runs query once, inside the next create or update on table and
// just before its statement. It stands in for a concurrent request whose write
// lands between a handler's checks and its own write.
func ExecBeforeWrite(t *testing.T, db *gorm.DB, table, query string, args ...interface{}) {
	t.Helper()

	done := false
	run := func(tx *gorm.DB) {
		if done || tx.Statement.Table != table {
			return
		}
		done = true
		if _, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, query, args...); err != nil {
			_ = tx.AddError(err)
		}
	}

	name := "testutil:exec_before_write:" + t.Name()
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, run))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register(name, run))
}

// MemoryCache is a map-backed utils.Cache
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// UseMemoryCache installs an empty MemoryCache as the response cache for the test
func UseMemoryCache(t *testing.T) *MemoryCache {
	t.Helper()
	cache := &MemoryCache{entries: map[string][]byte{}}
	previous := utils.ResponseCache
	utils.ResponseCache = cache
	t.Cleanup(func() { utils.ResponseCache = previous })
	return cache
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, utils.ErrCacheMiss
	}
	return v, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *MemoryCache) Close() error { return nil }

// Keys lists the cached keys
func (m *MemoryCache) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}
