package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"cityguide/config"
	"cityguide/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialector_Drivers(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		cfg := config.FromEnv()
		cfg.DBDriver = driver
		d, err := Dialector(cfg)
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	cfg := config.FromEnv()
	cfg.DBDriver = "oracle"
	_, err := Dialector(cfg)
	assert.Error(t, err)
}

func TestRunMigrations_CreatesTables(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(db))

	for _, m := range []interface{}{&models.User{}, &models.Place{}, &models.Reservation{}, &models.Message{}, &models.ChatSession{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestGormLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	l := NewGormLogger(&zl, logger.Warn)
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), sql, nil)
	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	l.Info(ctx, "opened %s", "db")
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now(), sql, errors.New("no such table"))
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
	assert.Contains(t, buf.String(), "no such table")

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "slow query")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(ctx, time.Now(), sql, errors.New("ignored"))
	assert.Empty(t, buf.String())
}

func TestOpen_TranslatesDuplicateKey(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, db.Create(&models.User{Name: "Alice", Email: "alice@example.com", Password: "x"}).Error)
	err = db.Create(&models.User{Name: "Other", Email: "alice@example.com", Password: "x"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
