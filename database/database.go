package database

import (
	"fmt"
	"time"

	"cityguide/config"
	"cityguide/models"
	"cityguide/utils"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, applies pool settings and migrations,
// and stores the handle in Database
func ConnectDb(cfg *config.Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	db, err := Open(dialector)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(0)

	if err := RunMigrations(db); err != nil {
		return err
	}

	Database = DbInstance{Db: db}
	utils.Component("database").Info().Str("driver", cfg.DBDriver).Msg("connected")
	return nil
}

// Dialector builds the gorm dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql", "":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open opens a gorm connection with UTC timestamps and warn-level SQL logging.
// Driver constraint errors are translated, so a unique violation surfaces as
// gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(utils.Component("gorm"), logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	log := utils.Component("database")
	log.Info().Msg("running migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&models.Place{},
		&models.Event{},
		&models.Review{},
		&models.Reservation{},
		&models.Promotion{},
		&models.ChatSession{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Msg("migrations completed")
	return nil
}

// Close releases the underlying connection pool
func Close() error {
	if Database.Db == nil {
		return nil
	}
	sqlDB, err := Database.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
