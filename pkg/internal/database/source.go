package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var C *gorm.DB

func NewGorm() error {
	source, err := Open(
		viper.GetString("database.driver"),
		viper.GetString("database.dsn"),
		viper.GetString("database.prefix"),
		viper.GetBool("debug.database"),
	)
	if err != nil {
		return err
	}

	C = source
	return nil
}

// Open connects to the database behind dsn. An empty driver means postgres.
// SQLite is bound to a single connection so in-memory databases survive
// across queries.
func Open(driver, dsn, prefix string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.New(postgres.Config{DSN: dsn})
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}

	source, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: prefix,
		},
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  level,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		conn, err := source.DB()
		if err != nil {
			return nil, err
		}
		conn.SetMaxOpenConns(1)
	}

	return source, nil
}

// Ping tells whether the database still answers.
func Ping(ctx context.Context, source *gorm.DB) error {
	conn, err := source.DB()
	if err != nil {
		return err
	}
	return conn.PingContext(ctx)
}
