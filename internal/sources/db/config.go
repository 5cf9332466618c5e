// internal/sources/db/config.go

package db

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// URL takes precedence over the individual settings when set
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	DatabaseName string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		URL:          os.Getenv("DATABASE_URL"),
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         getIntEnv("DB_PORT", 5432),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		DatabaseName: getEnv("DB_NAME", "db4hls"),
		SSLMode:      getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 4),
		MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 2),
		MaxLifetime:  time.Duration(getIntEnv("DB_MAX_LIFETIME", int(time.Hour))),
	}
}

// DSN renders the connection string handed to the postgres driver
func (c *Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DatabaseName,
		c.SSLMode,
	)
}

func Connect(config *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying *sql.DB")
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.MaxLifetime)

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Helper function to retrieve an integer environment variable with a default fallback
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}
