package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // ATTENDANCE_TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the API reads from the environment.
type Config struct {
	App struct {
		Port    int    `envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
		GinMode string `envconfig:"GIN_MODE" default:"debug" validate:"oneof=debug release test"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost" validate:"required"`
		Port     int    `envconfig:"DB_PORT" default:"5432" validate:"gt=0"`
		User     string `envconfig:"DB_USER" default:"postgres" validate:"required"`
		Password string `envconfig:"DB_PASSWORD" default:"postgres"`
		Name     string `envconfig:"DB_NAME" default:"erp" validate:"required"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Auth struct {
		Enabled       bool   `envconfig:"AUTH_ENABLED" default:"false"`
		JWTSecret     string `envconfig:"JWT_SECRET"`
		AdminUsername string `envconfig:"ADMIN_USERNAME"`
		AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
	}

	Attendance struct {
		Timezone string `envconfig:"ATTENDANCE_TIMEZONE" default:"Local"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// Location resolves the zone used to decide which calendar day "today" is.
func (c *Config) Location() (*time.Location, error) {
	if c.Attendance.Timezone == "" || strings.EqualFold(c.Attendance.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", c.Attendance.Timezone, err)
	}
	return loc, nil
}

// JWTSecret returns the signing secret, falling back to a development key outside release mode.
func (c *Config) JWTSecret() ([]byte, error) {
	if c.Auth.JWTSecret != "" {
		return []byte(c.Auth.JWTSecret), nil
	}
	if c.App.GinMode == "release" {
		return nil, fmt.Errorf("JWT_SECRET is required in release mode")
	}
	return []byte("default_super_secret_key"), nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Load reads configs/.env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
