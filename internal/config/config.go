// Package config loads scheduler configuration from the environment.
// Anything invalid here is a startup failure: a scheduler with a broken
// cron spec or timezone must not come up at all.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Schedules holds the cron spec for each registered job
// (standard 5-field syntax).
type Schedules struct {
	RecurringTransactions string `validate:"required,cron_spec"`
	GoalLifecycle         string `validate:"required,cron_spec"`
	ContributionsDaily    string `validate:"required,cron_spec"`
	ContributionsWeekly   string `validate:"required,cron_spec"`
	ContributionsMonthly  string `validate:"required,cron_spec"`
}

// Config holds application configuration
type Config struct {
	Env  string
	Port string `validate:"required,numeric"`

	// Jobs
	Schedules  Schedules `validate:"required"`
	Timezone   string    `validate:"required,timezone"`
	RunTimeout time.Duration

	// SMTP (email disabled when Host is empty)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string `validate:"omitempty,email"`
}

var appConfig *Config

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8081"),

		Schedules: Schedules{
			RecurringTransactions: getEnv("SCHEDULE_RECURRING", "0 0 * * *"),
			GoalLifecycle:         getEnv("SCHEDULE_GOAL_LIFECYCLE", "0 9 * * *"),
			ContributionsDaily:    getEnv("SCHEDULE_CONTRIB_DAILY", "0 0 * * *"),
			ContributionsWeekly:   getEnv("SCHEDULE_CONTRIB_WEEKLY", "0 0 * * 0"),
			ContributionsMonthly:  getEnv("SCHEDULE_CONTRIB_MONTHLY", "0 0 1 * *"),
		},
		Timezone: getEnv("JOB_TIMEZONE", "UTC"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
	}

	timeoutStr := getEnv("JOB_RUN_TIMEOUT", "5m")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid JOB_RUN_TIMEOUT value %q", timeoutStr)
	}
	config.RunTimeout = timeout

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks the configuration, including that every cron spec parses.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("cron_spec", validateCronSpec); err != nil {
		return fmt.Errorf("failed to register cron_spec validator: %w", err)
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Location resolves the configured timezone. Validate has already
// checked the name, so failures here are unexpected.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// MailEnabled reports whether outgoing email is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
