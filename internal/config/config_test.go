package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("expected default port 8081, got %q", cfg.Port)
	}
	if cfg.Schedules.RecurringTransactions != "0 0 * * *" {
		t.Errorf("unexpected default recurring schedule %q", cfg.Schedules.RecurringTransactions)
	}
	if cfg.Schedules.GoalLifecycle != "0 9 * * *" {
		t.Errorf("unexpected default lifecycle schedule %q", cfg.Schedules.GoalLifecycle)
	}
	if cfg.RunTimeout != 5*time.Minute {
		t.Errorf("expected default run timeout 5m, got %v", cfg.RunTimeout)
	}
	if cfg.MailEnabled() {
		t.Error("mail must be disabled without SMTP_HOST")
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("failed to resolve default timezone: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("expected UTC, got %v", loc)
	}
}

func TestLoadRejectsInvalidCronSpec(t *testing.T) {
	t.Setenv("SCHEDULE_RECURRING", "every day at midnight")

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unparseable cron spec")
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("JOB_RUN_TIMEOUT", "five minutes")

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unparseable run timeout")
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	t.Setenv("JOB_RUN_TIMEOUT", "-1m")

	if _, err := Load(); err == nil {
		t.Error("expected an error for a non-positive run timeout")
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("JOB_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}

func TestLoadRejectsInvalidSender(t *testing.T) {
	t.Setenv("SMTP_FROM", "not-an-address")

	if _, err := Load(); err == nil {
		t.Error("expected an error for a malformed sender address")
	}
}

func TestMailEnabled(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.test.local")
	t.Setenv("SMTP_FROM", "noreply@test.local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.MailEnabled() {
		t.Error("mail must be enabled when SMTP_HOST is set")
	}
}
