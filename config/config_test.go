package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-0123456789\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Payroll.MealAllowance != 10 || cfg.Payroll.TravelAllowance != 15 || cfg.Payroll.DefaultSellRate != 25 {
		t.Errorf("unexpected payroll defaults: %+v", cfg.Payroll)
	}
	if cfg.Payroll.BreakThresholdHours != 5 || cfg.Payroll.BreakHours != 1 {
		t.Errorf("unexpected break defaults: %+v", cfg.Payroll)
	}
	if cfg.Attendance.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Attendance.MaxAttempts)
	}
	if cfg.Attendance.Backoff != 1500*time.Millisecond {
		t.Errorf("expected 1.5s backoff, got %v", cfg.Attendance.Backoff)
	}
	if cfg.Attendance.AttemptTimeout != 10*time.Second {
		t.Errorf("expected 10s attempt timeout, got %v", cfg.Attendance.AttemptTimeout)
	}
	if cfg.Attendance.AccuracyThresholdMeters != 50 {
		t.Errorf("expected 50m accuracy, got %v", cfg.Attendance.AccuracyThresholdMeters)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
auth:
  jwt_secret: test-secret-key-0123456789
payroll:
  meal_allowance: 12.5
attendance:
  timezone: Europe/Rome
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Payroll.MealAllowance != 12.5 {
		t.Errorf("expected meal allowance 12.5, got %v", cfg.Payroll.MealAllowance)
	}
	loc, err := cfg.Attendance.Location()
	if err != nil || loc.String() != "Europe/Rome" {
		t.Errorf("expected Europe/Rome, got %v (%v)", loc, err)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: short\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for short secret")
	}
}

func TestValidate_BadTimezone(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-0123456789\nattendance:\n  timezone: Mars/Olympus\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown timezone")
	}
}

func TestValidate_ZeroSchedulerInterval(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-0123456789\nscheduler:\n  interval: 0s\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for a zero scheduler interval")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STAFFDESK_PAYROLL_TRAVEL_ALLOWANCE", "20")
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-0123456789\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Payroll.TravelAllowance != 20 {
		t.Errorf("expected travel allowance 20 from env, got %v", cfg.Payroll.TravelAllowance)
	}
}
