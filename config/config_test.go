package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.General.LogLevel != "warn" {
		t.Fatalf("expected default log level warn, got %q", cfg.General.LogLevel)
	}
	if cfg.Storage.Redis.Port != "6379" {
		t.Fatalf("expected default redis port, got %q", cfg.Storage.Redis.Port)
	}
	if cfg.Storage.Redis.Timeout != 5*time.Second {
		t.Fatalf("expected default redis timeout, got %v", cfg.Storage.Redis.Timeout)
	}
	if cfg.Telemetry.ServiceName != "computesales" {
		t.Fatalf("unexpected service name %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoadConfig_DefaultLogFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Output.LogFile != DefaultLogFile {
		t.Fatalf("expected %q, got %q", DefaultLogFile, cfg.Output.LogFile)
	}
}

func TestLoadConfig_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "computesales.json")
	body := `{
  "general": {"log_level": "DEBUG"},
  "output": {"log_file": "from-file.txt", "report_file": "report.json"},
  "storage": {"redis": {"host": "cache", "port": "6380", "db": 2}},
  "telemetry": {"enabled": true}
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COMPUTESALES_STORAGE_REDIS_HOST", "cache-from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-file", DefaultLogFile, "")
	flags.String("report", "", "")
	if err := flags.Parse([]string{"--log-file", "from-flag.txt"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadConfig(path, flags)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.General.LogLevel != "debug" {
		t.Fatalf("expected normalized log level, got %q", cfg.General.LogLevel)
	}
	if cfg.Output.LogFile != "from-flag.txt" {
		t.Fatalf("flag should win over file, got %q", cfg.Output.LogFile)
	}
	if cfg.Output.ReportFile != "report.json" {
		t.Fatalf("unchanged flag should not mask file value, got %q", cfg.Output.ReportFile)
	}
	if cfg.Storage.Redis.Host != "cache-from-env" {
		t.Fatalf("env should win over file, got %q", cfg.Storage.Redis.Host)
	}
	if cfg.Storage.Redis.Port != "6380" || cfg.Storage.Redis.DB != 2 {
		t.Fatalf("unexpected redis config: %+v", cfg.Storage.Redis)
	}
	if cfg.Telemetry.OTLPEndpoint != "localhost:4317" {
		t.Fatalf("expected default otlp endpoint when enabled, got %q", cfg.Telemetry.OTLPEndpoint)
	}
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), nil); err == nil {
		t.Fatalf("expected error for explicit missing config file")
	}
}

func TestLoadConfig_RejectsUnknownLogLevel(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("COMPUTESALES_GENERAL_LOG_LEVEL", "chatty")

	if _, err := LoadConfig("", nil); err == nil {
		t.Fatalf("expected log level validation error")
	}
}

func TestRedisConfig_Validate(t *testing.T) {
	if err := (RedisConfig{Port: "6379"}).Validate(); err == nil {
		t.Fatalf("expected missing host error")
	}
	if err := (RedisConfig{Host: "localhost", Port: "6379"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestS3Config_ValidateRequiresKeyPair(t *testing.T) {
	if err := (S3Config{AccessKeyID: "id"}).Validate(); err == nil {
		t.Fatalf("expected error for half-configured credentials")
	}
	if err := (S3Config{}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
