package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	hanamcp "github.com/hanaops/hana-mcp"
)

// validServerConfig returns a minimal valid ServerConfig for testing.
func validServerConfig() hanamcp.ServerConfig {
	return hanamcp.ServerConfig{
		Config: hanamcp.Config{
			MaxSessions: 5,
			Query: hanamcp.QueryConfig{
				DefaultTimeoutSeconds:       30,
				IntrospectionTimeoutSeconds: 10,
			},
		},
		Server: hanamcp.ServerSettings{
			Port: 8080,
		},
		Connection: hanamcp.ConnectionConfig{
			Host:     "localhost",
			Port:     30015,
			User:     "monitor",
			Password: "secret",
		},
	}
}

func writeConfigFile(t *testing.T, dir string, config hanamcp.ServerConfig) string {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// Note: Tests using t.Setenv() cannot use t.Parallel() in Go.

func TestLoadConfigValid(t *testing.T) {
	dir := t.TempDir()
	cfg := validServerConfig()
	path := writeConfigFile(t, dir, cfg)

	t.Setenv("GOHANAMCP_CONFIG_PATH", path)

	loaded, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", loaded.Server.Port)
	}
	if loaded.MaxSessions != 5 {
		t.Fatalf("expected max_sessions 5, got %d", loaded.MaxSessions)
	}
	if loaded.Query.DefaultTimeoutSeconds != 30 {
		t.Fatalf("expected default_timeout_seconds 30, got %d", loaded.Query.DefaultTimeoutSeconds)
	}
	if loaded.Connection.Host != "localhost" {
		t.Fatalf("expected host 'localhost', got %q", loaded.Connection.Host)
	}
	if loaded.Connection.Port != 30015 {
		t.Fatalf("expected connection port 30015, got %d", loaded.Connection.Port)
	}
	if loaded.Connection.User != "monitor" {
		t.Fatalf("expected user 'monitor', got %q", loaded.Connection.User)
	}
}

func TestLoadConfigPortAsString(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	raw := `{"connection":{"host":"localhost","port":"30015","user":"monitor"}}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	t.Setenv("GOHANAMCP_CONFIG_PATH", path)

	loaded, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Connection.Port != 30015 {
		t.Fatalf("expected port 30015 from string value, got %d", loaded.Connection.Port)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("GOHANAMCP_CONFIG_PATH", "/nonexistent/path/config.json")

	_, err := loadServerConfig()
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "/nonexistent/path/config.json") {
		t.Fatalf("expected error to contain config path, got %q", err.Error())
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{invalid json}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	t.Setenv("GOHANAMCP_CONFIG_PATH", path)

	_, err := loadServerConfig()
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %q", err.Error())
	}
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("GOHANAMCP_CONFIG_PATH", "")

	if got := configPath(); got != defaultConfigPath {
		t.Fatalf("expected default config path %q, got %q", defaultConfigPath, got)
	}
}

func TestLoadConfigStdioWhenNoPort(t *testing.T) {
	dir := t.TempDir()
	cfg := validServerConfig()
	cfg.Server.Port = 0
	path := writeConfigFile(t, dir, cfg)

	t.Setenv("GOHANAMCP_CONFIG_PATH", path)

	loaded, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	// runServe() serves stdio when Server.Port <= 0.
	if loaded.Server.Port != 0 {
		t.Fatalf("expected port 0, got %d", loaded.Server.Port)
	}
}

func TestLoadConfigHealthCheckSettings(t *testing.T) {
	dir := t.TempDir()
	cfg := validServerConfig()
	cfg.Server.HealthCheckEnabled = true
	cfg.Server.HealthCheckPath = "/healthz"
	path := writeConfigFile(t, dir, cfg)

	t.Setenv("GOHANAMCP_CONFIG_PATH", path)

	loaded, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if !loaded.Server.HealthCheckEnabled {
		t.Fatal("expected health_check_enabled to be true")
	}
	if loaded.Server.HealthCheckPath != "/healthz" {
		t.Fatalf("expected health_check_path '/healthz', got %q", loaded.Server.HealthCheckPath)
	}
}
