package hanamcp

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the base configuration used by library mode via New().
type Config struct {
	Query        QueryConfig       `json:"query"`
	MaxSessions  int               `json:"max_sessions"`
	ErrorPrompts []ErrorPromptRule `json:"error_prompts"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config
	Connection ConnectionConfig `json:"connection"`
	Server     ServerSettings   `json:"server"`
	Logging    LoggingConfig    `json:"logging"`
}

// ConnectionConfig holds SAP HANA connection parameters. It is loaded once
// at startup and is read-only for the rest of the process lifetime.
type ConnectionConfig struct {
	Host string `json:"host"`
	Port Port   `json:"port"`
	User string `json:"user"`
	// Password is a secret. It must never be logged, echoed, or included
	// in error messages.
	Password string `json:"password"`
	// Schema is the optional default schema for the session.
	Schema string `json:"schema,omitempty"`
}

// Port is a TCP port that accepts both a JSON number and an
// integer-as-string ("30015") in config files.
type Port int

// UnmarshalJSON implements json.Unmarshaler.
func (p *Port) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid port %s: must be an integer or an integer string", string(data))
	}
	*p = Port(n)
	return nil
}

// ServerSettings holds transport settings for CLI mode. When Port is 0 the
// server speaks MCP over stdio; when Port is set it serves streamable HTTP.
type ServerSettings struct {
	Port               int    `json:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stderr (default), stdout, or file path
}

// QueryConfig holds statement execution settings. Zero values get defaults
// in New(); negative values are invalid.
type QueryConfig struct {
	DefaultTimeoutSeconds       int           `json:"default_timeout_seconds"`
	IntrospectionTimeoutSeconds int           `json:"introspection_timeout_seconds"`
	MaxSQLLength                int           `json:"max_sql_length"`
	MaxResultLength             int           `json:"max_result_length"`
	TimeoutRules                []TimeoutRule `json:"timeout_rules"`
}

// TimeoutRule maps a SQL pattern to a specific timeout duration.
type TimeoutRule struct {
	Pattern        string `json:"pattern"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ErrorPromptRule maps an error message pattern to a guidance message
// appended to matching error strings.
type ErrorPromptRule struct {
	Pattern string `json:"pattern"`
	Message string `json:"message"`
}
