package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	hanamcp "github.com/hanaops/hana-mcp"
)

// runConfigure walks through the connection settings interactively and
// writes the config file. Existing files are overwritten only after
// confirmation.
func runConfigure() error {
	path := configPath()

	if _, err := os.Stat(path); err == nil {
		answer := promptInput(fmt.Sprintf("%s already exists. Overwrite? [y/N]: ", path))
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	var config hanamcp.ServerConfig

	config.Connection.Host = promptInput("HANA host: ")
	if config.Connection.Host == "" {
		return fmt.Errorf("host must not be empty")
	}

	portStr := promptInput("HANA port [30015]: ")
	if portStr == "" {
		portStr = "30015"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", portStr)
	}
	config.Connection.Port = hanamcp.Port(port)

	config.Connection.User = promptInput("Username: ")
	if config.Connection.User == "" {
		return fmt.Errorf("user must not be empty")
	}

	// Storing the password is optional; when left empty, serve prompts at
	// startup instead of keeping the secret on disk.
	store := promptInput("Store password in config file? [y/N]: ")
	if store == "y" || store == "Y" {
		config.Connection.Password = promptPassword("Password: ")
	}

	config.Connection.Schema = promptInput("Default schema (optional): ")

	portStr = promptInput("HTTP port (empty for stdio transport): ")
	if portStr != "" {
		httpPort, err := strconv.Atoi(portStr)
		if err != nil || httpPort < 1 || httpPort > 65535 {
			return fmt.Errorf("invalid port %q", portStr)
		}
		config.Server.Port = httpPort
	}

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stderr"

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(&config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// 0600: the file may hold the database password.
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	fmt.Fprintln(os.Stderr, "Run 'gohanamcp doctor' to verify, then 'gohanamcp serve' to start.")
	return nil
}
