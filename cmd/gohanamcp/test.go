package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	hanamcp "github.com/hanaops/hana-mcp"
	"github.com/rs/zerolog"
)

// runTest runs a single SQL statement through the run_sql pipeline and
// exits: the standalone invocation mode for trying out connectivity and
// statements without an MCP client.
func runTest() error {
	if len(os.Args) < 3 || os.Args[2] == "" {
		return fmt.Errorf("usage: gohanamcp test <sql>")
	}
	sqlText := os.Args[2]

	serverConfig, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serverConfig.Connection.Password == "" {
		serverConfig.Connection.Password = promptPassword("Password: ")
	}

	// Quiet logger: the result itself is the output here.
	logger := zerolog.New(os.Stderr).Level(zerolog.ErrorLevel)

	ctx := context.Background()
	h, err := hanamcp.New(ctx, serverConfig.Connection, serverConfig.Config, logger)
	if err != nil {
		return fmt.Errorf("failed to create HanaMcp: %w", err)
	}
	defer h.Close()

	fmt.Fprintf(os.Stderr, "[TEST MODE] Running: %s\n", sqlText)
	output := h.RunSQL(ctx, hanamcp.QueryInput{SQL: sqlText})
	if output.Error != "" {
		return fmt.Errorf("SQL Error: %s", output.Error)
	}

	jsonBytes, err := json.MarshalIndent(output.Payload(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
