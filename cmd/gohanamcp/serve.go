package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	hanamcp "github.com/hanaops/hana-mcp"
	"github.com/hanaops/hana-mcp/internal/meta"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const defaultConfigPath = ".gohanamcp/config.json"

func runServe() error {
	ctx := context.Background()

	// A missing or malformed config file is fatal at startup. All later
	// failures (connection, statement) surface per invocation instead.
	serverConfig, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(serverConfig.Logging)

	// Password comes from the config file; prompt only when it was left out.
	if serverConfig.Connection.Password == "" {
		serverConfig.Connection.Password = promptPassword("Password: ")
	}

	h, err := hanamcp.New(ctx, serverConfig.Connection, serverConfig.Config, logger)
	if err != nil {
		return fmt.Errorf("failed to create HanaMcp: %w", err)
	}
	defer h.Close()

	logger.Info().Msg("testing database connection")
	if err := h.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("database connection test failed")
		return fmt.Errorf("database connection test failed: %w", err)
	}
	logger.Info().Msg("database connection test successful")

	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("gohanamcp", meta.Version,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)

	hanamcp.RegisterMCPTools(mcpServer, h)

	// Stdio is the default transport; a configured server.port switches to
	// streamable HTTP.
	if serverConfig.Server.Port <= 0 {
		logger.Info().Msg("starting gohanamcp server on stdio")
		return server.ServeStdio(mcpServer)
	}
	return serveHTTP(mcpServer, serverConfig, logger)
}

func serveHTTP(mcpServer *server.MCPServer, serverConfig *hanamcp.ServerConfig, logger zerolog.Logger) error {
	addr := fmt.Sprintf(":%d", serverConfig.Server.Port)
	mux := http.NewServeMux()

	// Health check endpoint (process liveness only, not DB connectivity)
	if serverConfig.Server.HealthCheckEnabled {
		if serverConfig.Server.HealthCheckPath == "" {
			panic("gohanamcp: health_check_path must be set when health_check_enabled is true")
		}
		mux.HandleFunc(serverConfig.Server.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Manually register the MCP handler — Start() does NOT register
	// when a custom *http.Server is provided via WithStreamableHTTPServer.
	mux.Handle("/mcp", streamableServer)

	logger.Info().Int("port", serverConfig.Server.Port).Msg("starting gohanamcp server")
	return streamableServer.Start(addr)
}

func configPath() string {
	if p := os.Getenv("GOHANAMCP_CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

func loadServerConfig() (*hanamcp.ServerConfig, error) {
	path := configPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config hanamcp.ServerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

func setupLogger(config hanamcp.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Default to stderr: stdout belongs to the MCP stdio transport.
	var output io.Writer = os.Stderr
	if config.Output == "stdout" {
		output = os.Stdout
	} else if config.Output != "" && config.Output != "stderr" {
		f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			output = f
		}
	}

	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func promptInput(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var input string
	fmt.Scanln(&input)
	return input
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return ""
	}
	return string(password)
}
