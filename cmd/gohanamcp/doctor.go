package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"

	hanamcp "github.com/hanaops/hana-mcp"
	"github.com/hanaops/hana-mcp/internal/meta"
)

func runDoctor() error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	path := fs.String("config", defaultConfigPath, "Path to configuration file")
	fs.Parse(os.Args[2:])

	useColor := isTTY(os.Stderr.Fd())
	return doctor(os.Stderr, useColor, *path)
}

func doctor(w io.Writer, useColor bool, path string) error {
	printBanner(w, useColor)
	fmt.Fprintf(w, "gohanamcp %s\n\n", meta.Version)

	config, ok := doctorValidateConfig(w, useColor, path)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'gohanamcp doctor' again.")
		return nil
	}

	fmt.Fprintln(w)
	printAgentSnippets(w, useColor, config)
	return nil
}

// doctorValidateConfig loads and validates the config file, printing check
// results. Returns the parsed config and true if all checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, path string) (*hanamcp.ServerConfig, bool) {
	allPassed := true

	data, err := os.ReadFile(path)
	if err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file readable (%s)", path))
		return nil, false
	}
	printCheck(w, useColor, true, fmt.Sprintf("Config file readable (%s)", path))

	var config hanamcp.ServerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file is valid JSON: %v", err))
		return nil, false
	}
	printCheck(w, useColor, true, "Config file is valid JSON")

	if config.Connection.Host == "" {
		printCheck(w, useColor, false, "connection.host is set")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("connection.host is set (%s)", config.Connection.Host))
	}

	if config.Connection.Port < 1 || config.Connection.Port > 65535 {
		printCheck(w, useColor, false, fmt.Sprintf("connection.port is in range 1-65535 (%d)", config.Connection.Port))
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("connection.port is in range 1-65535 (%d)", config.Connection.Port))
	}

	if config.Connection.User == "" {
		printCheck(w, useColor, false, "connection.user is set")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("connection.user is set (%s)", config.Connection.User))
	}

	// Password presence is reported without echoing the value.
	if config.Connection.Password == "" {
		printCheck(w, useColor, true, "connection.password not stored (will prompt at startup)")
	} else {
		printCheck(w, useColor, true, "connection.password is set")
	}

	if config.Server.HealthCheckEnabled && config.Server.HealthCheckPath == "" {
		printCheck(w, useColor, false, "health_check_path is set (required when health_check_enabled)")
		allPassed = false
	}

	regexOK := true
	for i, rule := range config.ErrorPrompts {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("error_prompts[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}
	for i, rule := range config.Query.TimeoutRules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("timeout_rules[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}
	if regexOK {
		printCheck(w, useColor, true, "All regex patterns compile")
	}

	return &config, allPassed
}

// printCheck prints a colored ✓ or ✗ check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	mark, color := "✓", "\033[32m"
	if !pass {
		mark, color = "✗", "\033[31m"
	}
	if useColor {
		fmt.Fprintf(w, "  %s%s\033[0m %s\n", color, mark, msg)
	} else {
		fmt.Fprintf(w, "  %s %s\n", mark, msg)
	}
}

// printAgentSnippets prints MCP connection config snippets for AI agents.
func printAgentSnippets(w io.Writer, useColor bool, config *hanamcp.ServerConfig) {
	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}
	subheading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "  \033[1m%s\033[0m\n", title)
		} else {
			fmt.Fprintf(w, "  %s\n", title)
		}
	}

	heading("Agent Connection Snippets")
	fmt.Fprintln(w)

	if config.Server.Port > 0 {
		url := fmt.Sprintf("http://localhost:%d/mcp", config.Server.Port)

		subheading("Claude Code")
		fmt.Fprintf(w, "  Run this command to add the server:\n\n")
		fmt.Fprintf(w, "    claude mcp add --transport http hana %s\n\n", url)
		fmt.Fprintf(w, "  Or add to .mcp.json (project scope):\n\n")
		fmt.Fprintf(w, `  {
    "mcpServers": {
      "hana": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
		fmt.Fprintln(w)

		subheading("Cursor (.cursor/mcp.json)")
		fmt.Fprintf(w, `  {
    "mcpServers": {
      "hana": {
        "url": "%s"
      }
    }
  }
`, url)
		return
	}

	subheading("Claude Code")
	fmt.Fprintf(w, "  Run this command to add the server:\n\n")
	fmt.Fprintf(w, "    claude mcp add hana -- gohanamcp serve\n\n")
	fmt.Fprintf(w, "  Or add to .mcp.json (project scope):\n\n")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "hana": {
        "command": "gohanamcp",
        "args": ["serve"]
      }
    }
  }
`)
}
