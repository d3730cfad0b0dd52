package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SetupCmd configures MCP for various AI clients.
type SetupCmd struct {
	Qwen     bool   `help:"Configure for Qwen CLI"`
	Claude   bool   `help:"Configure for Claude Code"`
	Cursor   bool   `help:"Configure for Cursor"`
	Local    bool   `help:"Create project-local configuration"`
	Global   bool   `help:"Create global configuration"`
	Format   string `help:"Output format (json|text)" enum:"json,text" default:"json"`
	FilePath string `help:"Custom directory for the local configuration"`
	Edges    string `help:"Edge-list file the server analyzes (default: the local index)"`
}

// Run executes the setup command.
func (c *SetupCmd) Run(app *App) error {
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("invalid format: %s (must be json or text)", c.Format)
	}

	config, err := c.serverConfig()
	if err != nil {
		return err
	}

	// No client selected: print the configuration instead of writing it.
	if !c.Qwen && !c.Claude && !c.Cursor {
		content, err := renderConfig(config, c.Format)
		if err != nil {
			return err
		}
		_, err = app.Out.Write(content)
		return err
	}

	if !c.Local && !c.Global {
		c.Local = true
	}

	for _, client := range c.clients() {
		if c.Global {
			globalPath, err := getGlobalConfigPath(client)
			if err != nil {
				return err
			}
			if err := writeConfig(globalPath, config, c.Format); err != nil {
				return err
			}
			app.success("✓ Created global %s MCP config at %s", clientTitle(client), globalPath)
		}

		if c.Local {
			localPath := getLocalConfigPath(".", client)
			if c.FilePath != "" {
				localPath = filepath.Join(c.FilePath, "mcp.json")
			}
			if err := writeConfig(localPath, config, c.Format); err != nil {
				return err
			}
			app.success("✓ Created local %s MCP config at %s", clientTitle(client), localPath)
		}
	}

	return nil
}

func (c *SetupCmd) clients() []string {
	var clients []string
	if c.Qwen {
		clients = append(clients, "qwen")
	}
	if c.Claude {
		clients = append(clients, "claude")
	}
	if c.Cursor {
		clients = append(clients, "cursor")
	}
	return clients
}

// serverConfig builds the mcpServers entry for degrees-go.
func (c *SetupCmd) serverConfig() (map[string]any, error) {
	args := []string{"serve", "--indexed"}
	if c.Edges != "" {
		edges, err := filepath.Abs(c.Edges)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		args = []string{"serve", edges}
	}
	return generateServerConfig(args), nil
}

// Configuration generators

func generateServerConfig(args []string) map[string]any {
	return map[string]any{
		"mcpServers": map[string]any{
			"degrees-go": map[string]any{
				"command": "degrees-go",
				"args":    args,
			},
		},
	}
}

// Path helpers

func getLocalConfigPath(basePath, client string) string {
	return filepath.Join(basePath, getClientConfigDir(client), "mcp.json")
}

func getGlobalConfigPath(client string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(homeDir, getClientConfigDir(client), "global", "mcp.json"), nil
}

func getClientConfigDir(client string) string {
	switch client {
	case "claude":
		return ".claude"
	case "cursor":
		return ".cursor"
	default:
		return ".qwen"
	}
}

func clientTitle(client string) string {
	if client == "" {
		return ""
	}
	return strings.ToUpper(client[:1]) + client[1:]
}

// Config writers

func renderConfig(config map[string]any, format string) ([]byte, error) {
	if format == "json" {
		content, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(content, '\n'), nil
	}

	var sb strings.Builder
	sb.WriteString("# MCP Configuration for degrees-go\n")
	sb.WriteString("# Generated by degrees-go setup\n\n")

	keys := make([]string, 0, len(config))
	for key := range config {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, _ := json.Marshal(config[key])
		sb.WriteString(fmt.Sprintf("%s: %s\n", key, value))
	}
	return []byte(sb.String()), nil
}

func writeConfig(configPath string, config map[string]any, format string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	content, err := renderConfig(config, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
