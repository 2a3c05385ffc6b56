// Package config holds the tool's durable settings, loaded from an
// optional YAML file. Invocation-specific parameters (input path,
// output path) stay on the command line.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML structure.
type Config struct {
	// Language is the fence tag that marks executable code blocks.
	Language string `yaml:"language"`
	// Strict rejects structurally invalid markers instead of skipping them.
	Strict bool `yaml:"strict"`
	// Title overrides the title extracted from the document.
	Title  string     `yaml:"title"`
	Server ServerConf `yaml:"server"`
}

// ServerConf configures the preview server.
type ServerConf struct {
	Addr       string `yaml:"addr"`
	LiveReload bool   `yaml:"live_reload"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Language: "python",
		Server: ServerConf{
			Addr:       ":8080",
			LiveReload: true,
		},
	}
}

// Load reads the YAML file at path and applies defaults for unset
// fields. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	// Apply defaults.
	if cfg.Language == "" {
		cfg.Language = "python"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	return cfg, nil
}

// Validate checks the config for required fields and obvious mistakes.
func (c *Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Language) == "" {
		errs = append(errs, "language must not be empty")
	}
	if strings.ContainsAny(c.Language, " \t`") {
		errs = append(errs, fmt.Sprintf("language %q must be a bare fence tag", c.Language))
	}
	if !strings.Contains(c.Server.Addr, ":") {
		errs = append(errs, fmt.Sprintf("server.addr %q must be host:port", c.Server.Addr))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
