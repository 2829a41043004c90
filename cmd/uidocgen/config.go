package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uidocgen/pkg/workspace"
)

// configPath is the project config file, relative to the project root.
const configPath = ".uidocgen/config.yaml"

// ProjectConfig holds the contents of .uidocgen/config.yaml.
type ProjectConfig struct {
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Resolver  string   `yaml:"resolver"`
	Importer  string   `yaml:"importer"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
	Workers   int      `yaml:"workers"`
	Output    string   `yaml:"output"`
	MCPLog    string   `yaml:"mcp_log"`
}

func defaultConfig() ProjectConfig {
	return ProjectConfig{
		Include:   workspace.DefaultInclude(),
		Exclude:   workspace.DefaultExclude(),
		Resolver:  "exported",
		Importer:  "fs",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// loadProjectConfig reads the project config under dir. Returns nil (no
// error) if the file does not exist.
func loadProjectConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, configPath)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// overlay copies the fields set in file over cfg.
func (cfg *ProjectConfig) overlay(file *ProjectConfig) {
	if file == nil {
		return
	}
	if len(file.Include) > 0 {
		cfg.Include = file.Include
	}
	if len(file.Exclude) > 0 {
		cfg.Exclude = file.Exclude
	}
	if file.Resolver != "" {
		cfg.Resolver = file.Resolver
	}
	if file.Importer != "" {
		cfg.Importer = file.Importer
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		cfg.LogFormat = file.LogFormat
	}
	if file.Workers > 0 {
		cfg.Workers = file.Workers
	}
	if file.Output != "" {
		cfg.Output = file.Output
	}
	if file.MCPLog != "" {
		cfg.MCPLog = file.MCPLog
	}
}

func (cfg *ProjectConfig) validate() error {
	switch cfg.Importer {
	case "fs", "ignore":
	default:
		return fmt.Errorf("unknown importer %q (want fs or ignore)", cfg.Importer)
	}
	switch cfg.Resolver {
	case "exported", "all-exported", "all":
	default:
		return fmt.Errorf("unknown resolver %q (want exported, all-exported or all)", cfg.Resolver)
	}
	return nil
}

// commonFlags are accepted by every command that documents files.
type commonFlags struct {
	resolver  string
	importer  string
	logLevel  string
	logFormat string
	workers   int
	config    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.resolver, "resolver", "", "definitions to document: exported, all-exported or all")
	fs.StringVar(&c.importer, "importer", "", "cross-file resolution: fs or ignore")
	fs.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&c.logFormat, "log-format", "", "log format: text or json")
	fs.IntVar(&c.workers, "workers", 0, "files documented in parallel (0 = auto)")
	fs.StringVar(&c.config, "config-dir", ".", "directory holding "+configPath)
}

// resolve builds the effective config: defaults, then the project file,
// then flags.
func (c *commonFlags) resolve() (ProjectConfig, error) {
	cfg := defaultConfig()
	file, err := loadProjectConfig(c.config)
	if err != nil {
		return cfg, err
	}
	cfg.overlay(file)
	cfg.overlay(&ProjectConfig{
		Resolver:  c.resolver,
		Importer:  c.importer,
		LogLevel:  c.logLevel,
		LogFormat: c.logFormat,
		Workers:   c.workers,
	})
	return cfg, cfg.validate()
}
