package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.config/taskdeck/taskdeck.toml or OS equivalent)
// 3. Project config file (taskdeck.toml or .taskdeck.toml in the current directory)
// 4. Environment variables (TASKDECK_*)
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	finalize(cfg)

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKDECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TASKDECK_TASKS_FILE"); v != "" {
		cfg.TasksFile = v
	}
	if v := os.Getenv("TASKDECK_USERS_FILE"); v != "" {
		cfg.UsersFile = v
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKDECK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
}

// parseFlags registers flags on fs bound to cfg and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the task and user files")
	fs.StringVar(&cfg.TasksFile, "tasks-file", cfg.TasksFile, "Task collection file name")
	fs.StringVar(&cfg.UsersFile, "users-file", cfg.UsersFile, "User collection file name")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	return fs.Parse(args)
}

// finalize expands and normalizes paths.
func finalize(cfg *Config) {
	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.TasksFile == "" {
		cfg.TasksFile = DefaultTasksFile
	}
	if cfg.UsersFile == "" {
		cfg.UsersFile = DefaultUsersFile
	}
}

// findUserConfigFile returns the path of the user-level config file,
// or "" when none exists.
func findUserConfigFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "taskdeck", "taskdeck.toml")
		if fileExists(candidate) {
			return candidate
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".taskdeck", "taskdeck.toml")
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// findProjectConfigFile returns the path of the config file in the current
// directory, or "" when none exists.
func findProjectConfigFile() string {
	for _, name := range []string{"taskdeck.toml", ".taskdeck.toml"} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func boolFromString(s string) bool {
	switch s {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
