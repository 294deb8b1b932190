// Package config handles configuration loading and defaults.
package config

// Default values.
const (
	DefaultDataDir   = "."
	DefaultTasksFile = "tasks.json"
	DefaultUsersFile = "users.json"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskdeck.
type Config struct {
	// Paths
	DataDir   string `toml:"data_dir"`
	TasksFile string `toml:"tasks_file"`
	UsersFile string `toml:"users_file"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// setDefaults fills cfg with the built-in defaults.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.TasksFile = DefaultTasksFile
	cfg.UsersFile = DefaultUsersFile
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
}
