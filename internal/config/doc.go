// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults (data files in the current directory)
// 2. User config file
// 3. Project config file (taskdeck.toml or .taskdeck.toml in the current directory)
// 4. Environment variables (TASKDECK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - Windows: %APPDATA%\taskdeck\taskdeck.toml
// - macOS: ~/Library/Application Support/taskdeck/taskdeck.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskdeck/taskdeck.toml or ~/.config/taskdeck/taskdeck.toml
// - Fallback: ~/.taskdeck/taskdeck.toml
package config
