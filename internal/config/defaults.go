package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// API defaults
	DefaultAPIRepoURL = "git@github.com:victorebouvie/python-portfolio-api.git"
	DefaultJSONFile   = "projects.json"

	// Git defaults
	DefaultCommitterName  = "Portfolio Updater"
	DefaultCommitterEmail = "portfolio-updater@users.noreply.github.com"
	DefaultCloneDepth     = 1
	DefaultGitTimeout     = 10 * time.Minute

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".portfoliosync"
	}
	return filepath.Join(home, ".portfoliosync")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			RepoURL:  DefaultAPIRepoURL,
			JSONFile: DefaultJSONFile,
		},
		Git: GitConfig{
			CommitterName:  DefaultCommitterName,
			CommitterEmail: DefaultCommitterEmail,
			CloneDepth:     DefaultCloneDepth,
			Timeout:        DefaultGitTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
