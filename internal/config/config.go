package config

import (
	"strings"
	"time"

	"github.com/victorebouvie/portfoliosync/internal/domain"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Git     GitConfig     `mapstructure:"git" yaml:"git"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// APIConfig locates the portfolio API repository and the collection file
// inside it
type APIConfig struct {
	RepoURL  string `mapstructure:"repo_url" yaml:"repo_url"`
	JSONFile string `mapstructure:"json_file" yaml:"json_file"`
}

// GitConfig contains version-control settings
type GitConfig struct {
	CommitterName  string        `mapstructure:"committer_name" yaml:"committer_name"`
	CommitterEmail string        `mapstructure:"committer_email" yaml:"committer_email"`
	CloneDepth     int           `mapstructure:"clone_depth" yaml:"clone_depth"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and clamps out-of-range values
// back to their defaults
func (c *Config) Validate() error {
	if c.API.RepoURL == "" {
		c.API.RepoURL = DefaultAPIRepoURL
	}
	if c.API.JSONFile == "" {
		c.API.JSONFile = DefaultJSONFile
	}
	// The collection file is addressed relative to the clone root
	if strings.ContainsAny(c.API.JSONFile, `/\`) {
		return domain.NewValidationError("api.json_file", "must be a bare filename, not a path")
	}
	if c.Git.CommitterName == "" {
		c.Git.CommitterName = DefaultCommitterName
	}
	if c.Git.CommitterEmail == "" {
		c.Git.CommitterEmail = DefaultCommitterEmail
	}
	if c.Git.CloneDepth < 1 {
		c.Git.CloneDepth = DefaultCloneDepth
	}
	if c.Git.Timeout < time.Second {
		c.Git.Timeout = DefaultGitTimeout
	}
	return nil
}
