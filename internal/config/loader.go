package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (PORTFOLIOSYNC_*)
	v.SetEnvPrefix("PORTFOLIOSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate and apply defaults for invalid values
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.repo_url", DefaultAPIRepoURL)
	v.SetDefault("api.json_file", DefaultJSONFile)

	v.SetDefault("git.committer_name", DefaultCommitterName)
	v.SetDefault("git.committer_email", DefaultCommitterEmail)
	v.SetDefault("git.clone_depth", DefaultCloneDepth)
	v.SetDefault("git.timeout", DefaultGitTimeout)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}

// configFile is the on-disk YAML shape. It mirrors Config except that the
// git timeout is written as a duration string ("10m0s") for readability;
// viper parses it back on load.
type configFile struct {
	API APIConfig `yaml:"api"`
	Git struct {
		CommitterName  string `yaml:"committer_name"`
		CommitterEmail string `yaml:"committer_email"`
		CloneDepth     int    `yaml:"clone_depth"`
		Timeout        string `yaml:"timeout"`
	} `yaml:"git"`
	Logging LoggingConfig `yaml:"logging"`
}

// WriteDefault materializes the default configuration at ConfigFilePath,
// creating the config directory first. An existing file is never
// overwritten; os.ErrExist is returned instead.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	path := ConfigFilePath()
	if _, err := os.Stat(path); err == nil {
		return path, os.ErrExist
	}

	cfg := Default()
	var out configFile
	out.API = cfg.API
	out.Git.CommitterName = cfg.Git.CommitterName
	out.Git.CommitterEmail = cfg.Git.CommitterEmail
	out.Git.CloneDepth = cfg.Git.CloneDepth
	out.Git.Timeout = cfg.Git.Timeout.String()
	out.Logging = cfg.Logging

	data, err := yaml.Marshal(out)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
