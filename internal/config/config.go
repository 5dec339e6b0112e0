package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Config holds the merged settings for one run.
type Config struct {
	// Command is the template executed once per unprocessed tag.
	Command string `mapstructure:"command"`
	// FirstTag bounds how far back in the listing tags are tracked.
	FirstTag string `mapstructure:"first_tag"`
	// TagPattern restricts tracking to matching tag names.
	TagPattern string `mapstructure:"tag_pattern"`
	// UseShell runs the command through a shell when truthy.
	UseShell string `mapstructure:"use_shell"`
	// TmpDir overrides the workspace location.
	TmpDir string `mapstructure:"tmp_dir"`
	// PurgeFiltered drops cached tags that stop matching TagPattern.
	PurgeFiltered bool `mapstructure:"purge_filtered"`
	// LockTimeout bounds how long a run waits for the workspace lock.
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	// LogLevel selects the logging verbosity.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LockTimeout: 30 * time.Second,
		LogLevel:    "info",
	}
}

// Load reads configuration for a run. An explicit file path wins and must
// exist; otherwise searchDir is searched for a .september.yml, and a missing
// file is fine. Defaults and SEPTEMBER_* environment variables apply either
// way.
func Load(fs afero.Fs, explicitPath, searchDir string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	// Configure environment variables
	v.SetEnvPrefix("SEPTEMBER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("lock_timeout", defaults.LockTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	switch {
	case explicitPath != "":
		v.SetConfigFile(explicitPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", explicitPath, err)
		}
	case searchDir != "":
		v.SetConfigName(".september")
		v.AddConfigPath(searchDir)
		if err := v.ReadInConfig(); err != nil {
			// Config file is optional when discovered
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}
	var config Config
	err := v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// bindEnvVars registers the environment variable for each setting.
func bindEnvVars(v *viper.Viper) error {
	if err := v.BindEnv("command", "SEPTEMBER_COMMAND"); err != nil {
		return fmt.Errorf("failed to bind command env var: %w", err)
	}
	if err := v.BindEnv("first_tag", "SEPTEMBER_FIRST_TAG"); err != nil {
		return fmt.Errorf("failed to bind first_tag env var: %w", err)
	}
	if err := v.BindEnv("tag_pattern", "SEPTEMBER_TAG_PATTERN"); err != nil {
		return fmt.Errorf("failed to bind tag_pattern env var: %w", err)
	}
	if err := v.BindEnv("use_shell", "SEPTEMBER_USE_SHELL"); err != nil {
		return fmt.Errorf("failed to bind use_shell env var: %w", err)
	}
	if err := v.BindEnv("tmp_dir", "SEPTEMBER_TMP_DIR"); err != nil {
		return fmt.Errorf("failed to bind tmp_dir env var: %w", err)
	}
	if err := v.BindEnv("purge_filtered", "SEPTEMBER_PURGE_FILTERED"); err != nil {
		return fmt.Errorf("failed to bind purge_filtered env var: %w", err)
	}
	if err := v.BindEnv("lock_timeout", "SEPTEMBER_LOCK_TIMEOUT"); err != nil {
		return fmt.Errorf("failed to bind lock_timeout env var: %w", err)
	}
	if err := v.BindEnv("log_level", "SEPTEMBER_LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind log_level env var: %w", err)
	}
	return nil
}

// ShellEnabled reports whether use_shell holds a truthy value. Recognized
// spellings are "1", "yes" and "true"; anything else keeps the shell off.
func (c *Config) ShellEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(c.UseShell)) {
	case "1", "yes", "true":
		return true
	}
	return false
}

// CompileTagPattern compiles tag_pattern, or returns nil when unset. The
// pattern matches anywhere in a tag name unless anchored.
func (c *Config) CompileTagPattern() (*regexp.Regexp, error) {
	if c.TagPattern == "" {
		return nil, nil
	}
	pattern, err := regexp.Compile(c.TagPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid tag_pattern %q: %w", c.TagPattern, err)
	}
	return pattern, nil
}

// Validate checks the settings required before any tag is processed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Command) == "" {
		return errors.New("no command is configured: set 'command' in the config file or pass --command")
	}
	if _, err := c.CompileTagPattern(); err != nil {
		return err
	}
	return nil
}
