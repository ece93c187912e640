package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultServer is the backend used when nothing is configured
	DefaultServer = "http://localhost:8000"
	// EnvPrefix prefixes every environment override, e.g. KBCTL_SERVER
	EnvPrefix = "KBCTL"

	configDirName  = ".kbctl"
	configFileName = "config.yaml"
)

// Config stores CLI configuration
type Config struct {
	Server  string        `mapstructure:"server"`
	Timeout time.Duration `mapstructure:"timeout"`
	Log     LogConfig     `mapstructure:"log"`
	Wait    WaitConfig    `mapstructure:"wait"`

	path string
}

// LogConfig 日志配置
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// WaitConfig bounds the re-fetch loop that follows every mutation
type WaitConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// GetConfigPath returns the configuration file path (~/.kbctl/config.yaml)
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server", DefaultServer)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.add_source", false)
	v.SetDefault("wait.interval", 300*time.Millisecond)
	v.SetDefault("wait.timeout", 10*time.Second)
}

// Load reads the config file at path (default ~/.kbctl/config.yaml) and
// applies KBCTL_* environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return fmt.Errorf("server is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}
	switch c.Log.Output {
	case "stdout", "stderr":
	case "file":
		if c.Log.FilePath == "" {
			return fmt.Errorf("log.file_path is required when log.output is 'file'")
		}
	default:
		return fmt.Errorf("invalid log output: %s", c.Log.Output)
	}

	if c.Wait.Interval <= 0 || c.Wait.Timeout <= 0 {
		return fmt.Errorf("wait.interval and wait.timeout must be positive")
	}
	if c.Wait.Interval > c.Wait.Timeout {
		return fmt.Errorf("wait.interval %s exceeds wait.timeout %s", c.Wait.Interval, c.Wait.Timeout)
	}

	return nil
}

// Path returns the file this configuration was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration back to its file (0600, directory created as needed)
func (c *Config) Save() error {
	if c.path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("server", c.Server)
	v.Set("timeout", c.Timeout.String())
	v.Set("log.level", c.Log.Level)
	v.Set("log.format", c.Log.Format)
	v.Set("log.output", c.Log.Output)
	if c.Log.FilePath != "" {
		v.Set("log.file_path", c.Log.FilePath)
	}
	v.Set("log.add_source", c.Log.AddSource)
	v.Set("wait.interval", c.Wait.Interval.String())
	v.Set("wait.timeout", c.Wait.Timeout.String())

	if err := v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(c.path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict config file permissions: %w", err)
	}

	return nil
}
