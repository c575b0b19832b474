package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the backend the web client shipped against.
	DefaultBaseURL       = "http://127.0.0.1:8000"
	DefaultFlashDuration = 5 * time.Second

	configFileName  = "config.yaml"
	storageFileName = "storage.db"
)

// Config holds client configuration
type Config struct {
	BaseURL       string        `yaml:"base_url"`
	DataDir       string        `yaml:"-"`
	FlashDuration time.Duration `yaml:"flash_duration"`
	// RequestTimeout bounds each backend request. Zero means no timeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Theme          string        `yaml:"theme,omitempty"`
}

// Themes lists the accepted values of the theme setting
var Themes = []string{"auto", "dark", "light", "dracula", "pink", "notty", "plain"}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		FlashDuration: DefaultFlashDuration,
		Theme:         "auto",
	}
}

// LoadConfig builds the configuration from, in increasing priority:
// defaults, <dataDir>/config.yaml, a .env file in the working directory,
// and GLANCENOTE_* environment variables. An empty dataDir falls back to
// GLANCENOTE_DATA_DIR or the detected default.
func LoadConfig(dataDir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		LogDebug("Ignoring .env: %v", err)
	}

	if dataDir == "" {
		dataDir = getEnv("GLANCENOTE_DATA_DIR", "")
	}
	if dataDir == "" {
		detected, err := DetectDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = detected
	}

	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Path returns the path to the YAML config file
func (c *Config) Path() string {
	return filepath.Join(c.DataDir, configFileName)
}

// StoragePath returns the path to the persistence database
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, storageFileName)
}

// EnsureDataDir ensures the data directory exists
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}

// Endpoint joins path onto the base URL
func (c *Config) Endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ConfigError{Field: "file", Err: err}
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Field: "file", Err: fmt.Errorf("failed to unmarshal %s: %w", c.Path(), err)}
	}
	return nil
}

// Save writes the persistable fields to the config file
func (c *Config) Save() error {
	if err := c.EnsureDataDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(c.Path(), data, 0o600)
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnv("GLANCENOTE_BASE_URL", c.BaseURL)
	c.FlashDuration = getEnvDuration("GLANCENOTE_FLASH_DURATION", c.FlashDuration)
	c.RequestTimeout = getEnvDuration("GLANCENOTE_REQUEST_TIMEOUT", c.RequestTimeout)
	c.Theme = getEnv("GLANCENOTE_THEME", c.Theme)
}

// Validate checks that all required configuration fields are set
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Field: "base_url", Err: errors.New("cannot be empty")}
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "base_url", Err: fmt.Errorf("not an http(s) URL: %q", c.BaseURL)}
	}
	if c.DataDir == "" {
		return &ConfigError{Field: "data_dir", Err: errors.New("cannot be empty")}
	}
	if c.FlashDuration <= 0 {
		return &ConfigError{Field: "flash_duration", Err: errors.New("must be > 0")}
	}
	if c.RequestTimeout < 0 {
		return &ConfigError{Field: "request_timeout", Err: errors.New("must be >= 0")}
	}
	if c.Theme != "" && !slices.Contains(Themes, c.Theme) {
		return &ConfigError{Field: "theme", Err: fmt.Errorf("unknown theme %q (known: %s)", c.Theme, strings.Join(Themes, ", "))}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// bare integers are seconds
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
