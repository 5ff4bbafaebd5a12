package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendPortfolio = "portfolio"
	BackendOpenAI    = "openai"
)

const defaultSystemPrompt = "You are the portfolio's AI assistant. " +
	"Answer questions about the owner's skills, projects and experience. " +
	"If you don't know the answer, suggest reaching out by email. " +
	"Be professional, concise, and friendly."

type OpenAI struct {
	APIKey       string `json:"api_key" yaml:"api_key"`
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model        string `json:"model" yaml:"model"`
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

// Config is read once at startup and treated as read-only afterwards.
type Config struct {
	BackendURL       string `json:"backend_url" yaml:"backend_url"`
	Backend          string `json:"backend" yaml:"backend"`
	RequestTimeoutMS int    `json:"request_timeout_ms" yaml:"request_timeout_ms"`
	MaxMessageLength int    `json:"max_message_length" yaml:"max_message_length"`
	RetryAttempts    int    `json:"retry_attempts" yaml:"retry_attempts"`
	AutoScroll       bool   `json:"auto_scroll" yaml:"auto_scroll"`
	TypingIndicator  bool   `json:"typing_indicator" yaml:"typing_indicator"`
	TypingSpeedMS    int    `json:"typing_speed_ms" yaml:"typing_speed_ms"`
	Timestamps       bool   `json:"timestamps" yaml:"timestamps"`
	OpenAI           OpenAI `json:"openai" yaml:"openai"`
	LogLevel         string `json:"log_level" yaml:"log_level"`
	LogFile          string `json:"log_file,omitempty" yaml:"log_file,omitempty"`

	path string
}

func Default() *Config {
	return &Config{
		BackendURL:       "http://localhost:8000",
		Backend:          BackendPortfolio,
		RequestTimeoutMS: 30000,
		MaxMessageLength: 1000,
		RetryAttempts:    2,
		AutoScroll:       true,
		TypingIndicator:  true,
		TypingSpeedMS:    50,
		OpenAI: OpenAI{
			Model:        "gpt-4o-mini",
			SystemPrompt: defaultSystemPrompt,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads the config file at path (the default location when empty),
// then applies .env and environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	cfg := Default()
	cfg.path = path

	if err := loadConfigFile(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Dir returns the configuration directory, FOLIOCHAT_HOME or ~/.foliochat.
func Dir() (string, error) {
	if home := os.Getenv("FOLIOCHAT_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".foliochat"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func (c *Config) applyEnvOverrides() {
	c.BackendURL = getEnvOrDefault("FOLIOCHAT_BACKEND_URL", c.BackendURL)
	c.Backend = getEnvOrDefault("FOLIOCHAT_BACKEND", c.Backend)
	c.RequestTimeoutMS = getEnvAsIntOrDefault("FOLIOCHAT_REQUEST_TIMEOUT", c.RequestTimeoutMS)
	c.MaxMessageLength = getEnvAsIntOrDefault("FOLIOCHAT_MAX_MESSAGE_LENGTH", c.MaxMessageLength)
	c.RetryAttempts = getEnvAsIntOrDefault("FOLIOCHAT_RETRY_ATTEMPTS", c.RetryAttempts)
	c.AutoScroll = getEnvAsBoolOrDefault("FOLIOCHAT_AUTO_SCROLL", c.AutoScroll)
	c.TypingIndicator = getEnvAsBoolOrDefault("FOLIOCHAT_TYPING_INDICATOR", c.TypingIndicator)
	c.TypingSpeedMS = getEnvAsIntOrDefault("FOLIOCHAT_TYPING_SPEED", c.TypingSpeedMS)
	c.OpenAI.APIKey = getEnvOrDefault("FOLIOCHAT_OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getEnvOrDefault("FOLIOCHAT_OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.Model = getEnvOrDefault("FOLIOCHAT_OPENAI_MODEL", c.OpenAI.Model)
	c.LogLevel = getEnvOrDefault("FOLIOCHAT_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnvOrDefault("FOLIOCHAT_LOG_FILE", c.LogFile)
}

func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	switch c.Backend {
	case BackendPortfolio:
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for the %q backend", BackendOpenAI)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.RequestTimeoutMS <= 0 {
		return fmt.Errorf("request_timeout_ms must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1")
	}
	if c.TypingSpeedMS < 0 {
		return fmt.Errorf("typing_speed_ms must not be negative")
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) TypingSpeed() time.Duration {
	return time.Duration(c.TypingSpeedMS) * time.Millisecond
}

// BaseURL returns the backend origin without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.BackendURL, "/")
}

// Path returns the file the config was loaded from (it may not exist).
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}
	return c.SaveAs(path)
}

// SaveAs writes the config to path, choosing YAML or JSON by extension, and
// makes path the config's location.
func (c *Config) SaveAs(path string) error {
	c.path = path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
