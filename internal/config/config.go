// ABOUTME: Configuration loading and parsing for pppoe-gateway
// ABOUTME: Supports YAML files with environment variable expansion and a config.env preload

package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete pppoe-gateway configuration
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Mikrotik MikrotikConfig `yaml:"mikrotik"`
	Audit    AuditConfig    `yaml:"audit"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig holds the bot token and the operator allow-list
type TelegramConfig struct {
	Token string `yaml:"token"`

	// AllowedChatIDs is the set of Telegram chat IDs permitted to operate
	// the bot. Empty means nobody is authorized (the bot still runs).
	AllowedChatIDs []int64 `yaml:"allowed_chat_ids"`
}

// MikrotikConfig holds the RouterOS API endpoint and credentials
type MikrotikConfig struct {
	Address  string `yaml:"address"` // host:port, RouterOS API (default port 8728)
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// AuditConfig holds the audit trail database configuration
type AuditConfig struct {
	// Path to the SQLite audit database. Empty disables the audit store.
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// A config.env file in the working directory, if present, is loaded into the
// environment first. Environment variables in the format ${VAR_NAME} are
// expanded inside the YAML content.
func Load(path string) (*Config, error) {
	// Optional dotenv preload, matching the deployment layout where
	// secrets live in config.env rather than the YAML file.
	_ = godotenv.Load("config.env")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
// An empty allow-list is deliberately NOT an error: the bot starts and
// authorizes nobody, which main reports as a warning.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}

	if c.Mikrotik.Address == "" {
		return fmt.Errorf("mikrotik.address is required")
	}
	if c.Mikrotik.Username == "" {
		return fmt.Errorf("mikrotik.username is required")
	}

	return nil
}
