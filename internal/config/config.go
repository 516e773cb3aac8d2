package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Reminders RemindersConfig `yaml:"reminders"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type TelegramConfig struct {
	Token          string        `yaml:"token"`
	WebhookURL     string        `yaml:"webhook_url"`
	WebhookSecret  string        `yaml:"webhook_secret"`
	AdminIDs       string        `yaml:"admin_ids"` // comma-separated user ids
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type ServerConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	WebhookPath string `yaml:"webhook_path"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

type RemindersConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // standard cron expression
}

type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	content := expandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	// Environment flag for verbose inbound-event logging
	if os.Getenv("VERBOSE_UPDATES") == "1" {
		cfg.Logging.Verbose = true
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.WebhookPath == "" {
		c.Server.WebhookPath = "/telegram/webhook"
	}
	if c.Telegram.RequestTimeout == 0 {
		c.Telegram.RequestTimeout = 30 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	if !strings.HasPrefix(c.Server.WebhookPath, "/") {
		return fmt.Errorf("server.webhook_path must start with /")
	}
	if c.Reminders.Enabled && c.Reminders.Schedule == "" {
		return fmt.Errorf("reminders.schedule is required when reminders are enabled")
	}
	return nil
}

// AdminIDList parses the comma-separated platform-admin allow-list.
// Malformed entries are skipped rather than failing startup.
func (c *TelegramConfig) AdminIDList() []int64 {
	var ids []int64
	for _, part := range strings.Split(c.AdminIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func expandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}

func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("Configuration:\n")
	sb.WriteString(fmt.Sprintf("  Telegram Token: %s\n", maskSecret(c.Telegram.Token)))
	sb.WriteString(fmt.Sprintf("  Webhook URL: %s\n", c.Telegram.WebhookURL))
	sb.WriteString(fmt.Sprintf("  Webhook Secret: %s\n", maskSecret(c.Telegram.WebhookSecret)))
	sb.WriteString(fmt.Sprintf("  Admin IDs: %d configured\n", len(c.Telegram.AdminIDList())))
	sb.WriteString(fmt.Sprintf("  Listen Addr: %s\n", c.Server.ListenAddr))
	sb.WriteString(fmt.Sprintf("  Webhook Path: %s\n", c.Server.WebhookPath))
	sb.WriteString(fmt.Sprintf("  Storage DB Path: %s\n", c.Storage.DBPath))
	sb.WriteString(fmt.Sprintf("  Reminders Enabled: %v\n", c.Reminders.Enabled))
	sb.WriteString(fmt.Sprintf("  Reminder Schedule: %s\n", c.Reminders.Schedule))
	sb.WriteString(fmt.Sprintf("  Verbose Logging: %v\n", c.Logging.Verbose))
	return sb.String()
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
