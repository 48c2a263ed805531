package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Warn     WarnConfig     `mapstructure:"warn"`
	Data     DataConfig     `mapstructure:"data"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Telegram bot configuration
type BotConfig struct {
	Token    string        `mapstructure:"token"`
	Language string        `mapstructure:"language"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
}

// webhook server configuration, long polling is used when Endpoint is empty
type WebhookConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	ListenPort string `mapstructure:"listen_port"`
	DebugPath  string `mapstructure:"debug_path"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
}

// WarnConfig holds the moderation settings and the data exchange identity
type WarnConfig struct {
	ProjectName      string        `mapstructure:"project_name"`
	ProjectLink      string        `mapstructure:"project_link"`
	Version          string        `mapstructure:"version"`
	Prefixes         []string      `mapstructure:"prefixes"`
	SenderName       string        `mapstructure:"sender_name"`
	OwnerID          int64         `mapstructure:"owner_id"`
	BotIDs           []int64       `mapstructure:"bot_ids"`
	TestGroupID      int64         `mapstructure:"test_group_id"`
	DebugChannelID   int64         `mapstructure:"debug_channel_id"`
	ExchangeChannel  int64         `mapstructure:"exchange_channel_id"`
	ExchangeInterval int           `mapstructure:"exchange_interval"`
	Backup           bool          `mapstructure:"backup"`
	DefaultConfig    DefaultConfig `mapstructure:"default_config"`
}

// DefaultConfig is the group configuration applied to new groups
type DefaultConfig struct {
	Limit        int  `mapstructure:"limit"`
	Mention      bool `mapstructure:"mention"`
	ReportAuto   bool `mapstructure:"report_auto"`
	ReportManual bool `mapstructure:"report_manual"`
}

// flat data file settings
type DataConfig struct {
	Directory string `mapstructure:"directory"`
}

// logging configuration
type LoggerConfig struct {
	Directory  string            `mapstructure:"directory"`
	Rotation   LogRotationConfig `mapstructure:"rotation"`
	Timezone   string            `mapstructure:"timezone"`
	Format     string            `mapstructure:"format"`
	TimeFormat string            `mapstructure:"time_format"`
	Level      string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Listen  string `mapstructure:"listen"`
}

// TokenEnv overrides bot.token when set, either in the environment or in .env
const TokenEnv = "TG_WARN_BOT_TOKEN"

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Unmarshal configuration
	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if token := os.Getenv(TokenEnv); token != "" {
		loaded.Bot.Token = token
	}

	if err := loaded.validate(); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

// Set replaces the global configuration, used by tests and tools
func Set(c *Config) {
	cfg = c
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Warn.SenderName) == "" {
		return fmt.Errorf("warn.sender_name is required")
	}

	limit := c.Warn.DefaultConfig.Limit
	if limit < 2 || limit > 5 {
		return fmt.Errorf("warn.default_config.limit must be between 2 and 5, got %d", limit)
	}

	if len(c.Warn.Prefixes) == 0 {
		return fmt.Errorf("warn.prefixes must not be empty")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.language", "zh_CN")
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.debug_path", "/debug")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	v.SetDefault("warn.project_name", "WARN")
	v.SetDefault("warn.version", "0.1.0")
	v.SetDefault("warn.prefixes", []string{"/", "!"})
	v.SetDefault("warn.sender_name", "WARN")
	v.SetDefault("warn.exchange_interval", 5)
	v.SetDefault("warn.backup", false)
	v.SetDefault("warn.default_config.limit", 3)
	v.SetDefault("warn.default_config.mention", false)
	v.SetDefault("warn.default_config.report_auto", false)
	v.SetDefault("warn.default_config.report_manual", false)

	v.SetDefault("data.directory", "data")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.timezone", "Local")
	v.SetDefault("logger.format", "[%{level}] %{time} %{file}:%{line}: %{message}")
	v.SetDefault("logger.time_format", "2006/01/02 15:04:05")
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.charset", "utf8mb4")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.listen", "127.0.0.1:9079")
}
