package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/client/steamapi"
)

// Config holds runtime settings for the CLI.
type Config struct {
	DataDir       string `envconfig:"DATA_DIR"`
	AccountsFile  string `envconfig:"ACCOUNTS_FILE"`
	SettingsFile  string `envconfig:"SETTINGS_FILE"`
	StorageDriver string `envconfig:"STORAGE_DRIVER"`
	SQLitePath    string `envconfig:"SQLITE_PATH"`

	APIBaseURL          string        `envconfig:"API_BASE_URL"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT"`
	RequestRetries      int           `envconfig:"REQUEST_RETRIES"`
	AutoRefreshInterval time.Duration `envconfig:"AUTO_REFRESH_INTERVAL"`

	BackupDir         string `envconfig:"BACKUP_DIR"`
	BackupS3Endpoint  string `envconfig:"BACKUP_S3_ENDPOINT"`
	BackupS3Region    string `envconfig:"BACKUP_S3_REGION"`
	BackupS3AccessKey string `envconfig:"BACKUP_S3_ACCESS_KEY"`
	BackupS3SecretKey string `envconfig:"BACKUP_S3_SECRET_KEY"`
	BackupS3Bucket    string `envconfig:"BACKUP_S3_BUCKET"`
	BackupS3Prefix    string `envconfig:"BACKUP_S3_PREFIX"`

	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// userConfigDir is a seam for tests.
var userConfigDir = os.UserConfigDir

// LoadDefaults populates c with defaults. Auto refresh is off by default.
func (c *Config) LoadDefaults() {
	c.DataDir = "."
	if dir, err := userConfigDir(); err == nil && dir != "" {
		c.DataDir = filepath.Join(dir, "steamkeeper")
	}
	c.StorageDriver = "json"
	c.APIBaseURL = steamapi.DefaultBaseURL
	c.RequestTimeout = 15 * time.Second
	c.RequestRetries = 2
	c.AutoRefreshInterval = 0
	c.BackupS3Region = "us-east-1"
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// resolvePaths fills empty file locations from DataDir.
func (c *Config) resolvePaths() {
	if c.AccountsFile == "" {
		c.AccountsFile = filepath.Join(c.DataDir, "accounts.json")
	}
	if c.SettingsFile == "" {
		c.SettingsFile = filepath.Join(c.DataDir, "settings.json")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "steamkeeper.db")
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.DataDir, "backups")
	}
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown storage driver %q (want json or sqlite)", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RequestRetries < 0 {
		return fmt.Errorf("request retries must not be negative, got %d", c.RequestRetries)
	}
	if c.AutoRefreshInterval < 0 {
		return fmt.Errorf("auto refresh interval must not be negative, got %s", c.AutoRefreshInterval)
	}
	return nil
}

// S3Enabled reports whether backups go to S3 instead of BackupDir.
func (c *Config) S3Enabled() bool {
	return c.BackupS3Bucket != ""
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and args (without the program name), in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.resolvePaths()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
