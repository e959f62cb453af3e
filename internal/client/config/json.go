package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/steamkeeper/internal/flagx"
	"github.com/dmitrijs2005/steamkeeper/internal/timex"
)

// JsonConfig is the DTO for the JSON file. Keys missing from the file keep
// the value the earlier layers set.
type JsonConfig struct {
	DataDir       string `json:"data_dir"`
	AccountsFile  string `json:"accounts_file"`
	SettingsFile  string `json:"settings_file"`
	StorageDriver string `json:"storage_driver"`
	SQLitePath    string `json:"sqlite_path"`

	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	RequestRetries      int            `json:"request_retries"`
	AutoRefreshInterval timex.Duration `json:"auto_refresh_interval"`

	BackupDir         string `json:"backup_dir"`
	BackupS3Endpoint  string `json:"backup_s3_endpoint"`
	BackupS3Region    string `json:"backup_s3_region"`
	BackupS3AccessKey string `json:"backup_s3_access_key"`
	BackupS3SecretKey string `json:"backup_s3_secret_key"`
	BackupS3Bucket    string `json:"backup_s3_bucket"`
	BackupS3Prefix    string `json:"backup_s3_prefix"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

func toJSON(c *Config) JsonConfig {
	return JsonConfig{
		DataDir:             c.DataDir,
		AccountsFile:        c.AccountsFile,
		SettingsFile:        c.SettingsFile,
		StorageDriver:       c.StorageDriver,
		SQLitePath:          c.SQLitePath,
		APIBaseURL:          c.APIBaseURL,
		RequestTimeout:      timex.Duration{Duration: c.RequestTimeout},
		RequestRetries:      c.RequestRetries,
		AutoRefreshInterval: timex.Duration{Duration: c.AutoRefreshInterval},
		BackupDir:           c.BackupDir,
		BackupS3Endpoint:    c.BackupS3Endpoint,
		BackupS3Region:      c.BackupS3Region,
		BackupS3AccessKey:   c.BackupS3AccessKey,
		BackupS3SecretKey:   c.BackupS3SecretKey,
		BackupS3Bucket:      c.BackupS3Bucket,
		BackupS3Prefix:      c.BackupS3Prefix,
		LogLevel:            c.LogLevel,
		LogFormat:           c.LogFormat,
	}
}

func (jc JsonConfig) apply(c *Config) {
	c.DataDir = jc.DataDir
	c.AccountsFile = jc.AccountsFile
	c.SettingsFile = jc.SettingsFile
	c.StorageDriver = jc.StorageDriver
	c.SQLitePath = jc.SQLitePath
	c.APIBaseURL = jc.APIBaseURL
	c.RequestTimeout = jc.RequestTimeout.Duration
	c.RequestRetries = jc.RequestRetries
	c.AutoRefreshInterval = jc.AutoRefreshInterval.Duration
	c.BackupDir = jc.BackupDir
	c.BackupS3Endpoint = jc.BackupS3Endpoint
	c.BackupS3Region = jc.BackupS3Region
	c.BackupS3AccessKey = jc.BackupS3AccessKey
	c.BackupS3SecretKey = jc.BackupS3SecretKey
	c.BackupS3Bucket = jc.BackupS3Bucket
	c.BackupS3Prefix = jc.BackupS3Prefix
	c.LogLevel = jc.LogLevel
	c.LogFormat = jc.LogFormat
}

// parseJSON overlays cfg with the file named by -c / -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := toJSON(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	jc.apply(cfg)
	return nil
}
