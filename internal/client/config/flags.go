package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/steamkeeper/internal/flagx"
)

var knownFlags = []string{
	"-d", "-accounts", "-settings", "-storage", "-db",
	"-api-url", "-timeout", "-retries", "-refresh",
	"-backup-dir", "-log-level", "-log-format",
}

// parseFlags overlays cfg with command-line flags.
//
//	-d string          data directory
//	-accounts string   accounts JSON file
//	-settings string   settings JSON file
//	-storage string    json or sqlite
//	-db string         sqlite database path
//	-api-url string    Steam Web API base URL
//	-timeout duration  request timeout
//	-retries int       request retries
//	-refresh duration  auto refresh interval, 0 disables
//	-backup-dir string local backup directory
//	-log-level string  debug, info, warn or error
//	-log-format string text or json
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("steamkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.AccountsFile, "accounts", cfg.AccountsFile, "accounts JSON file")
	fs.StringVar(&cfg.SettingsFile, "settings", cfg.SettingsFile, "settings JSON file")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: json or sqlite")
	fs.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "sqlite database path")
	fs.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "Steam Web API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")
	fs.IntVar(&cfg.RequestRetries, "retries", cfg.RequestRetries, "request retries")
	fs.DurationVar(&cfg.AutoRefreshInterval, "refresh", cfg.AutoRefreshInterval, "auto refresh interval (0 disables)")
	fs.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "local backup directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
