// Package config loads runtime configuration for the SteamKeeper CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. A .env file in the working directory, then STEAMKEEPER_* environment
//     variables.
//  4. Command-line flags.
//
// File paths left empty after all layers are placed under DataDir.
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "data_dir": "/home/me/.config/steamkeeper",
//	  "storage_driver": "sqlite",
//	  "request_timeout": "15s",
//	  "auto_refresh_interval": "30m",
//	  "backup_s3_bucket": "keeper"
//	}
//
// # Environment
//
// Every key is also read from STEAMKEEPER_<KEY>, e.g.
// STEAMKEEPER_STORAGE_DRIVER=sqlite or STEAMKEEPER_BACKUP_S3_SECRET_KEY.
package config
