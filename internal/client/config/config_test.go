package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withUserConfigDir(t *testing.T, dir string) {
	t.Helper()
	orig := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDir = orig })
}

func withoutDotEnv(t *testing.T) {
	t.Helper()
	orig := dotEnvFile
	dotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { dotEnvFile = orig })
}

func TestLoadDefaults(t *testing.T) {
	withUserConfigDir(t, "/home/u/.config")

	var c Config
	c.LoadDefaults()

	assert.Equal(t, filepath.Join("/home/u/.config", "steamkeeper"), c.DataDir)
	assert.Equal(t, "json", c.StorageDriver)
	assert.Equal(t, "https://api.steampowered.com", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 2, c.RequestRetries)
	assert.Zero(t, c.AutoRefreshInterval)
	assert.Equal(t, "warn", c.LogLevel)
	assert.False(t, c.S3Enabled())
}

func TestLoadConfig_DefaultsResolvePaths(t *testing.T) {
	withUserConfigDir(t, "/cfg")
	withoutDotEnv(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	dir := filepath.Join("/cfg", "steamkeeper")
	assert.Equal(t, filepath.Join(dir, "accounts.json"), cfg.AccountsFile)
	assert.Equal(t, filepath.Join(dir, "settings.json"), cfg.SettingsFile)
	assert.Equal(t, filepath.Join(dir, "steamkeeper.db"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join(dir, "backups"), cfg.BackupDir)
}

func TestLoadConfig_LayerPrecedence(t *testing.T) {
	withUserConfigDir(t, "/cfg")
	withoutDotEnv(t)

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"data_dir": "/from-json",
		"storage_driver": "sqlite",
		"request_timeout": "5s",
		"auto_refresh_interval": 60000000000,
		"log_level": "info",
		"backup_s3_bucket": "json-bucket"
	}`), 0o600))

	t.Setenv("STEAMKEEPER_LOG_LEVEL", "debug")
	t.Setenv("STEAMKEEPER_REQUEST_TIMEOUT", "7s")
	t.Setenv("STEAMKEEPER_BACKUP_S3_SECRET_KEY", "s3cr3t")

	cfg, err := LoadConfig([]string{"-c", path, "-timeout", "9s", "-accounts", "/flags/a.json", "-unknown", "x"})
	require.NoError(t, err)

	assert.Equal(t, "/from-json", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.StorageDriver, "json overrides defaults")
	assert.Equal(t, time.Minute, cfg.AutoRefreshInterval, "integer nanoseconds")
	assert.Equal(t, "debug", cfg.LogLevel, "env overrides json")
	assert.Equal(t, 9*time.Second, cfg.RequestTimeout, "flags override env")
	assert.Equal(t, "/flags/a.json", cfg.AccountsFile)
	assert.Equal(t, filepath.Join("/from-json", "settings.json"), cfg.SettingsFile)
	assert.Equal(t, "s3cr3t", cfg.BackupS3SecretKey)
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, "https://api.steampowered.com", cfg.APIBaseURL, "keys missing from json keep defaults")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	withUserConfigDir(t, "/cfg")

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("STEAMKEEPER_STORAGE_DRIVER=sqlite\nSTEAMKEEPER_REQUEST_RETRIES=5\n"), 0o600))
	orig := dotEnvFile
	dotEnvFile = envPath
	t.Cleanup(func() {
		dotEnvFile = orig
		_ = os.Unsetenv("STEAMKEEPER_STORAGE_DRIVER")
		_ = os.Unsetenv("STEAMKEEPER_REQUEST_RETRIES")
	})

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, 5, cfg.RequestRetries)
}

func TestLoadConfig_Errors(t *testing.T) {
	withUserConfigDir(t, "/cfg")
	withoutDotEnv(t)

	badJSON := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte(`{"request_timeout": true}`), 0o600))

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "missing json file", args: []string{"-config", "/does/not/exist.json"}},
		{name: "bad json duration", args: []string{"-c", badJSON}},
		{name: "bad flag duration", args: []string{"-timeout", "soon"}},
		{name: "unknown driver", args: []string{"-storage", "mongo"}},
		{name: "zero timeout", args: []string{"-timeout", "0s"}},
		{name: "negative refresh", args: []string{"-refresh", "-1m"}},
		{name: "bad env int", env: map[string]string{"STEAMKEEPER_REQUEST_RETRIES": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(tt.args)
			require.Error(t, err)
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	want := *cfg
	want.DataDir = "/d"
	want.StorageDriver = "sqlite"
	want.SQLitePath = "/d/x.db"
	want.AutoRefreshInterval = 30 * time.Minute
	want.LogFormat = "json"

	err := parseFlags(cfg, []string{"-d", "/d", "-storage=sqlite", "-db", "/d/x.db", "-refresh", "30m", "-log-format", "json", "-c", "ignored.json"})
	require.NoError(t, err)
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}
