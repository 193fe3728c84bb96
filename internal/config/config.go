// Package config loads healthvault configuration from baseDir/config.json
// with environment overrides, including a .env file when present.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend names for the vault store.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Config holds application configuration.
type Config struct {
	// VaultDir is the directory holding the persisted JSON files when the
	// fs backend is active. Defaults to baseDir/data.
	VaultDir string `json:"vault_dir,omitempty"`

	// Backend selects the vault store: "fs" (default) or "s3".
	Backend string `json:"backend,omitempty"`

	// AuthorizedSender, when set, restricts ingestion to issues whose sender
	// matches it exactly.
	AuthorizedSender string `json:"authorized_sender,omitempty"`

	S3     S3Config     `json:"s3,omitempty"`
	Notify NotifyConfig `json:"notify,omitempty"`
}

// S3Config configures the S3 backend. Credentials are usually supplied via
// environment rather than config.json.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty"`
	Region          string `json:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty"`
	UsePathStyle    bool   `json:"use_path_style,omitempty"`
	KeyPrefix       string `json:"key_prefix,omitempty"`
}

// NotifyConfig configures the optional issue-comment notifier. An empty URL
// disables notification.
type NotifyConfig struct {
	CommentsURL string `json:"comments_url,omitempty"`
	Token       string `json:"token,omitempty"`
}

// DefaultConfig returns the default configuration for the given base dir.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		VaultDir: filepath.Join(baseDir, "data"),
		Backend:  BackendFS,
	}
}

// Load loads configuration from baseDir/config.json, then applies environment
// overrides. A missing config file yields the defaults. A .env file in the
// working directory is loaded first (ignored if absent); variables already
// set in the environment win over .env values.
func Load(baseDir string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig(baseDir)

	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if cfg.Backend == "" {
		cfg.Backend = BackendFS
	}
	return cfg, nil
}

// applyEnv overrides config fields from the environment.
func applyEnv(cfg *Config) {
	setString(&cfg.VaultDir, "VAULT_DIR")
	setString(&cfg.Backend, "VAULT_BACKEND")
	setString(&cfg.AuthorizedSender, "VAULT_AUTHORIZED_SENDER")

	setString(&cfg.S3.Bucket, "VAULT_S3_BUCKET")
	setString(&cfg.S3.Region, "VAULT_S3_REGION")
	setString(&cfg.S3.Endpoint, "VAULT_S3_ENDPOINT")
	setString(&cfg.S3.AccessKeyID, "VAULT_S3_ACCESS_KEY_ID")
	setString(&cfg.S3.SecretAccessKey, "VAULT_S3_SECRET_ACCESS_KEY")
	setString(&cfg.S3.KeyPrefix, "VAULT_S3_KEY_PREFIX")
	setBool(&cfg.S3.UsePathStyle, "VAULT_S3_USE_PATH_STYLE")

	setString(&cfg.Notify.CommentsURL, "VAULT_NOTIFY_URL")
	setString(&cfg.Notify.Token, "VAULT_NOTIFY_TOKEN")
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*target = parsed
		}
	}
}
