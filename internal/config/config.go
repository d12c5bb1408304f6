package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config is built once at startup and passed explicitly to every component
// that needs it. There is no package-level instance.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"jwt"`

	Storage struct {
		Endpoint     string `yaml:"endpoint"` // custom S3-compatible endpoint (R2, minio); empty for AWS
		Region       string `yaml:"region"`
		Bucket       string `yaml:"bucket"`
		AccessKey    string `yaml:"access_key"`
		SecretKey    string `yaml:"secret_key"`
		UsePathStyle bool   `yaml:"use_path_style"`
		SignedURLTTL int    `yaml:"signed_url_ttl"` // seconds; clamped by the storage layer
	} `yaml:"storage"`

	Proof struct {
		// MaxSizeBytes caps proof uploads; the MIME allowlist is fixed in the
		// storage layer because each type needs a known file extension.
		MaxSizeBytes int64 `yaml:"max_size_bytes"`
	} `yaml:"proof"`

	Admin struct {
		// Emails on this list get the admin role: existing users are promoted
		// at startup, new registrations matching the list start as admins.
		BootstrapEmails []string `yaml:"bootstrap_emails"`
	} `yaml:"admin"`
}

// Load reads config/config.yaml (overridable via CONFIG_PATH) and then
// applies environment overrides for values that vary per deployment.
func Load() (*Config, error) {
	cfg := defaults()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file %s: %w", configPath, err)
	}

	applyEnv(cfg)

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database DSN is not configured (config file or DATABASE_URL)")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is not configured (config file or JWT_SECRET)")
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.JWT.TTLMinutes = 60
	cfg.Storage.Region = "auto"
	cfg.Storage.SignedURLTTL = 600
	cfg.Proof.MaxSizeBytes = 10 * 1024 * 1024 // 10MB
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("ADMIN_BOOTSTRAP_EMAILS"); v != "" {
		cfg.Admin.BootstrapEmails = splitAndTrim(v)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
