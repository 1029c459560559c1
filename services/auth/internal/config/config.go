package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location, relative to the service
// working directory.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port                       string   `yaml:"port"`
	DatabaseURL                string   `yaml:"databaseURL"`
	TokenSecret                string   `yaml:"tokenSecret"`
	TokenTTL                   string   `yaml:"tokenTTL"`
	LogLevel                   string   `yaml:"logLevel"`
	RedisAddr                  string   `yaml:"redisAddr"`
	RedisPassword              string   `yaml:"redisPassword"`
	RegisterRateLimitPerMinute int      `yaml:"registerRateLimitPerMinute"`
	LoginRateLimitPerMinute    int      `yaml:"loginRateLimitPerMinute"`
	TrustedProxies             []string `yaml:"trustedProxies"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		cfg.TokenTTL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("AUTH_REGISTER_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RegisterRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("AUTH_LOGIN_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LoginRateLimitPerMinute = n
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return errors.New("config: tokenSecret is required (set TOKEN_SECRET)")
	}
	if cfg.RegisterRateLimitPerMinute < 0 || cfg.LoginRateLimitPerMinute < 0 {
		return errors.New("config: rate limits must be >= 0")
	}
	if cfg.RegisterRateLimitPerMinute > 0 || cfg.LoginRateLimitPerMinute > 0 {
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required when rate limits are enabled")
		}
	}
	return nil
}

// ParseTokenTTL parses the optional token TTL duration string.
func ParseTokenTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid tokenTTL duration: %w", err)
	}
	return dur, nil
}
