package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultPaths are searched when Load is called without paths
var DefaultPaths = []string{
	"./config.yaml",
	"./configs/config.yaml",
	"/etc/foodgram/config.yaml",
}

// Load reads configuration from YAML files, FOODGRAM_* environment variables and defaults
func Load(logger *zap.Logger, configPaths ...string) (*Config, error) {
	v := viper.New()
	setupViper(v)
	setDefaults(v)

	if err := loadConfigFiles(v, logger, configPaths...); err != nil {
		return nil, fmt.Errorf("failed to load config files: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.Database.Driver))

	return &cfg, nil
}

// setupViper configures viper settings
func setupViper(v *viper.Viper) {
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FOODGRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", ConfigVersion)
	v.SetDefault("environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "foodgram.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "foodgram")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("pagination.default_limit", 6)
	v.SetDefault("pagination.max_limit", 100)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "foodgram-api")

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// loadConfigFiles merges every existing file, later files win
func loadConfigFiles(v *viper.Viper, logger *zap.Logger, configPaths ...string) error {
	if len(configPaths) == 0 {
		configPaths = DefaultPaths
	}

	var loadedFiles []string
	for _, path := range configPaths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Debug("Config file not found, skipping", zap.String("path", path))
			continue
		}

		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		loadedFiles = append(loadedFiles, path)
	}

	if len(loadedFiles) == 0 {
		logger.Warn("No configuration files found, using defaults and environment variables")
	} else {
		logger.Info("Loaded configuration files", zap.Strings("files", loadedFiles))
	}
	return nil
}

func validateConfig(cfg *Config) error {
	var problems []string

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", cfg.Server.Port))
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", cfg.Database.Driver))
	}
	if cfg.Database.DSN == "" {
		problems = append(problems, "database.dsn is required")
	}
	if cfg.Auth.Secret == "" {
		problems = append(problems, "auth.secret is required")
	} else if cfg.Environment == "production" && len(cfg.Auth.Secret) < 32 {
		problems = append(problems, "auth.secret must be at least 32 characters in production")
	}
	if cfg.Auth.TokenTTL <= 0 {
		problems = append(problems, "auth.token_ttl must be positive")
	}
	if cfg.Pagination.DefaultLimit <= 0 || cfg.Pagination.MaxLimit < cfg.Pagination.DefaultLimit {
		problems = append(problems, "pagination limits are inconsistent")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
