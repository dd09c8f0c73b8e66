package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GajendraSingh33/smart-prep/internal/utils"
	"github.com/spf13/viper"
)

// app config, read from the environment and an optional .env file
type Config struct {
	Port    string
	LogMode string

	Store   Store
	Redis   Redis
	Extract Extract
	Export  Export
	CORS    []string
}

type Store struct {
	Driver string // file | sqlite | postgres
	Path   string
	DSN    string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type Extract struct {
	UploadMaxBytes int64
	Concurrency    int
}

type Export struct {
	Enabled  bool
	Schedule string
	Dir      string
	Keep     int
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"LOG_MODE":             "production",
	"STORE_DRIVER":         "file",
	"STORE_PATH":           "data/questions.json",
	"DATABASE_DSN":         "",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"DOC_CACHE_TTL":        "24h",
	"UPLOAD_MAX_BYTES":     int64(32 << 20),
	"EXTRACT_CONCURRENCY":  4,
	"CORS_ALLOWED_ORIGINS": "http://localhost:3000",
	"BANK_EXPORT_ENABLED":  false,
	"BANK_EXPORT_SCHEDULE": "0 2 * * *",
	"BANK_EXPORT_DIR":      "./exports",
	"BANK_EXPORT_KEEP":     7,
}

// LoadConfig reads configuration; dir is searched for a .env file, which is optional.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(".env")
	v.SetConfigType("env")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	config := &Config{
		Port:    v.GetString("PORT"),
		LogMode: v.GetString("LOG_MODE"),
		Store: Store{
			Driver: v.GetString("STORE_DRIVER"),
			Path:   v.GetString("STORE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: v.GetDuration("DOC_CACHE_TTL"),
		},
		Extract: Extract{
			UploadMaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
			Concurrency:    v.GetInt("EXTRACT_CONCURRENCY"),
		},
		Export: Export{
			Enabled:  v.GetBool("BANK_EXPORT_ENABLED"),
			Schedule: v.GetString("BANK_EXPORT_SCHEDULE"),
			Dir:      v.GetString("BANK_EXPORT_DIR"),
			Keep:     v.GetInt("BANK_EXPORT_KEEP"),
		},
		CORS: utils.CSV(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case "file":
		if config.Store.Path == "" {
			return errors.New("STORE_PATH is required for the file store")
		}
	case "sqlite":
		if config.Store.DSN == "" {
			config.Store.DSN = "data/questions.db"
		}
	case "postgres":
		if config.Store.DSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres store")
		}
	default:
		return errors.New("unsupported STORE_DRIVER: " + config.Store.Driver + ". Currently supported: file, sqlite, postgres")
	}

	if config.LogMode != "production" && config.LogMode != "development" {
		return errors.New("unsupported LOG_MODE: " + config.LogMode)
	}
	if config.Extract.Concurrency <= 0 {
		return errors.New("EXTRACT_CONCURRENCY must be positive")
	}
	if config.Extract.UploadMaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	if config.Export.Enabled && strings.TrimSpace(config.Export.Schedule) == "" {
		return errors.New("BANK_EXPORT_SCHEDULE is required when the exporter is enabled")
	}
	return nil
}
