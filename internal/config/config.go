package config

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	DBType          string
	DBDSN           string
	FileFasts       string
	FileProfiles    string
	FileLeaderboard string

	AuthToken      string
	AuthServiceURL string

	BillingURL    string
	BillingSecret string

	SchedulerInterval time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{
			Env:               getEnv("APP_ENV", "development"),
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			Port:              getEnv("PORT", "8090"),
			DBType:            getEnv("STORAGE_BACKEND", "file"),
			DBDSN:             getEnv("POSTGRES_DSN", ""),
			FileFasts:         getEnv("FASTS_FILE", "data/fasts.json"),
			FileProfiles:      getEnv("PROFILES_FILE", "data/profiles.json"),
			FileLeaderboard:   getEnv("LEADERBOARD_FILE", "data/leaderboard.json"),
			AuthToken:         getEnv("AUTH_TOKEN", "MOCK-TOKEN"),
			AuthServiceURL:    getEnv("AUTH_SERVICE_URL", ""),
			BillingURL:        getEnv("BILLING_URL", ""),
			BillingSecret:     getEnv("BILLING_SECRET", ""),
			SchedulerInterval: getEnvDuration("SCHEDULER_INTERVAL_SECONDS", time.Minute),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileFasts == "" || c.FileProfiles == "" || c.FileLeaderboard == "") {
		return errors.New("File storage requires FASTS_FILE, PROFILES_FILE and LEADERBOARD_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.SchedulerInterval <= 0 {
		return errors.New("SCHEDULER_INTERVAL_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
