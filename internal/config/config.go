package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Meta       Meta       `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	MetricSync MetricSync `mapstructure:",squash"`
	Audit      Audit      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL     string `mapstructure:"meta_base_url"`
	URL         string `mapstructure:"meta_url"`
	Version     string `mapstructure:"meta_version"`
	AccessToken string `mapstructure:"meta_access_token"`
	// RequestsPerSecond throttles calls against the Graph API client-side.
	RequestsPerSecond float64 `mapstructure:"meta_requests_per_second"`
	TimeoutSeconds    int     `mapstructure:"meta_timeout_seconds"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
	// Single service account; the password is supplied as a bcrypt hash.
	ServiceUser         string `mapstructure:"auth_service_user"`
	ServicePasswordHash string `mapstructure:"auth_service_password_hash"`
	TokenTTLHours       int    `mapstructure:"auth_token_ttl_hours"`
}

type MetricSync struct {
	CronSchedule            string `mapstructure:"metric_sync_cron"`
	LookbackDays            int    `mapstructure:"metric_sync_lookback_days"`
	MaxConcurrentAccounts   int    `mapstructure:"metric_sync_max_concurrent_accounts"`
	MaxConcurrentPartitions int    `mapstructure:"metric_sync_max_concurrent_partitions"`
	ChunkDays               int    `mapstructure:"metric_sync_chunk_days"`
	PageSize                int    `mapstructure:"metric_sync_page_size"`
	RetryMax                int    `mapstructure:"metric_sync_retry_max"`
	RetryInitialWaitMS      int    `mapstructure:"metric_sync_retry_initial_wait_ms"`
	RetryMaxWaitMS          int    `mapstructure:"metric_sync_retry_max_wait_ms"`
	// RetentionDays prunes metric records older than the given age after each
	// scheduled sync. Zero disables pruning.
	RetentionDays int  `mapstructure:"metric_sync_retention_days"`
	Enabled       bool `mapstructure:"metric_sync_enabled"`
}

type Audit struct {
	ConfigPath           string `mapstructure:"audit_config_path"`
	DefaultPrimaryWindow string `mapstructure:"audit_default_primary_window"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/adaudit")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("META_REQUESTS_PER_SECOND", 2.0)
	viper.SetDefault("META_TIMEOUT_SECONDS", 60)

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")
	viper.SetDefault("AUTH_SERVICE_USER", "audit-service")
	viper.SetDefault("AUTH_SERVICE_PASSWORD_HASH", "")
	viper.SetDefault("AUTH_TOKEN_TTL_HOURS", 12)

	viper.SetDefault("METRIC_SYNC_CRON", "0 3 * * *") // every day at 3am
	viper.SetDefault("METRIC_SYNC_LOOKBACK_DAYS", 7)
	viper.SetDefault("METRIC_SYNC_MAX_CONCURRENT_ACCOUNTS", 3)
	viper.SetDefault("METRIC_SYNC_MAX_CONCURRENT_PARTITIONS", 4)
	viper.SetDefault("METRIC_SYNC_CHUNK_DAYS", 30)
	viper.SetDefault("METRIC_SYNC_PAGE_SIZE", 500)
	viper.SetDefault("METRIC_SYNC_RETRY_MAX", 3)
	viper.SetDefault("METRIC_SYNC_RETRY_INITIAL_WAIT_MS", 500)
	viper.SetDefault("METRIC_SYNC_RETRY_MAX_WAIT_MS", 30000)
	viper.SetDefault("METRIC_SYNC_RETENTION_DAYS", 0)
	viper.SetDefault("METRIC_SYNC_ENABLED", false)

	viper.SetDefault("AUDIT_CONFIG_PATH", "configs/audit.yaml")
	viper.SetDefault("AUDIT_DEFAULT_PRIMARY_WINDOW", "YTD")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Using variables loaded by godotenv (viper could not read .env):", err)
	} else {
		logrus.Info(".env file read by viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile loads the .env file with godotenv, trying a few locations so
// the binary works both from the repo root and from cmd/api.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Could not determine the current directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info(".env loaded from:", location)
			return
		}
	}

	logrus.Warn("No .env file found in any known location")
}
