package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// StorageConfig configures the local snapshot store. Driver is one of
// "file", "sqlite" or "memory"; state never leaves the device profile.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ScoringConfig carries the confidence scoring weights. Defaults match
// the community scoring rules; see services.DefaultScoringConfig.
type ScoringConfig struct {
	BaseScore          int `mapstructure:"base_score"`
	RelatedWeight      int `mapstructure:"related_weight"`
	ReportCountWeight  int `mapstructure:"report_count_weight"`
	DuplicateIncrement int `mapstructure:"duplicate_increment"`
	VerifyThreshold    int `mapstructure:"verify_threshold"`
}

type ClassifierConfig struct {
	APIURL      string        `mapstructure:"api_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mzansishield")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("MZANSISHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("server.host", "MZANSISHIELD_SERVER_HOST")
	v.BindEnv("server.http_port", "MZANSISHIELD_SERVER_HTTP_PORT")
	v.BindEnv("storage.driver", "MZANSISHIELD_STORAGE_DRIVER")
	v.BindEnv("storage.dir", "MZANSISHIELD_STORAGE_DIR")
	v.BindEnv("storage.sqlite_path", "MZANSISHIELD_STORAGE_SQLITE_PATH")
	v.BindEnv("classifier.api_url", "MZANSISHIELD_CLASSIFIER_API_URL")
	v.BindEnv("classifier.api_key", "MZANSISHIELD_CLASSIFIER_API_KEY")
	v.BindEnv("classifier.model", "MZANSISHIELD_CLASSIFIER_MODEL")
	v.BindEnv("app.environment", "MZANSISHIELD_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env cover a local run
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mzansishield")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.http_port", 8086)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 120)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.sqlite_path", "./data/mzansishield.db")

	v.SetDefault("scoring.base_score", 10)
	v.SetDefault("scoring.related_weight", 15)
	v.SetDefault("scoring.report_count_weight", 5)
	v.SetDefault("scoring.duplicate_increment", 20)
	v.SetDefault("scoring.verify_threshold", 70)

	v.SetDefault("classifier.api_url", "https://ai.gateway.lovable.dev/v1/chat/completions")
	v.SetDefault("classifier.model", "google/gemini-2.5-flash")
	v.SetDefault("classifier.temperature", 0.3)
	v.SetDefault("classifier.max_tokens", 1024)
	v.SetDefault("classifier.timeout", 5*time.Second)
}
