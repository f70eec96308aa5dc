package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	// BackendURL locates the REST backend every store talks to. It is the
	// one required setting; everything else has a workable default.
	BackendURL string `mapstructure:"BACKEND_URL"`

	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	PageSize          int    `mapstructure:"PAGE_SIZE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Mock API settings (local development and tests only).
	MockAPIPort string `mapstructure:"MOCK_API_PORT"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PAGE_SIZE", 10)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("MOCK_API_PORT", "8080")
	viper.SetDefault("JWT_SECRET", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
