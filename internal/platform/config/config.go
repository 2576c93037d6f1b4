package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Session store
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SessionTTL        time.Duration
	SessionCookieName string

	// Late submission policy: reports become late at this hour on the day
	// after the report date.
	LateCutoffHour int

	// Notification sink (Telegram bridge service)
	TelegramBridgeURL string

	// CORS
	FrontendBaseURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_TTL", "12h")
	viper.SetDefault("SESSION_COOKIE_NAME", "sid")
	viper.SetDefault("LATE_CUTOFF_HOUR", 9)
	viper.SetDefault("TELEGRAM_BRIDGE_URL", "http://127.0.0.1:5001/send-report")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	sessionTTLStr := viper.GetString("SESSION_TTL")
	sessionTTL, err := time.ParseDuration(sessionTTLStr)
	if err != nil {
		sessionTTL = 12 * time.Hour
		log.Printf("Warning: Invalid value for SESSION_TTL (%q). Defaulting to %s.\n", sessionTTLStr, sessionTTL)
	}
	cfg.SessionTTL = sessionTTL

	cfg.SessionCookieName = viper.GetString("SESSION_COOKIE_NAME")
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "sid"
		log.Printf("Warning: SESSION_COOKIE_NAME not set. Defaulting to %s.\n", cfg.SessionCookieName)
	}

	cfg.LateCutoffHour = viper.GetInt("LATE_CUTOFF_HOUR")
	if cfg.LateCutoffHour < 0 || cfg.LateCutoffHour > 23 {
		log.Printf("Warning: LATE_CUTOFF_HOUR out of range (%d). Defaulting to 9.\n", cfg.LateCutoffHour)
		cfg.LateCutoffHour = 9
	}

	cfg.TelegramBridgeURL = viper.GetString("TELEGRAM_BRIDGE_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
