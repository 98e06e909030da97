package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBName      string `mapstructure:"DB_NAME"`

	AdminAPIKey   string        `mapstructure:"ADMIN_API_KEY"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	AdminTokenTTL time.Duration `mapstructure:"ADMIN_TOKEN_TTL"`
	CORSOrigins   string        `mapstructure:"CORS_ORIGINS"`

	StrictStatus  bool          `mapstructure:"STRICT_STATUS"`
	NotifyAsync   bool          `mapstructure:"NOTIFY_ASYNC"`
	ShutdownGrace time.Duration `mapstructure:"SHUTDOWN_GRACE"`

	EmailEnabled bool   `mapstructure:"EMAIL_ENABLED"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`
	EmailTo      string `mapstructure:"EMAIL_TO"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	SMSEnabled    bool   `mapstructure:"SMS_ENABLED"`
	SMSAccountSID string `mapstructure:"SMS_ACCOUNT_SID"`
	SMSAuthToken  string `mapstructure:"SMS_AUTH_TOKEN"`
	SMSFromNumber string `mapstructure:"SMS_FROM_NUMBER"`
	SMSToNumber   string `mapstructure:"SMS_TO_NUMBER"`

	DiscordEnabled                bool   `mapstructure:"DISCORD_ENABLED"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`

	AMQPURL     string `mapstructure:"AMQP_URL"`
	EventsQueue string `mapstructure:"EVENTS_QUEUE"`

	RateLimitEnabled   bool   `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int    `mapstructure:"RATE_LIMIT_BURST"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`

	RestaurantName  string `mapstructure:"RESTAURANT_NAME"`
	RestaurantPhone string `mapstructure:"RESTAURANT_PHONE"`
	PricePerPerson  int    `mapstructure:"PRICE_PER_PERSON"`

	// InvalidFlags lists boolean settings whose value could not be parsed and
	// fell back to their default.
	InvalidFlags []string `mapstructure:"-"`
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"APP_ENV":               "development",
	"LOG_LEVEL":             "info",
	"ADMIN_TOKEN_TTL":       "12h",
	"CORS_ORIGINS":          "http://localhost:3000,http://127.0.0.1:3000",
	"STRICT_STATUS":         false,
	"NOTIFY_ASYNC":          false,
	"SHUTDOWN_GRACE":        "10s",
	"EMAIL_ENABLED":         false,
	"SMTP_PORT":             587,
	"SMS_ENABLED":           false,
	"DISCORD_ENABLED":       false,
	"EVENTS_QUEUE":          "reservation.events",
	"RATE_LIMIT_ENABLED":    true,
	"RATE_LIMIT_PER_MINUTE": 10,
	"RATE_LIMIT_BURST":      3,
	"REDIS_DB":              0,
	"RESTAURANT_NAME":       "Dar Al Achab",
	"RESTAURANT_PHONE":      "05 37 20 20 37",
	"PRICE_PER_PERSON":      200,
}

var envKeys = []string{
	"ADMIN_API_KEY", "JWT_SECRET", "DB_NAME",
	"EMAIL_FROM", "EMAIL_TO", "SMTP_HOST", "SMTP_USERNAME", "SMTP_PASSWORD",
	"SMS_ACCOUNT_SID", "SMS_AUTH_TOKEN", "SMS_FROM_NUMBER", "SMS_TO_NUMBER",
	"DISCORD_BOT_TOKEN", "DISCORD_NOTIFICATIONS_CHANNEL_ID",
	"AMQP_URL", "REDIS_ADDR", "REDIS_PASSWORD",
}

// boolFlags never fail startup. A value strconv.ParseBool rejects, such as
// EMAIL_ENABLED=yes, leaves the flag at its default.
var boolFlags = []string{
	"STRICT_STATUS", "NOTIFY_ASYNC", "RATE_LIMIT_ENABLED",
	"EMAIL_ENABLED", "SMS_ENABLED", "DISCORD_ENABLED",
}

func lenientBools(v *viper.Viper) []string {
	var invalid []string
	for _, key := range boolFlags {
		raw := strings.TrimSpace(v.GetString(key))
		b, err := strconv.ParseBool(raw)
		if err != nil {
			b = defaults[key].(bool)
			invalid = append(invalid, key+"="+raw)
		}
		v.Set(key, b)
	}
	return invalid
}

// LoadConfig reads the process environment. It fails when the persistence
// settings are missing so the server never starts half-configured.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		v.BindEnv(key)
	}
	for _, key := range envKeys {
		v.BindEnv(key)
	}
	// MONGO_URL is the historical name of the connection string.
	v.BindEnv("DATABASE_URL", "DATABASE_URL", "MONGO_URL")

	v.AutomaticEnv()
	invalid := lenientBools(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.InvalidFlags = invalid
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL (or MONGO_URL) is required")
	ErrMissingDBName      = errors.New("DB_NAME is required")
)

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return ErrMissingDatabaseURL
	}
	if strings.TrimSpace(c.DBName) == "" {
		return ErrMissingDBName
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// TokenSecret is the HMAC key for admin session tokens.
func (c *Config) TokenSecret() string {
	if c.JWTSecret != "" {
		return c.JWTSecret
	}
	return c.AdminAPIKey
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}
