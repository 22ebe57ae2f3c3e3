package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Hosted data API (PostgREST).
	SupabaseURL    string `mapstructure:"SUPABASE_URL"`
	SupabaseKey    string `mapstructure:"SUPABASE_KEY"`
	CatalogSource  string `mapstructure:"CATALOG_SOURCE"`
	CatalogTimeout int    `mapstructure:"CATALOG_TIMEOUT_SECONDS"`
	DBURL          string `mapstructure:"DB_URL"`

	// Persisted session state.
	StateStore     string `mapstructure:"STATE_STORE"`
	StateNamespace string `mapstructure:"STATE_NAMESPACE"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`

	SessionSecret     string `mapstructure:"SESSION_SECRET"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`
	RetentionDays     int    `mapstructure:"STATE_RETENTION_DAYS"`
	JanitorSchedule   string `mapstructure:"JANITOR_SCHEDULE"`

	BookingBaseURL    string `mapstructure:"BOOKING_BASE_URL"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Optional SMS alert when a visitor proceeds to booking.
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`
	ShopAlertPhone    string `mapstructure:"SHOP_ALERT_PHONE"`
}

var AppConfig Config

// LoadConfig reads configuration from the environment (and an optional
// config.yaml) into AppConfig.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_KEY", "")
	v.SetDefault("CATALOG_SOURCE", "rest")
	v.SetDefault("CATALOG_TIMEOUT_SECONDS", 10)
	v.SetDefault("DB_URL", "")
	v.SetDefault("STATE_STORE", "memory")
	v.SetDefault("STATE_NAMESPACE", "tint")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL_MINUTES", 120)
	v.SetDefault("STATE_RETENTION_DAYS", 30)
	v.SetDefault("JANITOR_SCHEDULE", "@every 10m")
	v.SetDefault("BOOKING_BASE_URL", "https://square.site/book/LSV7HNEXSK93D/nan9pdck4sh1qp")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")
	v.SetDefault("SHOP_ALERT_PHONE", "")
}

// Validate reports every missing required value. Callers treat a non-nil
// result as fatal.
func (c Config) Validate() error {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if c.CatalogSource == "postgres" && c.DBURL == "" {
		missing = append(missing, "DB_URL")
	}
	if c.StateStore == "postgres" && c.DBURL == "" {
		missing = append(missing, "DB_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(dedupe(missing), ", "))
	}

	switch c.CatalogSource {
	case "rest", "postgres":
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q", c.CatalogSource)
	}
	switch c.StateStore {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("invalid STATE_STORE %q", c.StateStore)
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioPhoneNumber != "" && c.ShopAlertPhone != ""
}

func IsProduction() bool {
	return AppConfig.Env == "production"
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
