package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// RedisURL is the connection URL for the Redis cache.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Tracking holds the tracking sweep configuration.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Rates holds the rate calculation configuration.
	Rates RatesConfig `mapstructure:",squash"`

	// Carriers holds the carrier API endpoints.
	Carriers CarriersConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// Host is the database server hostname.
	Host string `mapstructure:"DB_HOST" default:"localhost"`
	// Port is the database connection port.
	Port int `mapstructure:"DB_PORT" default:"5432"`
	// User is the database role used for connections.
	User string `mapstructure:"DB_USER" default:"shipgrid"`
	// Password is the database password.
	Password string `mapstructure:"DB_PASSWORD"`
	// Name is the database to connect to.
	Name string `mapstructure:"DB_NAME" default:"shipgrid"`
	// SSLMode controls TLS for the database connection.
	SSLMode string `mapstructure:"DB_SSLMODE" default:"disable"`
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// TrackingConfig holds settings for the tracking sweep loop.
type TrackingConfig struct {
	// SweepIntervalSeconds is how often the sweeper polls trackable orders.
	SweepIntervalSeconds int `mapstructure:"TRACK_SWEEP_INTERVAL_SECONDS" default:"300"`
	// SweepConcurrency bounds how many orders are updated in parallel per sweep.
	SweepConcurrency int `mapstructure:"TRACK_SWEEP_CONCURRENCY" default:"8"`
	// LockTTLSeconds is the TTL of the per-order sweep lock.
	LockTTLSeconds int `mapstructure:"TRACK_LOCK_TTL_SECONDS" default:"60"`
}

// RatesConfig holds settings for the rate calculation engine.
type RatesConfig struct {
	// CarrierTimeoutMS is the per-carrier serviceability check timeout.
	CarrierTimeoutMS int `mapstructure:"RATES_CARRIER_TIMEOUT_MS" default:"2000"`
	// OverallDeadlineMS caps a whole quote computation; quotes collected so far are returned.
	OverallDeadlineMS int `mapstructure:"RATES_OVERALL_DEADLINE_MS" default:"5000"`
	// OverrideCacheTTLSeconds is how long seller pricing overrides stay cached.
	OverrideCacheTTLSeconds int `mapstructure:"RATES_OVERRIDE_CACHE_TTL_SECONDS" default:"300"`
	// PincodeCacheTTLSeconds is how long pincode lookups stay cached.
	PincodeCacheTTLSeconds int `mapstructure:"PINCODE_CACHE_TTL_SECONDS" default:"600"`
}

// CarriersConfig holds the base URLs of the carrier serviceability APIs.
type CarriersConfig struct {
	// SmartshipURL is the base URL of the Smartship API.
	SmartshipURL string `mapstructure:"CARRIER_SMARTSHIP_URL" required:"true"`
	// DelhiveryURL is the base URL of the Delhivery API.
	DelhiveryURL string `mapstructure:"CARRIER_DELHIVERY_URL" required:"true"`
	// BluedartURL is the base URL of the Bluedart API.
	BluedartURL string `mapstructure:"CARRIER_BLUEDART_URL" required:"true"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
