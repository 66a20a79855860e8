package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Events    EventsConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Pharmacy  PharmacyConfig
	Draft     DraftConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
}

type StorageConfig struct {
	Driver   string
	SeedDemo bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type EventsConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
	Timeout time.Duration
}

type PharmacyConfig struct {
	StoreName         string
	Address           string
	Phone             string
	DefaultVATPercent float64
	ExpiryWarningDays int
	LowStockDefault   int
}

type DraftConfig struct {
	TTL time.Duration
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	return fromViper(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pharmacare-pos")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "pharmacare")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Dhaka")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REPORT_CACHE_TTL_SECONDS", 60)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "pharmacare")
	v.SetDefault("AMQP_QUEUE", "pharmacare.events")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("PRINTER_TIMEOUT_SECONDS", 5)
	v.SetDefault("PHARMACY_NAME", "PharmaCare")
	v.SetDefault("PHARMACY_ADDRESS", "")
	v.SetDefault("PHARMACY_PHONE", "")
	v.SetDefault("DEFAULT_VAT_PERCENT", 0)
	v.SetDefault("EXPIRY_WARNING_DAYS", 90)
	v.SetDefault("LOW_STOCK_DEFAULT", 10)
	v.SetDefault("DRAFT_TTL_MINUTES", 120)
}

func fromViper(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			Debug:    v.GetBool("APP_DEBUG"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
			SeedDemo: v.GetBool("SEED_DEMO_DATA"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: time.Duration(v.GetInt("REPORT_CACHE_TTL_SECONDS")) * time.Second,
		},
		Events: EventsConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
			Queue:    v.GetString("AMQP_QUEUE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:    v.GetString("PRINTER_TYPE"),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
			Width:   v.GetInt("PRINTER_WIDTH"),
			Timeout: time.Duration(v.GetInt("PRINTER_TIMEOUT_SECONDS")) * time.Second,
		},
		Pharmacy: PharmacyConfig{
			StoreName:         v.GetString("PHARMACY_NAME"),
			Address:           v.GetString("PHARMACY_ADDRESS"),
			Phone:             v.GetString("PHARMACY_PHONE"),
			DefaultVATPercent: v.GetFloat64("DEFAULT_VAT_PERCENT"),
			ExpiryWarningDays: v.GetInt("EXPIRY_WARNING_DAYS"),
			LowStockDefault:   v.GetInt("LOW_STOCK_DEFAULT"),
		},
		Draft: DraftConfig{
			TTL: time.Duration(v.GetInt("DRAFT_TTL_MINUTES")) * time.Minute,
		},
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q: use %s or %s", c.Storage.Driver, StorageMemory, StoragePostgres)
	}
	if c.Pharmacy.DefaultVATPercent < 0 {
		return fmt.Errorf("default VAT percent cannot be negative: %v", c.Pharmacy.DefaultVATPercent)
	}
	if c.Pharmacy.ExpiryWarningDays < 0 {
		return fmt.Errorf("expiry warning days cannot be negative: %d", c.Pharmacy.ExpiryWarningDays)
	}
	if c.Draft.TTL <= 0 {
		return fmt.Errorf("draft TTL must be positive, got %s", c.Draft.TTL)
	}
	if c.Printer.Width < 16 {
		return fmt.Errorf("printer width %d is too narrow", c.Printer.Width)
	}
	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
