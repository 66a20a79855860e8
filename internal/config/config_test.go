package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	cfg := fromViper(viper.New())

	if cfg.Storage.Driver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.Storage.Driver)
	}
	if cfg.Draft.TTL != 2*time.Hour {
		t.Fatalf("expected 2h draft TTL, got %s", cfg.Draft.TTL)
	}
	if cfg.Pharmacy.ExpiryWarningDays != 90 {
		t.Fatalf("expected 90 warning days, got %d", cfg.Pharmacy.ExpiryWarningDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "Postgres")
	v.Set("DEFAULT_VAT_PERCENT", 7.5)
	v.Set("REPORT_CACHE_TTL_SECONDS", 30)

	cfg := fromViper(v)
	if cfg.Storage.Driver != StoragePostgres {
		t.Fatalf("expected driver to be lowercased, got %q", cfg.Storage.Driver)
	}
	if cfg.Pharmacy.DefaultVATPercent != 7.5 {
		t.Fatalf("expected VAT 7.5, got %v", cfg.Pharmacy.DefaultVATPercent)
	}
	if cfg.Redis.CacheTTL != 30*time.Second {
		t.Fatalf("expected 30s cache TTL, got %s", cfg.Redis.CacheTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{
			name:        "unknown storage driver",
			mutate:      func(c *Config) { c.Storage.Driver = "sqlite" },
			errorString: `unknown storage driver "sqlite"`,
		},
		{
			name:        "negative VAT",
			mutate:      func(c *Config) { c.Pharmacy.DefaultVATPercent = -1 },
			errorString: "default VAT percent cannot be negative",
		},
		{
			name:        "zero draft TTL",
			mutate:      func(c *Config) { c.Draft.TTL = 0 },
			errorString: "draft TTL must be positive",
		},
		{
			name:        "narrow printer",
			mutate:      func(c *Config) { c.Printer.Width = 8 },
			errorString: "too narrow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fromViper(viper.New())
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorString)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
			}
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", Name: "pharmacare", User: "app", Password: "secret", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db user=app password=secret dbname=pharmacare port=5432 sslmode=disable TimeZone=UTC"
	if got := db.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
