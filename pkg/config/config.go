package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/neurostream/intake/pkg/models"
)

// Store backends
const (
	BackendSQLite   = "sqlite"
	BackendAirtable = "airtable"
)

// Config holds all intake server configuration values
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"release"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"production"`

	// FormKind selects the variant this deployment serves (contact or waitlist)
	FormKind string `env:"FORM_KIND,required"`

	// AllowedOrigins is a comma separated list, "*" allows any origin
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"./data/intake.db"`

	// PropertiesDir optionally holds secret properties as files, checked
	// before the environment (e.g. /run/secrets)
	PropertiesDir string `env:"PROPERTIES_DIR"`

	Airtable AirtableConfig
	Email    EmailConfig
}

// AirtableConfig holds the hosted sheet settings
type AirtableConfig struct {
	APIKey string `env:"AIRTABLE_API_KEY"`
	BaseID string `env:"AIRTABLE_BASE_ID"`
	Table  string `env:"AIRTABLE_TABLE"`
}

// EmailConfig holds Mailgun settings for submission notifications
type EmailConfig struct {
	MailgunDomain  string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey  string `env:"MAILGUN_API_KEY"`
	MailgunAPIBase string `env:"MAILGUN_API_BASE"`
	FromEmail      string `env:"EMAIL_FROM_ADDRESS" envDefault:"noreply@neurostream.ai"`
	FromName       string `env:"EMAIL_FROM_NAME" envDefault:"NeuroStream"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Kind returns the parsed form kind
func (c *Config) Kind() models.Kind {
	k, _ := models.ParseKind(c.FormKind)
	return k
}

// Validate checks cross-field settings that struct tags cannot express
func (c *Config) Validate() error {
	if _, err := models.ParseKind(c.FormKind); err != nil {
		return fmt.Errorf("FORM_KIND: %w", err)
	}

	switch c.StoreBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendAirtable:
		if c.Airtable.APIKey == "" || c.Airtable.BaseID == "" || c.Airtable.Table == "" {
			return fmt.Errorf("AIRTABLE_API_KEY, AIRTABLE_BASE_ID and AIRTABLE_TABLE are required for the airtable backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// IsConfigured returns true if Mailgun credentials are present
func (e EmailConfig) IsConfigured() bool {
	return e.MailgunDomain != "" && e.MailgunAPIKey != ""
}
