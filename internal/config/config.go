package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pennyjar"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pennyjar"`
	}

	SQLite struct {
		Path string `envconfig:"SQLITE_PATH" default:"./data/pennyjar.db"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL" default:""`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"pennyjar.events"`
	}

	Storage struct {
		ProbeTimeout      time.Duration `envconfig:"STORAGE_PROBE_TIMEOUT" default:"2s"`
		ReconcileInterval time.Duration `envconfig:"STORAGE_RECONCILE_INTERVAL" default:"30s"`
		ReconcileBatch    int           `envconfig:"STORAGE_RECONCILE_BATCH" default:"50"`
	}

	Rules struct {
		AdvanceCap       string `envconfig:"RULES_ADVANCE_CAP" default:"50"`
		AdvanceMinDesc   int    `envconfig:"RULES_ADVANCE_MIN_DESC" default:"30"`
		HighValueMinDesc int    `envconfig:"RULES_HIGH_VALUE_MIN_DESC" default:"20"`
	}

	Scheduler struct {
		AllowanceSpec string `envconfig:"SCHEDULER_ALLOWANCE_SPEC" default:"0 8 * * SUN"`
		InterestSpec  string `envconfig:"SCHEDULER_INTEREST_SPEC" default:"0 0 1 * *"`
		InterestRate  string `envconfig:"SCHEDULER_INTEREST_RATE" default:"1.0"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// AdvanceCap returns the advance cap as a decimal amount.
func (c *Config) AdvanceCap() (decimal.Decimal, error) {
	cap, err := decimal.NewFromString(c.Rules.AdvanceCap)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid advance cap %q: %w", c.Rules.AdvanceCap, err)
	}

	return cap, nil
}

// InterestRate returns the monthly interest rate in percent.
func (c *Config) InterestRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Scheduler.InterestRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid interest rate %q: %w", c.Scheduler.InterestRate, err)
	}

	return rate, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
