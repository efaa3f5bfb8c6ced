package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/livefire2015/ez-rentroll/src/models"
)

// Config holds runtime configuration for the report commands
type Config struct {
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// Exactly one snapshot source must be configured
	SnapshotFile string   `envconfig:"SNAPSHOT_FILE"`
	PGDSN        string   `envconfig:"PG_DSN"`
	CompanyID    string   `envconfig:"COMPANY_ID"`
	PropertyIDs  []string `envconfig:"PROPERTY_IDS"`

	// YYYY-MM; empty means the current month
	AsOf        string `envconfig:"AS_OF"`
	Liability   string `envconfig:"LIABILITY" default:"rental"`
	Concurrency int    `envconfig:"CONCURRENCY" default:"8"`
}

// Load reads configuration from environment variables with the given prefix
func Load(prefix string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the source selection, liability and period settings
func (c *Config) Validate() error {
	switch {
	case c.SnapshotFile == "" && c.PGDSN == "":
		return errors.New("either SNAPSHOT_FILE or PG_DSN must be provided")
	case c.SnapshotFile != "" && c.PGDSN != "":
		return errors.New("SNAPSHOT_FILE and PG_DSN are mutually exclusive")
	case c.PGDSN != "" && c.CompanyID == "":
		return errors.New("COMPANY_ID is required when reading from PG_DSN")
	}
	if !c.LiabilityType().Valid() {
		return fmt.Errorf("unknown liability %q", c.Liability)
	}
	if c.AsOf != "" {
		if _, err := models.ParseCalendarPeriod(c.AsOf); err != nil {
			return err
		}
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	return nil
}

// LiabilityType returns the configured liability
func (c *Config) LiabilityType() models.LiabilityType {
	return models.LiabilityType(strings.ToLower(strings.TrimSpace(c.Liability)))
}

// AsOfPeriod returns the configured as-of period, or false to use the current month
func (c *Config) AsOfPeriod() (models.CalendarPeriod, bool) {
	if c.AsOf == "" {
		return models.CalendarPeriod{}, false
	}
	p, err := models.ParseCalendarPeriod(c.AsOf)
	if err != nil {
		return models.CalendarPeriod{}, false
	}
	return p, true
}

// UsesPostgres returns true when the snapshot comes from the database
func (c *Config) UsesPostgres() bool {
	return c != nil && c.PGDSN != ""
}
