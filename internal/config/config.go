// Package config reads the settings of the abtest command from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/askiada/go-abtest/pkg/report"
)

// Prefix of every environment variable, e.g. ABTEST_ALPHA.
const Prefix = "ABTEST"

var (
	ErrInvalidAlpha      = errors.New("alpha must be in (0, 1)")
	ErrDataPathMustBeSet = errors.New("data path must be set")
)

type Config struct {
	DataPath  string  `envconfig:"DATA_PATH" default:"ab_data.csv"`
	Alpha     float64 `envconfig:"ALPHA" default:"0.05"`
	Format    string  `envconfig:"FORMAT" default:"text"`
	GraphFile string  `envconfig:"GRAPH_FILE"`
	LogLevel  string  `envconfig:"LOG_LEVEL" default:"info"`
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to read configuration")
	}

	return &cfg, nil
}

// Validate checks the values that cannot be checked while parsing.
func (c *Config) Validate() error {
	if !(c.Alpha > 0 && c.Alpha < 1) {
		return errors.Wrapf(ErrInvalidAlpha, "got %v", c.Alpha)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.DataPath == "" {
		return ErrDataPathMustBeSet
	}

	return nil
}
