package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-abtest/internal/config"
	"github.com/askiada/go-abtest/pkg/report"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		DataPath: "ab_data.csv",
		Alpha:    0.05,
		Format:   "text",
		LogLevel: "info",
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("ABTEST_DATA_PATH", "/data/experiment.csv")
	t.Setenv("ABTEST_ALPHA", "0.01")
	t.Setenv("ABTEST_FORMAT", "json")
	t.Setenv("ABTEST_GRAPH_FILE", "pipeline.gv")
	t.Setenv("ABTEST_LOG_LEVEL", "debug")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		DataPath:  "/data/experiment.csv",
		Alpha:     0.01,
		Format:    "json",
		GraphFile: "pipeline.gv",
		LogLevel:  "debug",
	}, cfg)
}

func TestNewInvalidEnv(t *testing.T) {
	t.Setenv("ABTEST_ALPHA", "five percent")

	_, err := config.New()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := config.Config{DataPath: "ab_data.csv", Alpha: 0.05, Format: "text"}

	tcs := map[string]struct {
		update  func(c *config.Config)
		wantErr error
	}{
		"zero alpha": {
			update:  func(c *config.Config) { c.Alpha = 0 },
			wantErr: config.ErrInvalidAlpha,
		},
		"alpha of one": {
			update:  func(c *config.Config) { c.Alpha = 1 },
			wantErr: config.ErrInvalidAlpha,
		},
		"unknown format": {
			update:  func(c *config.Config) { c.Format = "xml" },
			wantErr: report.ErrUnknownFormat,
		},
		"empty data path": {
			update:  func(c *config.Config) { c.DataPath = "" },
			wantErr: config.ErrDataPathMustBeSet,
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tc.update(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
