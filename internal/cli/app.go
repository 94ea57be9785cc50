// Package cli implements the abtest command.
package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/askiada/go-abtest/internal/config"
	"github.com/askiada/go-abtest/pkg/analysis"
	"github.com/askiada/go-abtest/pkg/pipeline/drawer"
	"github.com/askiada/go-abtest/pkg/pipeline/measure"
	"github.com/askiada/go-abtest/pkg/report"
)

// Flags
var (
	flagAlpha    float64
	flagFormat   string
	flagGraph    string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "abtest [csv-path]",
	Short: "Two-proportion z-test on A/B experiment records",
	Long: `Clean a CSV of A/B experiment records, split it into treatment and control
cohorts and test whether their conversion rates differ.

The CSV must have the user_id, group, landing_page and converted columns.

Examples:
  abtest ab_data.csv
  abtest ab_data.csv --alpha 0.01 --format json
  ABTEST_DATA_PATH=ab_data.csv abtest --graph pipeline.gv`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runAnalysis,
}

func init() {
	rootCmd.Flags().Float64Var(&flagAlpha, "alpha", 0, "Significance level (default: $ABTEST_ALPHA or 0.05)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Output format: text, json, yaml (default: $ABTEST_FORMAT or text)")
	rootCmd.Flags().StringVar(&flagGraph, "graph", "", "Write the cleaning pipeline graph to this DOT file")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: $ABTEST_LOG_LEVEL or info)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig merges the environment configuration with the flags and arguments.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		cfg.DataPath = args[0]
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = flagAlpha
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = flagFormat
	}
	if cmd.Flags().Changed("graph") {
		cfg.GraphFile = flagGraph
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}

	return cfg, cfg.Validate()
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), lvl)

	return zap.New(core), nil
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	opts := []analysis.Option{
		analysis.WithAlpha(cfg.Alpha),
		analysis.WithLogger(logger),
	}
	if cfg.GraphFile != "" {
		msr := measure.NewDefaultMeasure()
		opts = append(opts, analysis.WithPipelineOptions(
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(cfg.GraphFile), msr),
		))
	}

	res, err := analysis.New(opts...).Run(cmd.Context(), cfg.DataPath)
	if err != nil {
		logger.Error("analysis failed", zap.Error(err))

		return err
	}

	return report.Write(cmd.OutOrStdout(), format, res)
}
