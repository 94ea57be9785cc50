package analysis

import (
	"go.uber.org/zap"

	"github.com/askiada/go-abtest/pkg/pipeline/model"
)

// Option configures an Analyzer.
type Option func(a *Analyzer)

// WithAlpha sets the two-sided significance level. Defaults to stats.DefaultAlpha.
func WithAlpha(alpha float64) Option {
	return func(a *Analyzer) {
		a.alpha = alpha
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPipelineOptions adds options to the cleaning pipeline, e.g. a drawer.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(a *Analyzer) {
		a.pipeOpts = append(a.pipeOpts, opts...)
	}
}
