package analysis_test

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/go-abtest/pkg/analysis"
	"github.com/askiada/go-abtest/pkg/cleaner"
	"github.com/askiada/go-abtest/pkg/dataset"
	"github.com/askiada/go-abtest/pkg/pipeline/drawer"
	"github.com/askiada/go-abtest/pkg/stats"
)

const experiment = `user_id,timestamp,group,landing_page,converted
1,2017-01-21 22:11:48,treatment,old_page,1
2,2017-01-12 08:01:45,control,new_page,0
3,2017-01-11 16:55:06,treatment,new_page,1
1,2017-01-08 18:28:03,control,new_page,0
4,2017-01-21 01:52:26,control,new_page,1
5,2017-01-10 15:20:49,treatment,old_page,0
6,2017-01-19 03:26:46,control,old_page,1
7,2017-01-17 01:48:29,treatment,old_page,1
8,2017-01-04 17:58:08,control,new_page,0
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ab_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func randomDataset(seed uint64, size int) dataset.Dataset {
	rnd := rand.New(rand.NewPCG(seed, seed))
	groups := []dataset.Group{dataset.Treatment, dataset.Control}
	pages := []dataset.LandingPage{dataset.OldPage, dataset.NewPage}

	records := make([]dataset.Record, 0, size)
	for range size {
		records = append(records, dataset.Record{
			UserID:      strconv.Itoa(rnd.IntN(size / 2)),
			Group:       groups[rnd.IntN(2)],
			LandingPage: pages[rnd.IntN(2)],
			Converted:   rnd.IntN(10) == 0,
		})
	}

	return dataset.New(records...)
}

func TestRun(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	a := analysis.New(analysis.WithLogger(zap.New(core)))

	res, err := a.Run(t.Context(), writeCSV(t, experiment))
	require.NoError(t, err)

	assert.Equal(t, analysis.CleaningSummary{Loaded: 9, Mismatched: 2, Duplicated: 1, Retained: 6}, res.Cleaning)
	assert.Equal(t, analysis.CohortSummary{Group: dataset.Treatment, Size: 3, Conversions: 2, Rate: 2.0 / 3}, res.Treatment)
	assert.Equal(t, analysis.CohortSummary{Group: dataset.Control, Size: 3, Conversions: 1, Rate: 1.0 / 3}, res.Control)

	assert.InDelta(t, 0.5, res.Test.PooledRate, 1e-12)
	assert.InDelta(t, 0.8165, res.Test.ZObserved, 1e-4)
	assert.Equal(t, stats.FailToReject, res.Test.Decision)

	assert.Equal(t, 1, logs.FilterMessage("dataset loaded").Len())
	assert.Equal(t, 1, logs.FilterMessage("z-test computed").Len())
}

func TestAnalyzeMatchesPureCleaning(t *testing.T) {
	t.Parallel()

	for _, seed := range []uint64{1, 2, 3} {
		ds := randomDataset(seed, 2000)

		res, err := analysis.New().Analyze(t.Context(), ds)
		require.NoError(t, err)

		cleaned := cleaner.Clean(ds)
		treatment, control := dataset.Split(cleaned)
		want, err := analysis.Evaluate(treatment, control, stats.DefaultAlpha)
		require.NoError(t, err)

		assert.Equal(t, *want, res.Test)
		assert.Equal(t, treatment.Size(), res.Treatment.Size)
		assert.Equal(t, control.Size(), res.Control.Size)
		assert.Equal(t, cleaned.Len(), res.Cleaning.Retained)
		assert.Equal(t, ds.Len()-cleaner.DropMismatched(ds).Len(), res.Cleaning.Mismatched)
		assert.Equal(t, res.Cleaning.Loaded, res.Cleaning.Mismatched+res.Cleaning.Duplicated+res.Cleaning.Retained)
	}
}

func TestAnalyzeWithAlpha(t *testing.T) {
	t.Parallel()

	ds := randomDataset(4, 500)
	res, err := analysis.New(analysis.WithAlpha(0.5)).Analyze(t.Context(), ds)
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Test.SignificanceLevel)
	assert.InDelta(t, 0.6745, res.Test.ZCritical, 1e-4)
}

func TestAnalyzeEmptyControl(t *testing.T) {
	t.Parallel()

	ds := dataset.New(
		dataset.Record{UserID: "u1", Group: dataset.Treatment, LandingPage: dataset.OldPage, Converted: true},
		dataset.Record{UserID: "u2", Group: dataset.Treatment, LandingPage: dataset.OldPage},
		dataset.Record{UserID: "u3", Group: dataset.Control, LandingPage: dataset.OldPage},
	)
	res, err := analysis.New().Analyze(t.Context(), ds)
	require.ErrorIs(t, err, stats.ErrEmptyCohort)
	assert.Nil(t, res)

	var divErr *stats.DivisionError
	require.ErrorAs(t, err, &divErr)
	assert.Equal(t, "control", divErr.Cohort)
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	t.Parallel()

	_, err := analysis.New().Analyze(t.Context(), dataset.New())
	assert.ErrorIs(t, err, stats.ErrEmptyCohort)
}

func TestAnalyzeCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := analysis.New().Analyze(ctx, randomDataset(5, 100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()

	_, err := analysis.New().Run(t.Context(), filepath.Join(t.TempDir(), "missing.csv"))

	var loadErr *dataset.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestRunWithDrawer(t *testing.T) {
	t.Parallel()

	graphFile := filepath.Join(t.TempDir(), "pipeline.gv")
	a := analysis.New(analysis.WithPipelineOptions(drawer.PipelineDrawer(drawer.NewDOTDrawer(graphFile), nil)))

	_, err := a.Run(t.Context(), writeCSV(t, experiment))
	require.NoError(t, err)

	content, err := os.ReadFile(graphFile)
	require.NoError(t, err)
	for _, step := range []string{
		analysis.StepDataset,
		analysis.StepDropMismatched,
		analysis.StepDropDuplicated,
		analysis.StepSplit,
		analysis.StepTreatment,
		analysis.StepControl,
	} {
		assert.Contains(t, string(content), `"`+step+`"`)
	}
}
