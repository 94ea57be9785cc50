package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-abtest/pkg/analysis"
	"github.com/askiada/go-abtest/pkg/dataset"
	"github.com/askiada/go-abtest/pkg/report"
	"github.com/askiada/go-abtest/pkg/stats"
)

func sampleResult() *analysis.Result {
	return &analysis.Result{
		Cleaning:  analysis.CleaningSummary{Loaded: 2210, Mismatched: 3, Duplicated: 7, Retained: 2200},
		Treatment: analysis.CohortSummary{Group: dataset.Treatment, Size: 1000, Conversions: 120, Rate: 0.12},
		Control:   analysis.CohortSummary{Group: dataset.Control, Size: 1000, Conversions: 100, Rate: 0.1},
		Test: stats.ZTestResult{
			TreatmentRate:     0.12,
			ControlRate:       0.1,
			Diff:              0.02,
			PooledRate:        0.11,
			PooledSE:          0.013992,
			ZObserved:         1.4294,
			ZCritical:         1.959964,
			PValue:            0.1529,
			SignificanceLevel: 0.05,
			Decision:          stats.FailToReject,
		},
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatText, sampleResult()))
	assert.Equal(t, "Z-score: 1.43\nCritical Z-score: 1.96\nFail to reject the null hypothesis, p-value: 0.15\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatJSON, sampleResult()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	test, ok := got["test"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Fail to reject the null hypothesis", test["decision"])
	assert.InDelta(t, 1.4294, test["z_observed"], 1e-9)
	assert.Contains(t, buf.String(), `"retained": 2200`)
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatYAML, sampleResult()))

	var got struct {
		Control struct {
			Group string `yaml:"group"`
			Size  int    `yaml:"size"`
		} `yaml:"control"`
		Test struct {
			Decision string `yaml:"decision"`
		} `yaml:"test"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "control", got.Control.Group)
	assert.Equal(t, 1000, got.Control.Size)
	assert.Equal(t, "Fail to reject the null hypothesis", got.Test.Decision)
}

func TestWriteErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.ErrorIs(t, report.Write(&buf, "xml", sampleResult()), report.ErrUnknownFormat)
	assert.Error(t, report.Write(&buf, report.FormatText, nil))
	assert.Empty(t, buf.String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in      string
		want    report.Format
		wantErr error
	}{
		"text":       {in: "text", want: report.FormatText},
		"upper json": {in: "JSON", want: report.FormatJSON},
		"spaced":     {in: " yaml ", want: report.FormatYAML},
		"unknown":    {in: "csv", wantErr: report.ErrUnknownFormat},
		"empty":      {in: "", wantErr: report.ErrUnknownFormat},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := report.ParseFormat(tc.in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
