// Package report presents the result of an analysis.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-abtest/pkg/analysis"
)

// Format is an output format of the report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat returns the Format named s, case insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Write writes res to w in the given format.
func Write(w io.Writer, format Format, res *analysis.Result) error {
	if res == nil {
		return errors.New("nothing to report")
	}

	switch format {
	case FormatText, "":
		return writeText(w, res)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(res), "unable to encode json report")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(res)
		if err != nil {
			return errors.Wrap(err, "unable to encode yaml report")
		}

		return errors.Wrap(enc.Close(), "unable to flush yaml report")
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func writeText(w io.Writer, res *analysis.Result) error {
	_, err := fmt.Fprintf(w, "Z-score: %.2f\nCritical Z-score: %.2f\n%s, p-value: %.2f\n",
		res.Test.ZObserved, res.Test.ZCritical, res.Test.Decision, res.Test.PValue)

	return errors.Wrap(err, "unable to write report")
}
