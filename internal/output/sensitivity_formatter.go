package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/jptax/internal/domain"
)

// SweepFormatter renders a single-parameter sweep
type SweepFormatter interface {
	Name() string
	FormatSweep(analysis *domain.SweepAnalysis) ([]byte, error)
}

// GetSweepFormatter returns the sweep renderer for console, json or csv
func GetSweepFormatter(name string) (SweepFormatter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	switch key {
	case "console", "console-lite":
		return SweepConsoleFormatter{}, nil
	case "json":
		return SweepJSONFormatter{}, nil
	case "csv":
		return SweepCSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("sweep output does not support format %q (use console, json or csv)", name)
	}
}

// SweepConsoleFormatter formats a sweep as a console table
type SweepConsoleFormatter struct{}

func (s SweepConsoleFormatter) Name() string { return "console" }

func (s SweepConsoleFormatter) FormatSweep(analysis *domain.SweepAnalysis) ([]byte, error) {
	if len(analysis.Points) == 0 {
		return nil, fmt.Errorf("no points in sweep")
	}
	var buf bytes.Buffer
	param := analysis.Parameter

	fmt.Fprintf(&buf, "SWEEP ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(&buf, strings.Repeat("=", 86))
	fmt.Fprintf(&buf, "Scenario: %s\n", analysis.ScenarioName)
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n", FormatYenAmount(param.MinValue), FormatYenAmount(param.MaxValue), param.Steps)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%14s %14s %9s %9s %14s %12s\n", param.Name, "Total Tax", "Marginal", "Effective", "Take-Home", "Furusato")
	fmt.Fprintln(&buf, strings.Repeat("-", 86))
	for _, p := range analysis.Points {
		fmt.Fprintf(&buf, "%14s %14s %9s %9s %14s %12s\n",
			FormatYenAmount(p.Value),
			FormatYen(p.TotalTax),
			FormatRate(p.MarginalRate),
			FormatPercentage(p.EffectiveRate),
			FormatYen(p.TakeHome),
			FormatYen(p.FurusatoLimit))
	}
	fmt.Fprintln(&buf)

	if len(analysis.BracketChanges) > 0 {
		fmt.Fprintln(&buf, "BRACKET CHANGES:")
		for _, c := range analysis.BracketChanges {
			fmt.Fprintf(&buf, "• between %s and %s: %s → %s\n",
				FormatYenAmount(c.From), FormatYenAmount(c.To), FormatRate(c.FromRate), FormatRate(c.ToRate))
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintf(&buf, "Average change in total tax: %s yen per yen of %s\n", analysis.AverageSlope.StringFixed(4), param.Name)
	return buf.Bytes(), nil
}

// SweepJSONFormatter formats a sweep as indented JSON
type SweepJSONFormatter struct{}

func (s SweepJSONFormatter) Name() string { return "json" }

func (s SweepJSONFormatter) FormatSweep(analysis *domain.SweepAnalysis) ([]byte, error) {
	return json.MarshalIndent(analysis, "", "  ")
}

// SweepCSVFormatter writes one row per sweep point
type SweepCSVFormatter struct{}

func (s SweepCSVFormatter) Name() string { return "csv" }

func (s SweepCSVFormatter) FormatSweep(analysis *domain.SweepAnalysis) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{analysis.Parameter.Name, "TotalTax", "NationalTax", "ResidentTax", "MarginalRate", "EffectiveRate", "TakeHome", "FurusatoLimit"}); err != nil {
		return nil, err
	}
	for _, p := range analysis.Points {
		row := []string{
			p.Value.StringFixed(0),
			p.TotalTax.StringFixed(0),
			p.NationalTax.StringFixed(0),
			p.ResidentTax.StringFixed(0),
			p.MarginalRate.String(),
			p.EffectiveRate.StringFixed(4),
			p.TakeHome.StringFixed(0),
			p.FurusatoLimit.StringFixed(0),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
