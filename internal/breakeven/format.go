package breakeven

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/jptax/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a single solve
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SOLUTION\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Goal:          %s = %s\n", result.Goal, output.FormatYen(result.GoalValue)))
	sb.WriteString(fmt.Sprintf("Solved for:    %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Convergence:   %s\n", result.ConvergenceInfo))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Required %s: %s\n", result.Target, output.FormatYen(result.Solution)))
	sb.WriteString(fmt.Sprintf("Achieved %s: %s\n", result.Goal, output.FormatYen(result.Achieved)))
	sb.WriteString("\n")

	if result.BaseScenario != nil && result.Scenario != nil {
		base, solved := result.BaseScenario, result.Scenario
		sb.WriteString(fmt.Sprintf("%-22s %16s %16s %16s\n", "", "Base", "Solved", "Change"))
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		tf.row(&sb, "Total Tax", base.Result.TotalTax, solved.Result.TotalTax)
		tf.row(&sb, "Take-Home", base.TakeHome, solved.TakeHome)
		tf.row(&sb, "Furusato Ceiling", base.Result.FurusatoLimit, solved.Result.FurusatoLimit)
		sb.WriteString(fmt.Sprintf("%-22s %16s %16s\n", "Effective Rate",
			output.FormatPercentage(base.Result.EffectiveTaxRate), output.FormatPercentage(solved.Result.EffectiveTaxRate)))
	}

	return sb.String()
}

func (tf *TableFormatter) row(sb *strings.Builder, label string, base, solved decimal.Decimal) {
	sb.WriteString(fmt.Sprintf("%-22s %16s %16s %16s\n", label,
		output.FormatYen(base), output.FormatYen(solved), output.FormatSignedYen(solved.Sub(base))))
}

// FormatMulti generates one line per target
func (tf *TableFormatter) FormatMulti(multi *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("BREAK-EVEN: %s = %s\n", multi.Goal, output.FormatYen(multi.GoalValue)))
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	for _, r := range multi.Results {
		sb.WriteString(fmt.Sprintf("%-18s %16s  (achieves %s)\n", r.Target, output.FormatYen(r.Solution), output.FormatYen(r.Achieved)))
	}

	if len(multi.Unreachable) > 0 {
		names := make([]string, 0, len(multi.Unreachable))
		for name := range multi.Unreachable {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString("\nUnreachable:\n")
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", name, multi.Unreachable[name]))
		}
	}
	return sb.String()
}

// JSONFormatter formats solver results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for any solver result
func (jf *JSONFormatter) Format(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
