package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Total Tax",
		"National Tax",
		"Resident Tax",
		"Take-Home",
		"Effective Rate (%)",
		"Marginal Rate",
		"Furusato Ceiling",
		"iDeCo+NISA Savings",
		"Tax Diff from Base",
		"Tax % Change",
		"Take-Home Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.TotalTax.StringFixed(0),
		result.NationalTax.StringFixed(0),
		result.ResidentTax.StringFixed(0),
		result.TakeHome.StringFixed(0),
		result.EffectiveRate.StringFixed(2),
		result.MarginalRate.StringFixed(2),
		result.FurusatoLimit.StringFixed(0),
		result.Savings.StringFixed(0),
		result.TaxDiffFromBase.StringFixed(0),
		result.TaxPctFromBase.StringFixed(2),
		result.TakeHomeDiffFromBase.StringFixed(0),
	}
}
