package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/jptax/internal/domain"
)

// CSVSummarizer writes one row per scenario, in report order
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Scenario", "SalaryRevenue", "AggregateTaxableIncome", "SeparateTaxableIncome",
		"IncomeTaxAggregate", "IncomeTaxSeparate", "ReconstructionTax", "TotalNationalIncomeTax",
		"ResidentTaxIncomeBased", "ResidentTaxPerCapita", "TotalResidentTax", "TotalTax",
		"EffectiveTaxRate", "MarginalRate", "TakeHome", "FurusatoLimit", "IDeCoTaxSavings",
		"NISATaxSavings", "Dependents",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		r := sc.Result
		row := []string{
			sc.Name,
			sc.Input.SalaryRevenue.StringFixed(0),
			r.AggregateTaxableIncome.StringFixed(0),
			r.Breakdown.SeparateTaxableIncome.StringFixed(0),
			r.IncomeTaxAggregate.StringFixed(0),
			r.IncomeTaxSeparate.StringFixed(0),
			r.ReconstructionTax.StringFixed(0),
			r.TotalNationalIncomeTax.StringFixed(0),
			r.ResidentTaxIncomeBased.StringFixed(0),
			r.ResidentTaxPerCapita.StringFixed(0),
			r.TotalResidentTax.StringFixed(0),
			r.TotalTax.StringFixed(0),
			r.EffectiveTaxRate.StringFixed(4),
			r.Breakdown.MarginalRate.String(),
			sc.TakeHome.StringFixed(0),
			r.FurusatoLimit.StringFixed(0),
			r.IDeCoTaxSavings.StringFixed(0),
			r.NISATaxSavings.StringFixed(0),
			strconv.Itoa(sc.Input.DependentsCount),
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
