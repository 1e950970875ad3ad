package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/jptax/internal/domain"
)

// ConsoleFormatter renders the detailed per-scenario breakdown
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "JAPANESE INCOME & RESIDENT TAX ESTIMATE")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	writeReportHeader(&buf, report)
	fmt.Fprintln(&buf)

	if len(report.Scenarios) == 0 {
		fmt.Fprintln(&buf, "No scenarios to report.")
		return buf.Bytes(), nil
	}

	for i := range report.Scenarios {
		writeScenarioDetail(&buf, i+1, &report.Scenarios[i])
	}

	return buf.Bytes(), nil
}

func writeReportHeader(w io.Writer, report *domain.Report) {
	if report.Rules.Era != "" {
		fmt.Fprintf(w, "Fiscal Year: %s (%d)\n", report.Rules.Era, report.Rules.FiscalYear)
	} else if report.Rules.FiscalYear != 0 {
		fmt.Fprintf(w, "Fiscal Year: %d\n", report.Rules.FiscalYear)
	}
	if report.Profile.Name != "" {
		fmt.Fprintf(w, "Profile: %s\n", report.Profile.Name)
	}
	if report.Profile.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", report.Profile.Note)
	}
}

func writeScenarioDetail(w io.Writer, n int, sc *domain.ScenarioResult) {
	in := sc.Input
	res := sc.Result
	b := res.Breakdown

	fmt.Fprintf(w, "SCENARIO %d: %s\n", n, sc.Name)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	if sc.Description != "" {
		fmt.Fprintf(w, "%s\n", sc.Description)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "INCOME:")
	line(w, "Salary Revenue", FormatYen(in.SalaryRevenue))
	line(w, "Salary Deduction", FormatYen(b.SalaryDeduction))
	line(w, "Salary Income", FormatYen(res.TaxableSalaryIncome))
	line(w, "Crypto (Misc) Income", FormatYen(b.MiscIncome))
	line(w, "Aggregate Income", FormatYen(b.AggregateIncome))
	line(w, "Stocks (Separate)", FormatYen(b.SeparateTaxableIncome))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "DEDUCTIONS:")
	line(w, "Social Insurance", FormatYen(in.SocialInsurancePaid))
	line(w, "Life Insurance", FormatYen(in.LifeInsuranceDeduction))
	line(w, "iDeCo", FormatYen(in.IDeCoContribution))
	line(w, "Dependents", fmt.Sprintf("%d", in.DependentsCount))
	line(w, "National Total", FormatYen(b.NationalDeductions))
	line(w, "Resident Total", FormatYen(b.ResidentDeductions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "NATIONAL INCOME TAX:")
	line(w, "Taxable Income", FormatYen(res.AggregateTaxableIncome))
	line(w, "Aggregate Tax", FormatYen(res.IncomeTaxAggregate))
	line(w, "Separate Tax", FormatYen(res.IncomeTaxSeparate))
	line(w, "Reconstruction Tax", FormatYen(res.ReconstructionTax))
	if b.FixedCreditNational.IsPositive() {
		line(w, "Fixed Credit", "-"+FormatYen(b.FixedCreditNational))
	}
	line(w, "Total", FormatYen(res.TotalNationalIncomeTax))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "RESIDENT TAX:")
	line(w, "Taxable Income", FormatYen(b.ResidentTaxableIncome))
	line(w, "Income-Based", FormatYen(res.ResidentTaxIncomeBased))
	line(w, "Per-Capita", FormatYen(res.ResidentTaxPerCapita))
	if b.FixedCreditResident.IsPositive() {
		line(w, "Fixed Credit", "-"+FormatYen(b.FixedCreditResident))
	}
	line(w, "Total", FormatYen(res.TotalResidentTax))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SUMMARY:")
	line(w, "Total Revenue", FormatYen(b.TotalRevenue))
	line(w, "TOTAL TAX", FormatYen(res.TotalTax))
	line(w, "Take-Home", FormatYen(sc.TakeHome))
	line(w, "Effective Rate", FormatPercentage(res.EffectiveTaxRate))
	line(w, "National Share", FormatPercentage(res.NationalShare().Mul(hundred)))
	line(w, "Marginal Rate", FormatRate(b.MarginalRate))
	line(w, "Bracket", describeBracket(b.Bracket))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "INSIGHTS:")
	line(w, "Furusato Ceiling", FormatYen(res.FurusatoLimit))
	line(w, "iDeCo Savings", FormatYen(res.IDeCoTaxSavings))
	line(w, "NISA Savings", FormatYen(res.NISATaxSavings))
	fmt.Fprintln(w)

	if len(sc.Advisories) > 0 {
		fmt.Fprintln(w, "NOTES:")
		for _, a := range sc.Advisories {
			fmt.Fprintf(w, "• %s\n", a.Message)
		}
		fmt.Fprintln(w)
	}
}

func line(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-24s %16s\n", label+":", value)
}

func describeBracket(b domain.BracketPosition) string {
	if b.IsTopBracket() {
		return fmt.Sprintf("#%d %s (top)", b.Index+1, FormatRate(b.Rate))
	}
	return fmt.Sprintf("#%d %s, %s to next", b.Index+1, FormatRate(b.Rate), FormatYen(b.Headroom))
}

// ConsoleLiteFormatter renders one summary line per scenario
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "TAX ESTIMATE SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 20))
	writeReportHeader(&buf, report)

	for _, sc := range report.Scenarios {
		fmt.Fprintf(&buf, "%-24s tax %14s  take-home %14s  effective %7s  furusato %10s\n",
			sc.Name,
			FormatYen(sc.Result.TotalTax),
			FormatYen(sc.TakeHome),
			FormatPercentage(sc.Result.EffectiveTaxRate),
			FormatYen(sc.Result.FurusatoLimit))
	}
	return buf.Bytes(), nil
}
