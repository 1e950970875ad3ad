package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rgehrsitz/jptax/internal/domain"
)

// PDFFormatter renders a printable A4 report, one page per scenario.
// The core fonts are cp1252, so text goes through the unicode translator
// and characters outside that code page are dropped.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Tax Estimate", false)
	pdf.SetCreator("jptax", false)

	if len(report.Scenarios) == 0 {
		pdf.AddPage()
		pdfTitle(pdf, tr, report)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, "No scenarios to report.")
	}

	for _, sc := range report.Scenarios {
		pdf.AddPage()
		pdfTitle(pdf, tr, report)

		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 9, tr(sc.Name))
		pdf.Ln(9)
		if sc.Description != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, tr(sc.Description), "", "L", false)
			pdf.Ln(2)
		}

		r := sc.Result
		b := r.Breakdown
		pdfSection(pdf, tr, "Income", [][2]string{
			{"Salary revenue", FormatYen(sc.Input.SalaryRevenue)},
			{"Salary deduction", FormatYen(b.SalaryDeduction)},
			{"Crypto (misc) income", FormatYen(b.MiscIncome)},
			{"Aggregate income", FormatYen(b.AggregateIncome)},
			{"Stock income (separate)", FormatYen(b.SeparateTaxableIncome)},
		})
		pdfSection(pdf, tr, "National income tax", [][2]string{
			{"Taxable income", FormatYen(r.AggregateTaxableIncome)},
			{"Aggregate tax", FormatYen(r.IncomeTaxAggregate)},
			{"Separate tax", FormatYen(r.IncomeTaxSeparate)},
			{"Reconstruction tax", FormatYen(r.ReconstructionTax)},
			{"Total", FormatYen(r.TotalNationalIncomeTax)},
		})
		pdfSection(pdf, tr, "Resident tax", [][2]string{
			{"Taxable income", FormatYen(b.ResidentTaxableIncome)},
			{"Income-based", FormatYen(r.ResidentTaxIncomeBased)},
			{"Per-capita", FormatYen(r.ResidentTaxPerCapita)},
			{"Total", FormatYen(r.TotalResidentTax)},
		})
		pdfSection(pdf, tr, "Summary", [][2]string{
			{"Total tax", FormatYen(r.TotalTax)},
			{"Take-home", FormatYen(sc.TakeHome)},
			{"Effective rate", FormatPercentage(r.EffectiveTaxRate)},
			{"Marginal rate", FormatRate(b.MarginalRate)},
			{"Furusato ceiling", FormatYen(r.FurusatoLimit)},
			{"iDeCo savings", FormatYen(r.IDeCoTaxSavings)},
			{"NISA savings", FormatYen(r.NISATaxSavings)},
		})

		if len(sc.Advisories) > 0 {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Cell(0, 8, "Notes")
			pdf.Ln(8)
			pdf.SetFont("Helvetica", "", 10)
			for _, a := range sc.Advisories {
				pdf.MultiCell(0, 5, tr("- "+a.Message), "", "L", false)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfTitle(pdf *gofpdf.Fpdf, tr func(string) string, report *domain.Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Japanese Income & Resident Tax Estimate")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	if report.Rules.Era != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Fiscal year: %s (%d)", report.Rules.Era, report.Rules.FiscalYear))
		pdf.Ln(6)
	}
	if report.Profile.Name != "" {
		pdf.Cell(0, 6, tr("Profile: "+report.Profile.Name))
		pdf.Ln(6)
	}
	pdf.Ln(4)
}

func pdfSection(pdf *gofpdf.Fpdf, tr func(string) string, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(80, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}
