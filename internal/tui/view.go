package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/rgehrsitz/jptax/internal/output"
	"github.com/rgehrsitz/jptax/internal/tui/components"
	"github.com/rgehrsitz/jptax/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.scene {
	case SceneResults:
		content = m.renderResults()
	default:
		content = m.renderForm()
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return tuistyles.AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		"",
		content,
		"",
		m.renderStatusBar(),
	))
}

func (m Model) renderTitleBar() string {
	meta := m.engine.Rules.Metadata
	title := tuistyles.TitleStyle.Render("jptax · Income & Resident Tax")
	sub := tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s (%d) / %s", meta.Era, meta.FiscalYear, m.scene))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", sub)
}

func (m Model) renderStatusBar() string {
	var bindings [][2]string
	if m.scene == SceneResults {
		bindings = [][2]string{{"esc", "edit input"}, {"q", "quit"}}
	} else {
		bindings = [][2]string{
			{keys.Next.Help().Key, keys.Next.Help().Desc},
			{keys.Prev.Help().Key, keys.Prev.Help().Desc},
			{keys.Submit.Help().Key, keys.Submit.Help().Desc},
			{keys.Back.Help().Key, "quit"},
		}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, tuistyles.HelpKeyStyle.Render(b[0])+" "+tuistyles.HelpDescStyle.Render(b[1]))
	}
	return strings.Join(parts, tuistyles.HelpDescStyle.Render(" • "))
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i, f := range formFields {
		label := tuistyles.FieldLabelStyle
		cursor := "  "
		if i == m.focus {
			label = tuistyles.FieldLabelFocusStyle
			cursor = tuistyles.HelpKeyStyle.Render("▸ ")
		}
		b.WriteString(cursor + label.Render(f.label) + m.inputs[i].View() + "\n")
	}

	if m.calculating {
		b.WriteString("\n" + tuistyles.InfoStyle.Render("Calculating..."))
	}
	if m.err != nil {
		b.WriteString("\n" + renderErrors(m.err))
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderErrors(err error) string {
	lines := []string{}
	for _, e := range multierr.Errors(err) {
		lines = append(lines, tuistyles.ErrorStyle.Render("✗ "+e.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderResults() string {
	if m.result == nil {
		return tuistyles.InfoStyle.Render("No estimate yet.")
	}
	res := m.result.Result
	b := res.Breakdown

	totalTax := components.NewMetricCard("Total Tax", output.FormatYen(res.TotalTax)).AsPrimary()
	takeHome := components.NewMetricCard("Take-Home", output.FormatYen(m.result.TakeHome)).AsPrimary()
	if m.previous != nil {
		withDelta(totalTax, res.TotalTax.Sub(m.previous.Result.TotalTax), false)
		withDelta(takeHome, m.result.TakeHome.Sub(m.previous.TakeHome), true)
	}

	cards := []*components.MetricCard{
		totalTax,
		takeHome,
		components.NewMetricCard("Effective Rate", output.FormatPercentage(res.EffectiveTaxRate)),
		components.NewMetricCard("National Income Tax", output.FormatYen(res.TotalNationalIncomeTax)).
			WithNote(fmt.Sprintf("incl. reconstruction %s", output.FormatYen(res.ReconstructionTax))),
		components.NewMetricCard("Resident Tax", output.FormatYen(res.TotalResidentTax)).
			WithNote(fmt.Sprintf("incl. per-capita %s", output.FormatYen(res.ResidentTaxPerCapita))),
		components.NewMetricCard("Marginal Rate", output.FormatRate(b.MarginalRate)),
		components.NewMetricCard("Furusato Ceiling", output.FormatYen(res.FurusatoLimit)).
			WithNote("incl. "+output.FormatYen(m.engine.Rules.Insights.FurusatoSelfPay)+" self-pay"),
		components.NewMetricCard("iDeCo Savings", output.FormatYen(res.IDeCoTaxSavings)),
		components.NewMetricCard("NISA Savings", output.FormatYen(res.NISATaxSavings)),
	}

	columns := 3
	if m.width < 90 {
		columns = 2
	}

	sections := []string{
		components.MetricGrid(cards, columns),
		"",
		renderBracket(b.Bracket, res.AggregateTaxableIncome),
		"",
		renderBreakdown(m.result),
	}

	if len(m.result.Advisories) > 0 {
		notes := []string{}
		for _, a := range m.result.Advisories {
			notes = append(notes, tuistyles.AdvisoryStyle.Render("• "+a.Message))
		}
		sections = append(sections, "", lipgloss.NewStyle().Width(80).Render(strings.Join(notes, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func withDelta(card *components.MetricCard, delta decimal.Decimal, upIsGood bool) {
	if delta.IsZero() {
		card.WithNote("no change")
		return
	}
	up := delta.IsPositive()
	card.WithDelta(up, up == upIsGood, output.FormatSignedYen(delta)+" vs last")
}

func renderBracket(pos domain.BracketPosition, taxable decimal.Decimal) string {
	upper := 0.0
	if pos.UpperBound != nil {
		upper = pos.UpperBound.InexactFloat64()
	}
	gauge := components.NewBracketGauge(
		fmt.Sprintf("Bracket %d", pos.Index+1),
		taxable.InexactFloat64(),
		pos.LowerBound.InexactFloat64(),
		upper,
	).WithRate(output.FormatRate(pos.Rate))

	note := "top bracket"
	if !pos.IsTopBracket() {
		note = output.FormatYen(pos.Headroom) + " of taxable income before the next bracket"
	}
	return gauge.Render() + "\n" + tuistyles.SubtitleStyle.Render(note)
}

func renderBreakdown(sr *domain.ScenarioResult) string {
	res := sr.Result
	b := res.Breakdown
	rows := [][2]string{
		{"Salary deduction", output.FormatYen(b.SalaryDeduction)},
		{"Aggregate income", output.FormatYen(b.AggregateIncome)},
		{"Deductions (national / resident)", output.FormatYen(b.NationalDeductions) + " / " + output.FormatYen(b.ResidentDeductions)},
		{"Taxable (national / resident)", output.FormatYen(res.AggregateTaxableIncome) + " / " + output.FormatYen(b.ResidentTaxableIncome)},
		{"Stock income (separate)", output.FormatYen(b.SeparateTaxableIncome)},
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(tuistyles.MetricLabelStyle.Width(34).Render(r[0]) + r[1] + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
