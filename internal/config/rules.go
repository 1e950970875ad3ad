package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LoadRules returns the built-in Reiwa 7 rules when filename is empty and
// otherwise the rules read from filename
func LoadRules(filename string) (domain.FiscalYearRules, error) {
	if filename == "" {
		return domain.Reiwa7Rules(), nil
	}
	return LoadRulesFromFile(filename)
}

// LoadRulesFromFile reads a fiscal-year rules YAML. Keys present in the file
// replace the built-in Reiwa 7 values; a table given in the file replaces the
// whole built-in table.
func LoadRulesFromFile(filename string) (domain.FiscalYearRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.FiscalYearRules{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ParseRules(data)
}

// ParseRules overlays a rules YAML document on the built-in rules and validates the result
func ParseRules(data []byte) (domain.FiscalYearRules, error) {
	rules := domain.Reiwa7Rules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.FiscalYearRules{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateRules(&rules); err != nil {
		return domain.FiscalYearRules{}, fmt.Errorf("rules validation failed: %w", err)
	}
	return rules, nil
}

// ValidateRules checks table shape and value ranges
func ValidateRules(rules *domain.FiscalYearRules) error {
	one := decimal.NewFromInt(1)

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"basic_deduction_national", rules.BasicDeductionNational},
		{"basic_deduction_resident", rules.BasicDeductionResident},
		{"dependent_deduction", rules.DependentDeduction},
		{"resident_per_capita", rules.ResidentPerCapita},
		{"fixed_credit_national", rules.FixedCreditNational},
		{"fixed_credit_resident", rules.FixedCreditResident},
		{"insights.furusato_self_pay", rules.Insights.FurusatoSelfPay},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return &ValidationError{Field: a.field, Reason: "cannot be negative"}
		}
	}

	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"stock_rate_national", rules.StockRateNational},
		{"stock_rate_resident", rules.StockRateResident},
		{"resident_aggregate_rate", rules.ResidentAggregateRate},
		{"reconstruction_rate", rules.ReconstructionRate},
		{"insights.exempt_account_rate", rules.Insights.ExemptAccountRate},
		{"insights.furusato_special_share", rules.Insights.FurusatoSpecialShare},
		{"insights.high_marginal_rate", rules.Insights.HighMarginalRate},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThanOrEqual(one) {
			return &ValidationError{Field: r.field, Reason: "must be in [0, 1)"}
		}
	}

	if !rules.TaxableRoundingUnit.IsPositive() {
		return &ValidationError{Field: "taxable_rounding_unit", Reason: "must be positive"}
	}
	if !rules.Insights.FurusatoRoundingUnit.IsPositive() {
		return &ValidationError{Field: "insights.furusato_rounding_unit", Reason: "must be positive"}
	}

	bounds := make([]*decimal.Decimal, len(rules.EmploymentDeduction))
	for i, row := range rules.EmploymentDeduction {
		if row.Rate.IsNegative() || row.Rate.GreaterThanOrEqual(one) {
			return &ValidationError{Field: fmt.Sprintf("employment_deduction[%d].rate", i), Reason: "must be in [0, 1)"}
		}
		bounds[i] = row.UpTo
	}
	if err := validateBounds("employment_deduction", bounds); err != nil {
		return err
	}

	bounds = make([]*decimal.Decimal, len(rules.Brackets))
	for i, b := range rules.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(one) {
			return &ValidationError{Field: fmt.Sprintf("brackets[%d].rate", i), Reason: "must be in [0, 1)"}
		}
		if i > 0 && b.Rate.LessThan(rules.Brackets[i-1].Rate) {
			return &ValidationError{Field: fmt.Sprintf("brackets[%d].rate", i), Reason: "rates must not decrease"}
		}
		bounds[i] = b.UpTo
	}
	return validateBounds("brackets", bounds)
}

// validateBounds requires strictly ascending upper bounds with exactly one
// catch-all row at the end
func validateBounds(table string, bounds []*decimal.Decimal) error {
	if len(bounds) == 0 {
		return &ValidationError{Field: table, Reason: "table cannot be empty"}
	}
	for i, b := range bounds {
		last := i == len(bounds)-1
		switch {
		case last && b != nil:
			return &ValidationError{Field: table, Reason: "last row must omit up_to"}
		case !last && b == nil:
			return &ValidationError{Field: fmt.Sprintf("%s[%d].up_to", table, i), Reason: "only the last row may omit up_to"}
		case i > 0 && !last && !b.GreaterThan(*bounds[i-1]):
			return &ValidationError{Field: fmt.Sprintf("%s[%d].up_to", table, i), Reason: "bounds must be strictly ascending"}
		}
	}
	return nil
}
