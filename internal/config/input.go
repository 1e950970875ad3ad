package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ValidationError describes one rejected input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err contains at least one ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationErrors flattens a combined validation error into its parts
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	for _, e := range multierr.Errors(err) {
		var ve *ValidationError
		if errors.As(e, &ve) {
			out = append(out, ve)
		}
	}
	return out
}

// InputParser handles parsing of scenario configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenarios file. A relative rules_file is resolved
// against the directory of the scenarios file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	if config.RulesFile != "" && !filepath.IsAbs(config.RulesFile) {
		config.RulesFile = filepath.Join(filepath.Dir(filename), config.RulesFile)
	}

	return config, nil
}

// Parse decodes and validates a YAML scenarios document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Scenarios) == 0 {
		return &ValidationError{Field: "scenarios", Reason: "at least one scenario is required"}
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		name := strings.TrimSpace(scenario.Name)
		if name == "" {
			return &ValidationError{Field: fmt.Sprintf("scenarios[%d].name", i), Reason: "is required"}
		}
		if seen[name] {
			return &ValidationError{Field: fmt.Sprintf("scenarios[%d].name", i), Reason: fmt.Sprintf("duplicate scenario name %q", name)}
		}
		seen[name] = true

		if err := ValidateInput(scenario.Input); err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
	}

	return nil
}

// ValidateInput checks that a TaxInput is in the domain the engine accepts:
// every amount non-negative and dependents a non-negative count. All
// violations are reported together.
func ValidateInput(input domain.TaxInput) error {
	var err error

	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"salaryRevenue", input.SalaryRevenue},
		{"socialInsurancePaid", input.SocialInsurancePaid},
		{"cryptoProfit", input.CryptoProfit},
		{"stockProfit", input.StockProfit},
		{"stockDividends", input.StockDividends},
		{"lifeInsuranceDeduction", input.LifeInsuranceDeduction},
		{"idecoContribution", input.IDeCoContribution},
		{"nisaCapitalGains", input.NISACapitalGains},
		{"nisaDividends", input.NISADividends},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			err = multierr.Append(err, &ValidationError{Field: f.field, Reason: "cannot be negative"})
		}
	}

	if input.DependentsCount < 0 {
		err = multierr.Append(err, &ValidationError{Field: "dependentsCount", Reason: "cannot be negative"})
	}

	return err
}

// DefaultInput returns the starting values of the interactive form
func DefaultInput() domain.TaxInput {
	return domain.TaxInput{
		SalaryRevenue:       decimal.NewFromInt(6000000),
		SocialInsurancePaid: decimal.NewFromInt(900000),
		IsSingle:            true,
	}
}

// SampleConfiguration returns the scenarios file written by `jptax example`
func SampleConfiguration() *domain.Configuration {
	base := DefaultInput()

	withStocks := base
	withStocks.StockProfit = decimal.NewFromInt(1000000)
	withStocks.StockDividends = decimal.NewFromInt(120000)

	withAccounts := base
	withAccounts.IDeCoContribution = decimal.NewFromInt(276000)
	withAccounts.NISACapitalGains = decimal.NewFromInt(500000)
	withAccounts.NISADividends = decimal.NewFromInt(60000)

	return &domain.Configuration{
		Profile: domain.Profile{
			Name: "Sample salaried employee",
			Note: "Amounts are annual yen",
		},
		Scenarios: []domain.Scenario{
			{Name: "Base", Description: "Salary only", Input: base},
			{Name: "With Stocks", Description: "Taxable brokerage gains and dividends", Input: withStocks},
			{Name: "With iDeCo and NISA", Description: "Tax-advantaged accounts in use", Input: withAccounts},
		},
	}
}

// WriteSample writes the sample configuration as YAML
func WriteSample(filename string) error {
	data, err := yaml.Marshal(SampleConfiguration())
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
