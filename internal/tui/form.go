package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/rgehrsitz/jptax/internal/config"
	"github.com/rgehrsitz/jptax/internal/domain"
)

type fieldKind int

const (
	fieldYen fieldKind = iota
	fieldCount
	fieldFlag
)

// formField binds one text input to one TaxInput field
type formField struct {
	key         string
	label       string
	kind        fieldKind
	placeholder string
	get         func(domain.TaxInput) string
	set         func(*domain.TaxInput, string) error
}

func yenField(key, label string, ptr func(*domain.TaxInput) *decimal.Decimal) formField {
	return formField{
		key:         key,
		label:       label,
		kind:        fieldYen,
		placeholder: "0",
		get: func(in domain.TaxInput) string {
			v := *ptr(&in)
			if v.IsZero() {
				return ""
			}
			return v.StringFixed(0)
		},
		set: func(in *domain.TaxInput, raw string) error {
			v, err := parseYen(raw)
			if err != nil {
				return err
			}
			*ptr(in) = v
			return nil
		},
	}
}

var formFields = []formField{
	yenField("salaryRevenue", "Salary revenue (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.SalaryRevenue }),
	yenField("socialInsurancePaid", "Social insurance paid (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.SocialInsurancePaid }),
	yenField("cryptoProfit", "Crypto profit (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.CryptoProfit }),
	yenField("stockProfit", "Stock profit (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.StockProfit }),
	yenField("stockDividends", "Stock dividends (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.StockDividends }),
	{
		key:         "dependentsCount",
		label:       "Dependents",
		kind:        fieldCount,
		placeholder: "0",
		get: func(in domain.TaxInput) string {
			if in.DependentsCount == 0 {
				return ""
			}
			return strconv.Itoa(in.DependentsCount)
		},
		set: func(in *domain.TaxInput, raw string) error {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				in.DependentsCount = 0
				return nil
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%q is not a whole number", raw)
			}
			in.DependentsCount = n
			return nil
		},
	},
	{
		key:         "isSingle",
		label:       "Single (y/n)",
		kind:        fieldFlag,
		placeholder: "y",
		get: func(in domain.TaxInput) string {
			if in.IsSingle {
				return "y"
			}
			return "n"
		},
		set: func(in *domain.TaxInput, raw string) error {
			switch strings.ToLower(strings.TrimSpace(raw)) {
			case "", "y", "yes", "true":
				in.IsSingle = true
			case "n", "no", "false":
				in.IsSingle = false
			default:
				return fmt.Errorf("%q is not y or n", raw)
			}
			return nil
		},
	},
	yenField("lifeInsuranceDeduction", "Life insurance deduction (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.LifeInsuranceDeduction }),
	yenField("idecoContribution", "iDeCo contribution (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.IDeCoContribution }),
	yenField("nisaCapitalGains", "NISA capital gains (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.NISACapitalGains }),
	yenField("nisaDividends", "NISA dividends (¥)", func(in *domain.TaxInput) *decimal.Decimal { return &in.NISADividends }),
}

// parseYen accepts whole yen with optional ¥, commas or underscores; empty is zero
func parseYen(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("¥", "", ",", "", "_", "", " ", "").Replace(raw)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not an amount", raw)
	}
	return v.Floor(), nil
}

func newInputs(initial domain.TaxInput) []textinput.Model {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.Prompt = ""
		ti.Width = 16
		switch f.kind {
		case fieldFlag:
			ti.CharLimit = 5
		case fieldCount:
			ti.CharLimit = 3
		default:
			ti.CharLimit = 15
		}
		ti.SetValue(f.get(initial))
		inputs[i] = ti
	}
	return inputs
}

// readInput converts the form into a validated TaxInput. Every problem is
// reported together.
func readInput(inputs []textinput.Model) (domain.TaxInput, error) {
	var in domain.TaxInput
	var err error
	for i, f := range formFields {
		if ferr := f.set(&in, inputs[i].Value()); ferr != nil {
			err = multierr.Append(err, &config.ValidationError{Field: f.key, Reason: ferr.Error()})
		}
	}
	if err != nil {
		return in, err
	}
	return in, config.ValidateInput(in)
}
