package transform

import (
	"fmt"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// Annual iDeCo contribution caps
var (
	IDeCoCapEmployee     = decimal.NewFromInt(276000) // 23,000 yen a month
	IDeCoCapSelfEmployed = decimal.NewFromInt(816000) // 68,000 yen a month
)

// LifeInsuranceCap is the largest combined life insurance deduction
var LifeInsuranceCap = decimal.NewFromInt(120000)

// SetIDeCo sets the annual iDeCo contribution.
type SetIDeCo struct {
	Amount decimal.Decimal
}

func (s *SetIDeCo) Name() string {
	return "set_ideco"
}

func (s *SetIDeCo) Description() string {
	return fmt.Sprintf("Contribute %s yen a year to iDeCo", s.Amount.StringFixed(0))
}

func (s *SetIDeCo) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if s.Amount.IsNegative() {
		return NewTransformError(s.Name(), "validate", "contribution cannot be negative", nil)
	}
	if s.Amount.GreaterThan(IDeCoCapSelfEmployed) {
		return NewTransformError(s.Name(), "validate",
			fmt.Sprintf("contribution %s exceeds the annual cap of %s", s.Amount, IDeCoCapSelfEmployed), nil)
	}
	return nil
}

func (s *SetIDeCo) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Input.IDeCoContribution = s.Amount
	return modified, nil
}

// AddDependents changes the dependent count by Count (may be negative).
type AddDependents struct {
	Count int
}

func (a *AddDependents) Name() string {
	return "add_dependents"
}

func (a *AddDependents) Description() string {
	if a.Count < 0 {
		return fmt.Sprintf("Remove %d dependent(s)", -a.Count)
	}
	return fmt.Sprintf("Add %d dependent(s)", a.Count)
}

func (a *AddDependents) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(a.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if base.Input.DependentsCount+a.Count < 0 {
		return NewTransformError(a.Name(), "validate",
			fmt.Sprintf("scenario has %d dependent(s), cannot remove %d", base.Input.DependentsCount, -a.Count), nil)
	}
	return nil
}

func (a *AddDependents) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Input.DependentsCount += a.Count
	return modified, nil
}

// SetLifeInsurance sets the life insurance deduction.
type SetLifeInsurance struct {
	Amount decimal.Decimal
}

func (s *SetLifeInsurance) Name() string {
	return "set_life_insurance"
}

func (s *SetLifeInsurance) Description() string {
	return fmt.Sprintf("Claim a %s yen life insurance deduction", s.Amount.StringFixed(0))
}

func (s *SetLifeInsurance) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if s.Amount.IsNegative() || s.Amount.GreaterThan(LifeInsuranceCap) {
		return NewTransformError(s.Name(), "validate",
			fmt.Sprintf("deduction must be between 0 and %s", LifeInsuranceCap), nil)
	}
	return nil
}

func (s *SetLifeInsurance) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Input.LifeInsuranceDeduction = s.Amount
	return modified, nil
}
