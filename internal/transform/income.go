package transform

import (
	"fmt"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleSalary multiplies salary revenue by Factor, and social insurance too
// when ScaleSocialInsurance is set.
type ScaleSalary struct {
	Factor               decimal.Decimal
	ScaleSocialInsurance bool
}

func (s *ScaleSalary) Name() string {
	return "scale_salary"
}

func (s *ScaleSalary) Description() string {
	pct := s.Factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Change salary by %s%%", pct.StringFixed(1))
}

func (s *ScaleSalary) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if !s.Factor.IsPositive() {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", s.Factor), nil)
	}
	return nil
}

func (s *ScaleSalary) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Input.SalaryRevenue = base.Input.SalaryRevenue.Mul(s.Factor).Floor()
	if s.ScaleSocialInsurance {
		modified.Input.SocialInsurancePaid = base.Input.SocialInsurancePaid.Mul(s.Factor).Floor()
	}
	return modified, nil
}

// AddCryptoProfit adds Amount (may be negative) to crypto profit.
type AddCryptoProfit struct {
	Amount decimal.Decimal
}

func (a *AddCryptoProfit) Name() string {
	return "add_crypto_profit"
}

func (a *AddCryptoProfit) Description() string {
	return fmt.Sprintf("Add %s yen of crypto profit", a.Amount.StringFixed(0))
}

func (a *AddCryptoProfit) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(a.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if base.Input.CryptoProfit.Add(a.Amount).IsNegative() {
		return NewTransformError(a.Name(), "validate", "crypto profit cannot become negative", nil)
	}
	return nil
}

func (a *AddCryptoProfit) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Input.CryptoProfit = base.Input.CryptoProfit.Add(a.Amount)
	return modified, nil
}

// MoveStocksToNISA moves Share of the taxable stock gains and dividends into
// the tax-exempt account.
type MoveStocksToNISA struct {
	Share decimal.Decimal // 0 < Share <= 1
}

func (m *MoveStocksToNISA) Name() string {
	return "move_stocks_to_nisa"
}

func (m *MoveStocksToNISA) Description() string {
	return fmt.Sprintf("Hold %s%% of stock investments in NISA", m.Share.Mul(decimal.NewFromInt(100)).StringFixed(0))
}

func (m *MoveStocksToNISA) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(m.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if !m.Share.IsPositive() || m.Share.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(m.Name(), "validate", fmt.Sprintf("share must be in (0, 1], got %s", m.Share), nil)
	}
	return nil
}

func (m *MoveStocksToNISA) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	in := &modified.Input

	gains := decimal.Max(decimal.Zero, in.StockProfit).Mul(m.Share).Floor()
	dividends := decimal.Max(decimal.Zero, in.StockDividends).Mul(m.Share).Floor()

	in.StockProfit = in.StockProfit.Sub(gains)
	in.StockDividends = in.StockDividends.Sub(dividends)
	in.NISACapitalGains = in.NISACapitalGains.Add(gains)
	in.NISADividends = in.NISADividends.Add(dividends)
	return modified, nil
}
