package calculation

import (
	"testing"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDeCoTaxSavings(t *testing.T) {
	rules := domain.Reiwa7Rules()

	tests := []struct {
		name         string
		contribution int64
		marginal     string
		expected     int64
	}{
		{"no contribution", 0, "0.20", 0},
		{"ten percent bracket", 276000, "0.10", 55779},
		{"twenty percent bracket", 276000, "0.20", 83959},
		{"five percent bracket", 144000, "0.05", 21751},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IDeCoTaxSavings(&rules, d(tt.contribution), decimal.RequireFromString(tt.marginal))
			assert.True(t, got.Equal(d(tt.expected)), "expected %d, got %s", tt.expected, got)
		})
	}
}

func TestNISATaxSavings(t *testing.T) {
	rules := domain.Reiwa7Rules()

	got := NISATaxSavings(&rules, domain.TaxInput{NISACapitalGains: d(1000000)})
	assert.True(t, got.Equal(d(203150)))

	got = NISATaxSavings(&rules, domain.TaxInput{NISACapitalGains: d(333), NISADividends: d(1000)})
	assert.True(t, got.Equal(d(270)), "floored: %s", got)

	assert.True(t, NISATaxSavings(&rules, domain.TaxInput{}).IsZero())
}

func TestFurusatoLimit(t *testing.T) {
	rules := domain.Reiwa7Rules()

	tests := []struct {
		name     string
		resident int64
		marginal string
		expected int64
	}{
		{"no resident tax", 0, "0.05", 0},
		{"ten percent bracket", 303000, "0.10", 77000},
		{"five percent bracket", 100000, "0.05", 25000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FurusatoLimit(&rules, d(tt.resident), decimal.RequireFromString(tt.marginal))
			assert.True(t, got.Equal(d(tt.expected)), "expected %d, got %s", tt.expected, got)
		})
	}
}

func TestFurusatoLimit_DenominatorGuard(t *testing.T) {
	rules := domain.Reiwa7Rules()
	rules.ResidentAggregateRate = decimal.RequireFromString("0.50")

	got := FurusatoLimit(&rules, d(500000), decimal.RequireFromString("0.50"))
	assert.True(t, got.IsZero())
}

func TestFurusatoLimit_NonNegative(t *testing.T) {
	engine := NewTaxEngine()

	for salary := int64(0); salary <= 60000000; salary += 1500000 {
		r := engine.Calculate(domain.TaxInput{SalaryRevenue: d(salary), SocialInsurancePaid: d(salary / 7)})
		assert.False(t, r.FurusatoLimit.IsNegative(), "salary %d", salary)
		if r.Breakdown.ResidentTaxAggregate.IsZero() {
			assert.True(t, r.FurusatoLimit.IsZero(), "salary %d", salary)
		}
	}
}

func TestEffectiveTaxRate(t *testing.T) {
	assert.True(t, EffectiveTaxRate(d(100), d(0)).IsZero())
	assert.True(t, EffectiveTaxRate(d(472710), d(6000000)).Equal(decimal.RequireFromString("7.8785")))
}

func TestLocateBracket(t *testing.T) {
	rules := domain.Reiwa7Rules()

	pos := LocateBracket(&rules, d(2980000))
	assert.Equal(t, 1, pos.Index)
	assert.True(t, pos.Rate.Equal(decimal.RequireFromString("0.10")))
	assert.True(t, pos.LowerBound.Equal(d(1950000)))
	require.NotNil(t, pos.UpperBound)
	assert.True(t, pos.UpperBound.Equal(d(3300000)))
	assert.True(t, pos.Headroom.Equal(d(320000)))
	assert.False(t, pos.IsTopBracket())

	pos = LocateBracket(&rules, d(0))
	assert.Equal(t, 0, pos.Index)
	assert.True(t, pos.LowerBound.IsZero())
	assert.True(t, pos.Headroom.Equal(d(1950000)))

	pos = LocateBracket(&rules, d(50000000))
	assert.True(t, pos.IsTopBracket())
	assert.Equal(t, len(rules.Brackets)-1, pos.Index)
	assert.True(t, pos.Headroom.IsZero())
	assert.True(t, pos.LowerBound.Equal(d(39999000)))

	empty := domain.FiscalYearRules{}
	assert.Equal(t, domain.BracketPosition{}, LocateBracket(&empty, d(1000)))
}
