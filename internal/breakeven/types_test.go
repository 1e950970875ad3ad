package breakeven

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()

	if opts.MaxIterations != 64 {
		t.Errorf("Expected MaxIterations 64, got %d", opts.MaxIterations)
	}
	if !opts.SearchCeiling.Equal(decimal.NewFromInt(1_000_000_000)) {
		t.Errorf("Expected SearchCeiling 1,000,000,000, got %s", opts.SearchCeiling)
	}
}

func TestConstraints_Validate(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	lo := decimal.NewFromInt(100)
	hi := decimal.NewFromInt(50)

	tests := []struct {
		name    string
		c       Constraints
		wantErr bool
	}{
		{"empty", Constraints{}, false},
		{"min only", Constraints{Min: &lo}, false},
		{"negative min", Constraints{Min: &neg}, true},
		{"negative max", Constraints{Max: &neg}, true},
		{"max only", Constraints{Max: &hi}, false},
		{"min above max", Constraints{Min: &lo, Max: &hi}, true},
		{"min below max", Constraints{Min: &hi, Max: &lo}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(*BreakEvenError); !ok {
					t.Errorf("Expected BreakEvenError, got %T", err)
				}
			}
		})
	}
}

func TestGoal_Metric(t *testing.T) {
	sr := &domain.ScenarioResult{
		TakeHome: decimal.NewFromInt(1),
		Result: domain.TaxResult{
			TotalTax:      decimal.NewFromInt(2),
			FurusatoLimit: decimal.NewFromInt(3),
		},
	}
	want := map[Goal]int64{GoalTakeHome: 1, GoalTotalTax: 2, GoalFurusato: 3}

	for _, g := range Goals() {
		got, err := g.metric(sr)
		if err != nil {
			t.Fatalf("metric(%s) failed: %v", g, err)
		}
		if !got.Equal(decimal.NewFromInt(want[g])) {
			t.Errorf("metric(%s) = %s, want %d", g, got, want[g])
		}
	}

	if _, err := Goal("nope").metric(sr); err == nil {
		t.Error("Expected error for unsupported goal")
	}
}

func TestBreakEvenError(t *testing.T) {
	err := &BreakEvenError{Operation: "solve", Message: "failed"}
	if err.Error() != "solve: failed" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	cause := errors.New("root cause")
	wrapped := &BreakEvenError{Operation: "apply_target", Message: "cannot set target", Cause: cause}
	if wrapped.Error() != "apply_target: cannot set target: root cause" {
		t.Errorf("Unexpected message: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}
}
