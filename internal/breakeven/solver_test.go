package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

func yen(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func salaryScenario() *domain.Scenario {
	return &domain.Scenario{
		Name: "Base",
		Input: domain.TaxInput{
			SalaryRevenue:       yen(6000000),
			SocialInsurancePaid: yen(900000),
			IsSingle:            true,
		},
	}
}

// evalAt returns the scenario result with one input replaced
func evalAt(t *testing.T, engine *calculation.TaxEngine, target string, v decimal.Decimal) domain.ScenarioResult {
	t.Helper()
	sc := salaryScenario()
	if err := calculation.ApplyParameter(&sc.Input, target, v); err != nil {
		t.Fatal(err)
	}
	return engine.Evaluate(sc)
}

func TestNewSolver(t *testing.T) {
	engine := calculation.NewTaxEngine()
	options := DefaultSolverOptions()

	solver := NewSolver(engine, options)
	if solver.Engine != engine {
		t.Error("Expected Engine to match input")
	}
	if solver.Options != options {
		t.Error("Expected Options to match input")
	}

	if NewDefaultSolver(nil).Engine == nil {
		t.Error("Expected a default engine when none is given")
	}
}

func TestSolve_SalaryForTakeHome(t *testing.T) {
	engine := calculation.NewTaxEngine()
	solver := NewDefaultSolver(engine)
	upper := yen(20000000)

	result, err := solver.Solve(context.Background(), Request{
		BaseScenario: salaryScenario(),
		Target:       "salary",
		Goal:         GoalTakeHome,
		GoalValue:    yen(5000000),
		Constraints:  Constraints{Max: &upper},
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if !result.Converged {
		t.Errorf("Expected convergence, got %s", result.ConvergenceInfo)
	}
	if result.Achieved.LessThan(yen(5000000)) {
		t.Errorf("Expected take-home of at least 5,000,000, got %s", result.Achieved)
	}
	if !result.Solution.GreaterThan(yen(6000000)) {
		t.Errorf("Expected a salary above the base 6,000,000, got %s", result.Solution)
	}

	below := evalAt(t, engine, "salary", result.Solution.Sub(yen(1)))
	if below.TakeHome.GreaterThanOrEqual(yen(5000000)) {
		t.Errorf("Expected one yen less salary to miss the goal, got take-home %s", below.TakeHome)
	}

	if result.Scenario.Name != "Base_salary" {
		t.Errorf("Unexpected solved scenario name %s", result.Scenario.Name)
	}
	if !result.BaseScenario.Result.TotalTax.Equal(yen(472710)) {
		t.Errorf("Expected base total tax 472710, got %s", result.BaseScenario.Result.TotalTax)
	}
}

func TestSolve_IDeCoForTotalTax(t *testing.T) {
	engine := calculation.NewTaxEngine()
	upper := yen(2000000)

	result, err := NewDefaultSolver(engine).Solve(context.Background(), Request{
		BaseScenario: salaryScenario(),
		Target:       "ideco",
		Goal:         GoalTotalTax,
		GoalValue:    yen(430000),
		Constraints:  Constraints{Max: &upper},
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if result.Achieved.GreaterThan(yen(430000)) {
		t.Errorf("Expected total tax of at most 430,000, got %s", result.Achieved)
	}
	above := evalAt(t, engine, "ideco", result.Solution.Sub(yen(1)))
	if above.Result.TotalTax.LessThanOrEqual(yen(430000)) {
		t.Errorf("Expected one yen less iDeCo to miss the goal, got total tax %s", above.Result.TotalTax)
	}
}

func TestSolve_LowerBoundAlreadyReaches(t *testing.T) {
	lower := yen(6000000)
	result, err := NewDefaultSolver(nil).Solve(context.Background(), Request{
		BaseScenario: salaryScenario(),
		Target:       "salary",
		Goal:         GoalTakeHome,
		GoalValue:    yen(1000000),
		Constraints:  Constraints{Min: &lower},
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Solution.Equal(lower) {
		t.Errorf("Expected the lower bound as solution, got %s", result.Solution)
	}
	if result.Iterations != 0 {
		t.Errorf("Expected no iterations, got %d", result.Iterations)
	}
}

func TestSolve_Unreachable(t *testing.T) {
	upper := yen(10000000)
	_, err := NewDefaultSolver(nil).Solve(context.Background(), Request{
		BaseScenario: salaryScenario(),
		Target:       "salary",
		Goal:         GoalTakeHome,
		GoalValue:    yen(50000000),
		Constraints:  Constraints{Max: &upper},
	})

	var be *BreakEvenError
	if !errors.As(err, &be) {
		t.Fatalf("Expected BreakEvenError, got %v", err)
	}
	if be.Operation != "solve" || !strings.Contains(be.Message, "not reachable") {
		t.Errorf("Unexpected error: %v", be)
	}
}

func TestSolve_InvalidRequests(t *testing.T) {
	lo, hi := yen(10), yen(5)
	negMax := yen(-1000000)
	aboveCeiling := yen(2_000_000_000)

	tests := []struct {
		name string
		req  Request
		op   string
	}{
		{"nil base", Request{Target: "salary", Goal: GoalTakeHome}, "validate_request"},
		{"bad goal", Request{BaseScenario: salaryScenario(), Target: "salary", Goal: "net_worth"}, "validate_request"},
		{"negative goal", Request{BaseScenario: salaryScenario(), Target: "salary", Goal: GoalTotalTax, GoalValue: yen(-1)}, "validate_request"},
		{"bad target", Request{BaseScenario: salaryScenario(), Target: "bonus", Goal: GoalTotalTax}, "apply_target"},
		{"bad range", Request{BaseScenario: salaryScenario(), Target: "salary", Goal: GoalTotalTax, Constraints: Constraints{Min: &lo, Max: &hi}}, "validate_constraints"},
		{"negative max", Request{BaseScenario: salaryScenario(), Target: "ideco", Goal: GoalTotalTax, GoalValue: yen(500000), Constraints: Constraints{Max: &negMax}}, "validate_constraints"},
		{"min above search ceiling", Request{BaseScenario: salaryScenario(), Target: "salary", Goal: GoalTotalTax, Constraints: Constraints{Min: &aboveCeiling}}, "validate_constraints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefaultSolver(nil).Solve(context.Background(), tt.req)
			var be *BreakEvenError
			if !errors.As(err, &be) {
				t.Fatalf("Expected BreakEvenError, got %v", err)
			}
			if be.Operation != tt.op {
				t.Errorf("Expected operation %s, got %s", tt.op, be.Operation)
			}
		})
	}
}

func TestSolve_DependentsCapped(t *testing.T) {
	huge := decimal.RequireFromString("1e30")

	result, err := NewDefaultSolver(nil).Solve(context.Background(), Request{
		BaseScenario: salaryScenario(),
		Target:       "dependents",
		Goal:         GoalTotalTax,
		GoalValue:    decimal.Zero,
		Constraints:  Constraints{Max: &huge},
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Achieved.IsZero() {
		t.Errorf("Expected zero tax, got %s", result.Achieved)
	}
	if result.Solution.LessThan(yen(1)) || result.Solution.GreaterThan(yen(calculation.MaxDependents)) {
		t.Errorf("Expected a dependent count within 1..%d, got %s", calculation.MaxDependents, result.Solution)
	}
	if int64(result.Scenario.Input.DependentsCount) != result.Solution.IntPart() {
		t.Errorf("Scenario dependents %d do not match solution %s", result.Scenario.Input.DependentsCount, result.Solution)
	}
}

func TestSolve_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultSolver(nil).Solve(ctx, Request{
		BaseScenario: salaryScenario(),
		Target:       "salary",
		Goal:         GoalTakeHome,
		GoalValue:    yen(5000000),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSolveEach(t *testing.T) {
	multi, err := NewDefaultSolver(nil).SolveEach(context.Background(), salaryScenario(), GoalTakeHome, yen(5200000),
		[]string{"salary", "ideco"})
	if err != nil {
		t.Fatalf("SolveEach failed: %v", err)
	}

	if len(multi.Results) != 1 || multi.Results[0].Target != "salary" {
		t.Fatalf("Expected only salary to reach the goal, got %+v", multi.Results)
	}
	if _, ok := multi.Unreachable["ideco"]; !ok {
		t.Error("Expected iDeCo to be reported unreachable: it only lowers tax")
	}

	if _, err := NewDefaultSolver(nil).SolveEach(context.Background(), salaryScenario(), GoalTakeHome, yen(5200000),
		[]string{"ideco"}); err == nil {
		t.Error("Expected error when no target reaches the goal")
	}
	if _, err := NewDefaultSolver(nil).SolveEach(context.Background(), salaryScenario(), GoalTakeHome, yen(1),
		[]string{"bonus"}); err == nil || !strings.Contains(err.Error(), "apply_target") {
		t.Errorf("Expected an apply_target error, got %v", err)
	}
	if _, err := NewDefaultSolver(nil).SolveEach(context.Background(), salaryScenario(), GoalTakeHome, yen(1), nil); err == nil {
		t.Error("Expected error without targets")
	}
}

func TestFormatters(t *testing.T) {
	solver := NewDefaultSolver(nil)
	result, err := solver.Solve(context.Background(), Request{
		BaseScenario: salaryScenario(),
		Target:       "salary",
		Goal:         GoalTakeHome,
		GoalValue:    yen(5000000),
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	table := (&TableFormatter{}).Format(result)
	for _, want := range []string{"BREAK-EVEN SOLUTION", "Required salary:", "Take-Home", "¥472,710"} {
		if !strings.Contains(table, want) {
			t.Errorf("Expected table to contain %q", want)
		}
	}

	multi, err := solver.SolveEach(context.Background(), salaryScenario(), GoalTakeHome, yen(5200000), []string{"salary", "ideco"})
	if err != nil {
		t.Fatalf("SolveEach failed: %v", err)
	}
	if out := (&TableFormatter{}).FormatMulti(multi); !strings.Contains(out, "Unreachable:") {
		t.Errorf("Expected unreachable section, got:\n%s", out)
	}

	js, err := (&JSONFormatter{Pretty: true}).Format(result)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !strings.Contains(js, "\"solution\"") {
		t.Errorf("Expected solution field in JSON")
	}
}
