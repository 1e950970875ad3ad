package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// Solver finds the input value at which a scenario reaches a goal
type Solver struct {
	Engine  *calculation.TaxEngine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.TaxEngine, options SolverOptions) *Solver {
	if engine == nil {
		engine = calculation.NewTaxEngine()
	}
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.TaxEngine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Solve bisects the target input over whole yen. The returned solution
// reaches the goal while one yen less does not, so for a metric that rises
// with the input it is the smallest such value. Tax figures are truncated to
// 1,000 yen steps, so take-home can dip locally and a different crossing may
// exist elsewhere in the range.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if req.BaseScenario == nil {
		return nil, &BreakEvenError{Operation: "validate_request", Message: "base scenario is required"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.GoalValue.IsNegative() {
		return nil, &BreakEvenError{Operation: "validate_request", Message: "goal value cannot be negative"}
	}
	if _, err := req.Goal.metric(&domain.ScenarioResult{}); err != nil {
		return nil, &BreakEvenError{Operation: "validate_request", Message: "invalid goal", Cause: err}
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}

	lo, hi := decimal.Zero, s.Options.SearchCeiling
	if req.Constraints.Min != nil {
		lo = req.Constraints.Min.Floor()
	}
	if req.Constraints.Max != nil {
		hi = req.Constraints.Max.Floor()
	}
	if req.Target == "dependents" {
		hi = decimal.Min(hi, decimal.NewFromInt(calculation.MaxDependents))
	}
	if hi.LessThan(lo) {
		return nil, &BreakEvenError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("search range is empty: min %s is above max %s", lo, hi),
		}
	}

	eval := func(v decimal.Decimal) (*domain.ScenarioResult, decimal.Decimal, error) {
		sc := req.BaseScenario.DeepCopy()
		if err := calculation.ApplyParameter(&sc.Input, req.Target, v); err != nil {
			return nil, decimal.Zero, &BreakEvenError{Operation: "apply_target", Message: "cannot set target", Cause: err}
		}
		sc.Name = fmt.Sprintf("%s_%s", req.BaseScenario.Name, req.Target)
		sr := s.Engine.Evaluate(sc)
		m, _ := req.Goal.metric(&sr)
		return &sr, m, nil
	}

	_, fLo, err := eval(lo)
	if err != nil {
		return nil, err
	}
	_, fHi, err := eval(hi)
	if err != nil {
		return nil, err
	}

	increasing := fHi.GreaterThanOrEqual(fLo)
	reached := func(m decimal.Decimal) bool {
		if increasing {
			return m.GreaterThanOrEqual(req.GoalValue)
		}
		return m.LessThanOrEqual(req.GoalValue)
	}

	if !reached(fHi) {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message: fmt.Sprintf("%s of %s is not reachable by setting %s between %s and %s (goal ranges from %s to %s)",
				req.Goal, req.GoalValue, req.Target, lo, hi, fLo, fHi),
		}
	}

	// Invariant: hi reaches the goal, lo does not unless they are equal
	if reached(fLo) {
		hi = lo
	}

	iterations := 0
	for hi.Sub(lo).GreaterThan(one) && iterations < req.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++

		mid := lo.Add(hi).Div(two).Floor()
		_, m, err := eval(mid)
		if err != nil {
			return nil, err
		}
		if reached(m) {
			hi = mid
		} else {
			lo = mid
		}
	}

	solved, achieved, err := eval(hi)
	if err != nil {
		return nil, err
	}
	base := s.Engine.Evaluate(req.BaseScenario)

	result := &Result{
		Target:       req.Target,
		Goal:         req.Goal,
		GoalValue:    req.GoalValue,
		Iterations:   iterations,
		Converged:    hi.Sub(lo).LessThanOrEqual(one),
		Solution:     hi,
		Achieved:     achieved,
		Scenario:     solved,
		BaseScenario: &base,
	}
	if result.Converged {
		result.ConvergenceInfo = fmt.Sprintf("narrowed to 1 yen after %d iterations", iterations)
	} else {
		result.ConvergenceInfo = fmt.Sprintf("stopped after %d iterations with %s yen still bracketed", iterations, hi.Sub(lo))
	}

	s.Engine.Logger.Debugf("solved %s for %s=%s: %s after %d iterations",
		req.Target, req.Goal, req.GoalValue, result.Solution, iterations)
	return result, nil
}
