package breakeven

import (
	"context"
	"errors"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveEach solves the same goal once per target input, so that e.g. a
// required salary and a required iDeCo contribution can be read side by side.
// Targets that cannot reach the goal are reported in Unreachable.
func (s *Solver) SolveEach(
	ctx context.Context,
	baseScenario *domain.Scenario,
	goal Goal,
	goalValue decimal.Decimal,
	targets []string,
) (*MultiTargetResult, error) {

	if len(targets) == 0 {
		return nil, &BreakEvenError{Operation: "solve_each", Message: "at least one target is required"}
	}

	multi := &MultiTargetResult{
		Goal:        goal,
		GoalValue:   goalValue,
		Unreachable: map[string]string{},
	}

	for _, target := range targets {
		result, err := s.Solve(ctx, Request{
			BaseScenario:  baseScenario,
			Target:        target,
			Goal:          goal,
			GoalValue:     goalValue,
			MaxIterations: s.Options.MaxIterations,
		})
		if err != nil {
			var be *BreakEvenError
			if !errors.As(err, &be) || be.Operation != "solve" {
				return nil, err
			}
			multi.Unreachable[target] = be.Message
			continue
		}
		multi.Results = append(multi.Results, *result)
	}

	if len(multi.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_each",
			Message:   "no target can reach the goal",
		}
	}
	return multi, nil
}
