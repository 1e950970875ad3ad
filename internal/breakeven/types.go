package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// Goal is the result figure the solver matches
type Goal string

const (
	GoalTakeHome Goal = "take_home"      // Reach at least this take-home pay
	GoalTotalTax Goal = "total_tax"      // Reach this combined national and resident tax
	GoalFurusato Goal = "furusato_limit" // Reach this furusato nozei ceiling
)

// Goals lists the supported goals
func Goals() []Goal {
	return []Goal{GoalTakeHome, GoalTotalTax, GoalFurusato}
}

// metric extracts the goal's figure from a scenario result
func (g Goal) metric(sr *domain.ScenarioResult) (decimal.Decimal, error) {
	switch g {
	case GoalTakeHome:
		return sr.TakeHome, nil
	case GoalTotalTax:
		return sr.Result.TotalTax, nil
	case GoalFurusato:
		return sr.Result.FurusatoLimit, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported goal %q (supported: %v)", g, Goals())
	}
}

// Constraints bound the values the solved input may take
type Constraints struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.Min != nil && c.Min.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min cannot be negative",
		}
	}
	if c.Max != nil && c.Max.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max cannot be negative",
		}
	}
	if c.Min != nil && c.Max != nil && c.Min.GreaterThan(*c.Max) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min cannot be greater than max",
		}
	}
	return nil
}

// Request asks for the value of one input that makes a scenario reach a goal
type Request struct {
	BaseScenario  *domain.Scenario
	Target        string // input to solve for, one of calculation.SweepParameterNames
	Goal          Goal
	GoalValue     decimal.Decimal
	Constraints   Constraints
	MaxIterations int
}

// Result contains the outcome of a solve
type Result struct {
	Target          string          `json:"target"`
	Goal            Goal            `json:"goal"`
	GoalValue       decimal.Decimal `json:"goalValue"`
	Iterations      int             `json:"iterations"`
	Converged       bool            `json:"converged"`
	ConvergenceInfo string          `json:"convergenceInfo,omitempty"`

	// Solution is the input value found and Achieved the goal figure at it
	Solution decimal.Decimal `json:"solution"`
	Achieved decimal.Decimal `json:"achieved"`

	Scenario     *domain.ScenarioResult `json:"scenario"`
	BaseScenario *domain.ScenarioResult `json:"baseScenario"`
}

// MultiTargetResult collects one solve per target input
type MultiTargetResult struct {
	Goal        Goal              `json:"goal"`
	GoalValue   decimal.Decimal   `json:"goalValue"`
	Results     []Result          `json:"results"`
	Unreachable map[string]string `json:"unreachable,omitempty"`
}

// SolverOptions configures the search
type SolverOptions struct {
	MaxIterations int             // Bisection steps before giving up
	SearchCeiling decimal.Decimal // Upper bound when the request sets no Max
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 64,
		SearchCeiling: decimal.NewFromInt(1_000_000_000),
	}
}

// BreakEvenError represents errors from the solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
