package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/jptax/internal/breakeven"
	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/config"
)

func (c *cli) solveCmd() *cobra.Command {
	var (
		goal      string
		value     string
		targets   string
		minStr    string
		maxStr    string
		scenario  string
		format    string
		rulesFile string
		debugMode bool
	)

	cmd := &cobra.Command{
		Use:   "solve [scenarios-file]",
		Short: "Find the input value that reaches a take-home, tax or furusato goal",
		Long: fmt.Sprintf(`Solve for one input of a scenario so that the estimate reaches a goal.

Goals: take_home, total_tax, furusato_limit
Targets: %s

Examples:
  jptax solve scenarios.yaml --goal take_home --value 5000000 --target salary
  jptax solve scenarios.yaml --goal total_tax --value 400000 --target ideco --max 816000
  jptax solve scenarios.yaml --goal take_home --value 5000000 --target salary,ideco`,
			strings.Join(calculation.SweepParameterNames(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalValue, err := parseYen(value)
			if err != nil {
				return fmt.Errorf("--value: %w", err)
			}
			targetNames := splitList(targets)
			if len(targetNames) == 0 {
				return fmt.Errorf("--target is required")
			}

			configData, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			base := &configData.Scenarios[0]
			if scenario != "" {
				var ok bool
				if base, ok = configData.FindScenario(scenario); !ok {
					return fmt.Errorf("scenario %s not found in %s", scenario, args[0])
				}
			}

			engine, err := c.newEngine(rulesFile, configData.RulesFile, debugMode)
			if err != nil {
				return err
			}
			solver := breakeven.NewDefaultSolver(engine)

			var result any
			if len(targetNames) > 1 {
				if minStr != "" || maxStr != "" {
					return fmt.Errorf("--min and --max apply to a single --target")
				}
				result, err = solver.SolveEach(cmd.Context(), base, breakeven.Goal(goal), goalValue, targetNames)
			} else {
				var constraints breakeven.Constraints
				if constraints.Min, err = optionalYen("min", minStr); err != nil {
					return err
				}
				if constraints.Max, err = optionalYen("max", maxStr); err != nil {
					return err
				}
				result, err = solver.Solve(cmd.Context(), breakeven.Request{
					BaseScenario: base,
					Target:       targetNames[0],
					Goal:         breakeven.Goal(goal),
					GoalValue:    goalValue,
					Constraints:  constraints,
				})
			}
			if err != nil {
				return err
			}

			var out string
			switch strings.ToLower(format) {
			case "json":
				if out, err = (&breakeven.JSONFormatter{Pretty: true}).Format(result); err != nil {
					return err
				}
				out += "\n"
			case "table", "console", "":
				tf := &breakeven.TableFormatter{}
				switch r := result.(type) {
				case *breakeven.Result:
					out = tf.Format(r)
				case *breakeven.MultiTargetResult:
					out = tf.FormatMulti(r)
				}
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", string(breakeven.GoalTakeHome), "Goal to reach (take_home, total_tax, furusato_limit)")
	cmd.Flags().StringVar(&value, "value", "", "Goal amount in yen")
	cmd.Flags().StringVar(&targets, "target", "salary", "Input to solve for; a comma-separated list solves each in turn")
	cmd.Flags().StringVar(&minStr, "min", "", "Lowest value the target may take")
	cmd.Flags().StringVar(&maxStr, "max", "", "Highest value the target may take")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario to solve from (default: first scenario)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Fiscal-year rules YAML (default: built-in Reiwa 7)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Log each calculation step to stderr")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func optionalYen(name, s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parseYen(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &v, nil
}
