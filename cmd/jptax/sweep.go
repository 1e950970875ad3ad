package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/config"
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/rgehrsitz/jptax/internal/output"
)

func (c *cli) sweepCmd() *cobra.Command {
	var (
		parameter string
		rangeStr  string
		steps     int
		scenario  string
		format    string
		rulesFile string
	)

	cmd := &cobra.Command{
		Use:   "sweep [scenarios-file]",
		Short: "Sweep one input across a range and show how the tax responds",
		Long: fmt.Sprintf(`Sweep one input of a scenario from min to max and record total tax,
marginal rate, take-home pay and the furusato nozei ceiling at every step.

Parameters: %s

Examples:
  jptax sweep scenarios.yaml --parameter salary --range 4000000-12000000 --steps 9
  jptax sweep scenarios.yaml --parameter ideco --range 0-276000 --steps 5 --format csv`,
			strings.Join(calculation.SweepParameterNames(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.GetSweepFormatter(format)
			if err != nil {
				return err
			}

			param, err := parseSweepParameter(parameter, rangeStr, steps)
			if err != nil {
				return err
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

			engine, err := c.newEngine(rulesFile, configData.RulesFile, false)
			if err != nil {
				return err
			}

			analysis, err := calculation.NewSweepAnalyzer(engine).Analyze(cmd.Context(), base, param)
			if err != nil {
				return err
			}

			data, err := f.FormatSweep(analysis)
			if err != nil {
				return fmt.Errorf("error formatting output: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&parameter, "parameter", "p", "salary", "Input to sweep")
	cmd.Flags().StringVar(&rangeStr, "range", "", "Range to sweep (format: min-max)")
	cmd.Flags().IntVar(&steps, "steps", 5, "Number of points, including both ends")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario to sweep (default: first scenario)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, json, csv)")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Fiscal-year rules YAML (default: built-in Reiwa 7)")
	_ = cmd.MarkFlagRequired("range")
	return cmd
}

func parseSweepParameter(name, rangeStr string, steps int) (domain.SweepParameter, error) {
	minMax := strings.Split(rangeStr, "-")
	if len(minMax) != 2 {
		return domain.SweepParameter{}, fmt.Errorf("invalid range format: %s (expected min-max)", rangeStr)
	}

	minValue, err := parseYen(minMax[0])
	if err != nil {
		return domain.SweepParameter{}, fmt.Errorf("invalid min value: %w", err)
	}
	maxValue, err := parseYen(minMax[1])
	if err != nil {
		return domain.SweepParameter{}, fmt.Errorf("invalid max value: %w", err)
	}

	return domain.SweepParameter{
		Name:     name,
		MinValue: minValue,
		MaxValue: maxValue,
		Steps:    steps,
	}, nil
}
