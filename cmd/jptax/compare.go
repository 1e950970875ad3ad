package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/jptax/internal/compare"
	"github.com/rgehrsitz/jptax/internal/config"
	"github.com/rgehrsitz/jptax/internal/transform"
)

func (c *cli) compareCmd() *cobra.Command {
	var (
		base          string
		with          string
		transforms    []string
		scenarios     string
		format        string
		rulesFile     string
		listTemplates bool
		detailed      bool
		debugMode     bool
	)

	cmd := &cobra.Command{
		Use:   "compare [scenarios-file]",
		Short: "Compare a scenario against what-if templates or other scenarios",
		Long: `Compare a base scenario against alternatives.

Examples:
  jptax compare scenarios.yaml --base Base --with ideco_employee,nisa_all
  jptax compare scenarios.yaml --base Base --transform set_ideco:amount=144000
  jptax compare scenarios.yaml --base Base --scenarios "With Stocks,With iDeCo and NISA"
  jptax compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				fmt.Fprint(cmd.OutOrStdout(), templateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("scenarios file required for comparison (use --list-templates to see available templates)")
			}

			configData, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if base == "" {
				base = configData.Scenarios[0].Name
			}

			templateNames := splitList(with)
			scenarioNames := splitList(scenarios)
			if len(templateNames) == 0 && len(transforms) == 0 && len(scenarioNames) == 0 {
				return fmt.Errorf("nothing to compare: use --with, --transform or --scenarios")
			}
			if len(scenarioNames) > 0 && (len(templateNames) > 0 || len(transforms) > 0) {
				return fmt.Errorf("--scenarios cannot be combined with --with or --transform")
			}

			engine, err := c.newEngine(rulesFile, configData.RulesFile, debugMode)
			if err != nil {
				return err
			}
			ce := compare.NewCompareEngine(engine)

			var set *compare.ComparisonSet
			if len(scenarioNames) > 0 {
				set, err = ce.CompareScenarios(cmd.Context(), configData, base, scenarioNames)
			} else {
				set, err = ce.Compare(cmd.Context(), configData, compare.CompareOptions{
					BaseScenarioName: base,
					Templates:        templateNames,
					Transforms:       transforms,
				})
			}
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			set.ConfigPath = args[0]

			var out string
			switch strings.ToLower(format) {
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(set)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true, Detailed: detailed}).Format(set)
			case "compact":
				out = (&compare.TableFormatter{}).FormatCompact(set)
			case "table", "console", "":
				out = (&compare.TableFormatter{}).Format(set)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base scenario name (default: first scenario)")
	cmd.Flags().StringVar(&with, "with", "", "Comma-separated list of templates to compare")
	cmd.Flags().StringArrayVar(&transforms, "transform", nil, "Ad-hoc transform, e.g. set_ideco:amount=144000 (repeatable)")
	cmd.Flags().StringVar(&scenarios, "scenarios", "", "Comma-separated list of scenarios from the file to compare against the base")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Fiscal-year rules YAML (default: built-in Reiwa 7)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List all available what-if templates")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include full scenario results in JSON output")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Log each calculation step to stderr")
	return cmd
}

func templateHelp(registry *transform.TemplateRegistry) string {
	var sb strings.Builder
	sb.WriteString("Available templates:\n\n")
	for _, name := range registry.List() {
		t, _ := registry.Get(name)
		sb.WriteString(fmt.Sprintf("  %-22s %s\n", name, t.Description))
	}
	sb.WriteString("\nAd-hoc transforms (--transform):\n\n")
	for _, name := range transform.NewTransformRegistry().List() {
		sb.WriteString("  " + name + "\n")
	}
	return sb.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
