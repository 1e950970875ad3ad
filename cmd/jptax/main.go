package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/config"
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/rgehrsitz/jptax/internal/logging"
	"github.com/rgehrsitz/jptax/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds the environment defaults shared by every command
type cli struct {
	settings config.Settings
}

func newRootCmd(settings config.Settings) *cobra.Command {
	c := &cli{settings: settings}

	root := &cobra.Command{
		Use:   "jptax",
		Short: "Japanese income and resident tax estimator",
		Long: `Estimate Japanese national income tax, reconstruction tax and resident tax
for salaried employees with optional crypto, listed-stock, iDeCo and NISA activity.

Amounts are annual yen. The built-in rules are Reiwa 7 (2025); use --rules to
supply a different fiscal-year table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.calculateCmd(),
		c.validateCmd(),
		c.compareCmd(),
		c.sweepCmd(),
		c.solveCmd(),
		c.rulesCmd(),
		c.exampleCmd(),
		c.serveCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jptax %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newEngine loads the rules and attaches a debug logger when asked.
// The flag wins over the scenarios file, which wins over JPTAX_RULES.
func (c *cli) newEngine(rulesFlag, fileRules string, debugMode bool) (*calculation.TaxEngine, error) {
	rulesFile := c.settings.RulesFile
	if fileRules != "" {
		rulesFile = fileRules
	}
	if rulesFlag != "" {
		rulesFile = rulesFlag
	}

	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewTaxEngineWithRules(rules)
	if debugMode {
		logger, err := logging.New(c.settings.Env, "debug")
		if err != nil {
			return nil, err
		}
		engine.SetLogger(logger.Sugar())
	}
	return engine, nil
}

func (c *cli) calculateCmd() *cobra.Command {
	var (
		format    string
		rulesFile string
		scenario  string
		debugMode bool
		write     bool
		in        inputFlags
	)

	cmd := &cobra.Command{
		Use:   "calculate [scenarios-file]",
		Short: "Calculate tax for every scenario in a file, or for one input given by flags",
		Long: `Calculate tax estimates.

Examples:
  jptax calculate scenarios.yaml
  jptax calculate scenarios.yaml --scenario "With Stocks" --format json
  jptax calculate --salary 6000000 --social-insurance 900000
  jptax calculate scenarios.yaml --format pdf --write`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format,
					strings.Join(append(output.AvailableFormatterNames(), output.AvailableFormatAliases()...), ", "))
			}

			var configData *domain.Configuration
			if len(args) == 1 {
				var err error
				if configData, err = config.NewInputParser().LoadFromFile(args[0]); err != nil {
					return err
				}
				if scenario != "" {
					s, ok := configData.FindScenario(scenario)
					if !ok {
						return fmt.Errorf("scenario %s not found in %s", scenario, args[0])
					}
					configData.Scenarios = []domain.Scenario{*s}
				}
			} else {
				input, err := in.toInput()
				if err != nil {
					return err
				}
				configData = &domain.Configuration{
					Scenarios: []domain.Scenario{{Name: "Input", Input: input}},
				}
			}

			engine, err := c.newEngine(rulesFile, configData.RulesFile, debugMode)
			if err != nil {
				return err
			}

			report, err := engine.RunScenarios(cmd.Context(), configData)
			if err != nil {
				return err
			}

			if write {
				filename, err := output.WriteFormatted(f, report, output.FileExtension(f))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}

			data, err := f.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", c.settings.Format, "Output format (console, console-lite, json, yaml, csv, html, pdf)")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Fiscal-year rules YAML (default: built-in Reiwa 7)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Only calculate the named scenario")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Log each calculation step to stderr")
	cmd.Flags().BoolVar(&write, "write", false, "Write the report to a timestamped file instead of stdout")
	in.register(cmd)
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "validate [scenarios-file]",
		Short: "Validate a scenarios file and its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configData, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if _, err := c.newEngine(rulesFile, configData.RulesFile, false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d scenarios)\n", args[0], len(configData.Scenarios))
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Fiscal-year rules YAML to validate alongside")
	return cmd
}

func (c *cli) rulesCmd() *cobra.Command {
	var (
		rulesFile string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the fiscal-year rules in effect as YAML",
		Long: `Print the fiscal-year rules in effect. The YAML output can be edited and passed
back with --rules to model a different year.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.newEngine(rulesFile, "", false)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, engine.Rules)
			}
			data, err := yaml.Marshal(engine.Rules)
			if err != nil {
				return fmt.Errorf("failed to marshal rules: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Rules YAML to load instead of the built-in table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of YAML")
	return cmd
}

func (c *cli) exampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [output-file]",
		Short: "Write a sample scenarios file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "scenarios.yaml"
			if len(args) == 1 {
				filename = args[0]
			}
			if err := config.WriteSample(filename); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample scenarios written to %s\n", filename)
			return nil
		},
	}
}

// inputFlags describe a single TaxInput on the command line
type inputFlags struct {
	salary, socialInsurance, crypto, stock, dividends string
	lifeInsurance, ideco, nisaGains, nisaDividends    string
	dependents                                        int
	married                                           bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.salary, "salary", "0", "Annual salary revenue")
	fs.StringVar(&f.socialInsurance, "social-insurance", "0", "Social insurance premiums paid")
	fs.StringVar(&f.crypto, "crypto", "0", "Crypto profit (miscellaneous income)")
	fs.StringVar(&f.stock, "stock", "0", "Listed-stock capital gains in a taxable account")
	fs.StringVar(&f.dividends, "dividends", "0", "Listed-stock dividends in a taxable account")
	fs.StringVar(&f.lifeInsurance, "life-insurance", "0", "Life insurance deduction already computed")
	fs.StringVar(&f.ideco, "ideco", "0", "iDeCo contributions")
	fs.StringVar(&f.nisaGains, "nisa-gains", "0", "Capital gains realised inside NISA")
	fs.StringVar(&f.nisaDividends, "nisa-dividends", "0", "Dividends received inside NISA")
	fs.IntVar(&f.dependents, "dependents", 0, "Number of qualifying dependents")
	fs.BoolVar(&f.married, "married", false, "Filer is married")
}

func (f *inputFlags) toInput() (domain.TaxInput, error) {
	in := domain.TaxInput{
		DependentsCount: f.dependents,
		IsSingle:        !f.married,
	}
	amounts := []struct {
		flag  string
		value string
		dst   *decimal.Decimal
	}{
		{"salary", f.salary, &in.SalaryRevenue},
		{"social-insurance", f.socialInsurance, &in.SocialInsurancePaid},
		{"crypto", f.crypto, &in.CryptoProfit},
		{"stock", f.stock, &in.StockProfit},
		{"dividends", f.dividends, &in.StockDividends},
		{"life-insurance", f.lifeInsurance, &in.LifeInsuranceDeduction},
		{"ideco", f.ideco, &in.IDeCoContribution},
		{"nisa-gains", f.nisaGains, &in.NISACapitalGains},
		{"nisa-dividends", f.nisaDividends, &in.NISADividends},
	}
	for _, a := range amounts {
		v, err := parseYen(a.value)
		if err != nil {
			return domain.TaxInput{}, fmt.Errorf("--%s: %w", a.flag, err)
		}
		*a.dst = v
	}

	if err := config.ValidateInput(in); err != nil {
		return domain.TaxInput{}, err
	}
	return in, nil
}

// parseYen accepts plain or comma-grouped yen, e.g. 6000000 or 6,000,000
func parseYen(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", "_", "", "¥", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func main() {
	settings, err := config.LoadEnvironment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(settings).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
