package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func buildTestReport(t *testing.T) *domain.Report {
	t.Helper()
	config := &domain.Configuration{
		Profile: domain.Profile{Name: "Test Filer"},
		Scenarios: []domain.Scenario{
			{
				Name: "Salary",
				Input: domain.TaxInput{
					SalaryRevenue:       decimal.NewFromInt(6000000),
					SocialInsurancePaid: decimal.NewFromInt(900000),
					IsSingle:            true,
				},
			},
			{
				Name:        "Stocks",
				Description: "Salary plus listed-stock gains",
				Input: domain.TaxInput{
					SalaryRevenue:       decimal.NewFromInt(6000000),
					SocialInsurancePaid: decimal.NewFromInt(900000),
					StockProfit:         decimal.NewFromInt(1000000),
				},
			},
		},
	}
	report, err := calculation.NewTaxEngine().RunScenarios(context.Background(), config)
	require.NoError(t, err)
	return report
}

func TestFormatterFunc(t *testing.T) {
	called := false
	var received *domain.Report

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *domain.Report) ([]byte, error) {
			called = true
			received = report
			return []byte("test output"), nil
		},
	}

	report := buildTestReport(t)
	out, err := formatter.Format(report)

	assert.NoError(t, err)
	assert.True(t, called, "Should call the function")
	assert.Same(t, report, received, "Should pass the report")
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestWriteFormatted(t *testing.T) {
	t.Chdir(t.TempDir())

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *domain.Report) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, buildTestReport(t), "txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "jptax_report_"), "Should have correct prefix: %s", filename)
	assert.True(t, strings.HasSuffix(filename, ".txt"), "Should have correct extension: %s", filename)

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(report *domain.Report) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, buildTestReport(t), "txt")
	assert.Error(t, err)
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error")
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "JAPANESE INCOME & RESIDENT TAX ESTIMATE")
	assert.Contains(t, content, "Fiscal Year: Reiwa 7 (2025)")
	assert.Contains(t, content, "Profile: Test Filer")
	assert.Contains(t, content, "SCENARIO 1: Salary")
	assert.Contains(t, content, "SCENARIO 2: Stocks")
	assert.Contains(t, content, "¥472,710", "total tax of the salary scenario")
	assert.Contains(t, content, "¥4,627,290", "take-home of the salary scenario")
	assert.Contains(t, content, "7.88%")
	assert.Contains(t, content, "36.96%", "national share of the salary scenario")
	assert.Contains(t, content, "¥77,000", "furusato ceiling")
	assert.Contains(t, content, "NOTES:", "stock scenario carries a separate filing note")
}

func TestConsoleFormatter_EmptyReport(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(&domain.Report{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "No scenarios to report.")
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleLiteFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, "TAX ESTIMATE SUMMARY", lines[0])
	assert.Contains(t, string(out), "Salary")
	assert.Contains(t, string(out), "¥472,710")
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3, "header plus one row per scenario")
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,SalaryRevenue,"))
	assert.True(t, strings.HasPrefix(lines[1], "Salary,6000000,2980000,0,"))
	assert.Contains(t, lines[1], ",472710,")
	assert.True(t, strings.HasPrefix(lines[2], "Stocks,"))
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{Pretty: true}.Format(buildTestReport(t))
	require.NoError(t, err)

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Scenarios, 2)
	assert.Equal(t, "Salary", decoded.Scenarios[0].Name)
	assert.True(t, decoded.Scenarios[0].Result.TotalTax.Equal(decimal.NewFromInt(472710)))
	assert.Equal(t, 2025, decoded.Rules.FiscalYear)
	assert.Contains(t, string(out), "\"furusatoLimit\"")
}

func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "total_tax:")
	assert.Contains(t, content, "take_home:")

	var decoded domain.Report
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Len(t, decoded.Scenarios, 2)
	assert.True(t, decoded.Scenarios[1].Input.StockProfit.Equal(decimal.NewFromInt(1000000)))
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>Tax Estimate - Reiwa 7</title>")
	assert.Contains(t, content, "<h2>Salary</h2>")
	assert.Contains(t, content, "¥472,710")
	assert.Contains(t, content, "Salary plus listed-stock gains")
}

func TestHTMLFormatter_EscapesNames(t *testing.T) {
	report := &domain.Report{Scenarios: []domain.ScenarioResult{{Name: "<script>x</script>"}}}
	out, err := HTMLFormatter{}.Format(report)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>x</script>")
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestPDFFormatter(t *testing.T) {
	out, err := PDFFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"), "Should start with a PDF header")

	empty, err := PDFFormatter{}.Format(&domain.Report{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(empty), "%PDF-"))
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	assert.Equal(t, []string{"console", "console-lite", "csv", "html", "json", "pdf", "yaml"}, names)
}

func TestAvailableFormatAliases(t *testing.T) {
	aliases := AvailableFormatAliases()
	assert.Contains(t, aliases, "verbose")
	assert.Contains(t, aliases, "yml")
	assert.IsIncreasing(t, aliases)
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"verbose", "console"},
		{"TEXT", "console"},
		{"summary", "console-lite"},
		{"yml", "yaml"},
		{" json ", "json"},
		{"pdf", "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("non-existent"))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "txt", FileExtension(ConsoleFormatter{}))
	assert.Equal(t, "txt", FileExtension(ConsoleLiteFormatter{}))
	assert.Equal(t, "pdf", FileExtension(PDFFormatter{}))
	assert.Equal(t, "yaml", FileExtension(YAMLFormatter{}))
}
