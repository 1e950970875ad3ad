package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/rgehrsitz/jptax/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	TaxEngine         *calculation.TaxEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(taxEngine *calculation.TaxEngine) *CompareEngine {
	return &CompareEngine{
		TaxEngine:         taxEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario to compare against
	Templates        []string // Built-in template names to apply
	Transforms       []string // Ad-hoc transform specs, e.g. "set_ideco:amount=144000"
}

// Compare runs the base scenario and one alternative per template or transform spec
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {

	baseScenario, ok := config.FindScenario(options.BaseScenarioName)
	if !ok {
		return nil, fmt.Errorf("base scenario %s not found in configuration", options.BaseScenarioName)
	}

	return ce.CompareScenario(ctx, baseScenario, options.Templates, options.Transforms)
}

// CompareScenario compares a single scenario against template and transform variants of itself
func (ce *CompareEngine) CompareScenario(
	ctx context.Context,
	baseScenario *domain.Scenario,
	templates []string,
	specs []string,
) (*ComparisonSet, error) {

	baseRes, err := ce.TaxEngine.RunScenario(ctx, baseScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseRes)

	alternatives := []ComparisonResult{}

	for _, templateName := range templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		alt, err := ce.runVariant(ctx, baseScenario, template.Name, template.Description, template.Transforms, baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	for _, spec := range specs {
		tr, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}

		alt, err := ce.runVariant(ctx, baseScenario, tr.Name(), tr.Description(), []transform.ScenarioTransform{tr}, baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) runVariant(
	ctx context.Context,
	base *domain.Scenario,
	suffix, description string,
	transforms []transform.ScenarioTransform,
	baseResult ComparisonResult,
) (ComparisonResult, error) {

	modified, err := transform.ApplyTransforms(base, transforms)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("failed to apply %s: %w", suffix, err)
	}

	modified.Name = base.Name + "_" + suffix
	modified.Description = description

	res, err := ce.TaxEngine.RunScenario(ctx, modified)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("failed to calculate scenario %s: %w", modified.Name, err)
	}

	alt := ce.MetricsCalculator.CalculateMetrics(res)
	return ce.MetricsCalculator.CalculateComparison(alt, baseResult), nil
}

// CompareScenarios compares explicit scenarios from the configuration (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {

	baseRes, err := ce.TaxEngine.RunScenarioByName(ctx, config, baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseRes)

	alternatives := []ComparisonResult{}

	for _, altName := range alternativeScenarioNames {
		altRes, err := ce.TaxEngine.RunScenarioByName(ctx, config, altName)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate alternative scenario: %w", err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(altRes)
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
