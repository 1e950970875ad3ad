package transform

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "ideco_employee",
		Description: "Contribute the employee iDeCo maximum (23,000 yen a month)",
		Transforms:  []ScenarioTransform{&SetIDeCo{Amount: IDeCoCapEmployee}},
	})

	registry.Register(Template{
		Name:        "ideco_self_employed",
		Description: "Contribute the self-employed iDeCo maximum (68,000 yen a month)",
		Transforms:  []ScenarioTransform{&SetIDeCo{Amount: IDeCoCapSelfEmployed}},
	})

	registry.Register(Template{
		Name:        "add_dependent",
		Description: "Add one qualifying dependent",
		Transforms:  []ScenarioTransform{&AddDependents{Count: 1}},
	})

	registry.Register(Template{
		Name:        "raise_10pct",
		Description: "Salary and social insurance up 10%",
		Transforms: []ScenarioTransform{
			&ScaleSalary{Factor: decimal.RequireFromString("1.10"), ScaleSocialInsurance: true},
		},
	})

	registry.Register(Template{
		Name:        "nisa_all",
		Description: "Hold every stock investment in NISA",
		Transforms:  []ScenarioTransform{&MoveStocksToNISA{Share: decimal.NewFromInt(1)}},
	})

	registry.Register(Template{
		Name:        "life_insurance_max",
		Description: "Claim the maximum life insurance deduction",
		Transforms:  []ScenarioTransform{&SetLifeInsurance{Amount: LifeInsuranceCap}},
	})

	// Combination templates
	registry.Register(Template{
		Name:        "ideco_and_nisa",
		Description: "Employee iDeCo maximum + all stocks in NISA",
		Transforms: []ScenarioTransform{
			&SetIDeCo{Amount: IDeCoCapEmployee},
			&MoveStocksToNISA{Share: decimal.NewFromInt(1)},
		},
	})

	return registry
}
