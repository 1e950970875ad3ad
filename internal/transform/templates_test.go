package transform

import (
	"testing"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
		Transforms:  []ScenarioTransform{},
	}

	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	if _, ok = registry.Get(" TEST_TEMPLATE "); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestTemplateRegistry_List(t *testing.T) {
	registry := NewTemplateRegistry()

	registry.Register(Template{Name: "template2", Description: "Second"})
	registry.Register(Template{Name: "template1", Description: "First"})

	names := registry.List()
	if len(names) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(names))
	}
	if names[0] != "template1" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expected := []string{
		"ideco_employee",
		"ideco_self_employed",
		"add_dependent",
		"raise_10pct",
		"nisa_all",
		"life_insurance_max",
		"ideco_and_nisa",
	}

	for _, name := range expected {
		tmpl, ok := registry.Get(name)
		if !ok {
			t.Errorf("Expected template %s to exist", name)
			continue
		}
		if tmpl.Description == "" {
			t.Errorf("Template %s has no description", name)
		}
		if len(tmpl.Transforms) == 0 {
			t.Errorf("Template %s has no transforms", name)
		}
	}
}

func TestBuiltInTemplates_ApplyToScenario(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestScenario()

	for _, name := range registry.List() {
		tmpl, _ := registry.Get(name)
		t.Run(name, func(t *testing.T) {
			result, err := ApplyTransforms(base, tmpl.Transforms)
			if err != nil {
				t.Fatalf("Template %s failed: %v", name, err)
			}
			if result.Name != base.Name {
				t.Errorf("Expected name preserved, got %s", result.Name)
			}
		})
	}

	nisa, _ := registry.Get("nisa_all")
	result, _ := ApplyTransforms(base, nisa.Transforms)
	if !result.Input.StockProfit.IsZero() || !result.Input.StockDividends.IsZero() {
		t.Errorf("Expected all stock income moved, got %s/%s", result.Input.StockProfit, result.Input.StockDividends)
	}
}
