package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_ideco", createSetIDeCo)
	registry.Register("add_dependents", createAddDependents)
	registry.Register("set_life_insurance", createSetLifeInsurance)
	registry.Register("scale_salary", createScaleSalary)
	registry.Register("add_crypto_profit", createAddCryptoProfit)
	registry.Register("move_stocks_to_nisa", createMoveStocksToNISA)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_ideco:amount=276000"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createSetIDeCo(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_ideco", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetIDeCo{Amount: amount}, nil
}

func createAddDependents(params map[string]string) (ScenarioTransform, error) {
	countStr, ok := params["count"]
	if !ok {
		return nil, fmt.Errorf("add_dependents requires 'count' parameter")
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, fmt.Errorf("invalid count value: %w", err)
	}

	return &AddDependents{Count: count}, nil
}

func createSetLifeInsurance(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_life_insurance", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetLifeInsurance{Amount: amount}, nil
}

func createScaleSalary(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam("scale_salary", params, "factor")
	if err != nil {
		return nil, err
	}

	scaleSI := false
	if v, ok := params["social_insurance"]; ok {
		scaleSI = v == "true" || v == "yes" || v == "1"
	}

	return &ScaleSalary{Factor: factor, ScaleSocialInsurance: scaleSI}, nil
}

func createAddCryptoProfit(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("add_crypto_profit", params, "amount")
	if err != nil {
		return nil, err
	}
	return &AddCryptoProfit{Amount: amount}, nil
}

func createMoveStocksToNISA(params map[string]string) (ScenarioTransform, error) {
	if _, ok := params["share"]; !ok {
		return &MoveStocksToNISA{Share: decimal.NewFromInt(1)}, nil
	}
	share, err := decimalParam("move_stocks_to_nisa", params, "share")
	if err != nil {
		return nil, err
	}
	return &MoveStocksToNISA{Share: share}, nil
}
