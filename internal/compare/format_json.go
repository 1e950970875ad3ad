package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty   bool // Indent output
	Detailed bool // Include each scenario's full input, result and advisories
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	out := compSet
	if !jf.Detailed {
		out = stripScenarios(compSet)
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// stripScenarios returns a copy of the set without per-scenario detail
func stripScenarios(compSet *ComparisonSet) *ComparisonSet {
	c := *compSet
	if c.BaseResult != nil {
		base := *c.BaseResult
		base.Scenario = nil
		c.BaseResult = &base
	}
	c.AlternativeResults = make([]ComparisonResult, len(compSet.AlternativeResults))
	for i, alt := range compSet.AlternativeResults {
		alt.Scenario = nil
		c.AlternativeResults[i] = alt
	}
	return &c
}
