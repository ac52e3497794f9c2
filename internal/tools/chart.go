package tools

import (
	"context"
	"fmt"
)

// Chart type discriminators.
const (
	ChartLine    = "line"
	ChartBar     = "bar"
	ChartPie     = "pie"
	ChartScatter = "scatter"
	ChartArea    = "area"
)

// ChartInput is the chart_generator parameter shape.
type ChartInput struct {
	ChartType string           `json:"chartType" jsonschema_description:"Chart to generate: line, bar, pie, scatter, or area"`
	Data      []map[string]any `json:"data" jsonschema_description:"Data points to chart"`
	Options   map[string]any   `json:"options,omitempty" jsonschema_description:"Overrides merged over the per-type default options"`
}

// ChartSpec is a declarative chart specification. Nothing is rendered;
// the spec is handed to whatever charting surface consumes it.
type ChartSpec struct {
	Type    string           `json:"type"`
	Data    []map[string]any `json:"data"`
	Options map[string]any   `json:"options"`
}

// NewChartGenerator builds the chart_generator tool definition.
func NewChartGenerator() (*Definition, error) {
	return New(
		"chart_generator",
		"Generate declarative chart specifications (line, bar, pie, "+
			"scatter, area) merging sensible per-type defaults with "+
			"caller-supplied options.",
		func(_ context.Context, input ChartInput) (any, error) {
			return GenerateChart(input)
		},
	)
}

// GenerateChart builds the spec for a chart type, merging defaults with
// caller overrides (overrides win). Unknown chart types fail with an
// UnknownChartType ToolError.
func GenerateChart(input ChartInput) (*ChartSpec, error) {
	if len(input.Data) == 0 {
		return nil, &ToolError{ErrorType: "EmptyData", Message: "data must be a non-empty array"}
	}

	defaults, ok := chartDefaults(input.ChartType)
	if !ok {
		return nil, &ToolError{
			ErrorType: "UnknownChartType",
			Message:   fmt.Sprintf("unknown chart type %q", input.ChartType),
		}
	}

	return &ChartSpec{
		Type:    input.ChartType,
		Data:    input.Data,
		Options: mergeOptions(defaults, input.Options),
	}, nil
}

// chartDefaults returns the default option tree per chart type.
func chartDefaults(chartType string) (map[string]any, bool) {
	switch chartType {
	case ChartLine:
		return map[string]any{
			"responsive": true,
			"scales": map[string]any{
				"y": map[string]any{"beginAtZero": true},
			},
		}, true
	case ChartBar:
		return map[string]any{
			"responsive": true,
			"scales": map[string]any{
				"y": map[string]any{"beginAtZero": true},
			},
		}, true
	case ChartPie:
		return map[string]any{
			"responsive": true,
			"plugins": map[string]any{
				"legend": map[string]any{"position": "bottom"},
			},
		}, true
	case ChartScatter:
		return map[string]any{
			"responsive": true,
			"scales": map[string]any{
				"x": map[string]any{"type": "linear", "position": "bottom"},
			},
		}, true
	case ChartArea:
		return map[string]any{
			"responsive": true,
			"fill":       true,
			"scales": map[string]any{
				"y": map[string]any{"beginAtZero": true},
			},
		}, true
	default:
		return nil, false
	}
}

// mergeOptions recursively merges overrides into defaults.
// Caller-supplied values win; nested maps merge key-by-key.
func mergeOptions(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}

	for k, override := range overrides {
		base, ok := merged[k].(map[string]any)
		if ok {
			if overrideMap, isMap := override.(map[string]any); isMap {
				merged[k] = mergeOptions(base, overrideMap)
				continue
			}
		}
		merged[k] = override
	}
	return merged
}
