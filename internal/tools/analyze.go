package tools

import (
	"context"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Data analysis discriminators.
const (
	AnalysisTrend        = "trend"
	AnalysisDistribution = "distribution"
	AnalysisCorrelation  = "correlation"
	AnalysisSummary      = "summary"
	AnalysisOutliers     = "outliers"
)

// Trend classification bounds: mean shift beyond ±5% between the first
// and second half of the series.
const trendThresholdPercent = 5.0

// AnalyzeInput is the data_analyzer parameter shape. Data elements are
// plain numbers, {value} records, or {x,y} pairs for correlation.
type AnalyzeInput struct {
	AnalysisType string `json:"analysisType" jsonschema_description:"Analysis to run: trend, distribution, correlation, summary, or outliers"`
	Data         []any  `json:"data" jsonschema_description:"Series to analyze: numbers, {value} records, or {x,y} pairs for correlation"`
}

// TrendResult classifies the series direction by comparing half means.
type TrendResult struct {
	Direction      string  `json:"direction"` // increasing | decreasing | stable
	ChangePercent  float64 `json:"changePercent"`
	FirstHalfMean  float64 `json:"firstHalfMean"`
	SecondHalfMean float64 `json:"secondHalfMean"`
}

// DistributionResult summarizes the shape of the series.
// StdDev is the population standard deviation; quartiles use
// linear-interpolated percentiles.
type DistributionResult struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// CorrelationResult carries the Pearson coefficient over {x,y} pairs.
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`  // strong | moderate | weak
	Direction   string  `json:"direction"` // positive | negative | none
}

// SummaryResult holds basic aggregates of the series.
type SummaryResult struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// OutliersResult reports values outside the 1.5×IQR fences.
type OutliersResult struct {
	Outliers   []float64 `json:"outliers"`
	Q1         float64   `json:"q1"`
	Q3         float64   `json:"q3"`
	IQR        float64   `json:"iqr"`
	LowerFence float64   `json:"lowerFence"`
	UpperFence float64   `json:"upperFence"`
}

// NewDataAnalyzer builds the data_analyzer tool definition.
func NewDataAnalyzer() (*Definition, error) {
	return New(
		"data_analyzer",
		"Run statistical analysis over numeric business data: trend "+
			"classification, distribution statistics, Pearson correlation, "+
			"summary aggregates, and IQR outlier detection.",
		func(_ context.Context, input AnalyzeInput) (any, error) {
			return Analyze(input)
		},
	)
}

// Analyze dispatches on the analysisType discriminator.
// An empty data array fails with an EmptyData ToolError; unknown
// discriminators fail with UnknownAnalysis.
func Analyze(input AnalyzeInput) (any, error) {
	if len(input.Data) == 0 {
		return nil, &ToolError{ErrorType: "EmptyData", Message: "data must be a non-empty array"}
	}

	switch input.AnalysisType {
	case AnalysisTrend:
		series, err := toSeries(input.Data)
		if err != nil {
			return nil, err
		}
		return AnalyzeTrend(series)
	case AnalysisDistribution:
		series, err := toSeries(input.Data)
		if err != nil {
			return nil, err
		}
		return AnalyzeDistribution(series)
	case AnalysisCorrelation:
		xs, ys, err := toPairs(input.Data)
		if err != nil {
			return nil, err
		}
		return AnalyzeCorrelation(xs, ys)
	case AnalysisSummary:
		series, err := toSeries(input.Data)
		if err != nil {
			return nil, err
		}
		return AnalyzeSummary(series)
	case AnalysisOutliers:
		series, err := toSeries(input.Data)
		if err != nil {
			return nil, err
		}
		return AnalyzeOutliers(series)
	default:
		return nil, &ToolError{
			ErrorType: "UnknownAnalysis",
			Message:   fmt.Sprintf("unknown analysis type %q", input.AnalysisType),
		}
	}
}

// AnalyzeTrend compares the mean of the first half of the series to the
// mean of the second half: a shift above +5% is increasing, below -5%
// decreasing, otherwise stable.
func AnalyzeTrend(series []float64) (*TrendResult, error) {
	if len(series) < 2 {
		return nil, &ToolError{ErrorType: "InsufficientData", Message: "trend analysis needs at least 2 points"}
	}

	half := len(series) / 2
	firstMean := stat.Mean(series[:half], nil)
	secondMean := stat.Mean(series[half:], nil)

	if firstMean == 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "cannot compute trend against a zero first-half mean"}
	}

	change := (secondMean - firstMean) / math.Abs(firstMean) * 100

	direction := "stable"
	switch {
	case change > trendThresholdPercent:
		direction = "increasing"
	case change < -trendThresholdPercent:
		direction = "decreasing"
	}

	return &TrendResult{
		Direction:      direction,
		ChangePercent:  change,
		FirstHalfMean:  firstMean,
		SecondHalfMean: secondMean,
	}, nil
}

// AnalyzeDistribution computes min/max/mean/median, population standard
// deviation, and linear-interpolated quartiles.
func AnalyzeDistribution(series []float64) (*DistributionResult, error) {
	sorted := slices.Clone(series)
	slices.Sort(sorted)

	return &DistributionResult{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(series, nil),
		Median: percentile(sorted, 50),
		StdDev: stat.PopStdDev(series, nil),
		Q1:     percentile(sorted, 25),
		Q3:     percentile(sorted, 75),
	}, nil
}

// AnalyzeCorrelation computes the Pearson correlation coefficient over
// {x,y} pairs: |r| above 0.7 is strong, above 0.4 moderate, else weak.
func AnalyzeCorrelation(xs, ys []float64) (*CorrelationResult, error) {
	if len(xs) < 2 {
		return nil, &ToolError{ErrorType: "InsufficientData", Message: "correlation needs at least 2 pairs"}
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "correlation is undefined for a constant series"}
	}

	strength := "weak"
	switch {
	case math.Abs(r) > 0.7:
		strength = "strong"
	case math.Abs(r) > 0.4:
		strength = "moderate"
	}

	direction := "none"
	switch {
	case r > 0:
		direction = "positive"
	case r < 0:
		direction = "negative"
	}

	return &CorrelationResult{Coefficient: r, Strength: strength, Direction: direction}, nil
}

// AnalyzeSummary computes basic aggregates of the series.
func AnalyzeSummary(series []float64) (*SummaryResult, error) {
	min, max := series[0], series[0]
	sum := 0.0
	for _, v := range series {
		sum += v
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	return &SummaryResult{
		Count: len(series),
		Sum:   sum,
		Mean:  sum / float64(len(series)),
		Min:   min,
		Max:   max,
	}, nil
}

// AnalyzeOutliers flags values outside the 1.5×IQR fences around the
// 25th/75th percentiles.
func AnalyzeOutliers(series []float64) (*OutliersResult, error) {
	sorted := slices.Clone(series)
	slices.Sort(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	outliers := make([]float64, 0)
	for _, v := range series {
		if v < lower || v > upper {
			outliers = append(outliers, v)
		}
	}

	return &OutliersResult{
		Outliers:   outliers,
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerFence: lower,
		UpperFence: upper,
	}, nil
}

// percentile computes the p-th percentile of a sorted series using
// linear interpolation between the two nearest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	low := int(math.Floor(rank))
	high := int(math.Ceil(rank))
	if low == high {
		return sorted[low]
	}
	return sorted[low] + (rank-float64(low))*(sorted[high]-sorted[low])
}

// toSeries coerces data elements into a numeric series. Elements are
// plain numbers or records with a numeric "value" field.
func toSeries(data []any) ([]float64, error) {
	series := make([]float64, 0, len(data))
	for i, elem := range data {
		switch v := elem.(type) {
		case float64:
			series = append(series, v)
		case int:
			series = append(series, float64(v))
		case map[string]any:
			value, ok := v["value"].(float64)
			if !ok {
				return nil, &ToolError{
					ErrorType: "InvalidArguments",
					Message:   fmt.Sprintf("data[%d] record has no numeric value field", i),
				}
			}
			series = append(series, value)
		default:
			return nil, &ToolError{
				ErrorType: "InvalidArguments",
				Message:   fmt.Sprintf("data[%d] is neither a number nor a {value} record", i),
			}
		}
	}
	return series, nil
}

// toPairs coerces data elements into x/y series for correlation.
func toPairs(data []any) (xs, ys []float64, err error) {
	xs = make([]float64, 0, len(data))
	ys = make([]float64, 0, len(data))
	for i, elem := range data {
		record, ok := elem.(map[string]any)
		if !ok {
			return nil, nil, &ToolError{
				ErrorType: "InvalidArguments",
				Message:   fmt.Sprintf("data[%d] is not an {x,y} pair", i),
			}
		}
		x, xok := record["x"].(float64)
		y, yok := record["y"].(float64)
		if !xok || !yok {
			return nil, nil, &ToolError{
				ErrorType: "InvalidArguments",
				Message:   fmt.Sprintf("data[%d] pair needs numeric x and y fields", i),
			}
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}
