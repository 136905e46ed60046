// Package analysis computes the run's descriptive statistics and the
// two-sample hypothesis test on wait times.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "radpulse/internal/errors"
)

// Summary holds the descriptive statistics of one numeric sample:
// count, mean, sample standard deviation, and the five-number summary.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Sample is a labelled numeric sample, used for grouped statistics.
type Sample struct {
	Label  string
	Values []float64
}

// GroupSummary is the descriptive statistics of one category's sample.
type GroupSummary struct {
	Category string  `json:"category"`
	Summary  Summary `json:"summary"`
}

// Describe computes the descriptive statistics of a sample. Quantiles use
// linear interpolation between order statistics.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, apperrors.NewAnalysisError("cannot describe an empty sample", nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Min:    floats.Min(sorted),
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    floats.Max(sorted),
	}
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	return s, nil
}

// GroupedDescribe computes descriptive statistics per category,
// preserving the order of the samples given.
func GroupedDescribe(samples []Sample) ([]GroupSummary, error) {
	summaries := make([]GroupSummary, len(samples))
	for i, sample := range samples {
		summary, err := Describe(sample.Values)
		if err != nil {
			return nil, apperrors.NewAnalysisError(
				fmt.Sprintf("failed to describe category %q", sample.Label), err)
		}
		summaries[i] = GroupSummary{Category: sample.Label, Summary: summary}
	}
	return summaries, nil
}

// quantile computes the p-quantile of sorted data by linear interpolation
// between the two nearest order statistics.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
