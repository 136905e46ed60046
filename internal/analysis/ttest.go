package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "radpulse/internal/errors"
)

// TTestResult holds the outcome of a two-sample Welch's t-test.
type TTestResult struct {
	LabelX    string  `json:"label_x"`
	LabelY    string  `json:"label_y"`
	NX        int     `json:"n_x"`
	NY        int     `json:"n_y"`
	Statistic float64 `json:"statistic"`
	DF        float64 `json:"df"`
	PValue    float64 `json:"p_value"`
}

// String renders the result in a compact single line for console output.
func (r TTestResult) String() string {
	return fmt.Sprintf("WelchTTestResult(statistic=%.6f, pvalue=%.6g, df=%.4f)",
		r.Statistic, r.PValue, r.DF)
}

// WelchTTest performs a two-sample t-test for a difference in means that
// does not assume equal variances. The statistic's sign follows x - y.
// The degrees of freedom use the Welch-Satterthwaite approximation and
// the p-value is two-sided.
func WelchTTest(x, y []float64) (TTestResult, error) {
	if len(x) < 2 || len(y) < 2 {
		return TTestResult{}, apperrors.NewAnalysisError(fmt.Sprintf(
			"each sample needs at least two observations, got %d and %d", len(x), len(y)), nil)
	}

	nx, ny := float64(len(x)), float64(len(y))
	meanX, meanY := stat.Mean(x, nil), stat.Mean(y, nil)
	varX, varY := stat.Variance(x, nil), stat.Variance(y, nil)

	seX, seY := varX/nx, varY/ny
	se2 := seX + seY
	if se2 == 0 {
		return TTestResult{}, apperrors.NewAnalysisError(
			"both samples have zero variance, test statistic is undefined", nil)
	}

	statistic := (meanX - meanY) / math.Sqrt(se2)
	df := se2 * se2 / (seX*seX/(nx-1) + seY*seY/(ny-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * dist.CDF(-math.Abs(statistic))

	return TTestResult{
		NX:        len(x),
		NY:        len(y),
		Statistic: statistic,
		DF:        df,
		PValue:    pValue,
	}, nil
}

// WelchTTestGrouped runs the test on the first two labelled samples,
// sample X being the first category in first-seen order.
func WelchTTestGrouped(samples []Sample) (TTestResult, error) {
	if len(samples) < 2 {
		return TTestResult{}, apperrors.NewAnalysisError(fmt.Sprintf(
			"need two categories to test, got %d", len(samples)), nil)
	}

	result, err := WelchTTest(samples[0].Values, samples[1].Values)
	if err != nil {
		return TTestResult{}, err
	}
	result.LabelX = samples[0].Label
	result.LabelY = samples[1].Label
	return result, nil
}
