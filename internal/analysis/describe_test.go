package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	// Hand-computed: mean 18, sample std 13.4907..., quartiles by linear
	// interpolation between order statistics.
	values := []float64{4, 8, 15, 16, 23, 42}

	s, err := Describe(values)
	require.NoError(t, err)

	assert.Equal(t, 6, s.Count)
	assert.InDelta(t, 18.0, s.Mean, 1e-12)
	assert.InDelta(t, 13.490737563232042, s.Std, 1e-12)
	assert.Equal(t, 4.0, s.Min)
	assert.InDelta(t, 9.75, s.Q1, 1e-12)
	assert.InDelta(t, 15.5, s.Median, 1e-12)
	assert.InDelta(t, 21.25, s.Q3, 1e-12)
	assert.Equal(t, 42.0, s.Max)
}

func TestDescribe_EdgeCases(t *testing.T) {
	t.Run("empty sample fails", func(t *testing.T) {
		_, err := Describe(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty sample")
	})

	t.Run("single observation", func(t *testing.T) {
		s, err := Describe([]float64{7})
		require.NoError(t, err)
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 7.0, s.Mean)
		assert.Equal(t, 0.0, s.Std)
		assert.Equal(t, 7.0, s.Median)
		assert.Equal(t, 7.0, s.Min)
		assert.Equal(t, 7.0, s.Max)
	})

	t.Run("unsorted input gives same quantiles", func(t *testing.T) {
		a, err := Describe([]float64{42, 4, 23, 8, 16, 15})
		require.NoError(t, err)
		b, err := Describe([]float64{4, 8, 15, 16, 23, 42})
		require.NoError(t, err)
		assert.Equal(t, b, a)
	})
}

func TestGroupedDescribe(t *testing.T) {
	samples := []Sample{
		{Label: "positive", Values: []float64{10, 12, 14}},
		{Label: "negative", Values: []float64{20, 22, 24, 26}},
	}

	summaries, err := GroupedDescribe(samples)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "positive", summaries[0].Category)
	assert.Equal(t, 3, summaries[0].Summary.Count)
	assert.InDelta(t, 12.0, summaries[0].Summary.Mean, 1e-12)

	assert.Equal(t, "negative", summaries[1].Category)
	assert.Equal(t, 4, summaries[1].Summary.Count)
	assert.InDelta(t, 23.0, summaries[1].Summary.Mean, 1e-12)
}

func TestGroupedDescribe_EmptyCategoryFails(t *testing.T) {
	_, err := GroupedDescribe([]Sample{
		{Label: "positive", Values: []float64{1, 2}},
		{Label: "negative", Values: nil},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"negative"`)
}
