package plotting

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radpulse/internal/dataset"
)

// testStyle returns a small style suitable for rendering in tests.
func testStyle() Style {
	return Style{
		Width:         4,
		Height:        3,
		AxisLabelSize: 12,
		TickLabelSize: 10,
		AxisLabelPad:  5,
		TickRotation:  45,
		LineWidth:     1,
		PointColor:    color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		BarEdgeColor:  color.Black,
		Legend:        true,
		Format:        ".png",
		HistType:      "hist",
		BarType:       "bar",
		BoxType:       "box",
		WaitTimeLabel: "Wait Time (Minutes)",
		MonthLayout:   "January",
		TimeKeyword:   "time",
	}
}

// assertPlotFile checks the renderer wrote a non-empty file at path.
func assertPlotFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRenderer_Histogram(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testStyle(), nil)

	path, err := r.Histogram([]float64{1, 2, 2, 3, 3, 3, 4, 10, 25, 60}, "wait_time_minutes", "Wait Time (Minutes)")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hist_wait_time_minutes.png"), path)
	assertPlotFile(t, path)
}

func TestRenderer_Histogram_EmptyFails(t *testing.T) {
	r := NewRenderer(t.TempDir(), testStyle(), nil)

	_, err := r.Histogram(nil, "wait_time_minutes", "Wait Time (Minutes)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no values")
}

func TestRenderer_Bar(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testStyle(), nil)

	counts := []dataset.CategoryCount{
		{Category: "inpatient", Count: 40},
		{Category: "emergency", Count: 75},
		{Category: "outpatient", Count: 12},
	}

	path, err := r.Bar(counts, "patient_class")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bar_patient_class.png"), path)
	assertPlotFile(t, path)
}

func TestRenderer_Bar_OrdersTimeColumnsChronologically(t *testing.T) {
	r := NewRenderer(t.TempDir(), testStyle(), nil)

	counts := []dataset.CategoryCount{
		{Category: "March", Count: 10},
		{Category: "January", Count: 5},
		{Category: "February", Count: 20},
	}

	ordered := r.orderCategories(counts, "study_acquisition_time_month")
	assert.Equal(t, []string{"January", "February", "March"}, categoryNames(ordered))
}

func TestRenderer_Bar_OrdersByCountDescendingOtherwise(t *testing.T) {
	r := NewRenderer(t.TempDir(), testStyle(), nil)

	counts := []dataset.CategoryCount{
		{Category: "outpatient", Count: 12},
		{Category: "emergency", Count: 75},
		{Category: "inpatient", Count: 40},
	}

	ordered := r.orderCategories(counts, "patient_class")
	assert.Equal(t, []string{"emergency", "inpatient", "outpatient"}, categoryNames(ordered))
}

func TestRenderer_Bar_UnparseableTimeLabelsKeepDescendingOrder(t *testing.T) {
	r := NewRenderer(t.TempDir(), testStyle(), nil)

	counts := []dataset.CategoryCount{
		{Category: "mystery", Count: 1},
		{Category: "January", Count: 3},
	}

	ordered := r.orderCategories(counts, "case_open_time_month")
	assert.Equal(t, []string{"January", "mystery"}, categoryNames(ordered))
}

func TestRenderer_Box_WithHue(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testStyle(), nil)

	groups := []Group{
		{
			Category: "north",
			Series: []Series{
				{Label: "positive", Values: []float64{1, 2, 2, 3, 8}},
				{Label: "negative", Values: []float64{4, 5, 5, 6, 12}},
			},
		},
		{
			Category: "south",
			Series: []Series{
				{Label: "positive", Values: []float64{2, 2, 3, 3, 4}},
				{Label: "negative", Values: []float64{5, 6, 7, 8, 20}},
			},
		},
	}

	path, err := r.Box(groups, "hospital_site", "Wait Time (Minutes)", "ai_result")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "box_hospital_site.png"), path)
	assertPlotFile(t, path)
}

func TestRenderer_Box_WithoutHue(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testStyle(), nil)

	groups := []Group{
		{Category: "positive", Series: []Series{{Values: []float64{1, 2, 3, 4, 5}}}},
		{Category: "negative", Series: []Series{{Values: []float64{3, 4, 5, 6, 7}}}},
	}

	path, err := r.Box(groups, "ai_result", "Wait Time (Minutes)", "")
	require.NoError(t, err)
	assertPlotFile(t, path)
}

func TestRenderer_Box_EmptyFails(t *testing.T) {
	r := NewRenderer(t.TempDir(), testStyle(), nil)

	_, err := r.Box(nil, "ai_result", "Wait Time (Minutes)", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no groups")
}

func TestRenderer_SVGFormat(t *testing.T) {
	style := testStyle()
	style.Format = ".svg"
	dir := t.TempDir()
	r := NewRenderer(dir, style, nil)

	path, err := r.Histogram([]float64{1, 2, 3, 4, 5}, "wait_time_minutes", "Wait Time (Minutes)")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hist_wait_time_minutes.svg"), path)
	assertPlotFile(t, path)
}
