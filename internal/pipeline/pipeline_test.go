package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radpulse/internal/config"
	"radpulse/internal/exporter"
	"radpulse/internal/infrastructure"
	"radpulse/internal/plotting"
)

// testDatasetCSV is a small synthetic radiology extract: one duplicate row
// and one row with a missing value, enough observations per AI result for
// the hypothesis test.
const testDatasetCSV = `hospital_site,algorithm,patient_class,ai_result,wait_time_minutes,study_acquisition_time,case_open_time
north,ich,emergency,true,12,2023-01-15 10:30,2023-01-15 10:42:10
north,ich,emergency,true,12,2023-01-15 10:30,2023-01-15 10:42:10
south,pe,inpatient,false,95,2023-02-01 08:05,2023-02-01 09:40:59
north,pe,outpatient,false,120,2023-02-20 14:45,2023-02-20 16:45:30
south,ich,emergency,true,8,2023-03-12 11:00,2023-03-12 11:08:05
north,ich,inpatient,true,20,2023-03-28 09:15,2023-03-28 09:35:45
south,pe,emergency,false,60,2023-04-02 13:30,2023-04-02 14:30:00
north,pe,emergency,,44,2023-04-15 10:00,2023-04-15 10:44:00
south,ich,outpatient,false,150,2023-05-19 07:45,2023-05-19 10:15:20
north,ich,emergency,true,15,2023-06-07 16:20,2023-06-07 16:35:55
`

// testConfig builds a full configuration rooted in dir.
func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()

	datasetPath := filepath.Join(dir, "radiology.csv")
	require.NoError(t, os.WriteFile(datasetPath, []byte(testDatasetCSV), 0644))

	return &config.Config{
		Paths: config.PathsConfig{
			Dataset:     datasetPath,
			PlotsDir:    filepath.Join(dir, "plots"),
			ExportClean: filepath.Join(dir, "out", "clean.csv"),
		},
		Columns: config.ColumnsConfig{
			Site:             "hospital_site",
			Algorithm:        "algorithm",
			PatientClass:     "patient_class",
			AIResult:         "ai_result",
			WaitTime:         "wait_time_minutes",
			StudyAcquisition: "study_acquisition_time",
			CaseOpen:         "case_open_time",
		},
		Plot: config.PlotConfig{
			PointColor:    "#1f77b4",
			BarEdgeColor:  "#000000",
			Width:         4,
			Height:        3,
			AxisLabelSize: 12,
			TickLabelSize: 10,
			WaitTimeLabel: "Wait Time (Minutes)",
			Legend:        true,
			LineWidth:     1,
			Format:        ".png",
			AxisLabelPad:  5,
			TickRotation:  45,
			BarType:       "bar",
			HistType:      "hist",
			BoxType:       "box",
		},
		Labels: config.LabelsConfig{
			ResultNegative:  "negative",
			ResultPositive:  "positive",
			TypeBoolean:     "bool",
			TypeCategorical: "string",
			Transformed:     "transformed",
		},
		Datetime: config.DatetimeConfig{
			StudyAcquisitionLayout: "2006-01-02 15:04",
			CaseOpenLayout:         "2006-01-02 15:04",
			MonthLayout:            "January",
			MonthKeyword:           "month",
			TimeKeyword:            "time",
			SecondsPattern:         `:[0-5][0-9]$`,
		},
	}
}

// runPipeline executes the full pipeline and returns it with the console output.
func runPipeline(t *testing.T, cfg *config.Config) (*Pipeline, string) {
	t.Helper()

	style, err := plotting.StyleFromConfig(cfg)
	require.NoError(t, err)

	var console bytes.Buffer
	metrics := infrastructure.NewRunMetrics()
	p := New(cfg,
		nil,
		plotting.NewRenderer(cfg.Paths.PlotsDir, style, nil),
		exporter.NewCSVWriter(nil),
		metrics,
		&console)

	runner := NewRunner(nil, nil, metrics)
	require.NoError(t, runner.Execute(context.Background(), p.Stages()))
	return p, console.String()
}

func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)

	p, console := runPipeline(t, cfg)
	summary := p.Summary()

	// Load and cleaning accounting.
	assert.Equal(t, 10, summary.RowsLoaded)
	assert.Equal(t, 7, summary.ColumnsLoaded)
	assert.Equal(t, 1, summary.DuplicateRows)
	assert.Equal(t, 1, summary.RowsDropped)
	assert.Equal(t, 9, summary.RowsAnalyzed)

	// Two histograms, bar + box per categorical column. The categorical
	// columns after derivation and recoding: site, algorithm, patient
	// class, AI result, and the two month columns.
	assert.Len(t, summary.Plots, 2+6+6)
	for _, path := range summary.Plots {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	// Statistical results present and coherent.
	require.NotNil(t, summary.WaitTime)
	assert.Equal(t, 9, summary.WaitTime.Count)
	require.Len(t, summary.WaitTimeByResult, 2)
	assert.Equal(t, "positive", summary.WaitTimeByResult[0].Category)
	assert.Equal(t, "negative", summary.WaitTimeByResult[1].Category)

	require.NotNil(t, summary.TTest)
	assert.Equal(t, "positive", summary.TTest.LabelX)
	assert.Equal(t, "negative", summary.TTest.LabelY)
	assert.Equal(t, 5, summary.TTest.NX)
	assert.Equal(t, 4, summary.TTest.NY)
	// Positive cases wait less, so the statistic must be negative.
	assert.Negative(t, summary.TTest.Statistic)
	assert.Greater(t, summary.TTest.PValue, 0.0)
	assert.Less(t, summary.TTest.PValue, 1.0)

	// Console output carries the inspection and statistics.
	assert.Contains(t, console, "hospital_site")
	assert.Contains(t, console, "(10, 7)")
	assert.Contains(t, console, "duplicated rows: 1")
	assert.Contains(t, console, "count")
	assert.Contains(t, console, "WelchTTestResult")

	// Recoded labels appear in the re-printed head.
	assert.Contains(t, console, "positive")
}

func TestPipeline_PlotFileNaming(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)

	p, _ := runPipeline(t, cfg)

	expected := []string{
		"hist_wait_time_minutes.png",
		"hist_wait_time_minutes_transformed.png",
		"bar_hospital_site.png",
		"bar_ai_result.png",
		"bar_study_acquisition_time_month.png",
		"box_patient_class.png",
		"box_case_open_time_month.png",
	}
	names := make([]string, 0, len(p.Summary().Plots))
	for _, path := range p.Summary().Plots {
		names = append(names, filepath.Base(path))
	}
	for _, want := range expected {
		assert.Contains(t, names, want)
	}
}

func TestPipeline_ExportsCleanDataset(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)

	runPipeline(t, cfg)

	data, err := os.ReadFile(cfg.Paths.ExportClean)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "wait_time_minutes_transformed")
	assert.Contains(t, text, "study_acquisition_time_month")
	assert.Contains(t, text, "positive")
	// Header plus the 9 cleaned rows.
	assert.Equal(t, 10, strings.Count(strings.TrimSpace(text), "\n")+1)
}

func TestPipeline_ExportDisabledWhenUnset(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	exportPath := cfg.Paths.ExportClean
	cfg.Paths.ExportClean = ""

	runPipeline(t, cfg)

	_, err := os.Stat(exportPath)
	assert.True(t, os.IsNotExist(err))
}

func TestPipeline_MissingDatasetFailsLoadStage(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.Paths.Dataset = filepath.Join(dir, "absent.csv")

	style, err := plotting.StyleFromConfig(cfg)
	require.NoError(t, err)

	p := New(cfg, nil,
		plotting.NewRenderer(cfg.Paths.PlotsDir, style, nil),
		exporter.NewCSVWriter(nil), nil, &bytes.Buffer{})

	err = NewRunner(nil, nil, nil).Execute(context.Background(), p.Stages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage load")
}

func TestPipeline_UnparseableDatetimeHalts(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.Datetime.StudyAcquisitionLayout = "02/01/2006 15:04"

	style, err := plotting.StyleFromConfig(cfg)
	require.NoError(t, err)

	p := New(cfg, nil,
		plotting.NewRenderer(cfg.Paths.PlotsDir, style, nil),
		exporter.NewCSVWriter(nil), nil, &bytes.Buffer{})

	err = NewRunner(nil, nil, nil).Execute(context.Background(), p.Stages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage datetime")
}
