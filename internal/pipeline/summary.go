package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"radpulse/internal/analysis"
	"radpulse/internal/dataset"
)

// RunSummary is the JSON artifact describing one run: what was loaded,
// what was cleaned away, which plots were written, and the statistical
// results.
type RunSummary struct {
	RunID            string                  `json:"run_id"`
	AppVersion       string                  `json:"app_version"`
	Dataset          string                  `json:"dataset"`
	RowsLoaded       int                     `json:"rows_loaded"`
	ColumnsLoaded    int                     `json:"columns_loaded"`
	DuplicateRows    int                     `json:"duplicate_rows"`
	MissingValues    []dataset.ColumnCount   `json:"missing_values"`
	RowsDropped      int                     `json:"rows_dropped"`
	RowsAnalyzed     int                     `json:"rows_analyzed"`
	Plots            []string                `json:"plots"`
	WaitTime         *analysis.Summary       `json:"wait_time,omitempty"`
	WaitTimeByResult []analysis.GroupSummary `json:"wait_time_by_result,omitempty"`
	TTest            *analysis.TTestResult   `json:"welch_t_test,omitempty"`
	StartedAt        string                  `json:"started_at"`
	FinishedAt       string                  `json:"finished_at"`
	GeneratedAt      string                  `json:"generated_at"`
}

// Write saves the summary as indented JSON, creating the parent directory
// if needed.
func (s *RunSummary) Write(path string) error {
	s.GeneratedAt = time.Now().Format(time.RFC3339)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create summary directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary %s: %w", path, err)
	}
	return nil
}
