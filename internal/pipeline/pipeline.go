package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"radpulse/internal/analysis"
	"radpulse/internal/config"
	"radpulse/internal/dataset"
	"radpulse/internal/exporter"
	"radpulse/internal/infrastructure"
	"radpulse/internal/plotting"
	"radpulse/internal/transform"
)

// headRows is how many rows the inspect stage prints.
const headRows = 5

// Pipeline wires the analysis stages over one dataset table. Construct it
// with New, then hand Stages() to a Runner.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer *plotting.Renderer
	csv      *exporter.CSVWriter
	metrics  *infrastructure.RunMetrics
	out      io.Writer

	table          *dataset.Table
	transformedCol string
	summary        RunSummary
}

// New creates the pipeline. The console writer receives the analytical
// output (head, dtypes, statistics, test result); nil means stdout.
func New(cfg *config.Config, logger *slog.Logger, renderer *plotting.Renderer,
	csv *exporter.CSVWriter, metrics *infrastructure.RunMetrics, out io.Writer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		renderer: renderer,
		csv:      csv,
		metrics:  metrics,
		out:      out,
	}
}

// Summary returns the run summary accumulated so far.
func (p *Pipeline) Summary() *RunSummary {
	return &p.summary
}

// Stages returns the pipeline's stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return []Stage{
		{Name: "load", Run: p.load},
		{Name: "inspect", Run: p.inspect},
		{Name: "clean", Run: p.clean},
		{Name: "distribution", Run: p.distribution},
		{Name: "datetime", Run: p.datetime},
		{Name: "recode", Run: p.recode},
		{Name: "categorical", Run: p.categorical},
		{Name: "boxplot", Run: p.boxplot},
		{Name: "summary", Run: p.describe},
		{Name: "hypothesis", Run: p.hypothesis},
		{Name: "export", Run: p.export},
	}
}

// load reads the dataset file into the table.
func (p *Pipeline) load(ctx context.Context) error {
	table, err := dataset.Load(p.cfg.Paths.Dataset)
	if err != nil {
		return err
	}
	p.table = table

	rows, cols := table.Shape()
	p.summary.Dataset = p.cfg.Paths.Dataset
	p.summary.RowsLoaded = rows
	p.summary.ColumnsLoaded = cols
	if p.metrics != nil {
		p.metrics.RowsLoaded.Set(float64(rows))
	}

	p.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", p.cfg.Paths.Dataset),
		slog.Int("rows", rows),
		slog.Int("columns", cols))
	return nil
}

// inspect prints the head, dtypes, shape, duplicate count, and per-column
// missing counts to the console.
func (p *Pipeline) inspect(ctx context.Context) error {
	fmt.Fprint(p.out, p.table.Head(headRows))
	fmt.Fprintln(p.out)

	for _, ck := range p.table.DTypes() {
		fmt.Fprintf(p.out, "%-34s %s\n", ck.Name, ck.Kind)
	}
	fmt.Fprintln(p.out)

	rows, cols := p.table.Shape()
	fmt.Fprintf(p.out, "(%d, %d)\n\n", rows, cols)

	dups := p.table.DuplicateRows()
	fmt.Fprintf(p.out, "duplicated rows: %d\n\n", dups)

	missing := p.table.MissingCounts()
	for _, mc := range missing {
		fmt.Fprintf(p.out, "%-34s %d\n", mc.Column, mc.Count)
	}
	fmt.Fprintln(p.out)

	p.summary.DuplicateRows = dups
	p.summary.MissingValues = missing
	if p.metrics != nil {
		p.metrics.DuplicateRows.Set(float64(dups))
	}
	return nil
}

// clean drops every row with a missing value.
func (p *Pipeline) clean(ctx context.Context) error {
	dropped := p.table.DropMissing()
	rows, _ := p.table.Shape()

	p.summary.RowsDropped = dropped
	p.summary.RowsAnalyzed = rows
	if p.metrics != nil {
		p.metrics.RowsDropped.Set(float64(dropped))
	}

	p.logger.InfoContext(ctx, "Missing values dropped",
		slog.Int("rows_dropped", dropped),
		slog.Int("rows_remaining", rows))
	return nil
}

// distribution plots the wait-time histogram, applies the inverse
// hyperbolic sine transform, and plots the transformed distribution.
func (p *Pipeline) distribution(ctx context.Context) error {
	waitCol := p.cfg.Columns.WaitTime

	values, err := p.table.Floats(waitCol)
	if err != nil {
		return err
	}
	if err := p.renderPlot(p.renderer.Histogram(values, waitCol, p.cfg.Plot.WaitTimeLabel)); err != nil {
		return err
	}

	transformedCol, err := transform.Asinh(p.table, waitCol, p.cfg.Labels.Transformed)
	if err != nil {
		return err
	}
	p.transformedCol = transformedCol

	transformed, err := p.table.Floats(transformedCol)
	if err != nil {
		return err
	}
	label := fmt.Sprintf("%s - %s", p.cfg.Plot.WaitTimeLabel, plotting.Humanize(p.cfg.Labels.Transformed))
	return p.renderPlot(p.renderer.Histogram(transformed, transformedCol, label))
}

// datetime strips the seconds component from the case-open column, parses
// both timestamp columns, and derives their month columns.
func (p *Pipeline) datetime(ctx context.Context) error {
	caseOpen := p.cfg.Columns.CaseOpen
	if err := transform.StripSeconds(p.table, caseOpen, p.cfg.Datetime.SecondsPattern); err != nil {
		return err
	}

	columns := []struct {
		name   string
		layout string
	}{
		{p.cfg.Columns.StudyAcquisition, p.cfg.Datetime.StudyAcquisitionLayout},
		{caseOpen, p.cfg.Datetime.CaseOpenLayout},
	}
	for _, col := range columns {
		derived, err := transform.DeriveMonth(p.table, col.name, col.layout,
			p.cfg.Datetime.MonthLayout, p.cfg.Datetime.MonthKeyword)
		if err != nil {
			return err
		}
		p.logger.InfoContext(ctx, "Derived month column",
			slog.String("source", col.name),
			slog.String("derived", derived))
	}
	return nil
}

// recode maps the boolean AI result column to its configured labels and
// re-prints the head with the manipulations applied.
func (p *Pipeline) recode(ctx context.Context) error {
	err := transform.RecodeBool(p.table, p.cfg.Columns.AIResult,
		p.cfg.Labels.ResultPositive, p.cfg.Labels.ResultNegative)
	if err != nil {
		return err
	}

	fmt.Fprint(p.out, p.table.Head(headRows))
	fmt.Fprintln(p.out)
	return nil
}

// categorical renders a value-count bar plot for every categorical column.
func (p *Pipeline) categorical(ctx context.Context) error {
	for _, column := range p.table.ColumnsOfKind(dataset.KindString) {
		counts, err := p.table.ValueCounts(column)
		if err != nil {
			return err
		}
		if err := p.renderPlot(p.renderer.Bar(counts, column)); err != nil {
			return err
		}
	}
	return nil
}

// boxplot renders, for every categorical column, a box plot of the
// transformed wait time split by the AI result.
func (p *Pipeline) boxplot(ctx context.Context) error {
	resultCol := p.cfg.Columns.AIResult
	for _, column := range p.table.ColumnsOfKind(dataset.KindString) {
		hue := resultCol
		if column == resultCol {
			hue = ""
		}

		groups, err := p.boxGroups(column, hue)
		if err != nil {
			return err
		}
		if err := p.renderPlot(p.renderer.Box(groups, column, p.cfg.Plot.WaitTimeLabel, hue)); err != nil {
			return err
		}
	}
	return nil
}

// describe prints descriptive statistics of the wait time, overall and
// grouped by the AI result.
func (p *Pipeline) describe(ctx context.Context) error {
	waitCol := p.cfg.Columns.WaitTime

	values, err := p.table.Floats(waitCol)
	if err != nil {
		return err
	}
	overall, err := analysis.Describe(values)
	if err != nil {
		return err
	}

	samples, err := p.samplesByCategory(p.cfg.Columns.AIResult, waitCol)
	if err != nil {
		return err
	}
	grouped, err := analysis.GroupedDescribe(samples)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s\n", waitCol)
	printSummary(p.out, overall)
	fmt.Fprintln(p.out)
	printGroupedSummaries(p.out, grouped)
	fmt.Fprintln(p.out)

	p.summary.WaitTime = &overall
	p.summary.WaitTimeByResult = grouped
	return nil
}

// hypothesis runs the Welch's t-test on the transformed wait time split
// by the AI result and prints the result.
func (p *Pipeline) hypothesis(ctx context.Context) error {
	samples, err := p.samplesByCategory(p.cfg.Columns.AIResult, p.transformedCol)
	if err != nil {
		return err
	}

	result, err := analysis.WelchTTestGrouped(samples)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s\n", result)
	p.summary.TTest = &result

	p.logger.InfoContext(ctx, "Hypothesis test complete",
		slog.String("sample_x", result.LabelX),
		slog.String("sample_y", result.LabelY),
		slog.Float64("statistic", result.Statistic),
		slog.Float64("p_value", result.PValue))
	return nil
}

// export writes the cleaned table to CSV when configured.
func (p *Pipeline) export(ctx context.Context) error {
	if p.cfg.Paths.ExportClean == "" {
		return nil
	}
	return p.csv.WriteTable(p.cfg.Paths.ExportClean, p.table, exporter.WriteOptions{BOMPrefix: true})
}

// renderPlot records a successfully written plot in the summary and metrics.
func (p *Pipeline) renderPlot(path string, err error) error {
	if err != nil {
		return err
	}
	p.summary.Plots = append(p.summary.Plots, path)
	if p.metrics != nil {
		p.metrics.PlotsRendered.Inc()
	}
	return nil
}

// samplesByCategory partitions a numeric column by the categories of a
// string column, in first-seen order.
func (p *Pipeline) samplesByCategory(catCol, numCol string) ([]analysis.Sample, error) {
	categories, err := p.table.Strings(catCol)
	if err != nil {
		return nil, err
	}
	values, err := p.table.Floats(numCol)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var samples []analysis.Sample
	for i, category := range categories {
		j, ok := index[category]
		if !ok {
			j = len(samples)
			index[category] = j
			samples = append(samples, analysis.Sample{Label: category})
		}
		samples[j].Values = append(samples[j].Values, values[i])
	}
	return samples, nil
}

// boxGroups builds the box-plot groups for one categorical column: one
// group per category, split into one series per hue category (or a single
// series when hue is empty).
func (p *Pipeline) boxGroups(column, hue string) ([]plotting.Group, error) {
	categories, err := p.table.Strings(column)
	if err != nil {
		return nil, err
	}
	values, err := p.table.Floats(p.transformedCol)
	if err != nil {
		return nil, err
	}

	var hues []string
	if hue != "" {
		if hues, err = p.table.Strings(hue); err != nil {
			return nil, err
		}
	}

	groupIndex := make(map[string]int)
	var groups []plotting.Group
	seriesIndex := make(map[string]map[string]int)

	for i, category := range categories {
		g, ok := groupIndex[category]
		if !ok {
			g = len(groups)
			groupIndex[category] = g
			groups = append(groups, plotting.Group{Category: category})
			seriesIndex[category] = make(map[string]int)
		}

		label := ""
		if hue != "" {
			label = hues[i]
		}
		s, ok := seriesIndex[category][label]
		if !ok {
			s = len(groups[g].Series)
			seriesIndex[category][label] = s
			groups[g].Series = append(groups[g].Series, plotting.Series{Label: label})
		}
		groups[g].Series[s].Values = append(groups[g].Series[s].Values, values[i])
	}
	return groups, nil
}

// printSummary renders one describe block in the pandas layout.
func printSummary(out io.Writer, s analysis.Summary) {
	fmt.Fprintf(out, "%-8s %14d\n", "count", s.Count)
	fmt.Fprintf(out, "%-8s %14.6f\n", "mean", s.Mean)
	fmt.Fprintf(out, "%-8s %14.6f\n", "std", s.Std)
	fmt.Fprintf(out, "%-8s %14.6f\n", "min", s.Min)
	fmt.Fprintf(out, "%-8s %14.6f\n", "25%", s.Q1)
	fmt.Fprintf(out, "%-8s %14.6f\n", "50%", s.Median)
	fmt.Fprintf(out, "%-8s %14.6f\n", "75%", s.Q3)
	fmt.Fprintf(out, "%-8s %14.6f\n", "max", s.Max)
}

// printGroupedSummaries renders grouped describe output, one row per category.
func printGroupedSummaries(out io.Writer, groups []analysis.GroupSummary) {
	fmt.Fprintf(out, "%-14s %7s %12s %12s %10s %10s %10s %10s %10s\n",
		"", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, g := range groups {
		s := g.Summary
		fmt.Fprintf(out, "%-14s %7d %12.6f %12.6f %10.4f %10.4f %10.4f %10.4f %10.4f\n",
			g.Category, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
}
