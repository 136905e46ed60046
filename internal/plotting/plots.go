package plotting

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"radpulse/internal/dataset"
	apperrors "radpulse/internal/errors"
)

// histogramBins is the number of bins for wait-time histograms.
const histogramBins = 10

// Renderer writes plot files into one output directory using a fixed
// style. Plot files are named "<type>_<column><format>".
type Renderer struct {
	style  Style
	outDir string
	logger *slog.Logger
}

// NewRenderer creates a renderer writing into outDir.
func NewRenderer(outDir string, style Style, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{style: style, outDir: outDir, logger: logger}
}

// Series is one labelled numeric series inside a box-plot group.
type Series struct {
	Label  string
	Values []float64
}

// Group is one x-axis category of a box plot, holding one series per hue
// category (or a single unlabelled series when there is no hue).
type Group struct {
	Category string
	Series   []Series
}

// Histogram renders a histogram of the values and returns the written path.
func (r *Renderer) Histogram(values []float64, column, xLabel string) (string, error) {
	if len(values) == 0 {
		return "", apperrors.NewPlottingError(
			fmt.Sprintf("no values to plot for column %q", column), nil)
	}

	p := plot.New()
	r.applyAxes(p, xLabel, "Frequency")

	h, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return "", apperrors.NewPlottingError(
			fmt.Sprintf("failed to build histogram for column %q", column), err)
	}
	h.FillColor = plotutil.Color(0)
	h.LineStyle.Color = r.style.BarEdgeColor
	h.LineStyle.Width = vg.Points(r.style.LineWidth)
	p.Add(h)

	return r.save(p, r.style.HistType, column)
}

// Bar renders a value-count bar chart of a categorical column and returns
// the written path. Categories of time-derived columns are ordered
// chronologically; all others by descending count.
func (r *Renderer) Bar(counts []dataset.CategoryCount, column string) (string, error) {
	if len(counts) == 0 {
		return "", apperrors.NewPlottingError(
			fmt.Sprintf("no categories to plot for column %q", column), nil)
	}

	counts = r.orderCategories(counts, column)

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		labels[i] = c.Category
	}

	p := plot.New()
	r.applyAxes(p, Humanize(column), "Count")

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", apperrors.NewPlottingError(
			fmt.Sprintf("failed to build bar chart for column %q", column), err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Color = r.style.BarEdgeColor
	bars.LineStyle.Width = vg.Points(r.style.LineWidth)
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(p, r.style.BarType, column)
}

// Box renders a grouped box plot and returns the written path. Each group
// is one x-axis category; when hue is non-empty the group's series are
// drawn side by side, colored by hue category.
func (r *Renderer) Box(groups []Group, column, yLabel, hue string) (string, error) {
	if len(groups) == 0 {
		return "", apperrors.NewPlottingError(
			fmt.Sprintf("no groups to plot for column %q", column), nil)
	}

	groups = r.orderGroups(groups, column)

	p := plot.New()
	r.applyAxes(p, Humanize(column), yLabel)

	hueIndex := map[string]int{}
	for i, g := range groups {
		n := len(g.Series)
		for j, s := range g.Series {
			if len(s.Values) == 0 {
				continue
			}

			// Side-by-side placement within the category slot.
			loc := float64(i)
			if n > 1 {
				loc += (float64(j) - float64(n-1)/2) * (0.8 / float64(n))
			}

			b, err := plotter.NewBoxPlot(vg.Points(min(30, 120/float64(n))), loc, plotter.Values(s.Values))
			if err != nil {
				return "", apperrors.NewPlottingError(fmt.Sprintf(
					"failed to build box for column %q category %q", column, g.Category), err)
			}

			b.BoxStyle.Width = vg.Points(r.style.LineWidth)
			b.MedianStyle.Width = vg.Points(r.style.LineWidth)
			b.WhiskerStyle.Width = vg.Points(r.style.LineWidth)
			b.GlyphStyle.Color = r.style.PointColor
			if hue != "" {
				if _, ok := hueIndex[s.Label]; !ok {
					hueIndex[s.Label] = len(hueIndex)
				}
				b.FillColor = plotutil.Color(hueIndex[s.Label])
			}
			p.Add(b)
		}
	}

	categories := make([]string, len(groups))
	for i, g := range groups {
		categories[i] = g.Category
	}
	p.NominalX(categories...)

	if hue != "" && r.style.Legend {
		labels := make([]string, len(hueIndex))
		for label, i := range hueIndex {
			labels[i] = label
		}
		for i, label := range labels {
			p.Legend.Add(label, swatch{plotutil.Color(i)})
		}
		p.Legend.Top = true
		p.Legend.TextStyle.Font.Size = vg.Points(r.style.TickLabelSize)
	}

	return r.save(p, r.style.BoxType, column)
}

// applyAxes sets the axis labels and the configured text styling.
func (r *Renderer) applyAxes(p *plot.Plot, xLabel, yLabel string) {
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(r.style.AxisLabelSize)
	p.Y.Label.TextStyle.Font.Size = vg.Points(r.style.AxisLabelSize)
	p.X.Tick.Label.Font.Size = vg.Points(r.style.TickLabelSize)
	p.Y.Tick.Label.Font.Size = vg.Points(r.style.TickLabelSize)
	p.X.Padding = vg.Points(r.style.AxisLabelPad)
	p.Y.Padding = vg.Points(r.style.AxisLabelPad)

	if r.style.TickRotation != 0 {
		p.X.Tick.Label.Rotation = r.style.TickRotation * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
}

// save writes the plot to "<type>_<column><format>" in the output
// directory and returns the path.
func (r *Renderer) save(p *plot.Plot, plotType, column string) (string, error) {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return "", apperrors.NewStorageError(
			fmt.Sprintf("failed to create plot directory %s", r.outDir), err)
	}

	path := filepath.Join(r.outDir, fmt.Sprintf("%s_%s%s", plotType, column, r.style.Format))
	width := vg.Length(r.style.Width) * vg.Inch
	height := vg.Length(r.style.Height) * vg.Inch
	if err := p.Save(width, height, path); err != nil {
		return "", apperrors.NewPlottingError(fmt.Sprintf("failed to save plot %s", path), err)
	}

	r.logger.Info("Plot written",
		slog.String("path", path),
		slog.String("type", plotType),
		slog.String("column", column))
	return path, nil
}

// orderCategories sorts bar categories: chronologically for time-derived
// columns, by descending count otherwise.
func (r *Renderer) orderCategories(counts []dataset.CategoryCount, column string) []dataset.CategoryCount {
	ordered := make([]dataset.CategoryCount, len(counts))
	copy(ordered, counts)

	if strings.Contains(column, r.style.TimeKeyword) {
		if months, ok := r.parseMonths(categoryNames(ordered)); ok {
			sort.SliceStable(ordered, func(i, j int) bool {
				return months[ordered[i].Category].Before(months[ordered[j].Category])
			})
			return ordered
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Count > ordered[j].Count
	})
	return ordered
}

// orderGroups sorts box-plot groups chronologically when the x column is
// time-derived; otherwise the input order is kept.
func (r *Renderer) orderGroups(groups []Group, column string) []Group {
	if !strings.Contains(column, r.style.TimeKeyword) {
		return groups
	}

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Category
	}
	months, ok := r.parseMonths(names)
	if !ok {
		return groups
	}

	ordered := make([]Group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		return months[ordered[i].Category].Before(months[ordered[j].Category])
	})
	return ordered
}

// parseMonths parses every label with the month layout. Falls back
// (ok=false) when any label does not parse, leaving the input order.
func (r *Renderer) parseMonths(labels []string) (map[string]time.Time, bool) {
	months := make(map[string]time.Time, len(labels))
	for _, label := range labels {
		parsed, err := time.Parse(r.style.MonthLayout, label)
		if err != nil {
			return nil, false
		}
		months[label] = parsed
	}
	return months, true
}

func categoryNames(counts []dataset.CategoryCount) []string {
	names := make([]string, len(counts))
	for i, c := range counts {
		names[i] = c.Category
	}
	return names
}

// swatch is a legend thumbnail that fills its canvas with one color.
type swatch struct {
	color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	points := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, points)
}
