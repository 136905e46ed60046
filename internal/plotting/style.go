package plotting

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"radpulse/internal/config"
	apperrors "radpulse/internal/errors"
)

// Style carries every plot styling parameter, resolved once from
// configuration and passed explicitly to the renderer.
type Style struct {
	Width         float64 // inches
	Height        float64 // inches
	AxisLabelSize float64 // points
	TickLabelSize float64 // points
	AxisLabelPad  float64 // points
	TickRotation  float64 // degrees
	LineWidth     float64 // points
	PointColor    color.Color
	BarEdgeColor  color.Color
	Legend        bool
	Format        string
	HistType      string
	BarType       string
	BoxType       string
	WaitTimeLabel string
	MonthLayout   string
	TimeKeyword   string
}

// StyleFromConfig resolves the plot section of the configuration into a
// Style, parsing the hex colors.
func StyleFromConfig(cfg *config.Config) (Style, error) {
	point, err := parseHexColor(cfg.Plot.PointColor)
	if err != nil {
		return Style{}, err
	}
	edge, err := parseHexColor(cfg.Plot.BarEdgeColor)
	if err != nil {
		return Style{}, err
	}

	return Style{
		Width:         cfg.Plot.Width,
		Height:        cfg.Plot.Height,
		AxisLabelSize: cfg.Plot.AxisLabelSize,
		TickLabelSize: cfg.Plot.TickLabelSize,
		AxisLabelPad:  cfg.Plot.AxisLabelPad,
		TickRotation:  cfg.Plot.TickRotation,
		LineWidth:     cfg.Plot.LineWidth,
		PointColor:    point,
		BarEdgeColor:  edge,
		Legend:        cfg.Plot.Legend,
		Format:        cfg.Plot.Format,
		HistType:      cfg.Plot.HistType,
		BarType:       cfg.Plot.BarType,
		BoxType:       cfg.Plot.BoxType,
		WaitTimeLabel: cfg.Plot.WaitTimeLabel,
		MonthLayout:   cfg.Datetime.MonthLayout,
		TimeKeyword:   cfg.Datetime.TimeKeyword,
	}, nil
}

// parseHexColor parses a #rrggbb or #rgb color string.
func parseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("invalid color %q", s), nil)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("invalid color %q", s), err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

// Humanize turns a column name into an axis label: underscores become
// spaces and each word is title-cased.
func Humanize(column string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(column, "_", " "))
}
