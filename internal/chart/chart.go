// Package chart renders the competition history into a chart artifact.
package chart

import (
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"go.uber.org/zap"
)

// Renderer produces a performance chart from the valuation history.
type Renderer interface {
	Render(history []domain.Snapshot) error
}

// HTMLRenderer writes a standalone HTML line chart comparing every
// competitor's portfolio value over time.
type HTMLRenderer struct {
	path   string
	names  []string
	logger *zap.Logger
}

// NewHTMLRenderer creates a renderer writing to the given file. names fixes
// the series order.
func NewHTMLRenderer(path string, names []string, logger *zap.Logger) *HTMLRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLRenderer{path: path, names: names, logger: logger}
}

// Render writes the chart. Fewer than two history points is an explicit skip,
// not an error: a line needs at least two points.
func (r *HTMLRenderer) Render(history []domain.Snapshot) error {
	if len(history) < 2 {
		r.logger.Info("not enough history to render chart",
			zap.Int("points", len(history)))
		return nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeChalk,
			PageTitle: "Paper Trading Competition",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Paper Trading Competition",
			Subtitle: "Portfolio value (USD) per strategy",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	timestamps := make([]string, len(history))
	for i, snapshot := range history {
		timestamps[i] = snapshot.Timestamp
	}
	line.SetXAxis(timestamps)

	for _, name := range r.names {
		points := make([]opts.LineData, len(history))
		for i, snapshot := range history {
			value, _ := snapshot.Value(name).Float64()
			points[i] = opts.LineData{Value: value}
		}
		line.AddSeries(name, points)
	}

	f, err := os.Create(r.path)
	if err != nil {
		return errors.Wrap(err, "create chart file")
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return errors.Wrap(err, "render chart")
	}

	r.logger.Info("chart rendered",
		zap.String("path", r.path),
		zap.Int("points", len(history)))
	return nil
}
