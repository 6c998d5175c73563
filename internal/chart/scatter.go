// Package chart renders the points-vs-wins scatter chart as SVG.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/omarshaarawi/leaguedash/internal/models"
)

// ErrNoRows is returned when asked to plot an empty table.
var ErrNoRows = errors.New("chart: no rows to plot")

const (
	Width  = 900
	Height = 540

	minDotWidth = 4.0
	maxDotWidth = 14.0
)

// RenderScatter draws x = points for, y = wins, one labelled dot per row. Dot
// size and colour scale with wins, and a dashed vertical line marks average.
func RenderScatter(w io.Writer, rows []models.StandingsRow, average float64) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	labels := make([]gochart.Value2, len(rows))
	for i, row := range rows {
		xs[i] = row.PointsFor
		ys[i] = float64(row.Wins)
		labels[i] = gochart.Value2{XValue: row.PointsFor, YValue: float64(row.Wins), Label: row.Owner}
	}

	xMin, xMax := paddedRange(append(xs, average))
	yMin, yMax := paddedRange(ys)
	yMin = math.Max(0, yMin)

	teams := gochart.ContinuousSeries{
		Name:    "Teams",
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeWidth:      gochart.Disabled,
			DotWidthProvider: dotWidthByWins,
			DotColorProvider: dotColorByWins,
		},
	}

	avgLine := gochart.ContinuousSeries{
		Name:    "Avg Points",
		XValues: []float64{average, average},
		YValues: []float64{yMin, yMax},
		Style: gochart.Style{
			StrokeColor:     drawing.ColorRed,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{6, 4},
		},
	}

	annotations := gochart.AnnotationSeries{
		Annotations: append(labels, gochart.Value2{
			XValue: average,
			YValue: yMax,
			Label:  "Avg Points",
			Style:  gochart.Style{FontColor: drawing.ColorRed, StrokeColor: drawing.ColorRed},
		}),
	}

	graph := gochart.Chart{
		Title:      "Points vs. Wins (Luck Analysis)",
		Width:      Width,
		Height:     Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 30, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:           "Total Points Scored",
			Range:          &gochart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		YAxis: gochart.YAxis{
			Name:           "Total Wins",
			Range:          &gochart.ContinuousRange{Min: yMin, Max: yMax},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		Series: []gochart.Series{teams, avgLine, annotations},
	}

	if err := graph.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("rendering scatter chart: %w", err)
	}
	return nil
}

// paddedRange returns bounds around values with 10% head room, and at least
// one unit on each side so a single point or a flat series still plots.
func paddedRange(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := math.Max((hi-lo)*0.1, 1)
	return lo - pad, hi + pad
}

func dotWidthByWins(_, yr gochart.Range, _ int, _, y float64) float64 {
	return scale(y, yr, minDotWidth, maxDotWidth)
}

func dotColorByWins(_, yr gochart.Range, _ int, _, y float64) drawing.Color {
	return gochart.Viridis(y, yr.GetMin(), yr.GetMax())
}

func scale(v float64, r gochart.Range, lo, hi float64) float64 {
	span := r.GetMax() - r.GetMin()
	if span <= 0 {
		return (lo + hi) / 2
	}
	return lo + (v-r.GetMin())/span*(hi-lo)
}
