package view

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// palette colours timeline methods in alphabetical method order.
var palette = []string{
	"4c9be8", "f28e2b", "59a14f", "e15759", "b07aa1",
	"76b7b2", "edc948", "ff9da7", "9c755f", "bab0ac",
}

const pointColor = "4c9be8"

func methodColor(i int) string {
	return palette[i%len(palette)]
}

// pointStyle draws markers only, without a connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func scatterSVG(sc Scatter, width, height int) string {
	if len(sc.Points) == 0 {
		return placeholderSVG(width, height, sc.Title, "No records match the current selection")
	}

	xs := make([]float64, len(sc.Points))
	ys := make([]float64, len(sc.Points))
	for i, p := range sc.Points {
		xs[i], ys[i] = p.X, p.Y
	}

	ch := chart.Chart{
		Title:      sc.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: sc.XLabel, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: sc.YLabel, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    sc.Title,
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(drawing.ColorFromHex(pointColor)),
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return placeholderSVG(width, height, sc.Title, "Chart unavailable: "+err.Error())
	}
	return buf.String()
}

func timelineSVG(tl *Timeline, width, height int) string {
	if len(tl.Years) == 0 {
		return placeholderSVG(width, height, tl.Title, "No discoveries in the current selection")
	}

	barWidth := (width-80)/len(tl.Years) - 2
	if barWidth < 3 {
		barWidth = 3
	}

	bars := make([]chart.StackedBar, len(tl.Years))
	for i, year := range tl.Years {
		var values []chart.Value
		for j, method := range tl.Methods {
			n := tl.Counts[i][j]
			if n == 0 {
				continue
			}
			col := drawing.ColorFromHex(methodColor(j))
			values = append(values, chart.Value{
				Label: method,
				Value: float64(n),
				Style: chart.Style{FillColor: col, StrokeColor: col},
			})
		}
		bars[i] = chart.StackedBar{Name: year, Width: barWidth, Values: values}
	}

	sbc := chart.StackedBarChart{
		Title:      tl.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarSpacing: 2,
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := sbc.Render(chart.SVG, &buf); err != nil {
		return placeholderSVG(width, height, tl.Title, "Chart unavailable: "+err.Error())
	}
	return buf.String()
}

// paddedRange widens the data range by 5% on each side, and gives a
// single-valued axis a non-zero span so the chart can still be drawn.
func paddedRange(vals []float64) *chart.ContinuousRange {
	lo, hi := floats.Min(vals), floats.Max(vals)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(lo)*0.1, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// placeholderSVG is drawn instead of a chart that has nothing to show.
func placeholderSVG(width, height int, title, msg string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
		`<text x="50%%" y="24" text-anchor="middle" font-size="14">%s</text>`+
		`<text x="50%%" y="50%%" text-anchor="middle" font-size="12" fill="#888">%s</text></svg>`,
		width, height, html.EscapeString(title), html.EscapeString(msg))
}

// shortLabel drops a trailing unit such as " (days)".
func shortLabel(label string) string {
	if i := strings.LastIndex(label, " ("); i > 0 && strings.HasSuffix(label, ")") {
		return label[:i]
	}
	return label
}
