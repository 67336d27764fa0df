package chart

import (
	"errors"
	"io"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrEmptyChart = errors.New("chart has nothing to draw")

const (
	svgWidth  = 512
	svgHeight = 400
)

// RenderSVG draws the pie as a standalone SVG document.
func (p Pie) RenderSVG(w io.Writer) error {
	if len(p.Slices) == 0 || p.Total() <= 0 {
		return ErrEmptyChart
	}

	values := make([]gochart.Value, 0, len(p.Slices))
	for i, s := range p.Slices {
		values = append(values, gochart.Value{
			Value: s.Value,
			Label: s.Label + " " + strconv.FormatFloat(p.Share(i), 'f', 1, 64) + "%",
			Style: gochart.Style{
				FillColor:   color(s.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}

	pie := gochart.PieChart{
		Title:  p.Title,
		Width:  svgWidth,
		Height: svgHeight,
		Values: values,
	}
	return pie.Render(gochart.SVG, w)
}

// RenderSVG draws the bars as a standalone SVG document.
func (b Bars) RenderSVG(w io.Writer) error {
	if len(b.Series) == 0 {
		return ErrEmptyChart
	}

	top := 1.0
	bars := make([]gochart.Value, 0, len(b.Series))
	for _, s := range b.Series {
		if s.Value > top {
			top = s.Value
		}
		bars = append(bars, gochart.Value{
			Value: s.Value,
			Label: s.Name,
			Style: gochart.Style{
				FillColor:   color(s.Color),
				StrokeColor: color(s.Color),
				StrokeWidth: 1,
			},
		})
	}

	bc := gochart.BarChart{
		Title:      b.Title,
		Width:      svgWidth,
		Height:     svgHeight,
		BarWidth:   80,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	return bc.Render(gochart.SVG, w)
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
