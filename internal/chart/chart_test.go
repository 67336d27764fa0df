package chart

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transitionPie() Pie {
	return Pie{
		Title:  "Transition probabilities",
		Center: "Transition",
		Hole:   0.3,
		Slices: []Slice{
			{Label: "Active", Value: 0.8, Color: Blue},
			{Label: "Inactive", Value: 0.2, Color: Orange},
		},
	}
}

func clvGauge(v float64) Gauge {
	return Gauge{
		Title: "CLV", Min: 0, Max: 1_000_000, Value: v, BarColor: Blue,
		Bands: []Band{
			{From: 0, To: 100_000, Color: Grey},
			{From: 100_000, To: 500_000, Color: Orange},
			{From: 500_000, To: 1_000_000, Color: Green},
		},
	}
}

func TestPieShare(t *testing.T) {
	p := transitionPie()
	assert.InDelta(t, 80, p.Share(0), 1e-9)
	assert.InDelta(t, 20, p.Share(1), 1e-9)
	assert.Zero(t, p.Share(5))
	assert.Zero(t, Pie{}.Share(0))
}

func TestGaugeBandAt(t *testing.T) {
	g := clvGauge(750_000)

	b, ok := g.PointerBand()
	require.True(t, ok)
	assert.Equal(t, Green, b.Color)

	b, _ = g.BandAt(100_000)
	assert.Equal(t, Orange, b.Color)
	b, _ = g.BandAt(99_999)
	assert.Equal(t, Grey, b.Color)
	b, _ = g.BandAt(1_000_000)
	assert.Equal(t, Green, b.Color)

	// off-axis values are clamped
	b, _ = g.BandAt(5_000_000)
	assert.Equal(t, Green, b.Color)
	b, _ = g.BandAt(-10)
	assert.Equal(t, Grey, b.Color)

	_, ok = Gauge{Min: 0, Max: 1}.BandAt(0.5)
	assert.False(t, ok)
}

func TestGaugePointerClamp(t *testing.T) {
	assert.Equal(t, 1_000_000.0, clvGauge(3_000_000).Pointer())
	assert.Equal(t, 0.0, clvGauge(-1).Pointer())
	assert.Equal(t, 42.0, clvGauge(42).Pointer())
}

func TestOptionsAreJSON(t *testing.T) {
	for name, opt := range map[string]map[string]any{
		"pie":   transitionPie().Option(),
		"bars":  Bars{Title: "Stationary", Category: "Probability", Series: []Bar{{Name: "Active", Value: 0.6, Color: Blue}}}.Option(),
		"gauge": clvGauge(750_000).Option(),
	} {
		raw, err := json.Marshal(opt)
		require.NoError(t, err, name)
		assert.Contains(t, string(raw), `"series"`, name)
	}
}

func TestPieOption(t *testing.T) {
	opt := transitionPie().Option()

	series := opt["series"].([]object)
	require.Len(t, series, 1)
	assert.Equal(t, []string{"21%", "70%"}, series[0]["radius"])

	data := series[0]["data"].([]object)
	require.Len(t, data, 2)
	assert.Equal(t, "Active", data[0]["name"])
	assert.Equal(t, 0.8, data[0]["value"])
	assert.Equal(t, 0.2, data[1]["value"])
	assert.Contains(t, opt, "graphic")
}

func TestGaugeOptionBandStops(t *testing.T) {
	opt := clvGauge(750_000).Option()
	series := opt["series"].([]object)
	line := series[0]["axisLine"].(object)["lineStyle"].(object)["color"].([][]any)
	assert.Equal(t, [][]any{{0.1, Grey}, {0.5, Orange}, {1.0, Green}}, line)
}

func TestBarsTotalIsNotRenormalised(t *testing.T) {
	b := Bars{Series: []Bar{{Name: "Active", Value: 0.5}, {Name: "Inactive", Value: 0.3}}}
	assert.InDelta(t, 0.8, b.Total(), 1e-12)
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, transitionPie().RenderSVG(&buf))
	assert.Contains(t, buf.String(), "<svg")

	buf.Reset()
	bars := Bars{Title: "Stationary probabilities", Category: "Probability", Series: []Bar{
		{Name: "Active", Value: 0.6, Color: Blue},
		{Name: "Inactive", Value: 0.4, Color: Orange},
	}}
	require.NoError(t, bars.RenderSVG(&buf))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Pie{}.RenderSVG(&buf), ErrEmptyChart)
	assert.ErrorIs(t, Pie{Slices: []Slice{{Value: 0}}}.RenderSVG(&buf), ErrEmptyChart)
	assert.ErrorIs(t, Bars{}.RenderSVG(&buf), ErrEmptyChart)
}

func TestGaugeClosedBandHoldsUpperEnd(t *testing.T) {
	g := clvGauge(500_000)
	b, _ := g.PointerBand()
	assert.Equal(t, Green, b.Color)

	g.Bands[1].Closed = true
	b, _ = g.PointerBand()
	assert.Equal(t, Orange, b.Color)
	b, _ = g.BandAt(500_000.01)
	assert.Equal(t, Green, b.Color)
}
