// Package chart describes the dashboard charts independently of how they are
// drawn. Option() produces an ECharts option for the browser; RenderSVG draws
// the pie and bar charts server-side with go-chart.
package chart

import "math"

// Palette shared by every chart on the dashboard.
const (
	Blue   = "#3498db"
	Green  = "#2ecc71"
	Orange = "#e67e22"
	Red    = "#e74c3c"
	Grey   = "#95a5a6"
)

// Slice is one wedge of a pie.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Pie is a proportion chart; Hole > 0 draws it as a donut with Center text.
type Pie struct {
	Title  string  `json:"title"`
	Center string  `json:"center,omitempty"`
	Hole   float64 `json:"hole"`
	Slices []Slice `json:"slices"`
}

func (p Pie) Total() float64 {
	var t float64
	for _, s := range p.Slices {
		t += s.Value
	}
	return t
}

// Share returns the percentage a slice represents, as the browser labels it.
func (p Pie) Share(i int) float64 {
	t := p.Total()
	if t <= 0 || i < 0 || i >= len(p.Slices) {
		return 0
	}
	return p.Slices[i].Value / t * 100
}

// Bar is one series of a grouped bar chart; each series has one value on the
// shared category.
type Bar struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type Bars struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Series   []Bar  `json:"series"`
}

func (b Bars) Total() float64 {
	var t float64
	for _, s := range b.Series {
		t += s.Value
	}
	return t
}

// Band is a coloured range on a gauge axis, [From, To) unless Closed.
type Band struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Color  string  `json:"color"`
	Closed bool    `json:"closed,omitempty"`
}

// Gauge shows a single value against coloured bands.
type Gauge struct {
	Title    string  `json:"title"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Value    float64 `json:"value"`
	BarColor string  `json:"bar_color"`
	Bands    []Band  `json:"bands"`
}

// Pointer is where the needle is drawn: the value clamped to the axis.
func (g Gauge) Pointer() float64 {
	return math.Min(math.Max(g.Value, g.Min), g.Max)
}

// BandAt returns the band the needle points into. Bands are [From, To); a
// Closed band and the last band also hold their upper end, and the first
// matching band wins.
func (g Gauge) BandAt(v float64) (Band, bool) {
	v = math.Min(math.Max(v, g.Min), g.Max)
	for i, b := range g.Bands {
		closed := b.Closed || i == len(g.Bands)-1
		if v >= b.From && (v < b.To || (closed && v <= b.To)) {
			return b, true
		}
	}
	return Band{}, false
}

// PointerBand is BandAt(g.Value).
func (g Gauge) PointerBand() (Band, bool) { return g.BandAt(g.Value) }
