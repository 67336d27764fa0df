package chart

import "strconv"

// ECharts options are plain JSON objects; the page hands them to
// echarts.init(el).setOption.

type object = map[string]any

var textStyle = object{"color": "#ddd"}

func (p Pie) Option() map[string]any {
	data := make([]object, 0, len(p.Slices))
	for _, s := range p.Slices {
		data = append(data, object{
			"name":      s.Label,
			"value":     s.Value,
			"itemStyle": object{"color": s.Color},
		})
	}

	inner := "0%"
	if p.Hole > 0 {
		inner = strconv.FormatFloat(p.Hole*70, 'f', 0, 64) + "%"
	}

	opt := object{
		"title":   object{"text": p.Title, "textStyle": textStyle},
		"tooltip": object{"trigger": "item", "formatter": "{b}: {c} ({d}%)"},
		"legend":  object{"bottom": 0, "textStyle": textStyle},
		"series": []object{{
			"type":   "pie",
			"radius": []string{inner, "70%"},
			"label":  object{"formatter": "{b}\n{d}%", "color": "#ddd"},
			"data":   data,
		}},
	}
	if p.Center != "" {
		opt["graphic"] = []object{{
			"type":  "text",
			"left":  "center",
			"top":   "middle",
			"style": object{"text": p.Center, "fontSize": 20, "fill": "#ddd"},
		}}
	}
	return opt
}

func (b Bars) Option() map[string]any {
	series := make([]object, 0, len(b.Series))
	for _, s := range b.Series {
		series = append(series, object{
			"name":      s.Name,
			"type":      "bar",
			"data":      []float64{s.Value},
			"itemStyle": object{"color": s.Color},
		})
	}
	return object{
		"title":   object{"text": b.Title, "textStyle": textStyle},
		"tooltip": object{"trigger": "axis"},
		"legend":  object{"bottom": 0, "textStyle": textStyle},
		"xAxis":   object{"type": "category", "data": []string{b.Category}},
		"yAxis":   object{"type": "value", "min": 0},
		"series":  series,
	}
}

func (g Gauge) Option() map[string]any {
	span := g.Max - g.Min
	stops := make([][]any, 0, len(g.Bands))
	for _, band := range g.Bands {
		pos := 1.0
		if span > 0 {
			pos = (band.To - g.Min) / span
		}
		stops = append(stops, []any{pos, band.Color})
	}

	return object{
		"title": object{"text": g.Title, "left": "center", "textStyle": textStyle},
		"series": []object{{
			"type": "gauge",
			"min":  g.Min,
			"max":  g.Max,
			"axisLine": object{
				"lineStyle": object{"width": 18, "color": stops},
			},
			"progress": object{"show": true, "itemStyle": object{"color": g.BarColor}},
			"pointer":  object{"itemStyle": object{"color": Red}},
			"detail":   object{"valueAnimation": true, "color": "#ddd"},
			"data":     []object{{"value": g.Pointer()}},
		}},
	}
}
