package dashboard

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jmehdipour/pisa-dashboard/internal/chart"
	"github.com/jmehdipour/pisa-dashboard/internal/classify"
	"github.com/jmehdipour/pisa-dashboard/internal/lookup"
	"github.com/jmehdipour/pisa-dashboard/internal/markov"
	"github.com/jmehdipour/pisa-dashboard/internal/model"
)

const (
	clvAxisMax        = 1_000_000
	recurrenceAxisMin = 1
	recurrenceAxisMax = 5
)

var (
	NoticePrompt            = Notice{Level: classify.LevelInfo, Text: "Enter a material name or a customer ID in the sidebar to see its data."}
	NoticeMaterialNotFound  = Notice{Level: classify.LevelWarning, Text: "Material not found."}
	NoticeCustomerNotFound  = Notice{Level: classify.LevelWarning, Text: "Customer ID not found."}
	NoticeInvalidCustomerID = Notice{Level: classify.LevelWarning, Text: "Customer ID must be an integer."}
	NoticeLookupFailed      = Notice{Level: classify.LevelWarning, Text: "The lookup could not be completed."}
)

// Builder renders records into views using the configured thresholds.
type Builder struct {
	Thresholds classify.Thresholds
}

func NewBuilder(t classify.Thresholds) *Builder {
	return &Builder{Thresholds: t}
}

func (b *Builder) Material(m model.Material) MaterialView {
	v := MaterialView{Name: m.Name, Info: m.Fields}

	switch {
	case m.TransitionErr != nil:
		v.Transition = &TransitionSection{Note: transitionNote, Error: fmt.Sprintf("transition matrix is malformed: %v", m.TransitionErr)}
	case m.Transition != nil:
		pie := TransitionPie(*m.Transition)
		v.Transition = &TransitionSection{Note: transitionNote, Matrix: m.Transition, Chart: &pie}
	}

	switch {
	case m.StationaryErr != nil:
		v.Stationary = &StationarySection{Note: stationaryNote, Error: fmt.Sprintf("stationary probabilities are malformed: %v", m.StationaryErr)}
	case m.Stationary != nil:
		bars := StationaryBars(*m.Stationary)
		v.Stationary = &StationarySection{Note: stationaryNote, Distribution: m.Stationary, Chart: &bars}
	}
	return v
}

func (b *Builder) Customer(c model.Customer) CustomerView {
	v := CustomerView{ID: c.ID, Info: c.Fields}

	switch {
	case c.CLVErr != nil:
		v.CLV = &CLVSection{Note: clvNote, Error: fmt.Sprintf("CLV is malformed: %v", c.CLVErr)}
	case c.CLV != nil:
		tier := b.Thresholds.Value(*c.CLV)
		gauge := b.clvGauge(c.CLV.InexactFloat64())
		v.CLV = &CLVSection{
			Note:    clvNote,
			Display: "$" + c.CLV.StringFixed(2),
			Tier:    tier,
			Notice:  &Notice{Level: tier.Level(), Text: tier.Message()},
			Gauge:   &gauge,
		}
	}

	switch {
	case c.MeanRecurrenceErr != nil:
		v.Recurrence = &RecurrenceSection{Note: recurrenceNote, Error: fmt.Sprintf("mean recurrence time is malformed: %v", c.MeanRecurrenceErr)}
	case c.MeanRecurrence != nil:
		mu := *c.MeanRecurrence
		tier := b.Thresholds.Frequency(mu)
		gauge := b.recurrenceGauge(mu)
		v.Recurrence = &RecurrenceSection{
			Note:    recurrenceNote,
			Display: strconv.FormatFloat(mu, 'f', 2, 64),
			Tier:    tier,
			Notice:  &Notice{Level: tier.Level(), Text: tier.Message()},
			Gauge:   &gauge,
		}
	}
	return v
}

// MaterialNotice maps a failed material lookup to its banner.
func MaterialNotice(err error) Notice {
	if errors.Is(err, lookup.ErrNotFound) {
		return NoticeMaterialNotFound
	}
	return NoticeLookupFailed
}

// CustomerNotice maps a failed customer lookup to its banner.
func CustomerNotice(err error) Notice {
	switch {
	case errors.Is(err, lookup.ErrInvalidID):
		return NoticeInvalidCustomerID
	case errors.Is(err, lookup.ErrNotFound):
		return NoticeCustomerNotFound
	default:
		return NoticeLookupFailed
	}
}

// TransitionPie draws row 0 of the matrix: staying active against becoming inactive.
func TransitionPie(m markov.Matrix) chart.Pie {
	return chart.Pie{
		Title:  "Transition probabilities",
		Center: "Transition",
		Hole:   0.3,
		Slices: []chart.Slice{
			{Label: markov.Active.String(), Value: m.StayActive(), Color: chart.Blue},
			{Label: markov.Inactive.String(), Value: m.BecomeInactive(), Color: chart.Orange},
		},
	}
}

func StationaryBars(d markov.Distribution) chart.Bars {
	return chart.Bars{
		Title:    "Stationary probabilities",
		Category: "Probability",
		Series: []chart.Bar{
			{Name: markov.Active.String(), Value: d.Of(markov.Active), Color: chart.Blue},
			{Name: markov.Inactive.String(), Value: d.Of(markov.Inactive), Color: chart.Orange},
		},
	}
}

func (b *Builder) clvGauge(v float64) chart.Gauge {
	medium := b.Thresholds.ValueMedium.InexactFloat64()
	high := b.Thresholds.ValueHigh.InexactFloat64()
	axisMax := float64(clvAxisMax)
	if high >= axisMax {
		axisMax = 2 * high
	}
	return chart.Gauge{
		Title:    "CLV",
		Min:      0,
		Max:      axisMax,
		Value:    v,
		BarColor: chart.Blue,
		Bands: []chart.Band{
			{From: 0, To: medium, Color: chart.Grey},
			{From: medium, To: high, Color: chart.Orange, Closed: true}, // ValueHigh itself is medium
			{From: high, To: axisMax, Color: chart.Green},
		},
	}
}

func (b *Builder) recurrenceGauge(mu float64) chart.Gauge {
	high := b.Thresholds.RecurrenceHigh
	moderate := b.Thresholds.RecurrenceModerate
	axisMin, axisMax := float64(recurrenceAxisMin), float64(recurrenceAxisMax)
	if high <= axisMin {
		axisMin = 0
	}
	if moderate >= axisMax {
		axisMax = moderate + 2
	}
	return chart.Gauge{
		Title:    "Mean recurrence time (mu_j)",
		Min:      axisMin,
		Max:      axisMax,
		Value:    mu,
		BarColor: chart.Blue,
		Bands: []chart.Band{
			{From: axisMin, To: high, Color: chart.Green},
			{From: high, To: moderate, Color: chart.Orange},
			{From: moderate, To: axisMax, Color: chart.Red},
		},
	}
}
