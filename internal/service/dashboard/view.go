// Package dashboard turns looked-up records into the views the page and the
// JSON API render: information tables, metric sections and chart models.
package dashboard

import (
	"github.com/jmehdipour/pisa-dashboard/internal/chart"
	"github.com/jmehdipour/pisa-dashboard/internal/classify"
	"github.com/jmehdipour/pisa-dashboard/internal/markov"
	"github.com/jmehdipour/pisa-dashboard/internal/model"
)

const (
	transitionNote = "The transition matrix gives the probability that a material moves from one state to another (active to inactive or back) in the next period."
	stationaryNote = "The stationary probabilities give the long-run share of time the material spends in each state."
	clvNote        = "Customer Lifetime Value estimates the total value a customer brings over the whole relationship. A higher CLV means a more valuable customer."
	recurrenceNote = "The mean recurrence time (mu_j) is the average time between two purchases of a customer. A lower value means more frequent purchases."
)

// Notice is a banner shown instead of (or next to) a result.
type Notice struct {
	Level classify.Level `json:"level"`
	Text  string         `json:"text"`
}

// TransitionSection shows row 0 of the transition matrix as a donut.
type TransitionSection struct {
	Note   string         `json:"note"`
	Matrix *markov.Matrix `json:"matrix,omitempty"`
	Chart  *chart.Pie     `json:"chart,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// StationarySection shows the stationary vector as grouped bars, as stored.
type StationarySection struct {
	Note         string               `json:"note"`
	Distribution *markov.Distribution `json:"distribution,omitempty"`
	Chart        *chart.Bars          `json:"chart,omitempty"`
	Error        string               `json:"error,omitempty"`
}

type MaterialView struct {
	Name       string             `json:"name"`
	Info       []model.Field      `json:"info"`
	Transition *TransitionSection `json:"transition,omitempty"`
	Stationary *StationarySection `json:"stationary,omitempty"`
}

type CLVSection struct {
	Note    string             `json:"note"`
	Display string             `json:"display,omitempty"`
	Tier    classify.ValueTier `json:"tier,omitempty"`
	Notice  *Notice            `json:"notice,omitempty"`
	Gauge   *chart.Gauge       `json:"gauge,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type RecurrenceSection struct {
	Note    string                 `json:"note"`
	Display string                 `json:"display,omitempty"`
	Tier    classify.FrequencyTier `json:"tier,omitempty"`
	Notice  *Notice                `json:"notice,omitempty"`
	Gauge   *chart.Gauge           `json:"gauge,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

type CustomerView struct {
	ID         int64              `json:"id"`
	Info       []model.Field      `json:"info"`
	CLV        *CLVSection        `json:"clv,omitempty"`
	Recurrence *RecurrenceSection `json:"recurrence,omitempty"`
}
