// Package classify maps customer metrics to qualitative tiers using fixed
// range partitions.
package classify

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ValueTier buckets a customer lifetime value.
type ValueTier string

const (
	ValueHigh   ValueTier = "high"
	ValueMedium ValueTier = "medium"
	ValueLow    ValueTier = "low"
)

// FrequencyTier buckets a mean recurrence time; a shorter time between
// purchases means a higher frequency.
type FrequencyTier string

const (
	FrequencyHigh     FrequencyTier = "high"
	FrequencyModerate FrequencyTier = "moderate"
	FrequencyLow      FrequencyTier = "low"
)

// Level is the banner style a tier is announced with.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Thresholds holds the partition boundaries.
//
//	value:      v > ValueHigh → high; ValueMedium ≤ v ≤ ValueHigh → medium; else low
//	recurrence: m < RecurrenceHigh → high; RecurrenceHigh ≤ m < RecurrenceModerate → moderate; else low
type Thresholds struct {
	ValueHigh          decimal.Decimal
	ValueMedium        decimal.Decimal
	RecurrenceHigh     float64
	RecurrenceModerate float64
}

// DefaultThresholds returns the boundaries the dashboard has always used.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ValueHigh:          decimal.NewFromInt(500000),
		ValueMedium:        decimal.NewFromInt(100000),
		RecurrenceHigh:     2,
		RecurrenceModerate: 3,
	}
}

// NewThresholds builds thresholds from plain config numbers.
func NewThresholds(valueHigh, valueMedium, recurrenceHigh, recurrenceModerate float64) (Thresholds, error) {
	t := Thresholds{
		ValueHigh:          decimal.NewFromFloat(valueHigh),
		ValueMedium:        decimal.NewFromFloat(valueMedium),
		RecurrenceHigh:     recurrenceHigh,
		RecurrenceModerate: recurrenceModerate,
	}
	return t, t.Validate()
}

func (t Thresholds) Validate() error {
	if !t.ValueMedium.LessThan(t.ValueHigh) {
		return errors.New("classify: medium value threshold must be below the high one")
	}
	if !(t.RecurrenceHigh < t.RecurrenceModerate) {
		return errors.New("classify: high-frequency recurrence threshold must be below the moderate one")
	}
	return nil
}

func (t Thresholds) Value(v decimal.Decimal) ValueTier {
	switch {
	case v.GreaterThan(t.ValueHigh):
		return ValueHigh
	case v.GreaterThanOrEqual(t.ValueMedium):
		return ValueMedium
	default:
		return ValueLow
	}
}

func (t Thresholds) Frequency(m float64) FrequencyTier {
	switch {
	case m < t.RecurrenceHigh:
		return FrequencyHigh
	case m < t.RecurrenceModerate:
		return FrequencyModerate
	default:
		return FrequencyLow
	}
}

func (v ValueTier) Message() string {
	switch v {
	case ValueHigh:
		return "This is a high-value customer."
	case ValueMedium:
		return "This is a medium-value customer."
	default:
		return "This is a low-value customer."
	}
}

func (v ValueTier) Level() Level {
	switch v {
	case ValueHigh:
		return LevelSuccess
	case ValueMedium:
		return LevelInfo
	default:
		return LevelWarning
	}
}

func (f FrequencyTier) Message() string {
	switch f {
	case FrequencyHigh:
		return "This customer has a high purchase frequency."
	case FrequencyModerate:
		return "This customer has a moderate purchase frequency."
	default:
		return "This customer has a low purchase frequency."
	}
}

func (f FrequencyTier) Level() Level {
	switch f {
	case FrequencyHigh:
		return LevelSuccess
	case FrequencyModerate:
		return LevelInfo
	default:
		return LevelWarning
	}
}
