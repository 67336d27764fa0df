package model

import "github.com/shopspring/decimal"

// Customer is one row of the customers table. Optional metrics follow the same
// nil/error convention as Material.
type Customer struct {
	ID     int64
	Fields []Field

	CLV    *decimal.Decimal
	CLVErr error

	MeanRecurrence    *float64
	MeanRecurrenceErr error
}
