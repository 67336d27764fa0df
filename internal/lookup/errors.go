package lookup

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid customer id")
)

// InvalidIDError is returned when a customer id query is not an integer.
type InvalidIDError struct {
	Input string
}

func (e *InvalidIDError) Error() string { return fmt.Sprintf("invalid customer id %q", e.Input) }

func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// RowError points at a reference table row that cannot be indexed.
type RowError struct {
	Table  string
	Row    int // 1-based data row, header excluded
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d, column %q: %v", e.Table, e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
