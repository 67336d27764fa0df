// Package lookup indexes the two reference tables once and answers the two
// dashboard queries: material by name and customer by id.
package lookup

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jmehdipour/pisa-dashboard/internal/logger"
	"github.com/jmehdipour/pisa-dashboard/internal/markov"
	"github.com/jmehdipour/pisa-dashboard/internal/metrics"
	"github.com/jmehdipour/pisa-dashboard/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Columns names the interpreted columns. Empty optional names disable the
// matching dashboard section.
type Columns struct {
	MaterialKey    string
	Transition     string
	Stationary     string
	CustomerKey    string
	CLV            string
	MeanRecurrence string
}

// Stats describes what was indexed.
type Stats struct {
	Materials       int      `json:"materials"`
	Customers       int      `json:"customers"`
	MaterialColumns []string `json:"material_columns"`
	CustomerColumns []string `json:"customer_columns"`
}

// Service is an immutable index over both tables; it is safe for concurrent use.
type Service struct {
	materials map[string]model.Material
	customers map[int64]model.Customer
	stats     Stats
}

// New indexes both tables. Rows with a blank key are skipped and duplicate
// keys keep their first row; both are logged. A customer key that is not an
// integer fails the whole load.
func New(materials, customers model.Table, cols Columns) (*Service, error) {
	s := &Service{
		stats: Stats{
			MaterialColumns: materials.Columns,
			CustomerColumns: customers.Columns,
		},
	}

	var err error
	if s.materials, err = indexMaterials(materials, cols); err != nil {
		return nil, err
	}
	if s.customers, err = indexCustomers(customers, cols); err != nil {
		return nil, err
	}

	s.stats.Materials = len(s.materials)
	s.stats.Customers = len(s.customers)
	metrics.ReferenceRows.WithLabelValues(model.TableMaterials).Set(float64(s.stats.Materials))
	metrics.ReferenceRows.WithLabelValues(model.TableCustomers).Set(float64(s.stats.Customers))

	logger.Log.Info("reference tables indexed",
		zap.Int("materials", s.stats.Materials),
		zap.Int("customers", s.stats.Customers),
	)
	return s, nil
}

func (s *Service) Stats() Stats { return s.stats }

// Material finds a material by exact (case-sensitive) name; surrounding
// whitespace in the query is ignored.
func (s *Service) Material(ctx context.Context, name string) (model.Material, error) {
	if err := ctx.Err(); err != nil {
		return model.Material{}, err
	}
	m, ok := s.materials[strings.TrimSpace(name)]
	if !ok {
		metrics.LookupsTotal.WithLabelValues("material", metrics.OutcomeNotFound).Inc()
		return model.Material{}, ErrNotFound
	}
	metrics.LookupsTotal.WithLabelValues("material", metrics.OutcomeFound).Inc()
	return m, nil
}

// Customer parses rawID as an integer and finds the customer. Non-integer
// input yields *InvalidIDError rather than a parse fault.
func (s *Service) Customer(ctx context.Context, rawID string) (model.Customer, error) {
	if err := ctx.Err(); err != nil {
		return model.Customer{}, err
	}
	id, err := ParseCustomerID(rawID)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("customer", metrics.OutcomeInvalid).Inc()
		return model.Customer{}, err
	}
	c, ok := s.customers[id]
	if !ok {
		metrics.LookupsTotal.WithLabelValues("customer", metrics.OutcomeNotFound).Inc()
		return model.Customer{}, ErrNotFound
	}
	metrics.LookupsTotal.WithLabelValues("customer", metrics.OutcomeFound).Inc()
	return c, nil
}

// ParseCustomerID accepts a base-10 integer with optional surrounding spaces.
func ParseCustomerID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &InvalidIDError{Input: raw}
	}
	return id, nil
}

func indexMaterials(t model.Table, cols Columns) (map[string]model.Material, error) {
	key := t.Column(cols.MaterialKey)
	if key < 0 {
		return nil, fmt.Errorf("%s: key column %q not found", t.Name, cols.MaterialKey)
	}
	trans := optionalColumn(t, cols.Transition)
	stat := optionalColumn(t, cols.Stationary)

	out := make(map[string]model.Material, len(t.Rows))
	for i, row := range t.Rows {
		name := strings.TrimSpace(row[key])
		if name == "" {
			logger.Log.Warn("skipping row with blank key", zap.String("table", t.Name), zap.Int("row", i+1))
			continue
		}
		if _, dup := out[name]; dup {
			logger.Log.Warn("duplicate key, keeping first row", zap.String("table", t.Name), zap.String("key", name), zap.Int("row", i+1))
			continue
		}

		m := model.Material{Name: name, Fields: t.Fields(row)}
		if cell, ok := cellAt(row, trans); ok {
			v, err := markov.ParseMatrix(cell)
			if err != nil {
				m.TransitionErr = err
				logger.Log.Warn("malformed transition matrix", zap.String("material", name), zap.Error(err))
			} else {
				m.Transition = &v
			}
		}
		if cell, ok := cellAt(row, stat); ok {
			v, err := markov.ParseDistribution(cell)
			if err != nil {
				m.StationaryErr = err
				logger.Log.Warn("malformed stationary distribution", zap.String("material", name), zap.Error(err))
			} else {
				m.Stationary = &v
			}
		}
		out[name] = m
	}
	return out, nil
}

func indexCustomers(t model.Table, cols Columns) (map[int64]model.Customer, error) {
	key := t.Column(cols.CustomerKey)
	if key < 0 {
		return nil, fmt.Errorf("%s: key column %q not found", t.Name, cols.CustomerKey)
	}
	clv := optionalColumn(t, cols.CLV)
	mu := optionalColumn(t, cols.MeanRecurrence)

	out := make(map[int64]model.Customer, len(t.Rows))
	for i, row := range t.Rows {
		raw := strings.TrimSpace(row[key])
		if raw == "" {
			logger.Log.Warn("skipping row with blank key", zap.String("table", t.Name), zap.Int("row", i+1))
			continue
		}
		id, err := parseStoredID(raw)
		if err != nil {
			return nil, &RowError{Table: t.Name, Row: i + 1, Column: cols.CustomerKey, Err: err}
		}
		if _, dup := out[id]; dup {
			logger.Log.Warn("duplicate key, keeping first row", zap.String("table", t.Name), zap.Int64("key", id), zap.Int("row", i+1))
			continue
		}

		c := model.Customer{ID: id, Fields: t.Fields(row)}
		if cell, ok := cellAt(row, clv); ok {
			v, err := decimal.NewFromString(cell)
			if err != nil {
				c.CLVErr = fmt.Errorf("CLV %q is not a number", cell)
			} else {
				c.CLV = &v
			}
		}
		if cell, ok := cellAt(row, mu); ok {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				c.MeanRecurrenceErr = fmt.Errorf("mean recurrence time %q is not a number", cell)
			} else {
				c.MeanRecurrence = &v
			}
		}
		out[id] = c
	}
	return out, nil
}

// parseStoredID also accepts integral floats ("42.0"), which is how an id
// column with gaps comes out of a dataframe export.
func parseStoredID(raw string) (int64, error) {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("%q is not an integer id", raw)
	}
	return int64(f), nil
}

func optionalColumn(t model.Table, name string) int {
	if name == "" {
		return -1
	}
	return t.Column(name)
}

// cellAt returns the trimmed cell, treating a missing column or an empty cell
// as "not available".
func cellAt(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return "", false
	}
	return v, true
}
