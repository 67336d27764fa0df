package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmehdipour/pisa-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SQLSource reads reference tables from a MySQL or ClickHouse database
// (any sqlx connection). Every column is loaded and stringified so the general
// information table shows the row exactly as stored.
type SQLSource struct {
	db     *sqlx.DB
	tables map[string]string
}

func NewSQLSource(db *sqlx.DB, materialsTable, customersTable string) *SQLSource {
	return &SQLSource{db: db, tables: map[string]string{
		model.TableMaterials: materialsTable,
		model.TableCustomers: customersTable,
	}}
}

var _ TableSource = (*SQLSource)(nil)

func (s *SQLSource) LoadTable(ctx context.Context, name string) (model.Table, error) {
	table, ok := s.tables[name]
	if !ok {
		return model.Table{}, ErrUnknownTable{Name: name}
	}
	quoted, err := quoteTable(table)
	if err != nil {
		return model.Table{}, err
	}

	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+quoted)
	if err != nil {
		return model.Table{}, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return model.Table{}, err
	}

	t := model.Table{Name: name, Columns: normalizeHeader(cols)}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return model.Table{}, fmt.Errorf("scan %s: %w", table, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = stringify(v)
		}
		t.Rows = append(t.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format(time.RFC3339)
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
