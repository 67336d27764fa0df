package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmehdipour/pisa-dashboard/internal/model"
)

// TableSource loads one reference table by name (model.TableMaterials or
// model.TableCustomers). Tables are read once at startup.
type TableSource interface {
	LoadTable(ctx context.Context, name string) (model.Table, error)
}

// ErrUnknownTable is returned for names a source was not configured with.
type ErrUnknownTable struct{ Name string }

func (e ErrUnknownTable) Error() string { return fmt.Sprintf("unknown reference table %q", e.Name) }

// LoadReference reads both reference tables from src.
func LoadReference(ctx context.Context, src TableSource) (materials, customers model.Table, err error) {
	materials, err = src.LoadTable(ctx, model.TableMaterials)
	if err != nil {
		return model.Table{}, model.Table{}, fmt.Errorf("load %s: %w", model.TableMaterials, err)
	}
	customers, err = src.LoadTable(ctx, model.TableCustomers)
	if err != nil {
		return model.Table{}, model.Table{}, fmt.Errorf("load %s: %w", model.TableCustomers, err)
	}
	return materials, customers, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// quoteTable validates a (optionally db-qualified) table name and quotes it
// with backticks, which both MySQL and ClickHouse accept.
func quoteTable(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + p + "`"
	}
	return strings.Join(parts, "."), nil
}

// quoteColumn quotes an arbitrary header text as a MySQL identifier.
func quoteColumn(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
