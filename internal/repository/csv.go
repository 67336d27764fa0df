package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmehdipour/pisa-dashboard/internal/model"
)

var ErrEmptyCSV = errors.New("csv has no header row")

// CSVSource reads reference tables from local comma-separated files.
type CSVSource struct {
	paths map[string]string
}

func NewCSVSource(materialsPath, customersPath string) *CSVSource {
	return &CSVSource{paths: map[string]string{
		model.TableMaterials: materialsPath,
		model.TableCustomers: customersPath,
	}}
}

var _ TableSource = (*CSVSource)(nil)

func (s *CSVSource) LoadTable(ctx context.Context, name string) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}
	path, ok := s.paths[name]
	if !ok {
		return model.Table{}, ErrUnknownTable{Name: name}
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, err
	}
	defer f.Close()

	t, err := ReadCSV(name, f)
	if err != nil {
		return model.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses a header row followed by data rows. Blank header cells are
// named "Unnamed: <index>" and repeated names get a ".<n>" suffix, the way the
// upstream notebooks name them.
func ReadCSV(name string, r io.Reader) (model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Table{}, ErrEmptyCSV
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("read header: %w", err)
	}

	t := model.Table{Name: name, Columns: normalizeHeader(header)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Table{}, err
		}
		if len(rec) != len(t.Columns) {
			line, _ := cr.FieldPos(0)
			return model.Table{}, fmt.Errorf("line %d: %d fields, header has %d", line, len(rec), len(t.Columns))
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = h + "." + strconv.Itoa(n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}
