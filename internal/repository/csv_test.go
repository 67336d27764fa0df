package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmehdipour/pisa-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const materialsCSV = `Material,Tabla_Transiciones,Claudio (Prob Est.),Planta
ABC123,"[[0.8, 0.2], [0.3, 0.7]]","[0.6, 0.4]",Toluca
XYZ9,"[[0.5, 0.5], [0.5, 0.5]]","[0.5, 0.5]",Irapuato
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(model.TableMaterials, strings.NewReader(materialsCSV))
	require.NoError(t, err)

	assert.Equal(t, model.TableMaterials, tbl.Name)
	assert.Equal(t, []string{"Material", "Tabla_Transiciones", "Claudio (Prob Est.)", "Planta"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "[[0.8, 0.2], [0.3, 0.7]]", tbl.Rows[0][1])
	assert.Equal(t, "Irapuato", tbl.Rows[1][3])
}

func TestReadCSVHeaderNormalisation(t *testing.T) {
	in := "\ufeff,id_cliente,CLV,CLV\n0,42,750000,1\n"
	tbl, err := ReadCSV(model.TableCustomers, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed: 0", "id_cliente", "CLV", "CLV.1"}, tbl.Columns)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV("x", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyCSV)

	_, err = ReadCSV("x", strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	_, err = ReadCSV("x", strings.NewReader("a,b\n\"1,2\n"))
	assert.Error(t, err)
}

func TestCSVSourceLoadTable(t *testing.T) {
	dir := t.TempDir()
	mat := filepath.Join(dir, "materials.csv")
	cus := filepath.Join(dir, "customers.csv")
	require.NoError(t, os.WriteFile(mat, []byte(materialsCSV), 0o600))
	require.NoError(t, os.WriteFile(cus, []byte("id_cliente,CLV,mu_j\n42,750000,1.5\n"), 0o600))

	src := NewCSVSource(mat, cus)
	materials, customers, err := LoadReference(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, materials.Rows, 2)
	assert.Equal(t, [][]string{{"42", "750000", "1.5"}}, customers.Rows)

	_, err = src.LoadTable(context.Background(), "suppliers")
	var unknown ErrUnknownTable
	assert.True(t, errors.As(err, &unknown))

	missing := NewCSVSource(filepath.Join(dir, "nope.csv"), cus)
	_, _, err = LoadReference(context.Background(), missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "load materials")
}

func TestCSVSourceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVSource("a", "b").LoadTable(ctx, model.TableMaterials)
	assert.ErrorIs(t, err, context.Canceled)
}
