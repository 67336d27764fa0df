package repository

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmehdipour/pisa-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "mysql")
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestSQLSourceLoadTable(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"Material", "", "Planta", "Planta"}).
		AddRow([]byte("ABC123"), nil, "Toluca", int64(7)).
		AddRow([]byte("XYZ789"), []byte("[0.6, 0.4]"), nil, 0.25)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `materials`")).WillReturnRows(rows)

	src := NewSQLSource(db, "materials", "customers")
	tbl, err := src.LoadTable(context.Background(), model.TableMaterials)
	require.NoError(t, err)

	assert.Equal(t, model.TableMaterials, tbl.Name)
	assert.Equal(t, []string{"Material", "Unnamed: 1", "Planta", "Planta.1"}, tbl.Columns)
	assert.Equal(t, [][]string{
		{"ABC123", "", "Toluca", "7"},
		{"XYZ789", "[0.6, 0.4]", "", "0.25"},
	}, tbl.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceQualifiedTable(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `pisa`.`clientes`")).
		WillReturnRows(sqlmock.NewRows([]string{"id_cliente"}).AddRow(int64(42)))

	tbl, err := NewSQLSource(db, "materials", "pisa.clientes").LoadTable(context.Background(), model.TableCustomers)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"42"}}, tbl.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceErrors(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := NewSQLSource(db, "materials; DROP TABLE x", "customers").LoadTable(context.Background(), model.TableMaterials)
	assert.ErrorContains(t, err, "invalid table name")

	_, err = NewSQLSource(db, "materials", "customers").LoadTable(context.Background(), "orders")
	assert.ErrorAs(t, err, new(ErrUnknownTable))

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `customers`")).WillReturnError(boom)
	_, err = NewSQLSource(db, "materials", "customers").LoadTable(context.Background(), model.TableCustomers)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportTable(t *testing.T) {
	db, mock := newMockDB(t)
	tbl := model.Table{
		Name:    model.TableCustomers,
		Columns: []string{"id_cliente", "CLV"},
		Rows:    [][]string{{"42", "750000"}, {"7", "100000"}},
	}

	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS `customers`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE `customers` (`id_cliente` TEXT NULL, `CLV` TEXT NULL) DEFAULT CHARSET=utf8mb4")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `customers` (`id_cliente`, `CLV`) VALUES (?, ?),(?, ?)")).
		WithArgs("42", "750000", "7", "100000").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, ImportTable(context.Background(), db, "customers", tbl))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportTableBatches(t *testing.T) {
	db, mock := newMockDB(t)
	tbl := model.Table{Name: model.TableMaterials, Columns: []string{"Material", "Planta"}}
	for i := 0; i < 501; i++ {
		tbl.Rows = append(tbl.Rows, []string{"M" + strconv.Itoa(i), "Toluca"})
	}

	mock.ExpectExec("^DROP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("^CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("^INSERT INTO `materials`").WillReturnResult(sqlmock.NewResult(0, 500))
	mock.ExpectExec("^INSERT INTO `materials`").WithArgs("M500", "Toluca").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, ImportTable(context.Background(), db, "materials", tbl))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportTableRollsBackOnInsertError(t *testing.T) {
	db, mock := newMockDB(t)
	tbl := model.Table{Name: model.TableCustomers, Columns: []string{"id_cliente"}, Rows: [][]string{{"42"}}}

	boom := errors.New("data too long")
	mock.ExpectExec("^DROP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("^CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("^INSERT INTO").WillReturnError(boom)
	mock.ExpectRollback()

	err := ImportTable(context.Background(), db, "customers", tbl)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "insert customers rows 1-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
