package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmehdipour/pisa-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
)

// maxPlaceholders stays under MySQL's 65535 prepared-statement limit.
const maxPlaceholders = 60000

// ImportTable replaces a MySQL table with the contents of t (dev: DROP & CREATE).
// Every column is TEXT; the dashboard parses values itself. DDL commits
// implicitly in MySQL, so only the inserts share the transaction.
func ImportTable(ctx context.Context, db *sqlx.DB, table string, t model.Table) error {
	quoted, err := quoteTable(table)
	if err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("import %s: no columns", table)
	}

	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteColumn(c)
	}

	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}

	var ddl strings.Builder
	ddl.WriteString("CREATE TABLE " + quoted + " (")
	for i, c := range cols {
		if i > 0 {
			ddl.WriteString(", ")
		}
		ddl.WriteString(c + " TEXT NULL")
	}
	ddl.WriteString(") DEFAULT CHARSET=utf8mb4")
	if _, err := db.ExecContext(ctx, ddl.String()); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	batch := maxPlaceholders / len(cols)
	if batch > 500 {
		batch = 500
	}
	if batch < 1 {
		batch = 1
	}
	for start := 0; start < len(t.Rows); start += batch {
		end := min(start+batch, len(t.Rows))
		q, args := insertStatement(quoted, cols, t.Rows[start:end])
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert %s rows %d-%d: %w", table, start+1, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}

func insertStatement(quotedTable string, quotedCols []string, rows [][]string) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(rows)*len(quotedCols))

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(quotedCols)), ", ") + ")"

	sb.WriteString("INSERT INTO " + quotedTable + " (" + strings.Join(quotedCols, ", ") + ") VALUES ")
	for i, r := range rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(tuple)
		for _, v := range r {
			args = append(args, v)
		}
	}
	return sb.String(), args
}
