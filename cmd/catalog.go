package cmd

import (
	"context"
	"fmt"

	"github.com/jmehdipour/pisa-dashboard/internal/classify"
	"github.com/jmehdipour/pisa-dashboard/internal/config"
	"github.com/jmehdipour/pisa-dashboard/internal/db"
	"github.com/jmehdipour/pisa-dashboard/internal/lookup"
	"github.com/jmehdipour/pisa-dashboard/internal/repository"
	"github.com/jmehdipour/pisa-dashboard/internal/service/dashboard"
	"github.com/jmoiron/sqlx"
)

// openSource returns the configured table source and a closer for any
// connection it holds.
func openSource(ctx context.Context, cfg config.Config) (repository.TableSource, func(), error) {
	noop := func() {}

	var (
		conn *sqlx.DB
		err  error
	)
	switch cfg.Source.Kind {
	case config.SourceCSV:
		return repository.NewCSVSource(cfg.CSV.MaterialsPath, cfg.CSV.CustomersPath), noop, nil
	case config.SourceMySQL:
		conn, err = db.NewMySQLConnection(ctx, db.SQLOptsFrom(cfg.MySQL))
	case config.SourceClickHouse:
		conn, err = db.NewClickHouseConnection(ctx, db.SQLOptsFrom(cfg.ClickHouse))
	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%s connect: %w", cfg.Source.Kind, err)
	}

	src := repository.NewSQLSource(conn, cfg.Source.MaterialsTable, cfg.Source.CustomersTable)
	return src, func() { _ = conn.Close() }, nil
}

// loadCatalog reads both reference tables once and indexes them. The source
// connection is released before returning.
func loadCatalog(ctx context.Context, cfg config.Config) (*lookup.Service, error) {
	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	materials, customers, err := repository.LoadReference(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load reference tables: %w", err)
	}

	svc, err := lookup.New(materials, customers, columnsFrom(cfg.Columns))
	if err != nil {
		return nil, fmt.Errorf("index reference tables: %w", err)
	}
	return svc, nil
}

func columnsFrom(c config.ColumnsConfig) lookup.Columns {
	return lookup.Columns{
		MaterialKey:    c.MaterialKey,
		Transition:     c.Transition,
		Stationary:     c.Stationary,
		CustomerKey:    c.CustomerKey,
		CLV:            c.CLV,
		MeanRecurrence: c.MeanRecurrence,
	}
}

func newBuilder(cfg config.Config) (*dashboard.Builder, error) {
	t := cfg.Thresholds
	th, err := classify.NewThresholds(t.ValueHigh, t.ValueMedium, t.RecurrenceHigh, t.RecurrenceModerate)
	if err != nil {
		return nil, err
	}
	return dashboard.NewBuilder(th), nil
}
