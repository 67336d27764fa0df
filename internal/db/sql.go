package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/pisa-dashboard/internal/config"
	"github.com/jmoiron/sqlx"
)

const (
	DriverMySQL      = "mysql"
	DriverClickHouse = "clickhouse"
)

var ErrEmptyDSN = errors.New("empty DSN")

// SQLOpts pool and timeout settings shared by the MySQL and ClickHouse connections.
type SQLOpts struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration // default 5s
}

func SQLOptsFrom(c config.DatabaseConfig) SQLOpts {
	return SQLOpts{
		DSN:             c.DSN,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
		PingTimeout:     c.PingTimeout,
	}
}

// NewMySQLConnection opens a *sqlx.DB on go-sql-driver/mysql and pings it.
func NewMySQLConnection(ctx context.Context, opts SQLOpts) (*sqlx.DB, error) {
	return open(ctx, DriverMySQL, opts)
}

// NewClickHouseConnection opens a *sqlx.DB on clickhouse-go and pings it,
// e.g. clickhouse://default:@localhost:9000/pisa?dial_timeout=5s
func NewClickHouseConnection(ctx context.Context, opts SQLOpts) (*sqlx.DB, error) {
	return open(ctx, DriverClickHouse, opts)
}

func open(ctx context.Context, driver string, opts SQLOpts) (*sqlx.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("%s: %w", driver, ErrEmptyDSN)
	}
	db, err := sqlx.Open(driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", driver, err)
	}
	configurePool(db, opts)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", driver, err)
	}

	return db, nil
}

func configurePool(db *sqlx.DB, opts SQLOpts) {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}
