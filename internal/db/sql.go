package db

import (
	"context"
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// PoolOpts tunes the connection pool shared by both SQL backends.
type PoolOpts struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// NewMySQL opens the users database (the konecte relational store).
func NewMySQL(dsn string, opts PoolOpts) (*sqlx.DB, error) {
	return open("mysql", dsn, opts)
}

// NewClickHouse opens the relay audit database.
// DSN e.g. clickhouse://default:@localhost:9000/krelay?dial_timeout=5s&compress=true
func NewClickHouse(dsn string, opts PoolOpts) (*sqlx.DB, error) {
	return open("clickhouse", dsn, opts)
}

func open(driver, dsn string, opts PoolOpts) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty %s DSN", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

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

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
