// Package database opens database/sql connection pools with sane defaults.
package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Options holds connection pool settings.
type Options struct {
	Driver          string
	DataSource      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Option applies a configuration option.
type Option func(*Options)

// WithDriver sets the database/sql driver name.
func WithDriver(driver string) Option {
	return func(o *Options) { o.Driver = driver }
}

// WithDataSource sets the driver DSN.
func WithDataSource(dsn string) Option {
	return func(o *Options) { o.DataSource = dsn }
}

// WithMaxOpenConns caps the pool size.
func WithMaxOpenConns(n int) Option {
	return func(o *Options) { o.MaxOpenConns = n }
}

// WithMaxIdleConns sets the idle connection count.
func WithMaxIdleConns(n int) Option {
	return func(o *Options) { o.MaxIdleConns = n }
}

// WithConnMaxLifetime bounds connection reuse.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(o *Options) { o.ConnMaxLifetime = d }
}

// New opens and pings a connection pool using the provided options.
func New(opts ...Option) (*sql.DB, error) {
	options := &Options{
		Driver:          "sqlite",
		DataSource:      ":memory:",
		MaxOpenConns:    1, // sqlite writes serialize anyway
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}
	for _, opt := range opts {
		opt(options)
	}

	db, err := sql.Open(options.Driver, options.DataSource)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", options.Driver, err)
	}
	db.SetMaxOpenConns(options.MaxOpenConns)
	db.SetMaxIdleConns(options.MaxIdleConns)
	db.SetConnMaxLifetime(options.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", options.Driver, err)
	}
	return db, nil
}
