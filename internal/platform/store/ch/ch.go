// Package ch provides a clickhouse client over the native protocol
package ch

import (
	"context"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse connectivity
type Config struct {
	URL string

	// ClientName and ClientTag annotate connections for server-side tracing
	ClientName string
	ClientTag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a clickhouse connection pool
type CH struct {
	conn driver.Conn
}

// Open parses the DSN and builds a lazy connection pool
// no network I/O happens here; use Ping to verify reachability
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.ClientName != "" {
		opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return errors.New("ch: nil client")
	}
	return c.conn.Ping(ctx)
}

// Insert appends rows to table via a driver batch
// rows is row-major: one []any per row, columns in table order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return &chRows{r: rs}, nil
}

// Close closes the connection pool
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// chRows adapts driver.Rows to the local Rows seam
type chRows struct{ r driver.Rows }

func (x *chRows) Next() bool             { return x.r.Next() }
func (x *chRows) Scan(dest ...any) error { return x.r.Scan(dest...) }
func (x *chRows) Err() error             { return x.r.Err() }
func (x *chRows) Close() error           { return x.r.Close() }
func (x *chRows) Columns() []string      { return x.r.Columns() }
