package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Options struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string

	MaxConns       int32
	ConnectTimeout time.Duration
}

// DSN builds a postgres:// URL; the password is escaped.
func (o Options) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.User, o.Password),
		Host:   net.JoinHostPort(o.Host, o.Port),
		Path:   "/" + o.Name,
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	if o.ConnectTimeout > 0 {
		q.Set("connect_timeout", fmt.Sprint(int(o.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Connect opens the pool and pings it. The whole attempt is bounded by
// ConnectTimeout so an unreachable database fails startup instead of hanging.
func Connect(ctx context.Context, o Options) (*pgxpool.Pool, error) {
	return ConnectDSN(ctx, o.DSN(), o.MaxConns, o.ConnectTimeout)
}

func ConnectDSN(ctx context.Context, dsn string, maxConns int32, timeout time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns <= 0 {
		maxConns = 8
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.ConnectTimeout = timeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
