package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/llanteria/llanteria/internal/common/config"
	"github.com/llanteria/llanteria/internal/common/logger"
	"gorm.io/gorm"
)

const probeTimeout = 5 * time.Second

// Manager owns the database connection pool. It probes the pool in the
// background and, when the probe fails with a connection-loss error, keeps
// retrying on a fixed interval until the pool answers again. Queries issued
// through DB() are never blocked by the watchdog; while the pool is down they
// fail at the driver level and surface to the caller as store errors.
//
// Pool faults that are not connection loss are unrecoverable infrastructure
// faults and terminate the process.
type Manager struct {
	gdb *gorm.DB
	sql *sql.DB
	log logger.Logger

	retryInterval time.Duration
	probeInterval time.Duration

	probe func(ctx context.Context) error
	fatal func(err error)

	mu      sync.RWMutex
	healthy bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager opens the pool, runs the initial probe and starts the watchdog.
// Callers own the returned Manager and must Shutdown it.
func NewManager(cfg config.DatabaseConfig, log logger.Logger) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("log is nil")
	}

	gdb, err := NewMySQL(
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database,
		cfg.MaxIdle, cfg.MaxOpen, cfg.ConnectTimeout,
	)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	m := &Manager{
		gdb:           gdb,
		sql:           sqlDB,
		log:           log,
		retryInterval: secondsOr(cfg.RetryInterval, 2),
		probeInterval: secondsOr(cfg.ProbeInterval, 10),
		probe:         sqlDB.PingContext,
		done:          make(chan struct{}),
	}
	m.fatal = func(err error) {
		m.log.Fatalf("unrecoverable database fault: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if err := m.probe(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	m.log.Info("connected to the database")
	m.healthy = true

	watchCtx, watchCancel := context.WithCancel(context.Background())
	m.cancel = watchCancel
	go m.watch(watchCtx)

	return m, nil
}

// DB returns the shared gorm handle.
func (m *Manager) DB() *gorm.DB {
	return m.gdb
}

// Healthy reports whether the last probe succeeded.
func (m *Manager) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

// Shutdown stops the watchdog and closes the pool.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	select {
	case <-m.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if m.sql != nil {
		return m.sql.Close()
	}
	return nil
}

func (m *Manager) watch(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			err := m.probe(pctx)
			cancel()

			if err == nil {
				m.setHealthy(true)
				continue
			}
			if !IsConnectionLoss(err) {
				m.fatal(err)
				return
			}

			m.setHealthy(false)
			m.log.Errorf("database connection lost: %v", err)
			if !m.reconnect(ctx) {
				return
			}
		}
	}
}

// reconnect probes on the retry interval until the pool answers. Returns
// false only when ctx is canceled.
func (m *Manager) reconnect(ctx context.Context) bool {
	ticker := time.NewTicker(m.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			err := m.probe(pctx)
			cancel()
			if err == nil {
				m.setHealthy(true)
				m.log.Info("reconnected to the database")
				return true
			}
			m.log.Warnf("error when connecting to db: %v", err)
		}
	}
}

func (m *Manager) setHealthy(ok bool) {
	m.mu.Lock()
	m.healthy = ok
	m.mu.Unlock()
}

// IsConnectionLoss classifies a pool-level error. A *mysql.MySQLError means
// the server answered, so the connection is alive and the error belongs to
// the query, not the pool.
func IsConnectionLoss(err error) bool {
	if err == nil {
		return false
	}
	var serverErr *mysql.MySQLError
	if errors.As(err, &serverErr) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func secondsOr(s, def int) time.Duration {
	if s <= 0 {
		s = def
	}
	return time.Duration(s) * time.Second
}
