// Package warehouse provides read-only connectivity to the analytics
// warehouse that serves demand scores. The warehouse is optional: when it
// is disabled or unreachable, callers fall back to the locally aggregated
// demand metrics, and ultimately to a neutral score. A warehouse outage is
// never allowed to fail a price computation.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
	"go.uber.org/zap"
)

const (
	connectMaxRetries     = 3
	connectInitialBackoff = 1 * time.Second
	connectMaxBackoff     = 10 * time.Second
	connectBackoffFactor  = 2.0

	healthCheckTimeout = 5 * time.Second
)

// Client provides read-only access to the demand analytics warehouse.
type Client struct {
	db           *sql.DB
	config       *config.WarehouseConfig
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewClient connects to the warehouse with retry and backoff. Returns nil
// (with no error) when the warehouse is disabled or not fully configured;
// the application runs without it.
func NewClient(cfg *config.WarehouseConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("demand warehouse disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("demand warehouse enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := connectInitialBackoff

	for attempt := 1; attempt <= connectMaxRetries; attempt++ {
		logger.Info("connecting to demand warehouse",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", connectMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

			pingCtx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				logger.Info("demand warehouse connection established", zap.Int("attempts_taken", attempt))
				return &Client{
					db:           db,
					config:       cfg,
					logger:       logger,
					queryTimeout: time.Duration(cfg.QueryTimeout) * time.Second,
				}, nil
			}
			_ = db.Close()
		}

		logger.Warn("demand warehouse connection attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
		)
		if attempt < connectMaxRetries {
			time.Sleep(backoff)
			backoff = time.Duration(float64(backoff) * connectBackoffFactor)
			if backoff > connectMaxBackoff {
				backoff = connectMaxBackoff
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to demand warehouse after %d attempts: %w", connectMaxRetries, err)
}

// buildConnectionString constructs a SQL Server connection string.
// URL format expected: host:port/database or host:port.
func buildConnectionString(cfg *config.WarehouseConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433"
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// GetDemandScore reads the demand score for a service type and date. The
// serviceType may be nil for the all-services score. Returns sql.ErrNoRows
// when the warehouse has no row for the date.
func (c *Client) GetDemandScore(ctx context.Context, serviceType *domain.ServiceType, date time.Time) (float64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	day := date.Format("2006-01-02")
	var score float64
	var err error

	if serviceType != nil {
		err = c.db.QueryRowContext(queryCtx,
			`SELECT TOP 1 demand_score FROM demand_scores
			 WHERE score_date = @p1 AND service_type = @p2
			 ORDER BY computed_at DESC`,
			day, string(*serviceType),
		).Scan(&score)
		if err == nil {
			return score, nil
		}
		if err != sql.ErrNoRows {
			return 0, fmt.Errorf("warehouse demand score query failed: %w", err)
		}
	}

	err = c.db.QueryRowContext(queryCtx,
		`SELECT TOP 1 demand_score FROM demand_scores
		 WHERE score_date = @p1 AND service_type IS NULL
		 ORDER BY computed_at DESC`,
		day,
	).Scan(&score)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, err
		}
		return 0, fmt.Errorf("warehouse demand score query failed: %w", err)
	}
	return score, nil
}

// HealthStatus reports connectivity and pool statistics
type HealthStatus struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	MaxOpen int    `json:"max_open_connections"`
	Open    int    `json:"open_connections"`
	InUse   int    `json:"in_use"`
	Idle    int    `json:"idle"`
}

// Health pings the warehouse and returns pool statistics
func (c *Client) Health(ctx context.Context) HealthStatus {
	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	stats := c.db.Stats()
	status := HealthStatus{
		Status:  "healthy",
		MaxOpen: stats.MaxOpenConnections,
		Open:    stats.OpenConnections,
		InUse:   stats.InUse,
		Idle:    stats.Idle,
	}

	if err := c.db.PingContext(pingCtx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	return status
}

// Close closes the warehouse connection pool
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	c.logger.Info("closing demand warehouse connection")
	return c.db.Close()
}
