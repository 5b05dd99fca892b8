package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/propserve/brokerage-api/internal/config"
	"github.com/propserve/brokerage-api/internal/utils"
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := newDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, DB: pool}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// HealthCheck pings the database to confirm the app can serve requests.
func (a *App) HealthCheck(ctx context.Context) error {
	return a.DB.Ping(ctx)
}

// newDBPool connects with retries so the service survives the database
// coming up slightly later than it does (compose, k8s rollouts).
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	const maxAttempts = 5

	var pool *pgxpool.Pool
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pool, err = pgxpool.Connect(ctx, databaseURL)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				utils.Logger.Info("Connected to database")
				return pool, nil
			} else {
				pool.Close()
				err = pingErr
			}
		}
		wait := time.Duration(attempt) * time.Second
		utils.Logger.Warnf("Database connection attempt %d/%d failed: %v; retrying in %s", attempt, maxAttempts, err, wait)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("connecting to database after %d attempts: %w", maxAttempts, err)
}
