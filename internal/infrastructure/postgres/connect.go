package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/hrms-api/pkg/config"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// ConnectWithRetry abre el pool de control reintentando con backoff exponencial
// hasta maxElapsed (la base suele arrancar después que la API en docker-compose).
func ConnectWithRetry(ctx context.Context, cfg config.DBConfig, maxElapsed time.Duration, log *logger.Logger) (*pgxpool.Pool, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = maxElapsed

	var pool *pgxpool.Pool
	op := func() error {
		p, err := NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("PostgreSQL no disponible, reintentando")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return pool, nil
}
