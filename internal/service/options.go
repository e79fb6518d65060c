package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultQueryTimeout = 5 * time.Second
	defaultCacheTTL     = 10 * time.Minute
)

type options struct {
	timeout  time.Duration
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// Option настраивает сервисы
type Option func(*options)

// WithQueryTimeout ограничивает каждую операцию с хранилищем
func WithQueryTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		timeout:  defaultQueryTimeout,
		cacheTTL: defaultCacheTTL,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.timeout)
}
