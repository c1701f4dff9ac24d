package client

import (
	"context"
	"log/slog"
	"time"
)

// QueryEvent describes one statement sent to the database.
type QueryEvent struct {
	Operation string
	Query     string
	Args      []interface{}
	Duration  time.Duration
	Error     error
	Start     time.Time
	End       time.Time
}

// Middleware intercepts statements. It must call next to run the statement.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use appends middlewares to the chain. Middlewares run in the order added.
func (c *Client) Use(middlewares ...Middleware) {
	c.middlewares = append(c.middlewares, middlewares...)
}

// run executes exec through the middleware chain.
func (c *Client) run(ctx context.Context, op, query string, args []interface{}, exec func() error) error {
	event := &QueryEvent{
		Operation: op,
		Query:     query,
		Args:      args,
		Start:     time.Now(),
	}

	index := 0
	var next func() error
	next = func() error {
		if index >= len(c.middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}
		mw := c.middlewares[index]
		index++
		return mw(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement at debug level and failures at
// error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil {
			logger.ErrorContext(ctx, "statement failed",
				"op", event.Operation, "query", event.Query, "error", err)
			return err
		}
		logger.DebugContext(ctx, "statement executed",
			"op", event.Operation,
			"query", event.Query,
			"args", len(event.Args),
			"duration", event.Duration)
		return nil
	}
}

// TimingMiddleware reports the duration of every statement.
func TimingMiddleware(onTiming func(query string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}
