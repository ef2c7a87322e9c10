package client

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/artikelin/api/internal/config"
	"github.com/artikelin/api/internal/monitoring"
)

// GuardedGenerator wraps a generator with a per-call timeout and a circuit
// breaker, and records metrics and a span for every call.
type GuardedGenerator struct {
	next    ArticleGenerator
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewGuardedGenerator wraps next. A zero timeout disables the deadline.
func NewGuardedGenerator(next ArticleGenerator, timeout time.Duration, bc config.BreakerConfig) *GuardedGenerator {
	fails := bc.ConsecutiveFails
	if fails == 0 {
		fails = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= fails
		},
	})

	return &GuardedGenerator{next: next, timeout: timeout, cb: cb}
}

func (g *GuardedGenerator) Name() string { return g.next.Name() }

func (g *GuardedGenerator) IsConfigured() bool { return g.next.IsConfigured() }

// State exposes the breaker state for health reporting
func (g *GuardedGenerator) State() string { return g.cb.State().String() }

func (g *GuardedGenerator) GenerateArticle(ctx context.Context, req *GenerateRequest) (*GeneratedArticle, error) {
	ctx, span := monitoring.StartSpan(ctx, "provider.generate_article",
		attribute.String("provider", g.Name()),
		attribute.String("keyword", req.Keyword),
	)
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.GenerateArticle(ctx, req)
	})
	monitoring.RecordProviderCall(g.Name(), err, time.Since(start))

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("%s did not respond within %s: %w", g.Name(), g.timeout, err)
		}
		monitoring.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to generate article: %w", err)
	}

	return result.(*GeneratedArticle), nil
}
