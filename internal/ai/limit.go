package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped Generator. Waiting for a slot
// respects ctx, so a cancelled request never reaches the model.
type Limited struct {
	next    Generator
	limiter *rate.Limiter
}

func NewLimited(next Generator, perMinute int) *Limited {
	every := time.Minute / time.Duration(perMinute)
	return &Limited{next: next, limiter: rate.NewLimiter(rate.Every(every), 1)}
}

func (l *Limited) Name() string { return l.next.Name() }

func (l *Limited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.next.Generate(ctx, prompt)
}
