package gateway

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/bookshelf/internal/book"
	errs "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/ratelimit"
)

// Throttled rate-limits every call to the wrapped gateway.
type Throttled struct {
	next    Gateway
	limiter *ratelimit.Limiter
}

// NewThrottled wraps next with limiter.
func NewThrottled(next Gateway, limiter *ratelimit.Limiter) *Throttled {
	return &Throttled{next: next, limiter: limiter}
}

// acquire takes a token, blocking only when the limiter has none to spare.
func (t *Throttled) acquire(ctx context.Context, op string) error {
	if t.limiter.Allow() {
		return nil
	}
	slog.Debug("Throttling catalog call", "limiter", t.limiter.Name(), "operation", op)
	if err := t.limiter.Wait(ctx); err != nil {
		return errs.NewTransportError(op, err)
	}
	return nil
}

func (t *Throttled) FetchAll(ctx context.Context) ([]book.Book, error) {
	if err := t.acquire(ctx, errs.OpFetchAll); err != nil {
		return nil, err
	}
	return t.next.FetchAll(ctx)
}

func (t *Throttled) Create(ctx context.Context, b book.Book) (book.Book, error) {
	if err := t.acquire(ctx, errs.OpCreate); err != nil {
		return book.Book{}, err
	}
	return t.next.Create(ctx, b)
}

func (t *Throttled) Replace(ctx context.Context, b book.Book) (book.Book, error) {
	if err := t.acquire(ctx, errs.OpReplace); err != nil {
		return book.Book{}, err
	}
	return t.next.Replace(ctx, b)
}

func (t *Throttled) Remove(ctx context.Context, id int) (int, error) {
	if err := t.acquire(ctx, errs.OpRemove); err != nil {
		return 0, err
	}
	return t.next.Remove(ctx, id)
}
