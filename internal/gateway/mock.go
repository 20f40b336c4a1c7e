package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lepinkainen/bookshelf/internal/book"
	errs "github.com/lepinkainen/bookshelf/internal/errors"
)

// DefaultLatency is the simulated round trip of the mock backend.
const DefaultLatency = 500 * time.Millisecond

// ErrInjectedFailure is the cause reported for failures produced by the mock.
var ErrInjectedFailure = fmt.Errorf("injected failure")

// MockGateway is an in-memory backend with simulated latency. Mutations are
// echoed back like a real server would and applied to the backing data, so a
// later FetchAll sees them.
type MockGateway struct {
	mu       sync.Mutex
	books    []book.Book
	latency  time.Duration
	failRate float64
	failNext map[string]int
	rng      *rand.Rand
}

// MockOption configures a MockGateway.
type MockOption func(*MockGateway)

// WithLatency sets the simulated delay for every call.
func WithLatency(d time.Duration) MockOption {
	return func(m *MockGateway) { m.latency = d }
}

// WithFailureRate makes each call fail with probability p (0..1).
func WithFailureRate(p float64) MockOption {
	return func(m *MockGateway) { m.failRate = p }
}

// WithRandSource replaces the random source used for the failure rate.
func WithRandSource(src rand.Source) MockOption {
	return func(m *MockGateway) { m.rng = rand.New(src) }
}

// NewMockGateway returns a mock seeded with books.
func NewMockGateway(seed []book.Book, opts ...MockOption) *MockGateway {
	m := &MockGateway{
		books:    cloneBooks(seed),
		latency:  DefaultLatency,
		failNext: make(map[string]int),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailNext forces the next n calls of op (one of the errors.Op* names) to fail.
func (m *MockGateway) FailNext(op string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[op] += n
}

// FetchAll returns a copy of the backing catalog.
func (m *MockGateway) FetchAll(ctx context.Context) ([]book.Book, error) {
	if err := m.roundTrip(ctx, errs.OpFetchAll); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneBooks(m.books), nil
}

// Create appends b to the backing data and echoes it.
func (m *MockGateway) Create(ctx context.Context, b book.Book) (book.Book, error) {
	if err := m.roundTrip(ctx, errs.OpCreate); err != nil {
		return book.Book{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = append(cloneBooks(m.books), b)
	return b, nil
}

// Replace swaps the record with b's id (if present) and echoes b.
func (m *MockGateway) Replace(ctx context.Context, b book.Book) (book.Book, error) {
	if err := m.roundTrip(ctx, errs.OpReplace); err != nil {
		return book.Book{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := cloneBooks(m.books)
	for i := range next {
		if next[i].ID == b.ID {
			next[i] = b
		}
	}
	m.books = next
	return b, nil
}

// Remove drops the record with id (if present) and echoes id.
func (m *MockGateway) Remove(ctx context.Context, id int) (int, error) {
	if err := m.roundTrip(ctx, errs.OpRemove); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make([]book.Book, 0, len(m.books))
	for _, b := range m.books {
		if b.ID != id {
			next = append(next, b)
		}
	}
	m.books = next
	return id, nil
}

func (m *MockGateway) roundTrip(ctx context.Context, op string) error {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return errs.NewTransportError(op, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return errs.NewTransportError(op, err)
	}

	if m.shouldFail(op) {
		return errs.NewTransportError(op, ErrInjectedFailure)
	}
	return nil
}

func (m *MockGateway) shouldFail(op string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext[op] > 0 {
		m.failNext[op]--
		return true
	}
	return m.failRate > 0 && m.rng.Float64() < m.failRate
}
