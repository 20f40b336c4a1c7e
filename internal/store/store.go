// Package store holds the canonical in-memory book catalog.
//
// A Store is a single-owner actor: one goroutine applies every state patch in
// order and publishes an immutable snapshot after each one. Mutating
// operations are fire-and-forget. They patch the status flags immediately,
// call the gateway in their own goroutine and post one result patch when the
// call resolves. Operations of the same kind are not cancelled or ordered
// against each other, so whichever resolves last wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/gateway"
)

// ErrClosed is returned by Wait once the store has been closed.
var ErrClosed = errors.New("catalog store closed")

// ErrDuplicateID is recorded when a confirmed add collides with an existing id.
var ErrDuplicateID = errors.New("book id already in catalog")

type patch struct {
	apply func(State) State
	// applied, when set, is closed once the patched snapshot is published.
	applied chan struct{}
}

// resolver applies a resolved gateway call to the state current at resolution
// time and reports the operation's outcome.
type resolver func(State) (State, error)

// Store owns the catalog collection and its operation status flags.
type Store struct {
	gateway gateway.Gateway
	logger  *slog.Logger
	metrics *Metrics

	patches chan patch
	current atomic.Pointer[State]

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	subsMu  sync.Mutex
	subs    map[int]chan State
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics replaces the default metrics set.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithInitialBooks starts the store with books already loaded.
func WithInitialBooks(books []book.Book) Option {
	return func(s *Store) {
		initial := State{Books: append([]book.Book{}, books...)}
		s.current.Store(&initial)
	}
}

// New constructs a store backed by gw and starts its owner goroutine.
// Call Close to stop it.
func New(gw gateway.Gateway, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		gateway: gw,
		logger:  slog.Default(),
		patches: make(chan patch),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		subs:    make(map[int]chan State),
	}
	s.current.Store(&State{Books: []book.Book{}})
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.metrics.record(*s.current.Load())

	go s.run()
	return s
}

// Close stops the owner goroutine and cancels in-flight gateway calls.
// Their results are discarded.
func (s *Store) Close() {
	s.cancel()
	<-s.done
}

// Registry exposes the store's Prometheus metrics.
func (s *Store) Registry() *prometheus.Registry {
	return s.metrics.Registry
}

// Snapshot returns the latest published state.
func (s *Store) Snapshot() State {
	return *s.current.Load()
}

// Books returns a copy of the catalog collection.
func (s *Store) Books() []book.Book {
	return append([]book.Book{}, s.Snapshot().Books...)
}

// FindByID looks up a book in the current collection.
func (s *Store) FindByID(id int) (book.Book, bool) {
	return s.Snapshot().FindByID(id)
}

// NextID returns the id a newly added book should get.
func (s *Store) NextID() int {
	return s.Snapshot().NextID()
}

// Subscribe returns a channel that receives the latest snapshot after every
// patch. Slow readers only see the most recent one. Call cancel to unsubscribe.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
}

// Wait blocks until every issued operation has resolved and been applied.
func (s *Store) Wait(ctx context.Context) error {
	updates, cancel := s.Subscribe()
	defer cancel()

	for {
		if s.Snapshot().Idle() {
			return nil
		}
		select {
		case <-updates:
		case <-s.done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// LoadAll replaces the collection with the gateway's catalog.
func (s *Store) LoadAll() {
	s.dispatch(opLoad, beginList, func(ctx context.Context) resolver {
		books, err := s.gateway.FetchAll(ctx)
		s.logResult(opLoad, err, "books", len(books))
		return func(st State) (State, error) {
			st.LoadingList = false
			if err != nil {
				st.ListError = true
				st.LastError = err
				return st, err
			}
			st.ListError = false
			st.Books = append([]book.Book{}, books...)
			return st, nil
		}
	})
}

// Add appends b once the gateway confirms it. The caller picks the id (see NextID).
func (s *Store) Add(b book.Book) {
	s.dispatch(opAdd, beginAction, func(ctx context.Context) resolver {
		added, err := s.gateway.Create(ctx, b)
		s.logResult(opAdd, err, "id", b.ID)
		return func(st State) (State, error) {
			if err == nil {
				if _, exists := st.FindByID(added.ID); exists {
					err = fmt.Errorf("add book %d: %w", added.ID, ErrDuplicateID)
					s.logger.Error("Rejected confirmed book", "id", added.ID, "error", err)
				}
			}
			if err != nil {
				return failAction(st, err), err
			}
			st.Books = appendBook(st.Books, added)
			return succeedAction(st), nil
		}
	})
}

// Update replaces the book with b's id in place once the gateway confirms it.
func (s *Store) Update(b book.Book) {
	s.dispatch(opUpdate, beginAction, func(ctx context.Context) resolver {
		updated, err := s.gateway.Replace(ctx, b)
		s.logResult(opUpdate, err, "id", b.ID)
		return func(st State) (State, error) {
			if err != nil {
				return failAction(st, err), err
			}
			st.Books = replaceBook(st.Books, updated)
			return succeedAction(st), nil
		}
	})
}

// Delete removes the book with id once the gateway confirms it. A missing id is not an error.
func (s *Store) Delete(id int) {
	s.dispatch(opDelete, beginAction, func(ctx context.Context) resolver {
		deletedID, err := s.gateway.Remove(ctx, id)
		s.logResult(opDelete, err, "id", id)
		return func(st State) (State, error) {
			if err != nil {
				return failAction(st, err), err
			}
			st.Books = removeBook(st.Books, deletedID)
			return succeedAction(st), nil
		}
	})
}

// dispatch applies begin synchronously, then runs call in its own goroutine
// and posts the patch it returns.
func (s *Store) dispatch(op string, begin func(State) State, call func(context.Context) resolver) {
	if s.ctx.Err() != nil {
		s.logger.Warn("Ignoring operation on closed catalog store", "operation", op)
		return
	}

	// The begin patch is visible to readers before dispatch returns.
	applied := make(chan struct{})
	started := s.post(patch{applied: applied, apply: func(st State) State {
		st = begin(st)
		st.Pending++
		return st
	}})
	if !started {
		return
	}
	select {
	case <-applied:
	case <-s.done:
		return
	}
	s.logger.Debug("Catalog operation started", "operation", op)

	go func() {
		start := time.Now()
		resolve := call(s.ctx)
		elapsed := time.Since(start).Seconds()
		s.post(patch{apply: func(st State) State {
			next, err := resolve(st)
			next.Pending--
			s.metrics.observe(op, elapsed, err)
			return next
		}})
	}()
}

// post hands p to the owner goroutine. It reports false if the store closed first.
func (s *Store) post(p patch) bool {
	select {
	case s.patches <- p:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Store) run() {
	defer close(s.done)

	for {
		select {
		case p := <-s.patches:
			next := p.apply(*s.current.Load())
			next.Revision++
			s.current.Store(&next)
			s.metrics.record(next)
			s.publish(next)
			if p.applied != nil {
				close(p.applied)
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Store) publish(st State) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			// Drop the stale snapshot so the reader sees the newest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

func (s *Store) logResult(op string, err error, key string, value any) {
	if err != nil {
		s.logger.Error("Catalog operation failed", "operation", op, key, value, "error", err)
		return
	}
	s.logger.Info("Catalog operation completed", "operation", op, key, value)
}

func beginList(st State) State {
	st.LoadingList = true
	st.ListError = false
	return st
}

func beginAction(st State) State {
	st.LoadingAction = true
	st.ActionError = false
	return st
}

func succeedAction(st State) State {
	st.LoadingAction = false
	st.ActionError = false
	return st
}

func failAction(st State, err error) State {
	st.LoadingAction = false
	st.ActionError = true
	st.LastError = err
	return st
}
