package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/config"
	"github.com/lepinkainen/bookshelf/internal/gateway"
	"github.com/lepinkainen/bookshelf/internal/ratelimit"
	"github.com/lepinkainen/bookshelf/internal/store"
)

// session is a store wired to the configured gateway for one command run.
type session struct {
	settings config.Settings
	store    *store.Store
	closers  []func() error
}

// newGateway builds a gateway from settings, overridable in tests.
var newGateway = buildGateway

func openSession(ctx context.Context) (*session, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	gw, closer, err := newGateway(ctx, settings)
	if err != nil {
		return nil, err
	}
	if settings.RPS > 0 {
		gw = gateway.NewThrottled(gw, ratelimit.New(settings.GatewayKind, settings.RPS))
	}

	s := &session{
		settings: settings,
		store:    store.New(gw, store.WithLogger(slog.Default())),
	}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}
	return s, nil
}

func buildGateway(ctx context.Context, settings config.Settings) (gateway.Gateway, func() error, error) {
	switch settings.GatewayKind {
	case config.GatewaySQLite:
		gw := gateway.NewSQLiteGateway(settings.SQLiteFile)
		if err := gw.Connect(); err != nil {
			return nil, nil, err
		}
		if err := seedIfEmpty(ctx, gw, settings.Seed); err != nil {
			return nil, nil, errors.Join(err, gw.Close())
		}
		return gw, gw.Close, nil

	case config.GatewayHTTP:
		opts := []gateway.HTTPOption{}
		if settings.Token != "" {
			opts = append(opts, gateway.WithAPIToken(settings.Token))
		}
		gw := gateway.NewHTTPGateway(settings.BaseURL, opts...)
		if err := gw.Connect(); err != nil {
			return nil, nil, err
		}
		return gw, nil, nil

	default:
		seed, err := loadSeed(settings.Seed)
		if err != nil {
			return nil, nil, err
		}
		return gateway.NewMockGateway(seed,
			gateway.WithLatency(settings.Latency),
			gateway.WithFailureRate(settings.FailRate),
		), nil, nil
	}
}

func loadSeed(path string) ([]book.Book, error) {
	if path == "" {
		return gateway.DefaultSeed(), nil
	}
	return gateway.LoadSeed(path)
}

func seedIfEmpty(ctx context.Context, gw *gateway.SQLiteGateway, seedPath string) error {
	count, err := gw.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seed, err := loadSeed(seedPath)
	if err != nil {
		return err
	}
	slog.Info("Seeding empty database", "books", len(seed))
	return gw.Seed(ctx, seed)
}

func (s *session) Close() {
	s.store.Close()
	for _, c := range s.closers {
		if err := c(); err != nil {
			slog.Warn("Failed to close gateway", "error", err)
		}
	}
}

// load fetches the catalog and fails if the gateway could not list it.
func (s *session) load(ctx context.Context) error {
	s.store.LoadAll()
	if err := s.store.Wait(ctx); err != nil {
		return err
	}
	if st := s.store.Snapshot(); st.ListError {
		return fmt.Errorf("failed to load catalog: %w", st.LastError)
	}
	return nil
}

// settle waits for pending actions and reports an action failure.
func (s *session) settle(ctx context.Context, what string) error {
	if err := s.store.Wait(ctx); err != nil {
		return err
	}
	if st := s.store.Snapshot(); st.ActionError {
		return fmt.Errorf("failed to %s: %w", what, st.LastError)
	}
	return nil
}

// find looks up id in the loaded catalog.
func (s *session) find(id int) (book.Book, error) {
	b, ok := s.store.FindByID(id)
	if !ok {
		return book.Book{}, fmt.Errorf("book %d not found", id)
	}
	return b, nil
}
