package store

import (
	"context"
	"testing"
	"time"

	"github.com/lepinkainen/bookshelf/internal/book"
)

// pendingCall is a gateway request held until the test answers it.
type pendingCall struct {
	op    string
	book  book.Book
	id    int
	reply chan callResult
}

type callResult struct {
	books []book.Book
	book  book.Book
	id    int
	err   error
}

func (c pendingCall) respond(r callResult) {
	c.reply <- r
}

// scriptedGateway blocks every call until the test responds, so tests control
// the order in which operations resolve.
type scriptedGateway struct {
	calls chan pendingCall
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{calls: make(chan pendingCall, 16)}
}

func (g *scriptedGateway) await(ctx context.Context, c pendingCall) (callResult, error) {
	c.reply = make(chan callResult, 1)
	g.calls <- c
	select {
	case r := <-c.reply:
		return r, r.err
	case <-ctx.Done():
		return callResult{}, ctx.Err()
	}
}

func (g *scriptedGateway) FetchAll(ctx context.Context) ([]book.Book, error) {
	r, err := g.await(ctx, pendingCall{op: "fetch"})
	return r.books, err
}

func (g *scriptedGateway) Create(ctx context.Context, b book.Book) (book.Book, error) {
	r, err := g.await(ctx, pendingCall{op: "create", book: b})
	return r.book, err
}

func (g *scriptedGateway) Replace(ctx context.Context, b book.Book) (book.Book, error) {
	r, err := g.await(ctx, pendingCall{op: "replace", book: b})
	return r.book, err
}

func (g *scriptedGateway) Remove(ctx context.Context, id int) (int, error) {
	r, err := g.await(ctx, pendingCall{op: "remove", id: id})
	return r.id, err
}

func (g *scriptedGateway) next(t *testing.T) pendingCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a gateway call")
		return pendingCall{}
	}
}
