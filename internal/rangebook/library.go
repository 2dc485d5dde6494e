package rangebook

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Library serves grids cache-first: a store hit skips the parse, a miss
// computes from the book and writes back. Cache failures are logged and
// swallowed; the book always answers.
type Library struct {
	book  *Book
	store Store
	log   *zap.Logger
}

func NewLibrary(book *Book, store Store, logger *zap.Logger) *Library {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{book: book, store: store, log: logger}
}

func (l *Library) Names() []string { return l.book.Names() }

func (l *Library) Grid(ctx context.Context, token string) (*Grid, error) {
	name, ok := l.book.Resolve(token)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRange, token)
	}
	if g, err := l.store.LoadGrid(ctx, name); err != nil {
		l.log.Debug("range_cache_read_failed", zap.String("range", name), zap.Error(err))
	} else if g != nil {
		return g, nil
	}
	g, err := l.book.Grid(name)
	if err != nil {
		return nil, err
	}
	if err := l.store.SaveGrid(ctx, name, g); err != nil {
		l.log.Debug("range_cache_write_failed", zap.String("range", name), zap.Error(err))
	}
	return g, nil
}
