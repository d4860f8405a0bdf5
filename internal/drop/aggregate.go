package drop

import (
	"context"
	"strings"

	"textdrop/internal/errors"
	"textdrop/pkg/types"

	"golang.org/x/sync/errgroup"
)

// Reader turns the address of a dropped item into its text
type Reader interface {
	ReadText(ctx context.Context, addr types.Address) (string, error)
}

// ReaderFunc adapts a function to Reader
type ReaderFunc func(ctx context.Context, addr types.Address) (string, error)

// ReadText calls f
func (f ReaderFunc) ReadText(ctx context.Context, addr types.Address) (string, error) {
	return f(ctx, addr)
}

// Aggregate resolves every item, reads it and joins the texts with Separator
// in item order. Reads run concurrently, at most limit at a time (limit < 1
// means no limit). The first failure cancels the remaining reads and no text
// is returned.
func Aggregate(ctx context.Context, r Reader, items []Item, limit int) (string, error) {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	texts := make([]string, len(items))
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			addr, err := item.Await(gctx)
			if err != nil {
				return errors.NewReadError("cannot resolve dropped item", "", i, errors.AddressUnresolved, err)
			}
			text, err := r.ReadText(gctx, addr)
			if err != nil {
				return errors.NewReadError("cannot read dropped item", addr.String(), i, errors.ReadFailed, err)
			}
			texts[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(texts, Separator), nil
}
