package drop

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"textdrop/internal/errors"
	"textdrop/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateEmpty(t *testing.T) {
	text, err := Aggregate(context.Background(), ReaderFunc(func(context.Context, types.Address) (string, error) {
		t.Fatal("no read expected")
		return "", nil
	}), nil, 0)

	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestAggregateKeepsContentVerbatim(t *testing.T) {
	files := map[types.Address]string{"a": "line 1\n", "b": "", "c": "tail"}
	r := ReaderFunc(func(_ context.Context, addr types.Address) (string, error) {
		return files[addr], nil
	})

	text, err := Aggregate(context.Background(), r, ResolvedItems("a", "b", "c"), 2)

	require.NoError(t, err)
	assert.Equal(t, "line 1\n\n\ntail", text)
}

func TestAggregateRespectsLimit(t *testing.T) {
	var running, peak int32
	r := ReaderFunc(func(_ context.Context, addr types.Address) (string, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return addr.String(), nil
	})

	items := ResolvedItems("1", "2", "3", "4", "5", "6")
	text, err := Aggregate(context.Background(), r, items, 2)

	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n4\n5\n6", text)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestAggregateFailureCancelsOthers(t *testing.T) {
	cancelled := make(chan struct{})
	r := ReaderFunc(func(ctx context.Context, addr types.Address) (string, error) {
		if addr == "bad" {
			return "", fmt.Errorf("unreadable")
		}
		<-ctx.Done()
		close(cancelled)
		return "", ctx.Err()
	})

	_, err := Aggregate(context.Background(), r, ResolvedItems("slow", "bad"), 0)

	require.Error(t, err)
	var readErr *errors.ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "bad", readErr.Address())
	assert.Equal(t, 1, readErr.Index())
	assert.Equal(t, errors.ReadFailed, readErr.Kind())

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("slow read was not cancelled")
	}
}
