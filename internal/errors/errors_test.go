package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("nothing dropped")
	assert.Equal(t, "nothing dropped", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
	assert.Equal(t, Unknown, KindOf(err))

	err = NewKind("payload is not JSON", DecodeFailed, nil)
	assert.Equal(t, DecodeFailed, KindOf(err))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestWrapping(t *testing.T) {
	cause := New("read timed out")
	err := Wrap(cause, "drop 7")
	assert.Equal(t, "drop 7: read timed out", err.Error())
	assert.Equal(t, cause, Unwrap(err))

	err = Wrapf(err, "target %q", "main")
	assert.Equal(t, `target "main": drop 7: read timed out`, err.Error())
	assert.True(t, Is(err, cause))

	assert.Nil(t, Wrap(nil, "drop"))
	assert.Nil(t, Wrapf(nil, "drop %d", 1))
}

func TestFileError(t *testing.T) {
	denied := NewFileError("cannot open dropped item", "/home/me/notes.txt", FileAccessDenied, nil)
	assert.Equal(t, "cannot open dropped item: /home/me/notes.txt", denied.Error())
	assert.Equal(t, "/home/me/notes.txt", denied.Path())
	assert.Equal(t, FileAccessDenied, denied.Kind())
	assert.True(t, IsFileAccessDenied(denied))
	assert.False(t, IsFileNotFound(denied))

	cause := fmt.Errorf("no such file or directory")
	missing := NewFileError("cannot open dropped item", "/home/me/gone.txt", FileNotFound, cause)
	assert.Equal(t, "cannot open dropped item: /home/me/gone.txt: no such file or directory", missing.Error())
	assert.Equal(t, cause, Unwrap(missing))
	assert.True(t, IsFileNotFound(missing))
	assert.False(t, IsFileAccessDenied(missing))

	var fe *FileError
	assert.True(t, As(Wrap(missing, "drop"), &fe))
	assert.Equal(t, "/home/me/gone.txt", fe.Path())
}

func TestConfigError(t *testing.T) {
	cause := fmt.Errorf("must be >= 1")
	err := NewConfigError("invalid setting", "read.concurrency", InvalidConfig, cause)
	assert.Equal(t, "invalid setting: read.concurrency: must be >= 1", err.Error())
	assert.Equal(t, "read.concurrency", err.Param())
	assert.Equal(t, cause, Unwrap(err))
	assert.True(t, IsInvalidConfig(err))
	assert.False(t, IsInvalidConfig(New("unrelated")))

	// only ConfigError values count, whatever their kind
	assert.False(t, IsInvalidConfig(NewKind("no drop folders", InvalidConfig, nil)))

	var ce *ConfigError
	assert.True(t, As(Wrap(err, "load"), &ce))
	assert.Equal(t, "read.concurrency", ce.Param())
}

func TestReadError(t *testing.T) {
	readErr := NewReadError("cannot read dropped item", "file:///tmp/a.txt", 2, ReadFailed, nil)
	assert.Equal(t, "cannot read dropped item: file:///tmp/a.txt", readErr.Error())
	assert.Equal(t, "file:///tmp/a.txt", readErr.Address())
	assert.Equal(t, 2, readErr.Index())
	assert.Equal(t, ReadFailed, readErr.Kind())

	origErr := fmt.Errorf("no such file or directory")
	readErr = NewReadError("cannot read dropped item", "/tmp/a.txt", 0, ReadFailed, origErr)
	assert.Equal(t, "cannot read dropped item: /tmp/a.txt: no such file or directory", readErr.Error())
	assert.Equal(t, origErr, Unwrap(readErr))

	assert.True(t, IsReadFailure(readErr))
	assert.True(t, IsReadFailure(Wrap(readErr, "aggregation failed")))
	assert.False(t, IsReadFailure(New("some other error")))
	assert.Equal(t, ReadFailed, KindOf(Wrap(readErr, "aggregation failed")))
}

func TestGestureError(t *testing.T) {
	assert.Equal(t, "drop gesture already in progress", ErrGestureInProgress.Error())
	assert.Equal(t, GestureInProgress, ErrGestureInProgress.Kind())

	err := Wrap(NewGestureError("second enter", GestureInProgress), "adapter")
	assert.True(t, Is(err, ErrGestureInProgress))
	assert.False(t, Is(err, ErrNoGesture))
	assert.Equal(t, GestureInProgress, KindOf(err))
}

func TestErrorChains(t *testing.T) {
	base := errors.New("permission denied")
	fileErr := NewFileError("cannot open dropped item", "/drop/b.txt", FileAccessDenied, base)
	readErr := NewReadError("cannot read dropped item", "/drop/b.txt", 1, ReadFailed, fileErr)
	err := Wrap(readErr, "drop 3")

	assert.Equal(t, "drop 3: cannot read dropped item: /drop/b.txt: cannot open dropped item: /drop/b.txt: permission denied", err.Error())
	assert.True(t, Is(err, base))
	assert.True(t, Is(err, fileErr))

	var re *ReadError
	assert.True(t, As(err, &re))
	assert.Equal(t, 1, re.Index())

	assert.True(t, IsReadFailure(err))
	assert.True(t, IsFileAccessDenied(err))
	assert.Equal(t, ReadFailed, KindOf(err), "the outermost typed error decides the kind")
}
