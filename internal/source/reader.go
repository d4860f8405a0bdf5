// Package source reads the text of dropped files from the local filesystem.
package source

import (
	"bytes"
	"context"
	"io"
	"os"

	"textdrop/internal/errors"
	"textdrop/pkg/types"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileReader reads local paths and file:// URIs
type FileReader struct {
	// MaxBytes rejects files larger than this many bytes; zero means no limit.
	MaxBytes int64
}

// NewFileReader creates a reader with the given per-file size limit
func NewFileReader(maxBytes int64) *FileReader {
	return &FileReader{MaxBytes: maxBytes}
}

// ReadText returns the decoded text of the file at addr
func (r *FileReader) ReadText(ctx context.Context, addr types.Address) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, ok := addr.Path()
	if !ok {
		return "", errors.NewFileError("not a local file", addr.String(), errors.InvalidPath, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fileError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fileError(path, err)
	}
	if info.IsDir() {
		return "", errors.NewFileError("dropped item is a directory", path, errors.InvalidPath, nil)
	}

	return ReadAll(ctx, f, path, r.MaxBytes)
}

// ReadAll reads rd to the end, enforcing maxBytes, and decodes the result.
// name is only used in errors.
func ReadAll(ctx context.Context, rd io.Reader, name string, maxBytes int64) (string, error) {
	if maxBytes > 0 {
		rd = io.LimitReader(rd, maxBytes+1)
	}
	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: rd})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.NewFileError("error reading file", name, errors.Unknown, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", errors.NewFileError("dropped file too large", name, errors.PayloadTooLarge, nil)
	}
	return Decode(data)
}

// Decode converts file bytes to a UTF-8 string. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is stripped; without one the data is taken as
// UTF-8 unchanged.
func Decode(data []byte) (string, error) {
	if !hasBOM(data) {
		return string(data), nil
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", errors.NewKind("cannot decode text", errors.ReadFailed, err)
	}
	return string(out), nil
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE})
}

func fileError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return errors.NewFileError("file not found", path, errors.FileNotFound, err)
	case os.IsPermission(err):
		return errors.NewFileError("file access denied", path, errors.FileAccessDenied, err)
	default:
		return errors.NewFileError("cannot open file", path, errors.Unknown, err)
	}
}

// ctxReader stops a read loop once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
