//go:build !nogui

package gui

import (
	"context"

	"textdrop/internal/errors"
	"textdrop/internal/source"
	"textdrop/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

// URIReader reads dropped items through fyne's storage repositories, so any
// URI scheme the running app can open is readable.
type URIReader struct {
	MaxBytes int64
}

// ReadText implements drop.Reader
func (r URIReader) ReadText(ctx context.Context, addr types.Address) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	uri, err := toURI(addr)
	if err != nil {
		return "", err
	}

	rc, err := storage.Reader(uri)
	if err != nil {
		return "", errors.NewFileError("cannot open dropped item", addr.String(), errors.ReadFailed, err)
	}
	defer rc.Close()

	return source.ReadAll(ctx, rc, addr.String(), r.MaxBytes)
}

func toURI(addr types.Address) (fyne.URI, error) {
	if !addr.IsURI() {
		path, ok := addr.Path()
		if !ok {
			return nil, errors.NewFileError("empty address", addr.String(), errors.InvalidPath, nil)
		}
		return storage.NewFileURI(path), nil
	}
	uri, err := storage.ParseURI(addr.String())
	if err != nil {
		return nil, errors.NewFileError("invalid URI", addr.String(), errors.InvalidPath, err)
	}
	return uri, nil
}
