//go:build !nogui

package gui

import (
	"fmt"
	"strings"

	"textdrop/internal/errors"
	"textdrop/internal/payload"
	"textdrop/pkg/types"

	"fyne.io/fyne/v2"
	"github.com/dustin/go-humanize"
)

// exportContent writes the text of the last drop, rendered in format
func exportContent(writer fyne.URIWriteCloser, text, format string) error {
	defer writer.Close()

	rendered, err := payload.Render(text, format)
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(rendered)); err != nil {
		return errors.Wrap(err, "error writing file")
	}
	return nil
}

// exportFileName suggests a file name for exported content
func exportFileName(format string) string {
	switch format {
	case payload.FormatJSON:
		return "drop.json"
	case payload.FormatYAML:
		return "drop.yaml"
	default:
		return "drop.txt"
	}
}

// describeDrop summarises a finished drop for the status line
func describeDrop(text string, items int) string {
	return fmt.Sprintf("Received %s from %d file(s)", humanize.Bytes(uint64(len(text))), items)
}

// describeFailure names the dropped item that failed, if known, and why
func describeFailure(err error) string {
	if !errors.IsReadFailure(err) {
		return "Drop failed: " + strings.TrimSpace(err.Error())
	}
	var readErr *errors.ReadError
	errors.As(err, &readErr)
	name := types.Address(readErr.Address()).Name()
	if name == "" {
		name = fmt.Sprintf("item %d", readErr.Index()+1)
	}
	switch {
	case errors.IsFileNotFound(err):
		return "Drop failed on " + name + ": file not found"
	case errors.IsFileAccessDenied(err):
		return "Drop failed on " + name + ": permission denied"
	}
	return "Drop failed on " + name
}

func urisToAddresses(uris []fyne.URI) []types.Address {
	addrs := make([]types.Address, len(uris))
	for i, u := range uris {
		addrs[i] = types.Address(u.String())
	}
	return addrs
}
