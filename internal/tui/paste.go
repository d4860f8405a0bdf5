package tui

import (
	"strings"

	"textdrop/pkg/types"

	"github.com/kballard/go-shellquote"
)

// ParsePaths splits pasted text into dropped addresses. Terminals deliver a
// dragged file as its path, quoted or with backslash-escaped spaces, and some
// as a file:// URI; several files arrive separated by spaces or newlines.
// Text that is not valid shell quoting, such as a lone apostrophe in a name,
// is split on whitespace instead.
func ParsePaths(text string) []types.Address {
	text = strings.ReplaceAll(text, "\r", "")
	words, err := shellquote.Split(text)
	if err != nil {
		words = strings.Fields(text)
	}

	var addrs []types.Address
	for _, w := range words {
		if w == "" {
			continue
		}
		addrs = append(addrs, types.Address(w))
	}
	return addrs
}
