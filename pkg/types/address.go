package types

import (
	"net/url"
	"path/filepath"
	"strings"
)

// FileReferenceType is the dragged-item type a drop target accepts by default.
// It is the freedesktop MIME type used for lists of dropped file URIs.
const FileReferenceType = "text/uri-list"

// Address identifies one dropped item. It is either a file:// URI or a plain
// filesystem path.
type Address string

// String returns the address as given by the adapter
func (a Address) String() string {
	return string(a)
}

// IsURI reports whether the address is a URI: a file: URI or any
// "scheme://" form. A colon alone does not make one, so "todo:list.txt" and
// "C:\notes.txt" stay paths.
func (a Address) IsURI() bool {
	s := string(a)
	u, err := url.Parse(s)
	if err != nil || len(u.Scheme) < 2 {
		return false
	}
	return strings.EqualFold(u.Scheme, "file") || strings.HasPrefix(s[len(u.Scheme):], "://")
}

// Path returns the local filesystem path for the address. file:// URIs are
// unescaped; anything else with a scheme returns ok=false.
func (a Address) Path() (string, bool) {
	s := string(a)
	if s == "" {
		return "", false
	}
	if !a.IsURI() {
		return filepath.Clean(s), true
	}
	u, err := url.Parse(s)
	if err != nil || !strings.EqualFold(u.Scheme, "file") {
		return "", false
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}

// Name returns the last path element of the address
func (a Address) Name() string {
	if p, ok := a.Path(); ok {
		return filepath.Base(p)
	}
	s := strings.TrimRight(string(a), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Addresses converts plain strings into addresses, skipping blanks
func Addresses(values ...string) []Address {
	out := make([]Address, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, Address(v))
	}
	return out
}
