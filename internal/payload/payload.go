// Package payload interprets the combined text of a drop for the host.
package payload

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"textdrop/internal/errors"

	"gopkg.in/yaml.v3"
)

// Supported formats
const (
	FormatRaw  = ""
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Decode parses text as a stream of documents in the given format. Each
// dropped file contributes one or more documents; the raw format yields the
// text itself as a single document.
func Decode(text, format string) ([]any, error) {
	switch format {
	case FormatRaw:
		return []any{text}, nil
	case FormatJSON:
		return decodeJSON(text)
	case FormatYAML:
		return decodeYAML(text)
	default:
		return nil, errors.NewKind("unsupported payload format: "+format, errors.InvalidConfig, nil)
	}
}

func decodeJSON(text string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var docs []any
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, errors.NewKind("invalid JSON payload", errors.DecodeFailed, err)
		}
		docs = append(docs, v)
	}
}

func decodeYAML(text string) ([]any, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))
	var docs []any
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, errors.NewKind("invalid YAML payload", errors.DecodeFailed, err)
		}
		docs = append(docs, v)
	}
}

// Render decodes text and writes it back out normalised: indented JSON
// values one after another, or YAML documents separated by "---". The raw
// format returns text unchanged.
func Render(text, format string) (string, error) {
	if format == FormatRaw {
		return text, nil
	}
	docs, err := Decode(text, format)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		for _, d := range docs {
			if err := enc.Encode(d); err != nil {
				return "", errors.Wrap(err, "cannot render JSON payload")
			}
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		for _, d := range docs {
			if err := enc.Encode(d); err != nil {
				return "", errors.Wrap(err, "cannot render YAML payload")
			}
		}
		if err := enc.Close(); err != nil {
			return "", errors.Wrap(err, "cannot render YAML payload")
		}
	}
	return buf.String(), nil
}
