// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskdb

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format is a serialization format for exported task documents.
type Format string

const (
	FormatJSON     Format = "json"
	FormatJSONGzip Format = "json.gz"
	FormatYAML     Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONGzip, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file name, defaulting to JSON.
func FormatFromPath(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".json.gz"):
		return FormatJSONGzip
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ContentType returns the media type used when publishing the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSONGzip:
		return "application/gzip"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// WriteDocs serializes docs to w. JSON output is indented by two spaces
// with object keys in sorted order.
func WriteDocs(w io.Writer, docs []TaskDoc, format Format) error {
	if docs == nil {
		docs = []TaskDoc{}
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, docs)
	case FormatJSONGzip:
		zw := gzip.NewWriter(w)
		if err := writeJSON(zw, docs); err != nil {
			zw.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing tasks: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("encoding tasks: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func writeJSON(w io.Writer, docs []TaskDoc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	return nil
}

// ReadDocs deserializes a list of task documents from r.
func ReadDocs(r io.Reader, format Format) ([]TaskDoc, error) {
	var docs []TaskDoc
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&docs); err != nil {
			return nil, fmt.Errorf("decoding tasks: %w", err)
		}
	case FormatJSONGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing tasks: %w", err)
		}
		defer zr.Close()
		if err := json.NewDecoder(zr).Decode(&docs); err != nil {
			return nil, fmt.Errorf("decoding tasks: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&docs); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding tasks: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return docs, nil
}

// ReadFile reads task documents from path.
func ReadFile(path string, format Format) ([]TaskDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ReadDocs(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// WriteFile writes task documents to path, creating parent directories.
func WriteFile(path string, docs []TaskDoc, format Format) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteDocs(f, docs, format); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
