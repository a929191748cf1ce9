// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads exported task repositories to a local directory
// or an S3-compatible bucket.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/sota-extractor/internal/taskdb"
	"github.com/pdiddy/sota-extractor/pkg/types"
)

// Publisher stores one named object.
type Publisher interface {
	Publish(ctx context.Context, key string, data []byte, contentType string) error

	// Location returns where key is published, for reporting.
	Location(key string) string
}

// FilePublisher writes objects under Dir.
type FilePublisher struct {
	Dir string
}

func (p *FilePublisher) Publish(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest := p.Location(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

func (p *FilePublisher) Location(key string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(key))
}

// Open returns the publisher for dest: an s3://bucket/prefix URL or a
// local directory.
func Open(ctx context.Context, dest string, cfg types.PublishConfig) (Publisher, error) {
	if !strings.HasPrefix(dest, "s3://") {
		if dest == "" {
			return nil, fmt.Errorf("publish destination required")
		}
		return &FilePublisher{Dir: dest}, nil
	}

	u, err := url.Parse(dest)
	if err != nil {
		return nil, fmt.Errorf("parsing destination %s: %w", dest, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("s3 bucket required in %s", dest)
	}
	return NewS3Publisher(ctx, u.Host, strings.Trim(u.Path, "/"), cfg)
}

// Repository encodes tdb in format and publishes it as name with the
// format's extension. It returns the published location.
func Repository(ctx context.Context, p Publisher, tdb *taskdb.TaskDB, name string, format taskdb.Format) (string, error) {
	var buf bytes.Buffer
	if err := tdb.Dump(&buf, format); err != nil {
		return "", fmt.Errorf("encoding repository: %w", err)
	}
	key := name + "." + string(format)
	if err := p.Publish(ctx, key, buf.Bytes(), format.ContentType()); err != nil {
		return "", fmt.Errorf("publishing %s: %w", key, err)
	}
	return p.Location(key), nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
