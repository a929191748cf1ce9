// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept outside the config file, one
// plain-text file per secret: the file name is the key and the trimmed
// contents are the value.
//
// Recognised keys: s3-access-key-id, s3-secret-access-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

const (
	KeyS3AccessKeyID     = "s3-access-key-id"
	KeyS3SecretAccessKey = "s3-secret-access-key"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields no secrets. Unreadable files are logged and skipped.
func Load(dir string, log *zap.Logger) (Secrets, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("key", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// ApplyPublish fills the static S3 credentials of cfg that are not
// already configured. Both keys must be present for either to apply.
func (s Secrets) ApplyPublish(cfg *types.PublishConfig) bool {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return false
	}
	id, secret := s[KeyS3AccessKeyID], s[KeyS3SecretAccessKey]
	if id == "" || secret == "" {
		return false
	}
	cfg.AccessKeyID, cfg.SecretAccessKey = id, secret
	return true
}
