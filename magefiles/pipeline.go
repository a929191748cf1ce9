//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var bin = filepath.Join(binDir, binName)

// Scrape fetches every remote source into exports/sota.json and refreshes
// the index.
func Scrape() error {
	mg.Deps(Init, Build)
	return sh.RunV(bin, "scrape", "--output", filepath.Join("exports", "sota.json"), "--index")
}

// Index ingests exports/sota.json into the SQLite index.
func Index() error {
	mg.Deps(Init, Build)
	return sh.RunV(bin, "index", "store", filepath.Join("exports", "sota.json"))
}

// Publish uploads the indexed repository to the destination named by
// SOTA_PUBLISH_DEST (a directory or s3://bucket/prefix).
func Publish() error {
	mg.Deps(Build)
	dest := os.Getenv("SOTA_PUBLISH_DEST")
	if dest == "" {
		dest = filepath.Join("exports", "published")
	}
	return sh.RunV(bin, "publish", dest, "--format", "json.gz")
}
