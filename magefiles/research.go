//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Demo runs an offline query against the synthetic catalogues and writes
// every export format into reports/.
func Demo() error {
	mg.Deps(Build)
	query := os.Getenv("QUERY")
	if query == "" {
		query = "electric propulsion ion thrusters for small satellites"
	}
	return sh.RunV(filepath.Join(binDir, binName), "run", "--offline", "--export", "all", "-o", "md", query)
}

// Serve builds the CLI and starts the HTTP API on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}
