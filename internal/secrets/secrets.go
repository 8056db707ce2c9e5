// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, gemini-api-key, notion-api-key,
// notion-database-id, directory-identity, directory-secret.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets/"

// Store is a set of named secrets.
type Store map[string]string

// Get returns the secret value for key, or "" when absent.
func (s Store) Get(key string) string { return s[key] }

// Has reports whether key holds a non-empty value.
func (s Store) Has(key string) bool { return s[key] != "" }

// Load reads all files in dir and returns a Store of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty Store. Unreadable files produce a warning on warnw but
// do not abort.
func Load(dir string, warnw io.Writer) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warnw, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			store[name] = value
		}
	}

	return store, nil
}
