// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: smtp-user, smtp-pass.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-pkgz/lgr"
)

// Key names for the SMTP submission credentials.
const (
	SMTPUser = "smtp-user"
	SMTPPass = "smtp-pass"
)

// EnvPrefix is prepended to the upper-cased key (dashes become underscores)
// when a secret is looked up in the environment, e.g. ARXIV_DIGEST_SMTP_PASS.
const EnvPrefix = "ARXIV_DIGEST_"

// Store holds loaded secrets keyed by file name.
type Store map[string]string

// Load reads all files in dir and returns a Store of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty Store.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
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
			lgr.Printf("[WARN] could not read secret %s: %v", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			s[name] = value
		}
	}

	return s, nil
}

// Get returns the secret for key. A file value wins; otherwise the
// environment variable EnvPrefix+KEY is consulted.
func (s Store) Get(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvName(key)))
}

// Keys returns the loaded key names in sorted order. Values are never exposed.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns every loaded secret value, for masking in log output.
func (s Store) Values() []string {
	out := make([]string, 0, len(s))
	for _, k := range s.Keys() {
		out = append(out, s[k])
	}
	return out
}

// EnvName maps a key file name to its environment variable name.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
