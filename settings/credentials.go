// Package settings stores translation-service credentials for the current
// user, so translate can run without --token once "auth login" was used.
//
// Credentials live in the XDG data directory:
//
//	$XDG_DATA_HOME/nuxtkit/credentials.yaml  (default: ~/.local/share/nuxtkit/)
//
// The file is a YAML mapping keyed by service name. It is written with 0600
// permissions.
//
// Lookup order for a service credential:
//  1. --token flag
//  2. NUXTKIT_TOKEN environment variable
//  3. This store
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	dataDirName = "nuxtkit"
	fileName    = "credentials.yaml"
)

// Info is the stored entry of one service.
type Info struct {
	// Credential is the value passed to the driver: an API key, or a
	// composite such as "appId:secret" or "key,region".
	Credential string `yaml:"credential"`
	// Options are default driver options in "key:value,key:value" form.
	Options string `yaml:"options,omitempty"`
}

// Store maps a service name to its entry.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// DataDir returns the nuxtkit data directory.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

// FilePath returns the credentials file path, or "" when no home directory
// can be determined.
func FilePath() string {
	dir, err := DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the store. A missing file yields an empty store; an unreadable
// or malformed one is an error.
func Load() (Store, error) {
	path := FilePath()
	if path == "" {
		return nil, fmt.Errorf("cannot locate credentials file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Store), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var store Store
	if err := yaml.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if store == nil {
		store = make(Store)
	}
	return store, nil
}

// Save writes the store with 0600 permissions.
func Save(store Store) error {
	path := FilePath()
	if path == "" {
		return fmt.Errorf("cannot locate credentials file")
	}

	data, err := yaml.Marshal(store)
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Per-service access
// ---------------------------------------------------------------------------

func normalize(service string) string {
	return strings.ToLower(strings.TrimSpace(service))
}

// Get returns the entry of service, or nil.
func Get(service string) (*Info, error) {
	store, err := Load()
	if err != nil {
		return nil, err
	}
	return store[normalize(service)], nil
}

// Set stores the entry of service, replacing any previous one.
func Set(service string, info *Info) error {
	if info == nil || info.Credential == "" {
		return fmt.Errorf("empty credential for %s", service)
	}
	store, err := Load()
	if err != nil {
		return err
	}
	store[normalize(service)] = info
	return Save(store)
}

// Remove deletes the entry of service. It reports whether one existed.
func Remove(service string) (bool, error) {
	store, err := Load()
	if err != nil {
		return false, err
	}
	key := normalize(service)
	if _, ok := store[key]; !ok {
		return false, nil
	}
	delete(store, key)
	return true, Save(store)
}

// RemoveAll deletes the credentials file.
func RemoveAll() error {
	path := FilePath()
	if path == "" {
		return fmt.Errorf("cannot locate credentials file")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials file: %w", err)
	}
	return nil
}

// Services returns the names of the stored services in lexical order.
func (s Store) Services() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------------
// Display helpers
// ---------------------------------------------------------------------------

// MaskKey returns a masked version of a credential for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
