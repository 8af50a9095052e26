// Package localstore is the on-disk fallback backend. Each user owns a
// directory holding one JSON value per collection key.
package localstore

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
)

// Collection keys
const (
	RecordsKey      = "binance_alpha_records"
	AccountsKey     = "binance_alpha_accounts"
	SubscriptionKey = "alphadash_subscription"
)

// DefaultPath is where the store lives when no path is configured.
const DefaultPath = "~/.alphadash"

// ErrInvalidUID is returned for user IDs that cannot name a directory.
var ErrInvalidUID = errors.New("user id may only contain letters, digits, '-' and '_'")

var validUID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store wraps a diskv instance shared by the repositories of this package.
type Store struct {
	d  *diskv.Diskv
	mu sync.Mutex
}

// Open creates the store under path, expanding a leading "~".
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	base, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store path: %w", err)
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &Store{d: diskv.New(diskv.Options{
		BasePath:          base,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
		FilePerm:          0o600,
		PathPerm:          0o700,
	})}, nil
}

// Path returns the base directory of the store.
func (s *Store) Path() string {
	return s.d.BasePath
}

func (s *Store) read(uid, collection string) ([]byte, error) {
	key, err := storeKey(uid, collection)
	if err != nil {
		return nil, err
	}
	if !s.d.Has(key) {
		return nil, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	return val, nil
}

func (s *Store) write(uid, collection string, val []byte) error {
	key, err := storeKey(uid, collection)
	if err != nil {
		return err
	}
	if err := s.d.Write(key, val); err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	return nil
}

func (s *Store) erase(uid, collection string) error {
	key, err := storeKey(uid, collection)
	if err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("failed to erase %s: %w", collection, err)
	}
	return nil
}

// storeKey makes `uid/collection`.
func storeKey(uid, collection string) (string, error) {
	if !validUID.MatchString(uid) {
		return "", ErrInvalidUID
	}
	return uid + "/" + collection, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string(nil), pathKey.Path...), pathKey.FileName), "/")
}
