// Package store provides the key-value stores that back persisted shell
// state such as command history.
package store

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/util"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Kind names a Store implementation.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// Kinds lists every supported store kind.
var Kinds = []Kind{KindMemory, KindFile, KindSQLite}

// appName is the directory created under the XDG state home.
const appName = "shellkit"

// ParseKind validates a configured store name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown history store '%s'", s),
		"Use one of: "+util.JoinOrNone(names))
}

// DefaultPath returns where a store of kind keeps its data when no path is
// configured: $XDG_STATE_HOME/shellkit/history.{yaml,db}.
func DefaultPath(kind Kind) string {
	name := "history.yaml"
	if kind == KindSQLite {
		name = "history.db"
	}
	return filepath.Join(xdg.StateHome, appName, name)
}

// Open creates a store of the given kind. An empty path selects DefaultPath.
// Memory stores ignore path.
func Open(kind Kind, path string) (Store, error) {
	if path == "" && kind != KindMemory {
		path = DefaultPath(kind)
	}
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		return OpenFile(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		_, err := ParseKind(string(kind))
		return nil, err
	}
}
