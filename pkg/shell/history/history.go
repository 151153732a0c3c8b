// Package history implements shell.History: an ordered list of submitted
// lines with a navigation cursor, a stack of scopes for modes, and optional
// persistence through a store.Store.
package history

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/logger"
	"github.com/rileyhilliard/shellkit/pkg/shell"
	"github.com/rileyhilliard/shellkit/pkg/shell/store"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMax is the number of entries kept when no limit is configured.
	DefaultMax = 1000
	// DefaultKey is the store key the root scope is saved under.
	DefaultKey = "history"
)

var _ shell.History = (*History)(nil)

// History is safe for concurrent use. Only the root scope is persisted;
// mode scopes live in memory until they are exited.
type History struct {
	mu      sync.Mutex
	entries []string
	cursor  int
	stash   []scope
	max     int

	store  store.Store
	key    string
	logger logger.Logger
}

type scope struct {
	entries []string
	cursor  int
}

// Option configures a History.
type Option func(*History)

// WithMax bounds the number of entries per scope. Values below 1 are ignored.
func WithMax(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.max = n
		}
	}
}

// WithStore persists the root scope under key.
func WithStore(s store.Store, key string) Option {
	return func(h *History) {
		h.store = s
		if key != "" {
			h.key = key
		}
	}
}

// WithLogger reports persistence failures.
func WithLogger(l logger.Logger) Option {
	return func(h *History) { h.logger = l }
}

// New creates a History, loading saved entries when a store is set.
func New(opts ...Option) (*History, error) {
	h := &History{max: DefaultMax, key: DefaultKey, logger: logger.Noop()}
	for _, opt := range opts {
		opt(h)
	}
	if h.store == nil {
		return h, nil
	}

	raw, ok, err := h.store.Get(h.key)
	if err != nil {
		return nil, err
	}
	if ok && raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &h.entries); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore,
				fmt.Sprintf("Saved history under '%s' is unreadable", h.key),
				"Run 'history --clear' to reset it.")
		}
	}
	h.truncate()
	h.cursor = len(h.entries)
	return h, nil
}

// Push appends line and moves the cursor past the newest entry. Blank lines
// and repeats of the newest entry are not recorded.
func (h *History) Push(line string) {
	line = strings.TrimSpace(line)

	h.mu.Lock()
	defer h.mu.Unlock()
	if line != "" && (len(h.entries) == 0 || h.entries[len(h.entries)-1] != line) {
		h.entries = append(h.entries, line)
		h.truncate()
		h.persist()
	}
	h.cursor = len(h.entries)
}

// Previous moves the cursor back one entry and returns it. At the oldest
// entry it keeps returning that entry.
func (h *History) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor]
}

// Next moves the cursor forward one entry. Past the newest entry it returns "".
func (h *History) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < len(h.entries) {
		h.cursor++
	}
	if h.cursor == len(h.entries) {
		return ""
	}
	return h.entries[h.cursor]
}

// EnterScope stashes the current entries and starts an empty scope.
func (h *History) EnterScope() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stash = append(h.stash, scope{entries: h.entries, cursor: h.cursor})
	h.entries = nil
	h.cursor = 0
}

// ExitScope drops the current scope and restores the stashed one.
func (h *History) ExitScope() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stash) == 0 {
		return
	}
	top := h.stash[len(h.stash)-1]
	h.stash = h.stash[:len(h.stash)-1]
	h.entries = top.entries
	h.cursor = len(h.entries)
}

// Entries returns a copy of the current scope's entries, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Depth returns the number of stashed scopes.
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stash)
}

// Clear empties the current scope, and the saved history when at root.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.cursor = 0
	if h.store == nil || len(h.stash) > 0 {
		return nil
	}
	return h.store.Remove(h.key)
}

// Flush writes the root scope to the store.
func (h *History) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.save()
}

func (h *History) truncate() {
	if len(h.entries) > h.max {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.max:]...)
	}
}

// persist saves after a change, logging instead of failing. Caller holds h.mu.
func (h *History) persist() {
	if len(h.stash) > 0 {
		return
	}
	if err := h.save(); err != nil {
		h.logger.Warn("history not saved: %s", errors.Message(err))
	}
}

// save writes the root scope. Caller holds h.mu.
func (h *History) save() error {
	if h.store == nil {
		return nil
	}
	root := h.entries
	if len(h.stash) > 0 {
		root = h.stash[0].entries
	}
	raw, err := yaml.Marshal(root)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Couldn't encode history", "")
	}
	return h.store.Set(h.key, string(raw))
}
