package shell

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/tidwall/btree"
)

// Registry holds registered commands. Names are kept in an ordered index so
// listing, group prefix scans and completion candidates come out sorted.
// A Registry is not safe for concurrent mutation; hosts register commands
// before or between executions.
type Registry struct {
	index    *btree.Map[string, *Command]
	aliases  map[string]*Command
	catchAll *Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index:   btree.NewMap[string, *Command](0),
		aliases: make(map[string]*Command),
	}
}

// Add validates c, parses its Use and option flags, and registers it.
// Names and aliases must be unique across every name and alias, and at
// most one catch-all may exist.
func (r *Registry) Add(c Command) (*Command, error) {
	name, args, err := parseUse(c.Use)
	if err != nil {
		return nil, err
	}
	c.name = name
	c.args = args

	if c.Action == nil {
		return nil, errors.New(errors.ErrRegistry,
			fmt.Sprintf("Command '%s' has no action", c.Use),
			"Set Action to shell.Sync, shell.Callback or shell.Deferred.")
	}

	opts := make([]Option, len(c.Options))
	for i, o := range c.Options {
		parsed, err := parseOption(o)
		if err != nil {
			return nil, err
		}
		opts[i] = parsed
	}
	c.Options = opts

	if c.CatchAll {
		if r.catchAll != nil {
			return nil, errors.New(errors.ErrRegistry,
				"A catch-all command is already registered",
				"Remove the existing catch-all before registering another.")
		}
		c.name = ""
		cmd := &c
		r.catchAll = cmd
		return cmd, nil
	}

	if name == "" {
		return nil, errors.New(errors.ErrRegistry,
			fmt.Sprintf("Command '%s' has no name", c.Use),
			"Start Use with the command name, e.g. \"say <words...>\".")
	}
	if r.taken(name) {
		return nil, errors.New(errors.ErrRegistry,
			fmt.Sprintf("'%s' is already registered", name),
			"Remove the existing command first or choose another name.")
	}

	seen := make(map[string]bool, len(c.Aliases))
	for _, a := range c.Aliases {
		if a == "" || a == name || seen[a] || r.taken(a) {
			return nil, errors.New(errors.ErrRegistry,
				fmt.Sprintf("Alias '%s' for '%s' is already in use", a, name),
				"Aliases must be unique across all command names and aliases.")
		}
		seen[a] = true
	}

	cmd := &c
	r.index.Set(name, cmd)
	for _, a := range c.Aliases {
		r.aliases[a] = cmd
	}
	return cmd, nil
}

func (r *Registry) taken(s string) bool {
	if _, ok := r.index.Get(s); ok {
		return true
	}
	_, ok := r.aliases[s]
	return ok
}

// Remove unregisters the command with the given name or alias, freeing its
// aliases. An empty name removes the catch-all.
func (r *Registry) Remove(name string) bool {
	if name == "" {
		had := r.catchAll != nil
		r.catchAll = nil
		return had
	}
	cmd := r.Lookup(name)
	if cmd == nil {
		return false
	}
	r.index.Delete(cmd.name)
	for _, a := range cmd.Aliases {
		delete(r.aliases, a)
	}
	return true
}

// Lookup returns the command registered under name or alias, or nil.
func (r *Registry) Lookup(name string) *Command {
	if cmd, ok := r.index.Get(name); ok {
		return cmd
	}
	return r.aliases[name]
}

// CatchAll returns the catch-all command, or nil.
func (r *Registry) CatchAll() *Command {
	return r.catchAll
}

// Commands returns every named command in name order.
func (r *Registry) Commands() []*Command {
	cmds := make([]*Command, 0, r.index.Len())
	r.index.Scan(func(_ string, c *Command) bool {
		cmds = append(cmds, c)
		return true
	})
	return cmds
}

// WithPrefix returns commands whose names start with prefix, in name order.
func (r *Registry) WithPrefix(prefix string) []*Command {
	var cmds []*Command
	r.index.Ascend(prefix, func(name string, c *Command) bool {
		if !strings.HasPrefix(name, prefix) {
			return false
		}
		cmds = append(cmds, c)
		return true
	})
	return cmds
}

// Names returns the names and aliases of visible commands, sorted by name
// with each command's aliases following it.
func (r *Registry) Names() []string {
	var names []string
	r.index.Scan(func(name string, c *Command) bool {
		if c.Hidden {
			return true
		}
		names = append(names, name)
		names = append(names, c.Aliases...)
		return true
	})
	return names
}

// Match resolves text to a command. It tries the longest word prefix of
// text against names, then aliases, dropping one trailing word per attempt;
// the words after the match are returned as the remainder. With no match
// the catch-all receives the whole text, unless the leading words name a
// command group, which yields a ResolutionError carrying the group.
func (r *Registry) Match(text string) (*Command, string, error) {
	text = strings.TrimSpace(text)
	words := strings.Fields(text)

	for n := len(words); n > 0; n-- {
		candidate := strings.Join(words[:n], " ")
		if cmd, ok := r.index.Get(candidate); ok {
			return cmd, skipWords(text, n), nil
		}
		if cmd, ok := r.aliases[candidate]; ok {
			return cmd, skipWords(text, n), nil
		}
	}

	group := r.groupPrefix(words)
	if r.catchAll != nil && group == "" {
		return r.catchAll, text, nil
	}
	return nil, "", newResolutionError(text, group)
}

// groupPrefix returns the longest leading run of words that is a strict
// word prefix of some registered multi-word name, or "".
func (r *Registry) groupPrefix(words []string) string {
	for n := len(words); n > 0; n-- {
		prefix := strings.Join(words[:n], " ")
		if len(r.WithPrefix(prefix+" ")) > 0 {
			return prefix
		}
	}
	return ""
}

// skipWords returns text with its first n whitespace-separated words removed.
func skipWords(text string, n int) string {
	rest := text
	for i := 0; i < n; i++ {
		rest = strings.TrimLeft(rest, " \t")
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			return ""
		}
		rest = rest[idx:]
	}
	return strings.TrimSpace(rest)
}
