package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/shellkit/internal/errors"
)

// Command declares a shell command. Use holds the name followed by its
// positional arguments, e.g. "say <words...>" or "deep command [target]".
// Required args are written <name>, optional ones [name], and a trailing
// "..." inside the brackets marks the final arg variadic.
type Command struct {
	Use         string
	Aliases     []string
	Description string
	Options     []Option

	Hidden              bool
	AllowUnknownOptions bool

	// Mode commands start a nested prompt. Init runs on entry and Action
	// receives every later line verbatim in Args.Raw until "exit".
	Mode      bool
	Delimiter string

	// CatchAll commands receive input that matched no other command.
	CatchAll bool

	Action   Handler
	Init     Handler
	Validate func(args Args) error
	Cancel   func(inst *Instance)
	Done     func(inst *Instance)
	// Parse rewrites the full input line before execution. The rewritten
	// line is resolved again once; its own Parse is not applied.
	Parse func(line string) string
	// Help replaces the generated help text.
	Help         func(args Args) string
	Autocomplete DataSource

	name string
	args []Arg
}

// Name returns the command name parsed from Use.
func (c *Command) Name() string { return c.name }

// Args returns the positional arguments in resolution order.
func (c *Command) Args() []Arg { return c.args }

// Usage renders the usage line, e.g. "say [options] <words...>".
func (c *Command) Usage() string {
	parts := make([]string, 0, len(c.args)+2)
	if c.name != "" {
		parts = append(parts, c.name)
	}
	if len(c.Options) > 0 {
		parts = append(parts, "[options]")
	}
	for _, a := range c.args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// findLong finds an option by long flag, honoring the --no- prefix in
// either direction. negated reports whether the flag as written turns the
// option off.
func (c *Command) findLong(flag string) (opt *Option, negated bool) {
	for i := range c.Options {
		o := &c.Options[i]
		if o.Long == "" {
			continue
		}
		if o.Long == flag {
			return o, o.Negate
		}
		if o.Negate && o.Key() == flag {
			return o, false
		}
	}
	if strings.HasPrefix(flag, "no-") {
		for i := range c.Options {
			o := &c.Options[i]
			if o.Long == flag[3:] && o.Bool {
				return o, true
			}
		}
	}
	return nil, false
}

func (c *Command) findShort(flag string) *Option {
	for i := range c.Options {
		if c.Options[i].Short != "" && c.Options[i].Short == flag {
			return &c.Options[i]
		}
	}
	return nil
}

// findExact matches a token such as "-n" or "--limit" against declared flags.
func (c *Command) findExact(token string) *Option {
	switch {
	case strings.HasPrefix(token, "--"):
		o, _ := c.findLong(token[2:])
		return o
	case strings.HasPrefix(token, "-") && len(token) == 2:
		return c.findShort(token[1:])
	}
	return nil
}

// Arg is one positional argument slot.
type Arg struct {
	Name     string
	Required bool
	Variadic bool
}

func (a Arg) String() string {
	name := a.Name
	if a.Variadic {
		name += "..."
	}
	if a.Required {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

// Option declares a flag. Flags is written like "-n, --limit <count>":
// a <value> is required whenever the flag is given, a [value] may be
// omitted, and no value makes the option boolean. A long name starting
// with "no-" declares a negatable boolean keyed without the prefix; it
// defaults to true unless Default says otherwise.
type Option struct {
	Flags        string
	Description  string
	Default      any
	Autocomplete DataSource

	Short    string
	Long     string
	Required bool
	Optional bool
	Bool     bool
	Negate   bool
}

// Key is the name the option's value is stored under in Args.Options.
func (o *Option) Key() string {
	if o.Long != "" {
		return strings.TrimPrefix(o.Long, "no-")
	}
	return o.Short
}

// Flag returns the preferred flag spelling: the long form when declared.
func (o *Option) Flag() string {
	if o.Long != "" {
		return "--" + o.Long
	}
	return "-" + o.Short
}

func parseOption(o Option) (Option, error) {
	fields := strings.FieldsFunc(o.Flags, func(r rune) bool { return r == ',' || r == ' ' || r == '|' })
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "--"):
			o.Long = f[2:]
		case strings.HasPrefix(f, "-"):
			o.Short = f[1:]
		case strings.HasPrefix(f, "<"):
			o.Required = true
		case strings.HasPrefix(f, "["):
			o.Optional = true
		}
	}
	if o.Long == "" && o.Short == "" {
		return o, errors.New(errors.ErrRegistry,
			fmt.Sprintf("Option '%s' has no flag", o.Flags),
			"Declare flags like \"-b, --bool\" or \"--limit <n>\".")
	}
	o.Bool = !o.Required && !o.Optional
	o.Negate = o.Bool && strings.HasPrefix(o.Long, "no-")
	if o.Negate && o.Default == nil {
		o.Default = true
	}
	return o, nil
}

// parseUse splits Use into the command name and its sorted arguments.
func parseUse(use string) (string, []Arg, error) {
	var nameParts []string
	var args []Arg

	for _, tok := range strings.Fields(use) {
		first, last := tok[0], tok[len(tok)-1]
		bracketed := (first == '<' && last == '>') || (first == '[' && last == ']')
		if !bracketed {
			if len(args) > 0 {
				return "", nil, errors.New(errors.ErrRegistry,
					fmt.Sprintf("Unexpected word '%s' after arguments in '%s'", tok, use),
					"Command names come before <required> and [optional] arguments.")
			}
			nameParts = append(nameParts, tok)
			continue
		}

		inner := tok[1 : len(tok)-1]
		arg := Arg{Required: first == '<'}
		if strings.HasSuffix(inner, "...") {
			arg.Variadic = true
			inner = strings.TrimSuffix(inner, "...")
		}
		if inner == "" {
			return "", nil, errors.New(errors.ErrRegistry,
				fmt.Sprintf("Empty argument name in '%s'", use), "")
		}
		arg.Name = inner
		args = append(args, arg)
	}

	sort.SliceStable(args, func(i, j int) bool {
		return argRank(args[i]) < argRank(args[j])
	})

	variadic := 0
	for _, a := range args {
		if a.Variadic {
			variadic++
		}
	}
	if variadic > 1 {
		return "", nil, errors.New(errors.ErrRegistry,
			fmt.Sprintf("'%s' declares %d variadic arguments", use, variadic),
			"Only the final positional argument may be variadic.")
	}

	return strings.Join(nameParts, " "), args, nil
}

// argRank orders required before optional, with the variadic slot last.
func argRank(a Arg) int {
	switch {
	case a.Variadic:
		return 2
	case a.Required:
		return 0
	default:
		return 1
	}
}
