package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// Args is the resolved input for one command invocation.
type Args struct {
	// Positional maps arg names to a string, or []string for a variadic arg.
	Positional map[string]any
	// Options maps option keys to bool, int, float64 or string values.
	Options map[string]any
	// Stdin holds the values logged by the upstream pipe stage.
	Stdin []string
	// Raw is the argument text as typed, quotes intact. A mode's action
	// gets the whole trimmed input line.
	Raw string
	// Help is set by --help or /? on the command line.
	Help bool
}

// String returns a positional value; variadic values are space-joined.
func (a Args) String(name string) string {
	switch v := a.Positional[name].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	}
	return ""
}

// Strings returns a positional value as a list.
func (a Args) Strings(name string) []string {
	switch v := a.Positional[name].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	}
	return nil
}

// Has reports whether a positional or option was given.
func (a Args) Has(name string) bool {
	if _, ok := a.Positional[name]; ok {
		return true
	}
	_, ok := a.Options[name]
	return ok
}

// Bool returns a boolean option. Non-boolean values count as set.
func (a Args) Bool(key string) bool {
	v, ok := a.Options[key]
	if !ok {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	return true
}

// Opt returns a raw option value.
func (a Args) Opt(key string) (any, bool) {
	v, ok := a.Options[key]
	return v, ok
}

// OptString returns an option formatted as a string, or "" when absent.
func (a Args) OptString(key string) string {
	v, ok := a.Options[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// OptInt returns an option as an int, or def when absent or not numeric.
func (a Args) OptInt(key string, def int) int {
	switch v := a.Options[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (a Args) withStdin(stdin []string) Args {
	a.Stdin = stdin
	return a
}

// flagHit is one recognised or unknown flag occurrence.
type flagHit struct {
	key   string
	value any
}

// scanResult is the first pass over the tokens.
type scanResult struct {
	positionals []string
	flags       []flagHit
	errs        []string
	help        bool
}

// BuildArgs resolves text against cmd's declared arguments and options. It has
// no side effects. Errors come back as a *ValidationError; when --help or
// /? is present the errors are dropped and Args.Help is set instead.
func BuildArgs(text string, cmd *Command) (Args, error) {
	scan := scanTokens(Tokenize(text), cmd)

	args := Args{
		Positional: make(map[string]any),
		Options:    make(map[string]any),
		Raw:        strings.TrimSpace(text),
		Help:       scan.help,
	}
	errs := scan.errs

	for i, a := range cmd.args {
		if a.Variadic {
			var rest []string
			if i < len(scan.positionals) {
				rest = append(rest, scan.positionals[i:]...)
			}
			if len(rest) > 0 {
				args.Positional[a.Name] = rest
			} else if a.Required {
				errs = append(errs, "Missing required argument "+a.Name)
			}
			break
		}
		if i < len(scan.positionals) {
			args.Positional[a.Name] = scan.positionals[i]
		} else if a.Required {
			errs = append(errs, "Missing required argument "+a.Name)
		}
	}

	for _, hit := range scan.flags {
		args.Options[hit.key] = hit.value
	}
	for _, o := range cmd.Options {
		if _, set := args.Options[o.Key()]; !set && o.Default != nil {
			args.Options[o.Key()] = o.Default
		}
	}

	if args.Help {
		return args, nil
	}
	if len(errs) > 0 {
		return args, newValidationError(cmd.name, errs[0])
	}
	return args, nil
}

func scanTokens(tokens []string, cmd *Command) scanResult {
	var res scanResult
	endOfOptions := false

	// takeValue consumes the next token as a flag value when it is not a flag.
	takeValue := func(i int) (string, bool) {
		if i+1 < len(tokens) && !isFlag(tokens[i+1]) {
			return tokens[i+1], true
		}
		return "", false
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case endOfOptions:
			res.positionals = append(res.positionals, tok)

		case tok == "--":
			endOfOptions = true

		case tok == "/?":
			res.help = true

		case strings.HasPrefix(tok, "--"):
			name, value, hasValue := strings.Cut(tok[2:], "=")
			if name == "help" {
				res.help = true
				continue
			}
			opt, negated := cmd.findLong(name)
			if opt == nil {
				hit, consumed, err := unknownFlag(cmd, name, value, hasValue, tokens, i)
				if err != "" {
					res.errs = append(res.errs, err)
					continue
				}
				res.flags = append(res.flags, hit)
				if consumed {
					i++
				}
				continue
			}
			if opt.Bool {
				on := !negated
				if hasValue {
					on = parseBool(value) != negated
				}
				res.flags = append(res.flags, flagHit{key: opt.Key(), value: on})
				continue
			}
			if !hasValue {
				value, hasValue = takeValue(i)
				if hasValue {
					i++
				}
			}
			hit, err := optionValue(opt, value, hasValue)
			if err != "" {
				res.errs = append(res.errs, err)
				continue
			}
			res.flags = append(res.flags, hit)

		case isFlag(tok):
			cluster := tok[1:]
			for j := 0; j < len(cluster); j++ {
				short := string(cluster[j])
				opt := cmd.findShort(short)
				last := j == len(cluster)-1
				if opt == nil {
					if !cmd.AllowUnknownOptions {
						res.errs = append(res.errs, fmt.Sprintf("Invalid option: '%s'", short))
						continue
					}
					hit := flagHit{key: short, value: true}
					if last {
						if v, ok := takeValue(i); ok {
							hit.value = coerce(v)
							i++
						}
					}
					res.flags = append(res.flags, hit)
					continue
				}
				if opt.Bool {
					res.flags = append(res.flags, flagHit{key: opt.Key(), value: !opt.Negate})
					continue
				}
				value, hasValue := strings.TrimPrefix(cluster[j+1:], "="), !last
				if last {
					value, hasValue = takeValue(i)
					if hasValue {
						i++
					}
				}
				hit, err := optionValue(opt, value, hasValue)
				if err != "" {
					res.errs = append(res.errs, err)
				} else {
					res.flags = append(res.flags, hit)
				}
				break
			}

		default:
			res.positionals = append(res.positionals, tok)
		}
	}
	return res
}

// unknownFlag handles an undeclared long flag. consumed reports whether the
// following token was taken as its value.
func unknownFlag(cmd *Command, name, value string, hasValue bool, tokens []string, i int) (flagHit, bool, string) {
	if !cmd.AllowUnknownOptions {
		return flagHit{}, false, fmt.Sprintf("Invalid option: '%s'", name)
	}
	if strings.HasPrefix(name, "no-") && !hasValue {
		return flagHit{key: name[3:], value: false}, false, ""
	}
	if hasValue {
		return flagHit{key: name, value: coerce(value)}, false, ""
	}
	if i+1 < len(tokens) && !isFlag(tokens[i+1]) {
		return flagHit{key: name, value: coerce(tokens[i+1])}, true, ""
	}
	return flagHit{key: name, value: true}, false, ""
}

// optionValue resolves a value-taking option occurrence.
func optionValue(opt *Option, value string, hasValue bool) (flagHit, string) {
	if hasValue {
		return flagHit{key: opt.Key(), value: coerce(value)}, ""
	}
	if opt.Required {
		if opt.Default != nil {
			return flagHit{key: opt.Key(), value: opt.Default}, ""
		}
		return flagHit{}, "Missing required value for option " + opt.Flag()
	}
	return flagHit{key: opt.Key(), value: true}, ""
}

// isFlag reports whether tok looks like -x or --x. Negative numbers and a
// lone "-" are values.
func isFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if tok == "--" {
		return true
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err != nil
}

// coerce converts numeric option values to int or float64.
func coerce(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "false", "0", "no", "off":
		return false
	}
	return true
}
