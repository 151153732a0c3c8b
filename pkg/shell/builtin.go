package shell

import (
	"context"
	"strings"
)

func (sh *Shell) registerBuiltins() {
	builtins := []Command{
		{
			Use:         "help [command...]",
			Description: "Provides help for a given command.",
			Action: Sync(func(ctx context.Context, in *Instance, args Args) error {
				in.Log(sh.helpText(args.Strings("command")))
				return nil
			}),
			Autocomplete: Func(func(ctx context.Context, f Fragment) []string {
				return sh.registry.Names()
			}),
		},
		{
			Use:         "exit",
			Aliases:     []string{"quit"},
			Description: "Exits application.",
			Action: Sync(func(ctx context.Context, in *Instance, args Args) error {
				in.session.emit(Event{Kind: EventExit, Command: "exit", Input: in.Input()})
				return nil
			}),
		},
	}

	for _, c := range builtins {
		if _, err := sh.registry.Add(c); err != nil {
			invariant("builtin registration failed: " + err.Error())
		}
	}
}

// helpText resolves "help <words>" to command help, group help, or
// general help when nothing matches.
func (sh *Shell) helpText(words []string) string {
	if len(words) == 0 {
		return GeneralHelp(sh.registry)
	}
	name := strings.Join(words, " ")
	if cmd := sh.registry.Lookup(name); cmd != nil {
		return helpFor(sh.registry, cmd, Args{Help: true})
	}
	if len(sh.registry.WithPrefix(name+" ")) > 0 {
		return GroupHelp(sh.registry, name)
	}
	return GeneralHelp(sh.registry)
}
