package shell

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/shellkit/internal/ui"
	"github.com/rileyhilliard/shellkit/internal/util"
)

const helpIndent = "  "

// CommandHelp renders usage, aliases, description and options for cmd.
func CommandHelp(cmd *Command) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%s %s\n", helpIndent, ui.HeadingStyle().Render("Usage:"), cmd.Usage())

	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&b, "\n%s%s: %s\n", helpIndent,
			util.Pluralize(len(cmd.Aliases), "Alias", "Aliases"),
			strings.Join(cmd.Aliases, " | "))
	}
	if cmd.Description != "" {
		fmt.Fprintf(&b, "\n%s%s\n", helpIndent, cmd.Description)
	}

	rows := [][2]string{{"--help", "output usage information"}}
	for _, o := range cmd.Options {
		rows = append(rows, [2]string{o.Flags, o.Description})
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", helpIndent, ui.HeadingStyle().Render("Options:"))
	b.WriteString(table(rows))
	return b.String()
}

// GroupHelp lists the visible commands under a command group.
func GroupHelp(reg *Registry, group string) string {
	var rows [][2]string
	for _, c := range reg.WithPrefix(group + " ") {
		if c.Hidden {
			continue
		}
		rows = append(rows, [2]string{c.Usage(), c.Description})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s%s\n\n", helpIndent, ui.HeadingStyle().Render("Commands:"))
	b.WriteString(table(rows))
	return b.String()
}

// GeneralHelp lists top-level commands, then multi-word command groups.
func GeneralHelp(reg *Registry) string {
	var rows [][2]string
	groups := make(map[string]int)
	var groupOrder []string

	for _, c := range reg.Commands() {
		if c.Hidden {
			continue
		}
		first, _, multi := strings.Cut(c.name, " ")
		if !multi {
			rows = append(rows, [2]string{c.Usage(), c.Description})
			continue
		}
		if groups[first] == 0 {
			groupOrder = append(groupOrder, first)
		}
		groups[first]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s%s\n\n", helpIndent, ui.HeadingStyle().Render("Commands:"))
	b.WriteString(table(rows))

	if len(groupOrder) > 0 {
		var groupRows [][2]string
		for _, g := range groupOrder {
			n := groups[g]
			groupRows = append(groupRows, [2]string{
				g + " *",
				fmt.Sprintf("%d %s.", n, util.Pluralize(n, "sub-command", "sub-commands")),
			})
		}
		fmt.Fprintf(&b, "\n%s%s\n\n", helpIndent, ui.HeadingStyle().Render("Command Groups:"))
		b.WriteString(table(groupRows))
	}
	return b.String()
}

// helpFor renders a command's custom help when it has one.
func helpFor(reg *Registry, cmd *Command, args Args) string {
	if cmd == nil {
		return GeneralHelp(reg)
	}
	if cmd.Help != nil {
		return cmd.Help(args)
	}
	return CommandHelp(cmd)
}

// table renders two aligned columns, the second muted.
func table(rows [][2]string) string {
	left := make([]string, len(rows))
	for n, r := range rows {
		left[n] = r[0]
	}
	width := ui.MaxWidth(left) + 4

	var b strings.Builder
	for _, r := range rows {
		line := helpIndent + helpIndent + ui.PadRight(r[0], width) + ui.MutedStyle().Render(r[1])
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func errorLine(msg string) string {
	return ui.ErrorStyle().Render(ui.SymbolFail + " " + msg)
}
