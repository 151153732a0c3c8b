package shell

import (
	"context"
	"sort"
	"strings"
)

// Fragment describes the word a data source is asked to complete.
type Fragment struct {
	// Text is the partial word under the cursor. Sources that complete
	// paths should list entries of the directory up to its last '/'; the
	// engine matches against the part after it.
	Text string
	// Line is the active pipe segment up to the cursor.
	Line    string
	Command *Command
	// Option is set when completing the value of this option.
	Option *Option
}

// DataSource supplies completion candidates. Use Static, Func or Async.
type DataSource interface {
	candidates(ctx context.Context, f Fragment) []string
}

// Static is a fixed candidate list.
type Static []string

func (s Static) candidates(context.Context, Fragment) []string {
	return append([]string(nil), s...)
}

// Func computes candidates synchronously.
type Func func(ctx context.Context, f Fragment) []string

func (fn Func) candidates(ctx context.Context, f Fragment) []string {
	return fn(ctx, f)
}

// Async delivers candidates on a channel. Completion waits for the first
// value or for ctx to end.
type Async func(ctx context.Context, f Fragment) <-chan []string

func (a Async) candidates(ctx context.Context, f Fragment) []string {
	ch := a(ctx, f)
	if ch == nil {
		return nil
	}
	select {
	case c := <-ch:
		return c
	case <-ctx.Done():
		return nil
	}
}

// Completion is what a tab press produces. Either Line is set (the whole
// input with one completion applied, Cursor placed after it), Candidates
// lists the ambiguous matches to show, or Hold marks the first tab of an
// ambiguous match, which shows nothing yet.
type Completion struct {
	Line       string
	Cursor     int
	Candidates []string
	Hold       bool
}

// Empty reports whether the completion changes nothing.
func (c Completion) Empty() bool {
	return c.Line == "" && len(c.Candidates) == 0 && !c.Hold
}

// completion is the engine's raw answer before tab counting.
type completion struct {
	line   string
	cursor int
	list   []string
	freeze bool
	ok     bool
}

// Complete completes input at cursor (a byte offset) and applies the
// repeated-tab rule: a candidate list is held on the first consecutive tab
// and shown on the second, unless the previous completion ended in '/'.
func (s *Session) Complete(ctx context.Context, input string, cursor int) Completion {
	raw := complete(ctx, s.registry(), s.Mode(), input, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !raw.ok:
		s.tabs = 0
		return Completion{}
	case raw.list != nil:
		s.tabs++
		if s.tabs > 1 {
			return Completion{Candidates: raw.list}
		}
		return Completion{Hold: true}
	default:
		if raw.freeze {
			s.tabs++
		} else {
			s.tabs = 0
		}
		return Completion{Line: raw.line, Cursor: raw.cursor}
	}
}

func complete(ctx context.Context, reg *Registry, mode *Command, input string, cursor int) completion {
	if cursor < 0 || cursor > len(input) {
		cursor = len(input)
	}
	before, suffix := input[:cursor], input[cursor:]

	if mode != nil {
		if mode.Autocomplete == nil {
			return completion{}
		}
		lead, word := splitLastWord(before)
		cands := mode.Autocomplete.candidates(ctx, Fragment{Text: word, Line: before, Command: mode})
		return applyMatch(lead, word, suffix, cands, false)
	}

	sections := splitSegments(before)
	segment := sections[len(sections)-1]
	prefix := strings.Join(sections[:len(sections)-1], "|")
	if len(sections) > 1 {
		prefix += "|"
	}
	trimmed := strings.TrimLeft(segment, " ")
	lead := prefix + segment[:len(segment)-len(trimmed)]

	if c := applyMatch(lead, trimmed, suffix, reg.Names(), true); c.ok {
		return c
	}

	cmd, consumed := commandFor(reg, trimmed)
	if cmd == nil {
		return completion{}
	}
	argText := trimmed[consumed:]
	argLead, word := splitLastWord(argText)

	var cands []string
	ignoreSlashes := false
	fragment := Fragment{Text: word, Line: trimmed, Command: cmd}

	prev := ""
	if fields := strings.Fields(argLead); len(fields) > 0 {
		prev = fields[len(fields)-1]
	}

	switch {
	case strings.HasPrefix(word, "-") && !cmd.AllowUnknownOptions:
		for _, o := range cmd.Options {
			cands = append(cands, o.Flag())
		}
		ignoreSlashes = true
	case optionSource(cmd, prev) != nil:
		fragment.Option = cmd.findExact(prev)
		cands = fragment.Option.Autocomplete.candidates(ctx, fragment)
	case cmd.Autocomplete != nil:
		cands = cmd.Autocomplete.candidates(ctx, fragment)
	default:
		return completion{}
	}

	return applyMatch(lead+trimmed[:consumed]+argLead, word, suffix, filterTyped(cands, argLead), ignoreSlashes)
}

// optionSource returns the value source of the value-taking option named
// by token, or nil.
func optionSource(cmd *Command, token string) DataSource {
	if token == "" {
		return nil
	}
	opt := cmd.findExact(token)
	if opt == nil || opt.Bool || opt.Autocomplete == nil {
		return nil
	}
	return opt.Autocomplete
}

// commandFor finds the longest command name that text extends past with a
// space, falling back to the catch-all. consumed is the byte length of the
// name and its separating space.
func commandFor(reg *Registry, text string) (*Command, int) {
	words := strings.Fields(text)
	for n := len(words); n > 0; n-- {
		name := strings.Join(words[:n], " ")
		if !strings.HasPrefix(text, name+" ") {
			continue
		}
		if c := reg.Lookup(name); c != nil {
			return c, len(name) + 1
		}
	}
	return reg.CatchAll(), 0
}

// applyMatch matches typed against cands and rebuilds the line around it.
func applyMatch(lead, typed, suffix string, cands []string, ignoreSlashes bool) completion {
	single, list, ok := matchCandidates(typed, cands, ignoreSlashes)
	if !ok {
		return completion{}
	}
	if list != nil {
		return completion{list: list, ok: true}
	}
	return completion{
		line:   lead + single + suffix,
		cursor: len(lead) + len(single),
		freeze: strings.HasSuffix(single, "/"),
		ok:     true,
	}
}

// matchCandidates applies the longest-common-prefix rule. A single match
// gains a trailing space unless it ends in '/'. When the common prefix adds
// nothing to what was typed, every match is returned as a list. Unless
// ignoreSlashes is set, only the part of typed after its last '/' is matched
// and the directory part is kept.
func matchCandidates(typed string, cands []string, ignoreSlashes bool) (single string, list []string, ok bool) {
	dir := ""
	if !ignoreSlashes {
		if idx := strings.LastIndex(typed, "/"); idx >= 0 {
			dir, typed = typed[:idx+1], typed[idx+1:]
		}
	}

	sorted := append([]string(nil), cands...)
	sort.Strings(sorted)

	var matches []string
	for _, c := range sorted {
		if strings.HasPrefix(c, typed) {
			matches = append(matches, c)
		}
	}

	switch {
	case len(matches) == 0:
		return "", nil, false
	case len(matches) == 1:
		m := dir + matches[0]
		if !strings.HasSuffix(m, "/") {
			m += " "
		}
		return m, nil, true
	case typed == "":
		return "", matches, true
	}

	lcp := longestCommonPrefix(matches)
	if len(lcp) == len(typed) {
		return "", matches, true
	}
	return dir + lcp, nil, true
}

func longestCommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, it := range items[1:] {
		n := 0
		for n < len(prefix) && n < len(it) && prefix[n] == it[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// filterTyped strips words already typed from multi-word candidates.
func filterTyped(cands []string, typed string) []string {
	words := strings.Fields(typed)
	if len(words) == 0 {
		return cands
	}
	head := strings.Join(words, " ") + " "
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		if strings.Contains(c, " ") && strings.HasPrefix(c, head) {
			c = strings.TrimPrefix(c, head)
		}
		out = append(out, c)
	}
	return out
}

// splitLastWord splits s into everything through its last space and the
// word after it.
func splitLastWord(s string) (lead, word string) {
	idx := strings.LastIndexAny(s, " \t")
	if idx < 0 {
		return "", s
	}
	return s[:idx+1], s[idx+1:]
}
