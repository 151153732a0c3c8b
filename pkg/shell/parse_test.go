package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPipes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantHead  string
		wantPipes []string
	}{
		{
			name:     "no pipe",
			raw:      "say hello",
			wantHead: "say hello",
		},
		{
			name:      "two stages",
			raw:       "say cheese | reverse",
			wantHead:  "say cheese",
			wantPipes: []string{"reverse"},
		},
		{
			name:      "three stages without spaces",
			raw:       "say a|reverse|upper",
			wantHead:  "say a",
			wantPipes: []string{"reverse", "upper"},
		},
		{
			name:     "pipe inside double quotes",
			raw:      `say "a | b"`,
			wantHead: `say "a | b"`,
		},
		{
			name:      "pipe inside single quotes then real pipe",
			raw:       `say 'x|y' | reverse`,
			wantHead:  `say 'x|y'`,
			wantPipes: []string{"reverse"},
		},
		{
			name:     "pipe inside backticks",
			raw:      "say `a|b`",
			wantHead: "say `a|b`",
		},
		{
			name:     "apostrophe inside double quotes keeps single quote open",
			raw:      `say "don't" | reverse`,
			wantHead: `say "don't" | reverse`,
		},
		{
			name:      "empty trailing stage",
			raw:       "say a |",
			wantHead:  "say a",
			wantPipes: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, pipes := SplitPipes(tt.raw)
			assert.Equal(t, tt.wantHead, head)
			if len(tt.wantPipes) == 0 {
				assert.Empty(t, pipes)
			} else {
				assert.Equal(t, tt.wantPipes, pipes)
			}
		})
	}
}

func TestSplitPipesIdempotent(t *testing.T) {
	inputs := []string{
		"say hello",
		"say cheese | reverse",
		"a|b|c",
		"  one   two |three four  |  five ",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			head, pipes := SplitPipes(raw)
			joined := strings.Join(append([]string{head}, pipes...), " | ")

			head2, pipes2 := SplitPipes(joined)
			assert.Equal(t, head, head2)
			assert.Equal(t, pipes, pipes2)
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "whitespace only", text: "   ", want: nil},
		{name: "plain words", text: "a  b\tc", want: []string{"a", "b", "c"}},
		{name: "double quoted", text: `say "hello world" x`, want: []string{"say", "hello world", "x"}},
		{name: "single quoted", text: `'a b'`, want: []string{"a b"}},
		{name: "other quote kinds are literal inside", text: `'it"s' "don't"`, want: []string{`it"s`, "don't"}},
		{name: "quotes join adjacent text", text: `--msg="a b"`, want: []string{"--msg=a b"}},
		{name: "empty quoted token", text: `say ""`, want: []string{"say", ""}},
		{name: "backticks", text: "run `ls -la`", want: []string{"run", "ls -la"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}
