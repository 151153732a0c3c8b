package exec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/shellkit/internal/errors"
)

// commandNotFoundPatterns are regex patterns to detect "command not found" errors
// from various shells. These require exit code 127.
var commandNotFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bash: (?:line \d+: )?(\S+): command not found`),
	regexp.MustCompile(`(?i)zsh:\d*:? command not found: (\S+)`),
	regexp.MustCompile(`(?i)sh: \d+: (\S+): not found`),
	regexp.MustCompile(`(?i)(\S+): command not found`),
	regexp.MustCompile(`(?i)(\S+): not found`),
}

// IsCommandNotFound checks if the error output indicates a missing command.
// Returns the command name (if extractable) and whether it's a command-not-found error.
func IsCommandNotFound(stderr string, exitCode int) (string, bool) {
	// Exit code 127 is the standard for command not found
	if exitCode != 127 {
		return "", false
	}

	for _, pattern := range commandNotFoundPatterns {
		if matches := pattern.FindStringSubmatch(stderr); len(matches) > 1 {
			return matches[1], true
		}
	}
	return "", true
}

// HandleExecError turns a command-not-found exit into an ErrExec error
// naming the missing program. It returns nil for any other outcome.
func HandleExecError(cmd string, stderr string, exitCode int) error {
	name, notFound := IsCommandNotFound(stderr, exitCode)
	if !notFound {
		return nil
	}
	if name == "" {
		name = "command"
		if parts := strings.Fields(cmd); len(parts) > 0 {
			name = parts[0]
		}
	}
	return errors.New(errors.ErrExec,
		fmt.Sprintf("'%s' not found in PATH", name),
		fmt.Sprintf("Install '%s' or check your PATH.", name))
}
