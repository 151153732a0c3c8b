// Package cli implements the shellkit command-line interface.
//
// The Cobra root command loads config, builds a shell.Shell with the demo
// command set and config tasks, and hands the local session to a driver:
//
//	shellkit                 - interactive prompt (bubbletea), or line mode when piped
//	shellkit exec <line...>  - run one command line and exit
//	shellkit version         - print build information
//
// # Flag Handling
//
// Global flags (--config, --no-color, --verbose, --history-store) are
// persistent on the root command. --history-store and --verbose override
// the loaded config before it is validated.
//
// # Task Registration
//
// Each task in .shellkit.yaml becomes the shell command "task <name>",
// grouped under "task" so a bare "task" lists them. Words after the task
// name are shell-quoted and appended to the task's run command.
package cli
