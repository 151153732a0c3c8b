package shell

import "fmt"

// EventKind enumerates shell lifecycle notifications.
type EventKind int

const (
	EventCommandExecuted EventKind = iota + 1
	EventCommandError
	EventCommandCancelled
	EventModeEnter
	EventModeExit
	EventExit
	EventKeypress
	EventClientPrompt
)

func (k EventKind) String() string {
	switch k {
	case EventCommandExecuted:
		return "command_executed"
	case EventCommandError:
		return "command_error"
	case EventCommandCancelled:
		return "command_cancelled"
	case EventModeEnter:
		return "mode_enter"
	case EventModeExit:
		return "mode_exit"
	case EventExit:
		return "exit"
	case EventKeypress:
		return "keypress"
	case EventClientPrompt:
		return "client_prompt"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to listeners registered with Shell.On.
type Event struct {
	Kind     EventKind
	Session  *Session
	Command  string
	Input    string
	Err      error
	Keypress Keypress
}

// Listener receives events synchronously on the goroutine that raised them.
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}
