package terminal

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/pkg/shell"
)

// FormPrompter answers shell questions with huh forms.
//
// Suspend and Resume, when set, run around each form so it can take over
// a terminal that another program is drawing on.
type FormPrompter struct {
	Suspend    func() error
	Resume     func() error
	Accessible bool
}

var _ shell.Prompter = (*FormPrompter)(nil)

// Ask shows q as a one-field form and waits for the answer.
func (f *FormPrompter) Ask(ctx context.Context, q shell.Question) (shell.Answer, error) {
	field, answer, err := buildField(q)
	if err != nil {
		return shell.Answer{}, err
	}

	if f.Suspend != nil {
		if err := f.Suspend(); err != nil {
			return shell.Answer{}, errors.WrapWithCode(err, errors.ErrAction,
				"Couldn't hand the terminal to the prompt", "")
		}
		if f.Resume != nil {
			defer func() { _ = f.Resume() }()
		}
	}

	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(f.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return shell.Answer{}, errors.New(errors.ErrAction, "Prompt cancelled", "")
		}
		return shell.Answer{}, errors.WrapWithCode(err, errors.ErrAction,
			"Failed to get user input", "")
	}
	return answer(), nil
}

// buildField maps a question onto a huh field bound to a local value.
func buildField(q shell.Question) (huh.Field, func() shell.Answer, error) {
	switch q.Kind {
	case shell.AskConfirm:
		ok, _ := strconv.ParseBool(q.Default)
		field := huh.NewConfirm().Title(q.Message).Value(&ok)
		return field, func() shell.Answer {
			return shell.Answer{Value: strconv.FormatBool(ok), Confirmed: ok}
		}, nil

	case shell.AskSelect:
		if len(q.Choices) == 0 {
			return nil, nil, errors.New(errors.ErrAction,
				"Select question has no choices",
				"Set Question.Choices before asking.")
		}
		value := q.Default
		field := huh.NewSelect[string]().
			Title(q.Message).
			Options(huh.NewOptions(q.Choices...)...).
			Value(&value)
		return field, func() shell.Answer { return shell.Answer{Value: value} }, nil

	default:
		value := q.Default
		field := huh.NewInput().Title(q.Message).Value(&value)
		return field, func() shell.Answer { return shell.Answer{Value: value} }, nil
	}
}
