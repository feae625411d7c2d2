package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	tea "github.com/charmbracelet/bubbletea"
)

var _ Prompter = Terminal{}

// Terminal prompts on stdin/stdout. Single-line questions use bubbletea,
// lists and the editor use survey.
type Terminal struct{}

// Text asks for one line of input.
func (Terminal) Text(message, def string) (string, error) {
	if !Interactive() {
		return "", ErrInteractiveDisabled
	}

	p := tea.NewProgram(newTextInputModel(message, def), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return "", err
	}
	final, ok := model.(textInputModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T", model)
	}
	if final.err != nil {
		return "", final.err
	}
	value := strings.TrimSpace(final.textInput.Value())
	if value == "" {
		return def, nil
	}
	return value, nil
}

// Confirm asks a yes/no question.
func (Terminal) Confirm(message string, def bool) (bool, error) {
	if !Interactive() {
		return false, ErrInteractiveDisabled
	}

	p := tea.NewProgram(confirmModel{prompt: message, choice: def}, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return false, err
	}
	final, ok := model.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type %T", model)
	}
	if final.err != nil {
		return false, final.err
	}
	return final.choice, nil
}

// Editor opens $EDITOR with def as the initial content.
func (Terminal) Editor(message, def string) (string, error) {
	if !Interactive() {
		return "", ErrInteractiveDisabled
	}

	var body string
	prompt := &survey.Editor{
		Message:       message,
		Default:       def,
		HideDefault:   true,
		AppendDefault: true,
		FileName:      "*.md",
	}
	if err := survey.AskOne(prompt, &body); err != nil {
		return "", mapSurveyErr(err)
	}
	return strings.TrimSpace(body), nil
}

// Select asks for one of options.
func (Terminal) Select(message string, options []string, def string) (string, error) {
	if !Interactive() {
		return "", ErrInteractiveDisabled
	}
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}

	var selected string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	for _, o := range options {
		if o == def {
			prompt.Default = def
			break
		}
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", mapSurveyErr(err)
	}
	return selected, nil
}

// MultiSelect asks for any subset of options.
func (Terminal) MultiSelect(message string, options []string) ([]string, error) {
	if !Interactive() {
		return nil, ErrInteractiveDisabled
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, mapSurveyErr(err)
	}
	return selected, nil
}

func mapSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCanceled
	}
	return err
}
