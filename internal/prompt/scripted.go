package prompt

import (
	"fmt"
	"slices"
)

var _ Prompter = (*Scripted)(nil)

// Answer is one scripted response. Exactly one field is meaningful,
// depending on the question it answers.
type Answer struct {
	Text    string
	Confirm bool
	Choices []string
	// UseDefault answers Text, Editor, Confirm and Select with the default.
	UseDefault bool
	Err        error
}

// Scripted answers prompts from a queue, for tests.
type Scripted struct {
	Answers []Answer
	// Asked records every message in the order it was asked.
	Asked []string
}

// NewScripted returns a Scripted prompter answering in order.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next(message string) (Answer, error) {
	s.Asked = append(s.Asked, message)
	if len(s.Answers) == 0 {
		return Answer{}, fmt.Errorf("unexpected prompt %q: %w", message, ErrInteractiveDisabled)
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, a.Err
}

// Text returns the next scripted text.
func (s *Scripted) Text(message, def string) (string, error) {
	a, err := s.next(message)
	if err != nil {
		return "", err
	}
	if a.UseDefault || a.Text == "" {
		return def, nil
	}
	return a.Text, nil
}

// Editor returns the next scripted text.
func (s *Scripted) Editor(message, def string) (string, error) {
	a, err := s.next(message)
	if err != nil {
		return "", err
	}
	if a.UseDefault {
		return def, nil
	}
	return a.Text, nil
}

// Confirm returns the next scripted confirmation.
func (s *Scripted) Confirm(message string, def bool) (bool, error) {
	a, err := s.next(message)
	if err != nil {
		return false, err
	}
	if a.UseDefault {
		return def, nil
	}
	return a.Confirm, nil
}

// Select returns the next scripted text, which must be one of options.
func (s *Scripted) Select(message string, options []string, def string) (string, error) {
	a, err := s.next(message)
	if err != nil {
		return "", err
	}
	choice := a.Text
	if a.UseDefault {
		choice = def
	}
	if !slices.Contains(options, choice) {
		return "", fmt.Errorf("scripted answer %q is not one of %v", choice, options)
	}
	return choice, nil
}

// MultiSelect returns the next scripted choices, which must all be options.
func (s *Scripted) MultiSelect(message string, options []string) ([]string, error) {
	a, err := s.next(message)
	if err != nil {
		return nil, err
	}
	for _, c := range a.Choices {
		if !slices.Contains(options, c) {
			return nil, fmt.Errorf("scripted answer %q is not one of %v", c, options)
		}
	}
	return a.Choices, nil
}

// Remaining reports how many answers were not consumed.
func (s *Scripted) Remaining() int {
	return len(s.Answers)
}
