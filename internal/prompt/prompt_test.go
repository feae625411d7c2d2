package prompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestScripted(t *testing.T) {
	t.Run("answers in order", func(t *testing.T) {
		s := NewScripted(
			Answer{Text: "title"},
			Answer{UseDefault: true},
			Answer{Confirm: true},
			Answer{Text: "b"},
			Answer{Choices: []string{"x", "z"}},
		)

		text, err := s.Text("Title", "def")
		require.NoError(t, err)
		require.Equal(t, "title", text)

		body, err := s.Editor("Body", "default body")
		require.NoError(t, err)
		require.Equal(t, "default body", body)

		ok, err := s.Confirm("Sure?", false)
		require.NoError(t, err)
		require.True(t, ok)

		choice, err := s.Select("Pick", []string{"a", "b"}, "a")
		require.NoError(t, err)
		require.Equal(t, "b", choice)

		many, err := s.MultiSelect("Labels", []string{"x", "y", "z"})
		require.NoError(t, err)
		require.Equal(t, []string{"x", "z"}, many)

		require.Equal(t, []string{"Title", "Body", "Sure?", "Pick", "Labels"}, s.Asked)
		require.Zero(t, s.Remaining())
	})

	t.Run("empty text falls back to default", func(t *testing.T) {
		s := NewScripted(Answer{})
		text, err := s.Text("Title", "branch")
		require.NoError(t, err)
		require.Equal(t, "branch", text)
	})

	t.Run("exhausted script fails", func(t *testing.T) {
		s := NewScripted()
		_, err := s.Confirm("Sure?", true)
		require.ErrorIs(t, err, ErrInteractiveDisabled)
	})

	t.Run("invalid selection fails", func(t *testing.T) {
		s := NewScripted(Answer{Text: "nope"})
		_, err := s.Select("Pick", []string{"a"}, "a")
		require.Error(t, err)
	})

	t.Run("scripted error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		s := NewScripted(Answer{Err: boom})
		_, err := s.MultiSelect("Labels", []string{"x"})
		require.ErrorIs(t, err, boom)
	})
}

func TestInteractiveDisabledByEnv(t *testing.T) {
	t.Setenv(NoInteractiveEnv, "1")
	require.False(t, Interactive())

	var term Terminal
	_, err := term.Text("Title", "")
	require.ErrorIs(t, err, ErrInteractiveDisabled)
	_, err = term.Confirm("Sure?", true)
	require.ErrorIs(t, err, ErrInteractiveDisabled)
	_, err = term.Select("Pick", []string{"a"}, "a")
	require.ErrorIs(t, err, ErrInteractiveDisabled)
	_, err = term.MultiSelect("Pick", []string{"a"})
	require.ErrorIs(t, err, ErrInteractiveDisabled)
	_, err = term.Editor("Body", "")
	require.ErrorIs(t, err, ErrInteractiveDisabled)
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name   string
		def    bool
		key    tea.KeyMsg
		choice bool
		err    error
	}{
		{"enter keeps default yes", true, tea.KeyMsg{Type: tea.KeyEnter}, true, nil},
		{"enter keeps default no", false, tea.KeyMsg{Type: tea.KeyEnter}, false, nil},
		{"y accepts", false, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true, nil},
		{"N declines", true, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("N")}, false, nil},
		{"ctrl+c cancels", true, tea.KeyMsg{Type: tea.KeyCtrlC}, false, ErrCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, cmd := confirmModel{prompt: "Sure?", choice: tt.def}.Update(tt.key)
			require.NotNil(t, cmd)
			final := model.(confirmModel)
			require.True(t, final.done)
			require.ErrorIs(t, final.err, tt.err)
			if tt.err == nil {
				require.Equal(t, tt.choice, final.choice)
			}
			require.Empty(t, final.View())
		})
	}

	model, cmd := confirmModel{prompt: "Sure?"}.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.Nil(t, cmd)
	require.Contains(t, model.View(), "Sure? [y/N]")
}

func TestTextInputModel(t *testing.T) {
	m := newTextInputModel("Title", "feature")
	require.Contains(t, m.View(), "Title")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-x")})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	final := model.(textInputModel)
	require.True(t, final.done)
	require.NoError(t, final.err)
	require.Equal(t, "feature-x", final.textInput.Value())

	model, _ = newTextInputModel("Title", "").Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.ErrorIs(t, model.(textInputModel).err, ErrCanceled)
}
