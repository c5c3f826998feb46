package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sipico/staff-console/internal/console"
)

// restoreDoneMsg reports the startup session restore.
type restoreDoneMsg struct {
	err error
}

// loginDoneMsg reports a login attempt.
type loginDoneMsg struct {
	err error
}

// screenOp names an asynchronous screen operation.
type screenOp int

const (
	opLoad screenOp = iota
	opSubmit
	opRemove
)

// screenDoneMsg reports an asynchronous screen operation.
type screenDoneMsg struct {
	key string
	op  screenOp
	err error
}

// sessionRefreshedMsg reports a re-fetch of the signed-in identity.
type sessionRefreshedMsg struct {
	reload bool
	err    error
}

// questionMsg delivers a pending confirmation from the confirmer.
type questionMsg struct {
	question console.Question
}

// refreshMsg re-renders once a notification may have expired.
type refreshMsg struct{}

// listenForQuestion blocks until a screen asks for confirmation.
func listenForQuestion(questions <-chan console.Question) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-questions
		if !ok {
			return nil
		}
		return questionMsg{question: q}
	}
}

// afterNotice schedules a redraw just past the notification lifetime.
func afterNotice(ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl+50*time.Millisecond, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func runScreen(ctx context.Context, key string, op screenOp, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return screenDoneMsg{key: key, op: op, err: fn(ctx)}
	}
}
