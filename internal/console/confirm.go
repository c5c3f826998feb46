package console

import "context"

// Confirmer asks the user a yes/no question. A cancelled ctx counts as no.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Decline answers no to every question.
var Decline Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })

// Accept answers yes to every question.
var Accept Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// Question is a pending confirmation. Exactly one Answer is read per Question.
type Question struct {
	Prompt string
	reply  chan bool
}

// Answer delivers the user's choice. Only the first call has any effect.
func (q Question) Answer(yes bool) {
	select {
	case q.reply <- yes:
	default:
	}
}

// ChannelConfirmer publishes questions on a channel for an interactive
// front end to answer.
type ChannelConfirmer struct {
	questions chan Question
}

// NewChannelConfirmer returns a confirmer with an unbuffered question channel.
func NewChannelConfirmer() *ChannelConfirmer {
	return &ChannelConfirmer{questions: make(chan Question)}
}

// Questions is the stream of pending questions.
func (c *ChannelConfirmer) Questions() <-chan Question { return c.questions }

// Confirm blocks until the question is answered or ctx is done.
func (c *ChannelConfirmer) Confirm(ctx context.Context, prompt string) bool {
	q := Question{Prompt: prompt, reply: make(chan bool, 1)}
	select {
	case c.questions <- q:
	case <-ctx.Done():
		return false
	}
	select {
	case yes := <-q.reply:
		return yes
	case <-ctx.Done():
		return false
	}
}
