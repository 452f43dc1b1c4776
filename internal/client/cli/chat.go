package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/lulu/internal/client/conversation"
)

// Say sends text as one message and prints whatever the exchange appended.
func (a *App) Say(ctx context.Context, text string) error {
	if err := a.coord.Compose(text); err != nil {
		a.render.errorf("%s", err)
		return err
	}

	before := len(a.coord.Conversation().Transcript())
	outcome, err := a.coord.Send(ctx)

	switch outcome {
	case conversation.OutcomeReplied, conversation.OutcomeFailed:
		turns := a.coord.Conversation().Transcript()
		// the user turn was echoed by the terminal already
		for _, t := range turns[min(before+1, len(turns)):] {
			a.render.turn(t)
		}
		if msg := a.coord.Conversation().Err(); msg != "" {
			a.render.errorf("%s", msg)
		}
	case conversation.OutcomeDiscarded:
		a.logger.Debug(ctx, "reply discarded after reset")
	case conversation.OutcomeNone:
		if err != nil && !errors.Is(err, conversation.ErrEmptyMessage) {
			a.render.errorf("%s", err)
		}
	}
	return err
}

// Paste reads a multi-line message and sends it.
func (a *App) Paste(ctx context.Context) error {
	text, err := GetMultiline(a.lines, "Enter your message", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return a.Say(ctx, text)
}

// History prints the whole transcript.
func (a *App) History() {
	a.render.transcript(a.coord.Conversation().Transcript())
}

// LastError prints the conversation error slate.
func (a *App) LastError() {
	if msg := a.coord.Conversation().Err(); msg != "" {
		a.render.errorf("%s", msg)
		return
	}
	a.render.info("No errors.")
}
