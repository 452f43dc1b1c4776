// Package coordinator composes the session and the conversation: chat is
// only reachable while a user is signed in, and signing out wipes it.
package coordinator

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/lulu/internal/client/conversation"
	"github.com/dmitrijs2005/lulu/internal/client/session"
)

var ErrNotAuthenticated = errors.New("sign in to start chatting")

// Snapshot is the combined view rendered by the presentation layer.
type Snapshot struct {
	Session      session.Snapshot
	Conversation conversation.Snapshot
}

type Coordinator struct {
	session *session.Manager
	conv    *conversation.Controller
}

// New wires conv.Reset into the session's logout hooks.
func New(s *session.Manager, c *conversation.Controller) *Coordinator {
	s.OnLogout(c.Reset)
	return &Coordinator{session: s, conv: c}
}

func (c *Coordinator) Session() *session.Manager { return c.session }

func (c *Coordinator) Conversation() *conversation.Controller { return c.conv }

func (c *Coordinator) UpdateDraft(username, password string) {
	c.session.UpdateDraft(username, password)
}

func (c *Coordinator) SubmitCredentials(ctx context.Context, username, password string, intent session.Intent) error {
	return c.session.SubmitCredentials(ctx, username, password, intent)
}

func (c *Coordinator) ToggleIntent() error {
	return c.session.ToggleIntent()
}

func (c *Coordinator) Logout() error {
	return c.session.Logout()
}

func (c *Coordinator) Compose(text string) error {
	if !c.session.Authenticated() {
		return ErrNotAuthenticated
	}
	c.conv.Compose(text)
	return nil
}

func (c *Coordinator) Send(ctx context.Context) (conversation.Outcome, error) {
	if !c.session.Authenticated() {
		return conversation.OutcomeNone, ErrNotAuthenticated
	}
	return c.conv.Send(ctx)
}

func (c *Coordinator) Snapshot() Snapshot {
	return Snapshot{
		Session:      c.session.Snapshot(),
		Conversation: c.conv.Snapshot(),
	}
}
