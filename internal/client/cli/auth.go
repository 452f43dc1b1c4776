package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lulu/internal/client/session"
	"github.com/dmitrijs2005/lulu/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register switches to the sign-up form and prompts for credentials.
func (a *App) Register(ctx context.Context) error {
	if err := a.selectIntent(session.SignUp); err != nil {
		return err
	}
	return a.Authenticate(ctx)
}

// Login switches to the sign-in form and prompts for credentials.
func (a *App) Login(ctx context.Context) error {
	if err := a.selectIntent(session.SignIn); err != nil {
		return err
	}
	return a.Authenticate(ctx)
}

func (a *App) selectIntent(want session.Intent) error {
	if a.coord.Session().Intent() == want {
		return nil
	}
	if err := a.coord.ToggleIntent(); err != nil {
		a.render.errorf("%s", err)
		return err
	}
	return nil
}

// Switch toggles between the sign-in and sign-up forms.
func (a *App) Switch() error {
	if err := a.coord.ToggleIntent(); err != nil {
		a.render.errorf("%s", err)
		return err
	}
	a.render.info("Now in %s mode.", a.coord.Session().Intent())
	return nil
}

// Authenticate prompts for a username and password and submits them with the
// current intent. A username kept from a failed attempt is offered as the
// default.
func (a *App) Authenticate(ctx context.Context) error {
	s := a.coord.Session()
	intent := s.Intent()
	draft := s.Draft()

	prompt := "Enter username"
	if draft.Username != "" {
		prompt = fmt.Sprintf("Enter username [%s]", draft.Username)
	}
	username, err := getSimpleText(a.lines, prompt, a.out)
	if err != nil {
		return err
	}
	if username == "" {
		username = draft.Username
	}
	a.coord.UpdateDraft(username, "")

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.coord.SubmitCredentials(ctx, username, string(password), intent); err != nil {
		if msg := s.Err(); msg != "" {
			a.render.errorf("%s", msg)
		} else {
			a.render.errorf("%s", err)
		}
		return err
	}

	if intent == session.SignUp {
		a.render.info("Account %s created. Sign in with 'login' or 'auth'.", username)
		return nil
	}
	a.render.info("Signed in as %s. Type a message, or /help.", username)
	return nil
}

// Logout signs out and clears the conversation.
func (a *App) Logout() error {
	if err := a.coord.Logout(); err != nil {
		a.render.errorf("%s", err)
		return err
	}
	a.render.info("Signed out.")
	return nil
}
