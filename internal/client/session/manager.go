// Package session owns the client's identity state and drives the
// sign-up / sign-in / logout transitions against the authentication service.
//
// States:
//
//	Anonymous --SubmitCredentials--> Authenticating --success(SignIn)--> Authenticated
//	                                       |        --success(SignUp)--> Anonymous (intent reset to SignIn)
//	                                       +--------failure------------> Anonymous (error slate set)
//	Authenticated --Logout--> Anonymous
//
// At most one authentication request is in flight; further submissions are
// rejected with ErrBusy rather than queued.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lulu/internal/client/client"
	"github.com/dmitrijs2005/lulu/internal/client/models"
	"github.com/dmitrijs2005/lulu/internal/logging"
)

// State is the identity state of the session.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Intent selects the auth endpoint used by the next submission.
type Intent int

const (
	SignIn Intent = iota
	SignUp
)

func (i Intent) String() string {
	if i == SignUp {
		return "sign-up"
	}
	return "sign-in"
}

const (
	// MsgAuthFailed is shown when the service gave no detail of its own.
	MsgAuthFailed = "Authentication failed"
	// MsgCredentialsRequired is the validation message for an empty field.
	MsgCredentialsRequired = "Username and password are required"
)

var (
	ErrEmptyCredentials     = errors.New("username and password are required")
	ErrBusy                 = errors.New("authentication already in progress")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotAuthenticated     = errors.New("not authenticated")
)

// Snapshot is a consistent, copy-safe view of the manager.
type Snapshot struct {
	State    State
	Intent   Intent
	Identity *models.Identity
	Draft    models.Credentials
	Err      string
}

type Manager struct {
	auth   client.AuthClient
	logger logging.Logger

	mu       sync.Mutex
	state    State
	intent   Intent
	identity *models.Identity
	draft    models.Credentials
	errMsg   string

	onLogout []func()
	onChange func(Snapshot)
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithOnChange registers fn to be called, outside the lock, after every
// state mutation.
func WithOnChange(fn func(Snapshot)) Option {
	return func(m *Manager) { m.onChange = fn }
}

func NewManager(auth client.AuthClient, opts ...Option) *Manager {
	m := &Manager{auth: auth, logger: logging.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("module", "session")
	return m
}

// OnLogout registers fn to run synchronously after every successful Logout,
// once the identity has been discarded.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	m.onLogout = append(m.onLogout, fn)
	m.mu.Unlock()
}

// UpdateDraft replaces the credentials draft. It is ignored once authenticated.
func (m *Manager) UpdateDraft(username, password string) {
	m.mu.Lock()
	if m.state == Authenticated {
		m.mu.Unlock()
		return
	}
	m.draft = models.Credentials{Username: username, Password: password}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

// SubmitCredentials runs one authentication attempt and blocks until it
// settles.
//
// On sign-in success the session becomes Authenticated. On sign-up success the
// session stays Anonymous with the intent reset to SignIn, so the user signs
// in as a separate step. On failure the session returns to Anonymous, the
// error slate holds the service's detail (or MsgAuthFailed) and the draft is
// kept for a retry.
func (m *Manager) SubmitCredentials(ctx context.Context, username, password string, intent Intent) error {
	creds := models.Credentials{Username: username, Password: password}

	m.mu.Lock()
	switch m.state {
	case Authenticating:
		m.mu.Unlock()
		return ErrBusy
	case Authenticated:
		m.mu.Unlock()
		return ErrAlreadyAuthenticated
	}

	m.draft = creds
	if creds.Empty() {
		m.errMsg = MsgCredentialsRequired
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.notify(snap)
		return ErrEmptyCredentials
	}

	m.state = Authenticating
	m.errMsg = ""
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	m.logger.Debug(ctx, "authenticating", "intent", intent.String(), "username", username)

	var (
		identity models.Identity
		err      error
	)
	if intent == SignUp {
		identity, err = m.auth.SignUp(ctx, creds)
	} else {
		identity, err = m.auth.SignIn(ctx, creds)
	}

	m.mu.Lock()
	switch {
	case err != nil:
		m.state = Anonymous
		m.errMsg = failureMessage(err)
		m.logger.Warn(ctx, "authentication failed", "intent", intent.String(), "error", err)
	case intent == SignUp:
		m.state = Anonymous
		m.intent = SignIn
		m.draft = models.Credentials{}
		m.logger.Info(ctx, "registered", "username", identity.Username)
	default:
		m.state = Authenticated
		m.identity = &identity
		m.draft = models.Credentials{}
		m.logger.Info(ctx, "signed in", "username", identity.Username, "user_id", identity.UserID)
	}
	snap = m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	if err != nil {
		return fmt.Errorf("%s: %w", intent, err)
	}
	return nil
}

func failureMessage(err error) string {
	if detail := client.Detail(err); detail != "" {
		return detail
	}
	return MsgAuthFailed
}

// ToggleIntent flips between sign-in and sign-up, discarding the draft and
// the error slate.
func (m *Manager) ToggleIntent() error {
	m.mu.Lock()
	if m.state == Authenticated {
		m.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	if m.intent == SignIn {
		m.intent = SignUp
	} else {
		m.intent = SignIn
	}
	m.errMsg = ""
	m.draft = models.Credentials{}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return nil
}

// Logout discards the identity and then runs the logout hooks.
func (m *Manager) Logout() error {
	m.mu.Lock()
	if m.state != Authenticated {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	username := m.identity.Username
	m.state = Anonymous
	m.identity = nil
	m.errMsg = ""
	hooks := append([]func(){}, m.onLogout...)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	m.logger.Info(context.Background(), "logged out", "username", username)
	m.notify(snap)
	return nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Authenticated() bool {
	return m.State() == Authenticated
}

func (m *Manager) Intent() Intent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intent
}

func (m *Manager) Identity() (models.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return models.Identity{}, false
	}
	return *m.identity, true
}

func (m *Manager) Draft() models.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Err returns the error slate, empty when there is nothing to show.
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{
		State:  m.state,
		Intent: m.intent,
		Draft:  m.draft,
		Err:    m.errMsg,
	}
	if m.identity != nil {
		id := *m.identity
		s.Identity = &id
	}
	return s
}

func (m *Manager) notify(s Snapshot) {
	if m.onChange != nil {
		m.onChange(s)
	}
}
