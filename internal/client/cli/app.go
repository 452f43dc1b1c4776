package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/dmitrijs2005/lulu/internal/client/client"
	"github.com/dmitrijs2005/lulu/internal/client/config"
	"github.com/dmitrijs2005/lulu/internal/client/conversation"
	"github.com/dmitrijs2005/lulu/internal/client/coordinator"
	"github.com/dmitrijs2005/lulu/internal/client/session"
	"github.com/dmitrijs2005/lulu/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single liveness probe.
const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	api    client.Client
	coord  *coordinator.Coordinator
	lines  lineReader
	closer io.Closer
	out    io.Writer
	render *renderer

	modeMu sync.Mutex
	mode   Mode
}

// NewApp builds the HTTP client and the state machines from c. Line editing
// is enabled when stdin is a terminal.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	var (
		lines  lineReader
		closer io.Closer
		out    io.Writer = os.Stdout
	)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "lulu> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return nil, fmt.Errorf("initializing line editor: %w", err)
		}
		lines, closer, out = rl, rl, rl.Stdout()
	} else {
		lines = newScannerLines(os.Stdin, os.Stdout)
	}

	app := newApp(c, api, lines, out, logger)
	app.closer = closer
	return app, nil
}

func newApp(c *config.Config, api client.Client, lines lineReader, out io.Writer, logger logging.Logger) *App {
	s := session.NewManager(api, session.WithLogger(logger))
	s.OnLogout(api.ForgetToken)
	conv := conversation.NewController(api, conversation.WithLogger(logger))

	return &App{
		config: c,
		logger: logger.With("module", "cli"),
		api:    api,
		coord:  coordinator.New(s, conv),
		lines:  lines,
		out:    out,
		render: newRenderer(out, c.Color),
	}
}

// Run starts the status watcher and blocks in the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if a.closer != nil {
		defer a.closer.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.render.info("Welcome to lulu (type 'help' for commands)")
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.lines)
}

func (a *App) isLoggedIn() bool {
	return a.coord.Session().Authenticated()
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	var parts []string
	if id, ok := a.coord.Session().Identity(); ok {
		parts = append(parts, id.Username)
	}
	if mode := a.Mode(); mode != ModeUnknown {
		parts = append(parts, string(mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// StartOnlineStatusWatcher probes the server immediately and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.logger.Debug(ctx, "ping failed", "error", err)
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
