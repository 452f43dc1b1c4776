package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Switch() error
	Authenticate(ctx context.Context) error
	Say(ctx context.Context, text string) error
	Paste(ctx context.Context) error
	History()
	LastError()
	Logout() error
}

const (
	anonymousHelp = "Available commands: login, register, switch, auth, exit"
	signedInHelp  = "Type a message to chat. Commands: /paste, /history, /error, /logout, /quit"
)

// runREPL reads lines from lines and dispatches them to a until EOF, an
// interrupt on an empty line, ctx cancellation, or an explicit exit.
//
// The prompt shows the current status (from statusFn).
//
//	Not signed in:
//	  - help                show available commands
//	  - login               sign in
//	  - register            create an account
//	  - switch              toggle between sign-in and sign-up
//	  - auth                submit credentials with the current mode
//	  - exit | quit         leave the program
//
//	Signed in:
//	  - any text            send it as a message
//	  - /paste              send a multi-line message
//	  - /history            reprint the conversation
//	  - /error              show the last send error
//	  - /logout             sign out and clear the conversation
//	  - /help, /quit
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, lines lineReader) {
	for {
		if ctx.Err() != nil {
			return
		}

		lines.SetPrompt(fmt.Sprintf("lulu %s> ", statusFn()))
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				printlnFn("Bye!")
				return
			}
			continue
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var quit bool
		if a.isLoggedIn() {
			quit = signedIn(ctx, a, line)
		} else {
			quit = anonymous(ctx, a, line)
		}
		if quit {
			printlnFn("Bye!")
			return
		}
	}
}

func anonymous(ctx context.Context, a execIface, line string) bool {
	cmd := strings.Fields(line)[0]
	switch strings.TrimPrefix(cmd, "/") {
	case "help":
		printlnFn(anonymousHelp)
	case "login":
		_ = a.Login(ctx)
	case "register":
		_ = a.Register(ctx)
	case "switch":
		_ = a.Switch()
	case "auth":
		_ = a.Authenticate(ctx)
	case "exit", "quit":
		return true
	default:
		printlnFn("Unknown command:", cmd)
	}
	return false
}

func signedIn(ctx context.Context, a execIface, line string) bool {
	if !strings.HasPrefix(line, "/") {
		_ = a.Say(ctx, line)
		return false
	}

	cmd := strings.Fields(line)[0]
	switch cmd {
	case "/help":
		printlnFn(signedInHelp)
	case "/paste":
		_ = a.Paste(ctx)
	case "/history":
		a.History()
	case "/error":
		a.LastError()
	case "/logout":
		_ = a.Logout()
	case "/exit", "/quit":
		return true
	default:
		printlnFn("Unknown command:", cmd)
	}
	return false
}
