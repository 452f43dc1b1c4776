// Package cli provides the interactive lulu chat client.
//
// It wires configuration, the HTTP client, the session and conversation
// state machines, and an interactive REPL. Typical flow: sign up or sign in,
// then type messages; every line that is not a slash command is sent to the
// assistant and the reply is printed below it.
//
// Anonymous commands:
//   - help, login, register, switch, auth, exit | quit
//
// Signed-in commands:
//   - free text (sent as a message), /paste, /history, /error, /logout,
//     /help, /quit
//
// A background watcher pings the server and shows online/offline in the
// prompt. The REPL is started via App.Run(ctx), which blocks until the user
// exits.
package cli
