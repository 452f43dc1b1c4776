package httpapi

import "context"

// Responder produces the assistant reply for one user message.
type Responder interface {
	Respond(ctx context.Context, userID, userInput string) (string, error)
}

// EchoResponder answers every message with the message itself.
type EchoResponder struct{}

func (EchoResponder) Respond(_ context.Context, _ string, userInput string) (string, error) {
	return userInput, nil
}

// ResponderFunc adapts a plain function to Responder.
type ResponderFunc func(ctx context.Context, userID, userInput string) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, userID, userInput string) (string, error) {
	return f(ctx, userID, userInput)
}
