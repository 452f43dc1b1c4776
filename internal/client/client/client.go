package client

import (
	"context"

	"github.com/dmitrijs2005/lulu/internal/client/models"
)

// AuthClient is the authentication collaborator.
type AuthClient interface {
	SignUp(ctx context.Context, creds models.Credentials) (models.Identity, error)
	SignIn(ctx context.Context, creds models.Credentials) (models.Identity, error)
}

// InferenceClient is the conversational-AI collaborator.
type InferenceClient interface {
	Invoke(ctx context.Context, userInput string) (string, error)
}

// Client is everything the CLI needs from the remote side.
type Client interface {
	AuthClient
	InferenceClient
	Ping(ctx context.Context) error
	// ForgetToken drops the access token remembered from the last sign-in.
	ForgetToken()
}
