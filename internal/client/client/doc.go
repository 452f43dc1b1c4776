// Package client talks to the remote collaborators of the chat client.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts for the authentication service
//     (AuthClient: SignUp, SignIn) and the inference service
//     (InferenceClient: Invoke).
//  2. HTTPClient, a JSON-over-HTTP implementation of both that also remembers
//     an optional access token returned by sign-in and sends it as a bearer
//     token on Invoke.
//
// # Wire format
//
//	POST /signup, /signin   {"username","password"} -> {"user_id","username"[,"access_token"]}
//	POST /invoke?user_input=<escaped>                 -> text/plain reply
//	GET  /                                            -> liveness
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx replies are returned as
// *APIError carrying the status code and the service's "detail" message, if
// any. 401 and 403 replies also match ErrUnauthorized with errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call honours the context.
package client
