// Package services implements the Twitter REST client used by the reconciliation engine.
//
// # Client
//
// [TwitterService] satisfies groups.Client. Endpoint names are v1.1 resources ("lists/members"); the client
// appends ".json" and encodes parameters in the query string for both GET and POST, since the list
// membership endpoints reject form bodies.
//
// # Authentication
//
// Requests are authenticated by the wrapped [http.Client]:
//   - [UserClient] signs with OAuth 1.0a using the stored user access token (read and write).
//   - [AppClient] uses an application-only bearer token (public reads only).
//
// [Authorizer] runs the three-legged login that produces the user access token.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which matches [shared.ErrRemoteAPI]. Transport and decoding failures
// also wrap [shared.ErrRemoteAPI].
//
// Only GET requests are retried (network errors, 429, 5xx). POST requests such as lists/members/create_all
// are not idempotent and are sent once.
package services
