// Package server runs the short-lived HTTP listener behind `solotter auth login`.
//
// Twitter redirects the browser to /callback with oauth_token and oauth_verifier once the user approves the app.
// [OAuthHandler] checks the token against the request token it was created with, exchanges the verifier for an
// access token pair and hands the result to the CLI through a channel. Only the first callback is processed;
// later ones get 400.
//
// [BasicRouter] maps [Handler] patterns onto an [http.ServeMux] and wraps them with [Middleware] such as
// [RequestLogger], which logs method, path and status without the query string.
package server
