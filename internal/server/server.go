package server

import (
	"net/http"
)

// Middleware decorates a handler, e.g. [RequestLogger].
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows its own ServeMux patterns ("GET /callback").
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers behind a middleware stack.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
}
