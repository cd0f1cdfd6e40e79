// Package module groups a prefix, an inner router and a middleware stack
// into one mountable unit, and dispatches between units by prefix.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/slopjournal/pkg/middleware"
)

// Module serves every request under a single-segment prefix such as
// "/api". The prefix is stripped before the inner router sees the path.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
	handler    http.Handler
}

// New returns a Module for prefix. It panics on a prefix that is empty,
// lacks a leading slash or spans more than one segment.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
		handler:    router,
	}
}

// Handler returns the inner router wrapped in the module middleware.
func (m *Module) Handler() http.Handler {
	return m.handler
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the prefix and runs the wrapped router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.handler.ServeHTTP(w, stripPrefix(req, m.prefix))
}

// Use appends mw to the stack. Middleware must be registered before the
// module starts serving.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
	m.handler = m.middleware.Apply(m.router)
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	out := req.Clone(req.Context())
	u := *req.URL
	u.Path = path
	u.RawPath = ""
	out.URL = &u
	return out
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}

