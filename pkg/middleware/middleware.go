// Package middleware holds the HTTP wrappers shared by the journal modules
// and the stack that orders them.
package middleware

import (
	"net/http"
	"slices"
)

// System is an ordered middleware stack. The first Use call ends up
// outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

// New returns an empty stack.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	*s = append(*s, fn)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, fn := range slices.Backward(*s) {
		handler = fn(handler)
	}
	return handler
}
