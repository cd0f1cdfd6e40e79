package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/slopjournal/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/papers",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list papers", "GET", "/papers", http.StatusOK},
		{"get paper", "GET", "/papers/123", http.StatusOK},
		{"wrong method", "DELETE", "/papers/123", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/admin",
		Children: []routes.Group{
			{
				Prefix: "/queue",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/stats", Handler: ok},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/queue/stats", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}

func TestGroupMiddleware(t *testing.T) {
	var order []string

	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	mux := http.NewServeMux()
	routes.Register(
		mux,
		routes.Group{
			Prefix:     "/admin",
			Middleware: []func(http.Handler) http.Handler{tag("outer")},
			Children: []routes.Group{
				{
					Prefix:     "/sitemap",
					Middleware: []func(http.Handler) http.Handler{tag("inner")},
					Routes: []routes.Route{
						{Method: "POST", Pattern: "/regenerate", Handler: ok},
					},
				},
				{
					Prefix:     "/locked",
					Middleware: []func(http.Handler) http.Handler{deny},
					Routes: []routes.Route{
						{Method: "GET", Pattern: "", Handler: ok},
					},
				},
			},
		},
		routes.Group{
			Prefix: "/public",
			Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: ok}},
		},
	)

	t.Run("applies parent before child", func(t *testing.T) {
		order = nil
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/admin/sitemap/regenerate", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
			t.Errorf("order: got %v, want [outer inner]", order)
		}
	})

	t.Run("middleware can short circuit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/locked", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("sibling groups unaffected", func(t *testing.T) {
		order = nil
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/public", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.Code)
		}
		if len(order) != 0 {
			t.Errorf("middleware leaked into sibling group: %v", order)
		}
	})
}
