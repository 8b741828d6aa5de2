package module

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Router sends each request to the module owning its first path segment.
// Everything else goes to a fallback ServeMux.
type Router struct {
	modules  map[string]*Module
	fallback *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules:  map[string]*Module{},
		fallback: http.NewServeMux(),
	}
}

// HandleNative registers pattern on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.fallback.HandleFunc(pattern, handler)
}

// Mount adds m under its prefix. It panics if the prefix is already taken.
func (r *Router) Mount(m *Module) {
	if _, dup := r.modules[m.prefix]; dup {
		panic(fmt.Sprintf("module prefix %q already mounted", m.prefix))
	}
	r.modules[m.prefix] = m
}

// Prefixes lists mounted prefixes in sorted order.
func (r *Router) Prefixes() []string {
	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if trimmed := strings.TrimSuffix(path, "/"); trimmed != "" && trimmed != path {
		req = req.Clone(req.Context())
		req.URL.Path = trimmed
		path = trimmed
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if m, ok := r.modules["/"+segment]; ok {
		m.ServeHTTP(w, req)
		return
	}

	r.fallback.ServeHTTP(w, req)
}
