package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/prognosis/pkg/module"
)

func TestNewInvalidPrefixPanics(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "predict"},
		{"nested path", "/api/v1"},
		{"root", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for invalid prefix")
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func newRouter(t *testing.T) (*module.Router, *string) {
	t.Helper()
	var seen string

	predict := http.NewServeMux()
	predict.HandleFunc("POST /{$}", func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	api := http.NewServeMux()
	api.HandleFunc("GET /runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path + "#" + r.PathValue("id")
		w.WriteHeader(http.StatusOK)
	})

	router := module.NewRouter()
	router.Mount(module.New("/predict", predict))
	router.Mount(module.New("/api", api))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		seen = "native"
		w.WriteHeader(http.StatusOK)
	})
	return router, &seen
}

func TestRouterDispatch(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		wantCode int
		wantSeen string
	}{
		{"POST", "/predict", http.StatusOK, "/"},
		{"POST", "/predict/", http.StatusOK, "/"},
		{"GET", "/predict", http.StatusMethodNotAllowed, ""},
		{"GET", "/api/runs/abc", http.StatusOK, "/runs/abc#abc"},
		{"GET", "/healthz", http.StatusOK, "native"},
		{"GET", "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			router, seen := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if *seen != tt.wantSeen {
				t.Errorf("handler saw %q, want %q", *seen, tt.wantSeen)
			}
		})
	}
}

func TestModuleMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /model", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	m := module.New("/api", mux)
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", m.Prefix())
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/model", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Module"); got != "/api" {
		t.Errorf("middleware header: got %q", got)
	}
}

func TestMountDuplicatePanics(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.NewServeMux()))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for duplicate prefix")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}

func TestPrefixes(t *testing.T) {
	router, _ := newRouter(t)
	got := router.Prefixes()
	if len(got) != 2 || got[0] != "/api" || got[1] != "/predict" {
		t.Errorf("Prefixes() = %v", got)
	}
}

func TestModuleLeavesRequestUntouched(t *testing.T) {
	m := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/model", nil)
	m.ServeHTTP(httptest.NewRecorder(), req)

	if req.URL.Path != "/api/model" {
		t.Errorf("request path mutated to %q", req.URL.Path)
	}
}
