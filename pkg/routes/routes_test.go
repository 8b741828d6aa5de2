package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/prognosis/pkg/openapi"
	"github.com/JaimeStill/prognosis/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func runsGroup() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Tags:   []string{"Runs"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "List runs"}},
			{Method: "GET", Pattern: "/{id}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Find run", Tags: []string{"Custom"}}},
			{Method: "POST", Pattern: "/search", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/artifact",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Artifact"}},
				},
			},
		},
		Schemas: map[string]*openapi.Schema{"Run": {Type: "object"}},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, runsGroup())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/runs", http.StatusOK},
		{"GET", "/runs/abc", http.StatusOK},
		{"POST", "/runs/search", http.StatusOK},
		{"GET", "/runs/abc/artifact", http.StatusOK},
		{"DELETE", "/runs/abc", http.StatusMethodNotAllowed},
		{"GET", "/other", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("test", "1.0.0")
	routes.Describe(spec, "/api", runsGroup())

	list := spec.Paths["/api/runs"]["get"]
	if list == nil || list.Summary != "List runs" {
		t.Fatalf("/api/runs GET missing: %+v", spec.Paths["/api/runs"])
	}
	if len(list.Tags) != 1 || list.Tags[0] != "Runs" {
		t.Errorf("group tags not inherited: %v", list.Tags)
	}

	find := spec.Paths["/api/runs/{id}"]["get"]
	if find == nil || find.Tags[0] != "Custom" {
		t.Errorf("route tags overridden: %+v", find)
	}

	if _, ok := spec.Paths["/api/runs/search"]; ok {
		t.Error("undocumented route should be skipped")
	}
	if spec.Paths["/api/runs/{id}/artifact"]["get"] == nil {
		t.Error("child group not described")
	}
	if _, ok := spec.Components.Schemas["Run"]; !ok {
		t.Error("group schemas not merged")
	}
}

func TestDescribeRootPattern(t *testing.T) {
	spec := openapi.NewSpec("test", "1.0.0")
	routes.Describe(spec, "/predict", routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{$}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Predict"}},
		},
	})

	if spec.Paths["/predict"]["post"] == nil {
		t.Fatalf("paths = %v, want /predict POST", spec.Paths)
	}
}
