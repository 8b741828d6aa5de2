package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/prognosis/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Paths == nil {
		t.Fatal("paths should not be nil")
	}
	if _, ok := spec.Components.Schemas["Error"]; !ok {
		t.Error("Error schema should be registered by default")
	}
	for _, name := range []string{"BadRequest", "NotFound", "TooLarge", "InternalError", "ServiceDisabled"} {
		if _, ok := spec.Components.Responses[name]; !ok {
			t.Errorf("default response %s missing", name)
		}
	}
}

func TestAddServerAndDescription(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddServer("http://localhost:5001")
	spec.SetDescription("A test API")

	if len(spec.Servers) != 1 || spec.Servers[0].URL != "http://localhost:5001" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Info.Description != "A test API" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	get := &openapi.Operation{Summary: "get"}
	post := &openapi.Operation{Summary: "post"}

	spec.AddOperation("/runs", http.MethodGet, get)
	spec.AddOperation("/runs", http.MethodPost, post)
	spec.AddOperation("/runs", http.MethodConnect, &openapi.Operation{Summary: "ignored"})

	item, ok := spec.Paths["/runs"]
	if !ok {
		t.Fatal("path not added")
	}
	if item["get"] != get || item["post"] != post {
		t.Errorf("operations not attached: %+v", item)
	}
	if len(item) != 2 {
		t.Errorf("CONNECT should be ignored, got %d operations", len(item))
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]struct {
			Summary string `json:"summary"`
		} `json:"paths"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Paths["/runs"]["post"].Summary != "post" {
		t.Errorf("encoded path item: %+v", doc.Paths["/runs"])
	}
}

func TestRefHelpers(t *testing.T) {
	if ref := openapi.SchemaRef("Run"); ref.Ref != "#/components/schemas/Run" {
		t.Errorf("schema ref: got %s", ref.Ref)
	}
	if ref := openapi.ResponseRef("NotFound"); ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref.Ref)
	}

	body := openapi.RequestBodyJSON("PredictRequest", true)
	if !body.Required || body.Content["application/json"].Schema.Ref != "#/components/schemas/PredictRequest" {
		t.Errorf("request body: got %+v", body)
	}

	param := openapi.PathParam("id", "Run ID")
	if param.In != "path" || !param.Required || param.Schema.Format != "uuid" {
		t.Errorf("path param: got %+v", param)
	}

	arr := openapi.ArrayOf(openapi.SchemaRef("Run"))
	if arr.Type != "array" || arr.Items.Ref != "#/components/schemas/Run" {
		t.Errorf("array: got %+v", arr)
	}

	bin := openapi.ResponseBinary("blob", "application/octet-stream")
	if bin.Content["application/octet-stream"].Schema.Format != "binary" || bin.Headers["Content-Disposition"] == nil {
		t.Errorf("binary response: got %+v", bin)
	}

	query := openapi.QueryParam("page", "integer", "Page", false)
	if query.In != "query" || query.Required || query.Schema.Type != "integer" {
		t.Errorf("query param: got %+v", query)
	}
}

func TestAddSchemas(t *testing.T) {
	c := openapi.NewComponents()
	c.AddSchemas(map[string]*openapi.Schema{"Run": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Conflict": {Description: "conflict"}})

	if _, ok := c.Schemas["Run"]; !ok {
		t.Error("Run schema not added")
	}
	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("default schema should survive merge")
	}
	if _, ok := c.Responses["Conflict"]; !ok {
		t.Error("Conflict response not added")
	}
}

func TestWriteJSON(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	path := filepath.Join(t.TempDir(), "spec.json")

	if err := openapi.WriteJSON(spec, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}
	if cc := res.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control: got %s", cc)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("body unmarshal failed: %v", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := openapi.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.Title != "Prognosis API" {
			t.Errorf("title: got %s, want Prognosis API", cfg.Title)
		}
		if cfg.Description == "" {
			t.Error("description should default")
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("TEST_TITLE", "Custom API")
		t.Setenv("TEST_DESC", "Custom desc")

		cfg := openapi.Config{}
		env := &openapi.ConfigEnv{Title: "TEST_TITLE", Description: "TEST_DESC"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.Title != "Custom API" || cfg.Description != "Custom desc" {
			t.Errorf("got %+v", cfg)
		}
	})

	t.Run("servers env", func(t *testing.T) {
		t.Setenv("TEST_SERVERS", "http://a.test, ,https://b.test")

		cfg := openapi.Config{Servers: []string{"http://file.test"}}
		if err := cfg.Finalize(&openapi.ConfigEnv{Servers: "TEST_SERVERS"}); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if len(cfg.Servers) != 2 || cfg.Servers[0] != "http://a.test" || cfg.Servers[1] != "https://b.test" {
			t.Errorf("servers: got %v", cfg.Servers)
		}
	})

	t.Run("bad server", func(t *testing.T) {
		cfg := openapi.Config{Servers: []string{"://nowhere"}}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for malformed server url")
		}
	})
}

func TestConfigApply(t *testing.T) {
	cfg := openapi.Config{Title: "T", Description: "D", Servers: []string{"http://localhost:5001"}}
	spec := openapi.NewSpec("ignored", "1.0.0")
	cfg.Apply(spec)

	if spec.Info.Title != "T" || spec.Info.Description != "D" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "http://localhost:5001" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
}

func TestConfigMerge(t *testing.T) {
	base := openapi.Config{Title: "Base", Description: "keep"}
	base.Merge(&openapi.Config{Title: "Overlay"})

	if base.Title != "Overlay" {
		t.Errorf("title: got %s, want Overlay", base.Title)
	}
	if base.Description != "keep" {
		t.Errorf("description: got %s, want keep", base.Description)
	}
}
