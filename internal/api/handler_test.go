package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhishekshiv/litpro/internal/document"
	"github.com/abhishekshiv/litpro/internal/export"
	"github.com/abhishekshiv/litpro/internal/extract"
)

const sample = `# API Test Doc

<!-- cell:setup -->
` + "```python" + `
x = 1
` + "```" + `
<!-- cell:compute depends:setup -->
` + "```python" + `
y = x + 1
` + "```" + `
`

func newTestHandler(t *testing.T) (http.Handler, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := extract.Options{Language: "python"}
	loader, err := document.NewLoader(path, opts)
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	return New(loader, opts, &export.HTMLExporter{Language: "python"}), path
}

func TestListCells(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/cells", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Title string   `json:"title"`
		Order []string `json:"order"`
		Cells []struct {
			ID string `json:"id"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Title != "API Test Doc" {
		t.Errorf("title = %q", body.Title)
	}
	if len(body.Order) != 2 || body.Order[0] != "setup" || body.Order[1] != "compute" {
		t.Errorf("order = %v", body.Order)
	}
	if len(body.Cells) != 2 || body.Cells[0].ID != "setup" {
		t.Errorf("cells = %v", body.Cells)
	}
}

func TestRunDocument(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/run", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rep struct {
		RunID string `json:"run_id"`
		Cells []struct {
			ID       string `json:"id"`
			Executed bool   `json:"executed"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.RunID == "" {
		t.Error("run_id missing")
	}
	if len(rep.Cells) != 2 || !rep.Cells[0].Executed || !rep.Cells[1].Executed {
		t.Errorf("cells = %v", rep.Cells)
	}

	// Runs are isolated; a second run sees fresh cells and succeeds.
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, httptest.NewRequest("POST", "/v1/run", nil))
	if rec2.Code != http.StatusOK {
		t.Errorf("second run status = %d, body %s", rec2.Code, rec2.Body.String())
	}
}

func TestReloadDocument(t *testing.T) {
	h, path := newTestHandler(t)

	extra := sample + "\n<!-- cell:display depends:compute -->\n```python\nprint(y)\n```\n"
	if err := os.WriteFile(path, []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/reload", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Cells int `json:"cells"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Cells != 3 {
		t.Errorf("cells = %d, want 3", body.Cells)
	}
}

func TestReloadDocument_CycleRejected(t *testing.T) {
	h, path := newTestHandler(t)

	cyclic := "<!-- cell:a depends:b -->\n```python\npass\n```\n" +
		"<!-- cell:b depends:a -->\n```python\npass\n```\n"
	if err := os.WriteFile(path, []byte(cyclic), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/reload", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}

	// Previous snapshot is still served.
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, httptest.NewRequest("GET", "/v1/cells", nil))
	var body struct {
		Order []string `json:"order"`
	}
	if err := json.Unmarshal(rec2.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Order) != 2 {
		t.Errorf("order = %v, want previous snapshot's 2 cells", body.Order)
	}
}

func TestRenderDocument(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Cell: setup") {
		t.Errorf("rendered page missing cells:\n%s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
