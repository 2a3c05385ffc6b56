package extract

import (
	"errors"
	"reflect"
	"testing"

	"github.com/abhishekshiv/litpro/internal/diag"
)

var opts = Options{Language: "python"}

func TestExtract_SingleCell(t *testing.T) {
	content := "# Doc\n\n<!-- cell:setup -->\n```python\nx = 1\n```\n"
	set, diags, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	c, ok := set["setup"]
	if !ok {
		t.Fatalf("cell setup not found in %v", set.IDs())
	}
	if c.Code != "x = 1" {
		t.Errorf("code = %q, want %q", c.Code, "x = 1")
	}
	if len(c.Dependencies) != 0 {
		t.Errorf("dependencies = %v, want none", c.Dependencies)
	}
	if c.Executed {
		t.Error("new cell must not be marked executed")
	}
}

func TestExtract_MultipleCellsWithDependencies(t *testing.T) {
	content := `# My First Literate Program

<!-- cell:setup -->
` + "```python" + `
x = 10
y = 20
` + "```" + `

Some prose in between.

<!-- cell:compute depends:setup -->
` + "```python" + `
result = x + y
` + "```" + `

<!-- cell:display depends:compute -->
` + "```python" + `
print(result)
` + "```" + `
`
	set, _, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 3 {
		t.Fatalf("expected 3 cells, got %d (%v)", len(set), set.IDs())
	}
	if got := set["compute"].Dependencies; !reflect.DeepEqual(got, []string{"setup"}) {
		t.Errorf("compute dependencies = %v, want [setup]", got)
	}
	if got := set["setup"].Code; got != "x = 10\ny = 20" {
		t.Errorf("setup code = %q", got)
	}
}

func TestExtract_DependencyList(t *testing.T) {
	content := "<!-- cell:z depends:a,b,c -->\n```python\npass\n```\n"
	set, _, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if got := set["z"].Dependencies; !reflect.DeepEqual(got, want) {
		t.Errorf("dependencies = %v, want %v", got, want)
	}
}

func TestExtract_SkipsMarkerWithoutID(t *testing.T) {
	content := "<!-- cell: -->\n```python\npass\n```\n"
	set, diags, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected no cells, got %v", set.IDs())
	}
	if len(diags) != 1 || diags[0].Kind != diag.KindMissingID {
		t.Errorf("expected one missing_id diagnostic, got %v", diags)
	}
}

func TestExtract_SkipsMarkerWithoutFence(t *testing.T) {
	content := "<!-- cell:orphan -->\n\nno code here\n"
	set, diags, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected no cells, got %v", set.IDs())
	}
	if len(diags) != 1 || diags[0].Kind != diag.KindMissingFence {
		t.Errorf("expected one missing_fence diagnostic, got %v", diags)
	}
	if diags[0].CellID != "orphan" {
		t.Errorf("diagnostic cell id = %q, want orphan", diags[0].CellID)
	}
}

func TestExtract_WrongLanguageFenceIgnored(t *testing.T) {
	content := "<!-- cell:a -->\n```bash\necho hi\n```\n"
	set, diags, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected no cells, got %v", set.IDs())
	}
	if len(diags) != 1 || diags[0].Kind != diag.KindMissingFence {
		t.Errorf("expected missing_fence diagnostic, got %v", diags)
	}
}

func TestExtract_DuplicateIDLastWriteWins(t *testing.T) {
	content := "<!-- cell:a -->\n```python\nfirst\n```\n<!-- cell:a -->\n```python\nsecond\n```\n"
	set, _, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(set))
	}
	if got := set["a"].Code; got != "second" {
		t.Errorf("code = %q, want %q (last write wins)", got, "second")
	}
}

// Scanning resumes after the marker, not after the consumed fence, so
// two markers in a row both capture the next fence.
func TestExtract_AdjacentMarkersShareFence(t *testing.T) {
	content := "<!-- cell:a -->\n<!-- cell:b -->\n```python\nshared\n```\n"
	set, _, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 cells, got %d (%v)", len(set), set.IDs())
	}
	if set["a"].Code != "shared" || set["b"].Code != "shared" {
		t.Errorf("both cells should capture the shared fence, got a=%q b=%q",
			set["a"].Code, set["b"].Code)
	}
}

func TestExtract_UnknownTokensIgnored(t *testing.T) {
	content := "<!-- cell:a depends:b persist:x,y -->\n```python\npass\n```\n"
	set, _, err := Extract(content, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := set["a"].Dependencies; !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("dependencies = %v, want [b]", got)
	}
}

func TestExtract_Strict(t *testing.T) {
	strict := Options{Language: "python", Strict: true}

	cases := []struct {
		name    string
		content string
	}{
		{"missing id", "<!-- cell: -->\n```python\npass\n```\n"},
		{"missing fence", "<!-- cell:a -->\nno code\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Extract(tc.content, strict)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestExtract_NoMarkers(t *testing.T) {
	set, diags, err := Extract("just some markdown\n", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 0 || len(diags) != 0 {
		t.Errorf("expected empty result, got cells=%v diags=%v", set.IDs(), diags)
	}
}
