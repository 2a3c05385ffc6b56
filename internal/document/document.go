// Package document ties the pipeline together: it loads a literate
// source file and materializes an immutable Snapshot (cells,
// diagnostics, resolved execution order) that every consumer reads.
package document

import (
	"strings"
	"time"

	"github.com/abhishekshiv/litpro/internal/cell"
	"github.com/abhishekshiv/litpro/internal/dag"
	"github.com/abhishekshiv/litpro/internal/diag"
	"github.com/abhishekshiv/litpro/internal/extract"
	"github.com/abhishekshiv/litpro/internal/metrics"
)

// Snapshot is one fully parsed and resolved view of a document. It is
// immutable once built; reloads create a new Snapshot and swap it in.
type Snapshot struct {
	Path    string
	Title   string
	Content string
	Cells   cell.Set
	Order   []string // topological execution order
	Diags   []diag.Diagnostic
}

// Parse runs the extraction → graph → resolution pipeline over content.
// Diagnostics are non-fatal and collected on the Snapshot; a cycle (or
// a strict-mode parse failure) aborts with an error and no Snapshot.
func Parse(path, content string, opts extract.Options) (*Snapshot, error) {
	start := time.Now()

	set, diags, err := extract.Extract(content, opts)
	if err != nil {
		return nil, err
	}

	graph, buildDiags := dag.Build(set)
	diags = append(diags, buildDiags...)

	order, err := graph.Resolve()
	if err != nil {
		return nil, err
	}

	metrics.DocumentsParsed.Inc()
	metrics.CellsExtracted.Add(float64(len(set)))
	for _, d := range diags {
		metrics.Diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
	metrics.ResolveDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)

	return &Snapshot{
		Path:    path,
		Title:   Title(content),
		Content: content,
		Cells:   set,
		Order:   order,
		Diags:   diags,
	}, nil
}

// Title returns the document's first level-one heading, or "" if none.
func Title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
