// Package diag defines the structured diagnostic stream emitted by the
// extraction and graph-construction phases. Diagnostics are non-fatal;
// presentation (logging, HTTP payloads) is entirely the caller's concern.
package diag

import "fmt"

// Kind discriminates the diagnostic categories.
type Kind string

const (
	// KindMissingID is emitted for a marker whose first token is absent.
	KindMissingID Kind = "missing_id"
	// KindMissingFence is emitted for a marker with no following fenced
	// code block before end of input.
	KindMissingFence Kind = "missing_fence"
	// KindUnknownDependency is emitted at graph-construction time for a
	// dependency id that matches no cell.
	KindUnknownDependency Kind = "unknown_dependency"
)

// Diagnostic records one non-fatal finding against the input document.
type Diagnostic struct {
	Kind   Kind   `json:"kind"`
	CellID string `json:"cell_id,omitempty"` // cell the finding is attributed to, if any
	Detail string `json:"detail"`
}

func (d Diagnostic) String() string {
	if d.CellID == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
	}
	return fmt.Sprintf("%s: cell %s: %s", d.Kind, d.CellID, d.Detail)
}
