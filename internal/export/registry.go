// Package export renders read-only projections of a parsed document:
// plain source code and HTML documentation. Exporters never mutate
// cells, dependency metadata, or ordering state.
package export

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/abhishekshiv/litpro/internal/document"
)

// Exporter is the interface all output projections must satisfy.
type Exporter interface {
	// Name returns the format key this exporter is registered under.
	Name() string
	// Write renders the snapshot to w.
	Write(w io.Writer, snap *document.Snapshot) error
}

// Registry maps format names to their exporters.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{exporters: make(map[string]Exporter)}
}

// Register adds an exporter. Panics on duplicate name to surface
// misconfiguration early.
func (r *Registry) Register(e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.exporters[e.Name()]; exists {
		panic(fmt.Sprintf("export registry: duplicate format %q", e.Name()))
	}
	r.exporters[e.Name()] = e
}

// Get returns the exporter for the given format name.
func (r *Registry) Get(name string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exporters[name]
	if !ok {
		return nil, fmt.Errorf("no exporter registered for format %q", name)
	}
	return e, nil
}

// Names returns all registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.exporters))
	for k := range r.exporters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
