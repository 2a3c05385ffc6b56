// Package runner walks a resolved snapshot in execution order. It is
// the "execution" consumer: it reports each cell's id, dependencies,
// and code, then marks the cell executed. No code is compiled or run.
package runner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhishekshiv/litpro/internal/document"
	"github.com/abhishekshiv/litpro/internal/metrics"
)

// CellReport records one cell's processing within a run.
type CellReport struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies,omitempty"`
	Executed     bool     `json:"executed"`
}

// Report is the outcome of one full execution simulation.
type Report struct {
	RunID      string       `json:"run_id"`
	Document   string       `json:"document"`
	Order      []string     `json:"order"`
	Cells      []CellReport `json:"cells"`
	DurationMs int64        `json:"duration_ms"`
}

// Runner simulates execution over one snapshot. The caller must own
// the snapshot exclusively for the duration of the run; Run flips each
// cell's executed flag exactly once.
type Runner struct {
	// Out receives the narrated run. io.Discard gives a silent run.
	Out io.Writer
}

// New returns a Runner narrating to out.
func New(out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{Out: out}
}

// Run processes every cell strictly in the snapshot's resolved order.
// A cell executes only after all of its known dependencies have; a
// violation means the order is corrupt and aborts the run.
func (r *Runner) Run(snap *document.Snapshot) (*Report, error) {
	start := time.Now()

	rep := &Report{
		RunID:    uuid.New().String(),
		Document: snap.Path,
		Order:    snap.Order,
		Cells:    make([]CellReport, 0, len(snap.Order)),
	}

	if err := r.printf("Executing %s (%d cells)\n", snap.Path, len(snap.Cells)); err != nil {
		return nil, err
	}
	if len(snap.Order) > 0 {
		if err := r.printf("Execution order: %s\n", strings.Join(snap.Order, " → ")); err != nil {
			return nil, err
		}
	}

	for _, id := range snap.Order {
		c := snap.Cells[id]

		for _, dep := range c.Dependencies {
			if dc, ok := snap.Cells[dep]; ok && !dc.Executed {
				metrics.Runs.WithLabelValues("error").Inc()
				return nil, fmt.Errorf("cell %s: dependency %s not yet executed", id, dep)
			}
		}

		if err := r.printf("\n--- Executing cell: %s ---\n", c.ID); err != nil {
			return nil, err
		}
		if len(c.Dependencies) > 0 {
			if err := r.printf("Dependencies: %s\n", strings.Join(c.Dependencies, ", ")); err != nil {
				return nil, err
			}
		}
		if err := r.printf("Code:\n%s\n", c.Code); err != nil {
			return nil, err
		}

		c.Executed = true
		rep.Cells = append(rep.Cells, CellReport{
			ID:           c.ID,
			Dependencies: c.Dependencies,
			Executed:     true,
		})
	}

	if err := r.printf("\n--- Execution completed: %d/%d cells ---\n",
		len(rep.Cells), len(snap.Cells)); err != nil {
		return nil, err
	}

	rep.DurationMs = time.Since(start).Milliseconds()
	metrics.Runs.WithLabelValues("ok").Inc()
	return rep, nil
}

func (r *Runner) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.Out, format, args...); err != nil {
		return fmt.Errorf("write run output: %w", err)
	}
	return nil
}
