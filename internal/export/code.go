package export

import (
	"fmt"
	"io"

	"github.com/abhishekshiv/litpro/internal/document"
)

// CodeExporter writes the cells as a plain source file: a file header,
// then per cell a comment line naming the id, the code, and a blank
// separator. Cells are written in resolved execution order so the
// exported program runs top to bottom.
type CodeExporter struct {
	// Comment is the single-line comment leader; "#" when empty.
	Comment string
}

func (e *CodeExporter) Name() string { return "code" }

func (e *CodeExporter) Write(w io.Writer, snap *document.Snapshot) error {
	comment := e.Comment
	if comment == "" {
		comment = "#"
	}

	if _, err := fmt.Fprintf(w, "%s Exported from %s\n\n", comment, snap.Path); err != nil {
		return fmt.Errorf("write code export: %w", err)
	}
	for _, id := range snap.Order {
		c := snap.Cells[id]
		if _, err := fmt.Fprintf(w, "%s Cell: %s\n%s\n\n", comment, c.ID, c.Code); err != nil {
			return fmt.Errorf("write code export: %w", err)
		}
	}
	return nil
}
