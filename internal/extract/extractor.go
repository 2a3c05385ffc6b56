// Package extract scans a literate document for cell markers and their
// fenced code blocks, producing the cell set the dependency graph is
// built from.
package extract

import (
	"fmt"
	"strings"

	"github.com/abhishekshiv/litpro/internal/cell"
	"github.com/abhishekshiv/litpro/internal/diag"
)

const (
	markerOpen  = "<!-- cell:"
	markerClose = "-->"
	fence       = "```"
	dependsKey  = "depends:"
)

// Options controls extraction behavior.
type Options struct {
	// Language is the fence tag that identifies executable code blocks
	// (e.g. "python" matches ```python).
	Language string
	// Strict upgrades skipped markers (missing id, missing fence) from
	// diagnostics to a ParseError.
	Strict bool
}

// Extract scans content for cell markers and returns the resulting cell
// set plus the diagnostics collected along the way.
//
// A marker contributes a cell only when its body has a first token (the
// id) and a fenced block tagged with the configured language follows it
// before end of input. Scanning resumes immediately after each marker's
// closing delimiter, not after the consumed code block, so adjacent
// markers may capture the same fence.
func Extract(content string, opts Options) (cell.Set, []diag.Diagnostic, error) {
	set := make(cell.Set)
	var diags []diag.Diagnostic

	pos := 0
	for {
		rel := strings.Index(content[pos:], markerOpen)
		if rel < 0 {
			break
		}
		bodyStart := pos + rel + len(markerOpen)

		closeRel := strings.Index(content[bodyStart:], markerClose)
		if closeRel < 0 {
			break // unterminated marker; nothing more to scan
		}
		body := content[bodyStart : bodyStart+closeRel]
		markerEnd := bodyStart + closeRel + len(markerClose)

		c, d, err := parseMarker(body, content[markerEnd:], opts)
		if err != nil {
			return nil, diags, err
		}
		if d != nil {
			diags = append(diags, *d)
		}
		if c != nil {
			set.Add(c)
		}

		pos = markerEnd
	}

	return set, diags, nil
}

// parseMarker interprets one marker body and locates its code block in
// rest (the content following the marker). It returns a nil cell when
// the marker is skipped.
func parseMarker(body, rest string, opts Options) (*cell.Cell, *diag.Diagnostic, error) {
	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		if opts.Strict {
			return nil, nil, &ParseError{Msg: "marker has no cell id"}
		}
		return nil, &diag.Diagnostic{
			Kind:   diag.KindMissingID,
			Detail: "marker has no cell id; skipped",
		}, nil
	}
	id := tokens[0]

	// Remaining tokens: only the depends:<list> form is recognized.
	// Anything else is ignored for forward compatibility.
	var deps []string
	for _, tok := range tokens[1:] {
		if list, ok := strings.CutPrefix(tok, dependsKey); ok {
			for _, d := range strings.Split(list, ",") {
				deps = append(deps, strings.TrimSpace(d))
			}
		}
	}

	code, ok := findCode(rest, opts.Language)
	if !ok {
		if opts.Strict {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("cell %q has no %s code block", id, opts.Language)}
		}
		return nil, &diag.Diagnostic{
			Kind:   diag.KindMissingFence,
			CellID: id,
			Detail: fmt.Sprintf("no %s code block follows the marker; skipped", opts.Language),
		}, nil
	}

	return &cell.Cell{ID: id, Code: code, Dependencies: deps}, nil, nil
}

// findCode locates the next fenced block tagged with lang and returns
// its trimmed contents.
func findCode(rest, lang string) (string, bool) {
	open := strings.Index(rest, fence+lang)
	if open < 0 {
		return "", false
	}
	// Code starts on the line after the opening fence.
	nl := strings.IndexByte(rest[open:], '\n')
	if nl < 0 {
		return "", false
	}
	start := open + nl + 1

	end := strings.Index(rest[start:], fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[start : start+end]), true
}
