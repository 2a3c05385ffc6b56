package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/abhishekshiv/litpro/internal/document"
)

// HTMLExporter renders a self-contained documentation page: the
// document's prose in narrative order with each cell shown at its
// marker position, plus a summary of the resolved execution order.
type HTMLExporter struct {
	// Language is the fence tag whose blocks belong to cells and are
	// therefore not rendered as prose; "python" when empty.
	Language string
	// Title overrides the title extracted from the document.
	Title string
}

func (e *HTMLExporter) Name() string { return "html" }

const defaultTitle = "LitPro Documentation"

var (
	inlineCode = regexp.MustCompile("`([^`]+)`")
	inlineBold = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// escapeHTML applies the fixed entity mapping used across all HTML
// output.
var escapeHTML = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
).Replace

func (e *HTMLExporter) Write(w io.Writer, snap *document.Snapshot) error {
	lang := e.Language
	if lang == "" {
		lang = "python"
	}
	title := e.Title
	if title == "" {
		title = snap.Title
	}
	if title == "" {
		title = defaultTitle
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escapeHTML(title))
	b.WriteString("    <style>\n" + pageCSS + "    </style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", escapeHTML(title))

	if len(snap.Order) > 0 {
		fmt.Fprintf(&b, "<p class=\"order\">Execution order: %s</p>\n",
			escapeHTML(strings.Join(snap.Order, " → ")))
	}

	e.renderBody(&b, snap, lang)

	b.WriteString("</body>\n</html>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write html export: %w", err)
	}
	return nil
}

// renderBody interleaves prose with cell blocks, walking the source
// line by line. Cell fences are consumed so their code only appears
// inside the cell block.
func (e *HTMLExporter) renderBody(b *strings.Builder, snap *document.Snapshot, lang string) {
	lines := strings.Split(snap.Content, "\n")
	var prose []string

	flush := func() {
		writeProse(b, prose)
		prose = prose[:0]
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "<!-- cell:"):
			flush()
			if id := markerID(trimmed); id != "" {
				if c, ok := snap.Cells[id]; ok {
					writeCell(b, c.ID, c.Dependencies, c.Code)
				}
			}
		case trimmed == "```"+lang:
			// Skip the cell's code block; it was rendered with its marker.
			for i++; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "```" {
					break
				}
			}
		default:
			prose = append(prose, line)
		}
	}
	flush()
}

// markerID extracts the first marker-body token from a marker line.
func markerID(line string) string {
	body := strings.TrimPrefix(line, "<!-- cell:")
	if end := strings.Index(body, "-->"); end >= 0 {
		body = body[:end]
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func writeCell(b *strings.Builder, id string, deps []string, code string) {
	fmt.Fprintf(b, "<div class=\"cell\" id=\"cell-%s\">\n", escapeHTML(id))
	fmt.Fprintf(b, "    <h3>Cell: %s</h3>\n", escapeHTML(id))
	if len(deps) > 0 {
		fmt.Fprintf(b, "    <p class=\"deps\">Depends on: %s</p>\n",
			escapeHTML(strings.Join(deps, ", ")))
	}
	b.WriteString("    <div class=\"code\"><pre><code>")
	b.WriteString(escapeHTML(code))
	b.WriteString("</code></pre></div>\n</div>\n")
}

// writeProse renders a markdown subset: #/##/### headings, `code`,
// **bold**, and blank-line-separated paragraphs.
func writeProse(b *strings.Builder, lines []string) {
	var para []string

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		fmt.Fprintf(b, "<p>%s</p>\n", renderInline(strings.Join(para, " ")))
		para = para[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushPara()
		case strings.HasPrefix(trimmed, "### "):
			flushPara()
			fmt.Fprintf(b, "<h3>%s</h3>\n", renderInline(trimmed[4:]))
		case strings.HasPrefix(trimmed, "## "):
			flushPara()
			fmt.Fprintf(b, "<h2>%s</h2>\n", renderInline(trimmed[3:]))
		case strings.HasPrefix(trimmed, "# "):
			// The first heading became the page title.
			flushPara()
		default:
			para = append(para, trimmed)
		}
	}
	flushPara()
}

func renderInline(s string) string {
	s = escapeHTML(s)
	s = inlineCode.ReplaceAllString(s, "<code>$1</code>")
	s = inlineBold.ReplaceAllString(s, "<strong>$1</strong>")
	return s
}

const pageCSS = `        body { font-family: Arial, sans-serif; margin: 40px; max-width: 860px; }
        .order { color: #555; font-style: italic; }
        .cell { margin: 20px 0; padding: 15px; border-left: 3px solid #007acc; }
        .cell .deps { color: #777; font-size: 0.9em; }
        .code { background: #f4f4f4; padding: 10px; border-radius: 4px; }
        pre { margin: 0; overflow-x: auto; }
`
