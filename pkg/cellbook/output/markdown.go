package output

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// MarkdownOptions configures ToMarkdown.
type MarkdownOptions struct {
	// SheetName restricts the output to one sheet. Empty exports all sheets.
	SheetName string
	// IncludeMetadata prepends a document metadata block.
	IncludeMetadata bool
	// ValueMode selects the side of formula cells that is rendered.
	ValueMode models.ValueMode
	// IncludeHyperlinks renders links as [text](url) and auto-links bare
	// URLs and e-mail addresses. When false only the link text is kept.
	IncludeHyperlinks bool
	// IncludeGeneratorInfo prepends GeneratorBanner.
	IncludeGeneratorInfo bool
	// SourceType is shown in the metadata block.
	SourceType string
	// Now stamps the metadata block. Defaults to time.Now.
	Now func() time.Time
}

// SheetTable is the rendered table of one exported sheet.
type SheetTable struct {
	Name string
	// Table is the inferred layout. Empty when Empty is true.
	Table Table
	// Markdown is the rendered table without a heading.
	Markdown string
	// Empty reports that the sheet had nothing to render.
	Empty bool
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	autolinkPattern = regexp.MustCompile(`https?://[^\s<>"|\\\[\]()]+|www\.[^\s<>"|\\\[\]()]+|[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	urlEscaper      = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29", "|", "%7C")
	linkTextEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)
)

// ToMarkdown renders the selected sheets of wb as Markdown tables.
func ToMarkdown(wb *models.Workbook, opts MarkdownOptions) (string, error) {
	tables, err := RenderTables(wb, opts)
	if err != nil {
		return "", err
	}

	var preamble []string
	if opts.IncludeGeneratorInfo {
		preamble = append(preamble, GeneratorBanner)
	}
	if opts.IncludeMetadata {
		preamble = append(preamble, RenderMetadata(wb, opts))
	}
	var sections []string
	for _, st := range tables {
		if st.Empty {
			continue
		}
		if len(tables) > 1 {
			sections = append(sections, "## "+escapeCell(st.Name)+"\n\n"+st.Markdown)
			continue
		}
		sections = append(sections, st.Markdown)
	}
	sheetSep := "\n\n"
	if opts.IncludeMetadata {
		sheetSep = "\n\n---\n\n"
	}

	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)
	for i, part := range preamble {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(part)
	}
	for i, part := range sections {
		switch {
		case i > 0:
			b.WriteString(sheetSep)
		case len(preamble) > 0:
			b.WriteString("\n\n")
		}
		b.WriteString(part)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// RenderTables infers and renders the table of every selected sheet.
func RenderTables(wb *models.Workbook, opts MarkdownOptions) ([]SheetTable, error) {
	mode, err := checkValueMode(opts.ValueMode)
	if err != nil {
		return nil, err
	}
	sheets, err := selectSheets(wb, opts.SheetName)
	if err != nil {
		return nil, err
	}

	r := cellRenderer{mode: mode, links: opts.IncludeHyperlinks}
	out := make([]SheetTable, 0, len(sheets))
	for _, ws := range sheets {
		t, ok := InferTable(ws, TableOptions{ValueMode: mode, Render: r.render})
		st := SheetTable{Name: ws.Name(), Table: t, Empty: !ok}
		if ok {
			st.Markdown = markdownTable(t)
		}
		out = append(out, st)
	}
	return out, nil
}

// RenderMetadata returns the document metadata block.
func RenderMetadata(wb *models.Workbook, opts MarkdownOptions) string {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	source := opts.SourceType
	if source == "" {
		source = "Spreadsheet Workbook"
	}
	props := wb.Properties()

	var sb strings.Builder
	sb.WriteString("# Document Metadata\n\n")
	item := func(k, v string) {
		sb.WriteString("- **")
		sb.WriteString(k)
		sb.WriteString("**: ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	item("Source Type", source)
	if props.Title != "" {
		item("Title", escapeCell(props.Title))
	}
	if props.Author != "" {
		item("Author", escapeCell(props.Author))
	}
	item("Conversion Date", now().Format("2006-01-02 15:04:05"))
	item("Total Sheets", strconv.Itoa(wb.Len()))
	item("Sheet Names", escapeCell(strings.Join(wb.SheetNames(), ", ")))
	item("Active Sheet", escapeCell(wb.Active().Name()))
	return strings.TrimSuffix(sb.String(), "\n")
}

func markdownTable(t Table) string {
	lines := make([]string, 0, len(t.Body)+2)
	lines = append(lines, markdownRow(t.Header))
	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = "---"
	}
	lines = append(lines, markdownRow(sep))
	for _, row := range t.Body {
		lines = append(lines, markdownRow(row))
	}
	return strings.Join(lines, "\n")
}

func markdownRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

type cellRenderer struct {
	mode  models.ValueMode
	links bool
}

func (r cellRenderer) render(c models.Cell) string {
	if r.links && c.Hyperlink != nil {
		return markdownLink(c.LinkText(r.mode), c.Hyperlink.URL)
	}
	text := escapeCell(c.Text(r.mode))
	if r.links && c.Value.Resolve(r.mode).Kind() == models.KindText {
		text = autolink(text)
	}
	return text
}

func markdownLink(text, url string) string {
	return "[" + linkTextEscaper.Replace(escapeCell(text)) + "](" + urlEscaper.Replace(strings.TrimSpace(url)) + ")"
}

// escapeCell flattens s onto one line and escapes the column separator.
func escapeCell(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func autolink(s string) string {
	return autolinkPattern.ReplaceAllStringFunc(s, func(m string) string {
		trimmed := strings.TrimRight(m, ".,;:!?")
		tail := m[len(trimmed):]
		switch {
		case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
			return markdownLink(trimmed, trimmed) + tail
		case strings.HasPrefix(trimmed, "www."):
			return markdownLink(trimmed, "http://"+trimmed) + tail
		default:
			return markdownLink(trimmed, "mailto:"+trimmed) + tail
		}
	})
}
