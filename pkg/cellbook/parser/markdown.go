package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

var (
	markdownHeading   = regexp.MustCompile(`^#+\s+(.+)$`)
	markdownSeparator = regexp.MustCompile(`^[|\-:\s]+$`)
	markdownLinkCell  = regexp.MustCompile(`^\[(.*)\]\(([^()\s]*)\)$`)
	linkTextUnescaper = strings.NewReplacer(`\[`, "[", `\]`, "]")
	urlUnescaper      = strings.NewReplacer("%20", " ", "%28", "(", "%29", ")", "%7C", "|")
)

// markdownSection is the first table found under one heading.
type markdownSection struct {
	name string
	rows [][]string
	done bool
}

// ReadMarkdown loads the pipe tables of a Markdown document into a
// workbook. Each heading starts a section named after it and the first table
// of every section becomes one sheet. Text before the first heading forms a
// section named Sheet1. Sections without a table are skipped, and a document
// with no table at all yields a workbook with one empty sheet.
//
// Cells written as [text](url) become hyperlinked cells. Other cells are
// typed like CSV fields, with TRUE and FALSE matched in any case.
func ReadMarkdown(r io.Reader) (*models.Workbook, error) {
	sections, err := scanMarkdown(r)
	if err != nil {
		return nil, err
	}

	wb := models.NewWorkbook()
	first := true
	for _, sec := range sections {
		if len(sec.rows) == 0 {
			continue
		}
		var ws *models.Worksheet
		if first {
			ws = wb.Active()
			if err := wb.RenameSheet(models.DefaultSheetName, sec.name); err != nil {
				return nil, err
			}
			first = false
		} else if ws, err = wb.AddSheet(uniqueSheetName(wb, sec.name)); err != nil {
			return nil, err
		}
		if err := loadMarkdownTable(ws, sec.rows); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", ws.Name(), err)
		}
	}
	return wb, nil
}

func scanMarkdown(r io.Reader) ([]*markdownSection, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	cur := &markdownSection{name: models.DefaultSheetName}
	sections := []*markdownSection{cur}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if m := markdownHeading.FindStringSubmatch(line); m != nil {
			name := strings.ReplaceAll(strings.TrimSpace(m[1]), `\|`, "|")
			cur = &markdownSection{name: models.SanitizeSheetName(name)}
			sections = append(sections, cur)
			continue
		}
		if cur.done {
			continue
		}
		isRow := len(line) >= 2 && strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|")
		switch {
		case !isRow:
			// A blank or prose line ends the table in progress.
			cur.done = len(cur.rows) > 0
		case markdownSeparator.MatchString(line) && strings.Contains(line, "-"):
		default:
			cur.rows = append(cur.rows, splitMarkdownRow(line[1:len(line)-1]))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Markdown: %w", err)
	}
	return sections, nil
}

// splitMarkdownRow splits the inside of a table row on unescaped pipes.
// Escaped pipes are unescaped and cells are trimmed.
func splitMarkdownRow(s string) []string {
	var cells []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '|':
			b.WriteByte('|')
			i++
		case s[i] == '|':
			cells = append(cells, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(s[i])
		}
	}
	return append(cells, strings.TrimSpace(b.String()))
}

func loadMarkdownTable(ws *models.Worksheet, rows [][]string) error {
	for r, row := range rows {
		for c, field := range row {
			at := coord.Cell{Row: r, Col: c}
			if m := markdownLinkCell.FindStringSubmatch(field); m != nil && m[2] != "" {
				if err := ws.SetHyperlink(at, urlUnescaper.Replace(m[2]), ""); err != nil {
					return err
				}
				field = linkTextUnescaper.Replace(m[1])
			}
			if err := ws.Set(at, models.ValueOf(markdownValue(field))); err != nil {
				return fmt.Errorf("cell %s: %w", at.Label(), err)
			}
		}
	}
	return nil
}

func markdownValue(s string) any {
	switch {
	case strings.EqualFold(s, "TRUE"):
		return true
	case strings.EqualFold(s, "FALSE"):
		return false
	}
	return ParseCSVValue(s)
}

// uniqueSheetName returns name, or name with a " (n)" suffix when a sheet
// of that name already exists.
func uniqueSheetName(wb *models.Workbook, name string) string {
	if _, err := wb.Sheet(name); err != nil {
		return name
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		base := name
		if n := models.MaxSheetNameLength - utf8.RuneCountInString(suffix); utf8.RuneCountInString(base) > n {
			base = string([]rune(base)[:n])
		}
		if _, err := wb.Sheet(base + suffix); err != nil {
			return base + suffix
		}
	}
}
