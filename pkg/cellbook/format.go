package cellbook

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a document format the engine reads or writes.
type Format string

const (
	// FormatXLSX is the native spreadsheet container.
	FormatXLSX Format = "xlsx"
	// FormatCSV is delimited text holding one sheet.
	FormatCSV Format = "csv"
	// FormatJSON is the structured-data document written by output.ToJSON.
	FormatJSON Format = "json"
	// FormatMarkdown is tabular text. Reading keeps the first pipe table
	// under each heading.
	FormatMarkdown Format = "markdown"
)

var extensions = map[string]Format{
	".xlsx":     FormatXLSX,
	".csv":      FormatCSV,
	".json":     FormatJSON,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromExtension infers the format of path from its extension.
func FormatFromExtension(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
}

// Extension returns the preferred file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatXLSX, FormatCSV, FormatJSON:
		return "." + string(f)
	}
	return ""
}

// MIMEType returns the media type of the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown"
	}
	return "application/octet-stream"
}

// Readable reports whether Open can load the format.
func (f Format) Readable() bool {
	switch f {
	case FormatXLSX, FormatCSV, FormatJSON, FormatMarkdown:
		return true
	}
	return false
}
