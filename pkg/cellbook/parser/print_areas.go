package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
)

// ExtractPrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func ExtractPrintAreas(f *excelize.File) map[string][]coord.Range {
	result := make(map[string][]coord.Range)

	for _, dn := range f.GetDefinedName() {
		// Look for _xlnm.Print_Area defined name
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := ParsePrintArea(dn.RefersTo)
		if sheetName == "" && dn.Scope != "" && dn.Scope != "Workbook" {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// ParsePrintArea parses a print area reference string.
// Format: 'Sheet Name'!$A$1:$D$10 or SheetName!$A$1:$D$10, optionally
// several separated by commas.
func ParsePrintArea(ref string) (string, []coord.Range) {
	var (
		sheetName string
		areas     []coord.Range
	)

	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangeStr := part
		// Split by ! to separate sheet name and range
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			rangeStr = part[idx+1:]
			if sheetName == "" {
				sheetName = unquoteSheetName(part[:idx])
			}
		}

		if r, err := coord.ParseRange(rangeStr); err == nil {
			areas = append(areas, r)
		}
	}

	return sheetName, areas
}

func unquoteSheetName(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}
