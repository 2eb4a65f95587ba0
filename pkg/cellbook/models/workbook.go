package models

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxSheetNameLength is the longest accepted sheet name, in characters.
	MaxSheetNameLength = 31
	// DefaultSheetName is the name given to the first sheet of a new workbook.
	DefaultSheetName = "Sheet1"
)

const invalidSheetNameChars = `\/?*[]:`

// Properties is the document metadata of a workbook.
type Properties struct {
	Title       string            `json:"title,omitempty"`
	Author      string            `json:"author,omitempty"`
	Subject     string            `json:"subject,omitempty"`
	Description string            `json:"description,omitempty"`
	Keywords    string            `json:"keywords,omitempty"`
	Category    string            `json:"category,omitempty"`
	Created     time.Time         `json:"created,omitzero"`
	Modified    time.Time         `json:"modified,omitzero"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// Workbook is an ordered collection of worksheets with an active sheet and
// document metadata. A Workbook always holds at least one sheet.
//
// A Workbook is not safe for concurrent mutation. Concurrent readers are
// safe while no goroutine writes; Clone gives writers a private copy.
type Workbook struct {
	sheets []*Worksheet
	active int
	styles *StyleSet
	props  Properties
}

// NewWorkbook creates a workbook holding one empty sheet named Sheet1.
func NewWorkbook() *Workbook {
	now := time.Now().UTC().Truncate(time.Second)
	wb := &Workbook{
		styles: NewStyleSet(),
		props:  Properties{Created: now, Modified: now},
	}
	wb.sheets = []*Worksheet{newWorksheet(wb, DefaultSheetName)}
	return wb
}

// Styles returns the style pool shared by all sheets of the workbook.
func (wb *Workbook) Styles() *StyleSet {
	return wb.styles
}

// Properties returns a copy of the document metadata.
func (wb *Workbook) Properties() Properties {
	p := wb.props
	p.Custom = maps.Clone(wb.props.Custom)
	return p
}

// SetProperties replaces the document metadata.
func (wb *Workbook) SetProperties(p Properties) {
	p.Custom = maps.Clone(p.Custom)
	wb.props = p
}

// SetCustomProperty sets one custom document property.
func (wb *Workbook) SetCustomProperty(name, value string) {
	if wb.props.Custom == nil {
		wb.props.Custom = make(map[string]string)
	}
	wb.props.Custom[name] = value
}

// Touch sets the modified timestamp.
func (wb *Workbook) Touch(t time.Time) {
	wb.props.Modified = t.UTC().Truncate(time.Second)
}

// Len returns the number of sheets.
func (wb *Workbook) Len() int {
	return len(wb.sheets)
}

// Sheets returns the sheets in tab order.
func (wb *Workbook) Sheets() []*Worksheet {
	return slices.Clone(wb.sheets)
}

// SheetNames returns the sheet names in tab order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, ws := range wb.sheets {
		names[i] = ws.name
	}
	return names
}

// Sheet returns the sheet with the given name.
func (wb *Workbook) Sheet(name string) (*Worksheet, error) {
	if i := wb.lookup(name); i >= 0 {
		return wb.sheets[i], nil
	}
	return nil, &NotFoundError{Sheet: name}
}

// SheetAt returns the sheet at a zero-based tab position.
func (wb *Workbook) SheetAt(index int) (*Worksheet, error) {
	if index < 0 || index >= len(wb.sheets) {
		return nil, &NotFoundError{Sheet: fmt.Sprintf("#%d", index)}
	}
	return wb.sheets[index], nil
}

// Active returns the active sheet.
func (wb *Workbook) Active() *Worksheet {
	return wb.sheets[wb.active]
}

// SetActive makes the named sheet active.
func (wb *Workbook) SetActive(name string) error {
	i := wb.lookup(name)
	if i < 0 {
		return &NotFoundError{Sheet: name}
	}
	wb.active = i
	return nil
}

// AddSheet appends a new sheet. An empty name picks the first free
// "SheetN".
func (wb *Workbook) AddSheet(name string) (*Worksheet, error) {
	return wb.InsertSheet(name, len(wb.sheets))
}

// InsertSheet creates a sheet at a tab position. Positions past the end
// append.
func (wb *Workbook) InsertSheet(name string, index int) (*Worksheet, error) {
	if name == "" {
		name = wb.nextSheetName()
	}
	if err := wb.checkNewName(name); err != nil {
		return nil, err
	}
	ws := newWorksheet(wb, name)
	wb.insert(ws, index)
	return ws, nil
}

// RenameSheet renames a sheet in place.
func (wb *Workbook) RenameSheet(oldName, newName string) error {
	i := wb.lookup(oldName)
	if i < 0 {
		return &NotFoundError{Sheet: oldName}
	}
	if strings.EqualFold(oldName, newName) {
		if err := ValidateSheetName(newName); err != nil {
			return err
		}
	} else if err := wb.checkNewName(newName); err != nil {
		return err
	}
	wb.sheets[i].name = newName
	return nil
}

// MoveSheet moves a sheet to a new tab position. The active sheet stays
// the same sheet.
func (wb *Workbook) MoveSheet(name string, index int) error {
	i := wb.lookup(name)
	if i < 0 {
		return &NotFoundError{Sheet: name}
	}
	active := wb.sheets[wb.active]
	ws := wb.sheets[i]
	wb.sheets = slices.Delete(wb.sheets, i, i+1)
	index = min(max(index, 0), len(wb.sheets))
	wb.sheets = slices.Insert(wb.sheets, index, ws)
	wb.active = wb.indexOf(active)
	return nil
}

// RemoveSheet removes a sheet. Removing the last remaining sheet fails with
// ErrLastSheet. When the active sheet is removed the sheet now at its
// position, or the new last sheet, becomes active.
func (wb *Workbook) RemoveSheet(name string) error {
	i := wb.lookup(name)
	if i < 0 {
		return &NotFoundError{Sheet: name}
	}
	if len(wb.sheets) == 1 {
		return ErrLastSheet
	}
	active := wb.sheets[wb.active]
	removed := wb.sheets[i]
	wb.sheets = slices.Delete(wb.sheets, i, i+1)
	removed.book = nil

	if active == removed {
		wb.active = min(i, len(wb.sheets)-1)
	} else {
		wb.active = wb.indexOf(active)
	}
	return nil
}

// CopySheet duplicates a sheet, including merges and layout, and places the
// copy right after the source. The copy is named "Copy of <name>", with a
// " (n)" suffix when that name is taken.
func (wb *Workbook) CopySheet(name string) (*Worksheet, error) {
	i := wb.lookup(name)
	if i < 0 {
		return nil, &NotFoundError{Sheet: name}
	}
	src := wb.sheets[i]
	copyName := wb.uniqueName("Copy of " + src.name)
	ws := src.clone(wb, copyName)
	wb.insert(ws, i+1)
	return ws, nil
}

// Clone returns a deep copy of the workbook. Interned styles are immutable
// and shared between the copies.
func (wb *Workbook) Clone() *Workbook {
	out := &Workbook{
		active: wb.active,
		styles: &StyleSet{styles: maps.Clone(wb.styles.styles)},
		props:  wb.Properties(),
	}
	out.sheets = make([]*Worksheet, len(wb.sheets))
	for i, ws := range wb.sheets {
		out.sheets[i] = ws.clone(out, ws.name)
	}
	return out
}

func (wb *Workbook) insert(ws *Worksheet, index int) {
	active := wb.sheets[wb.active]
	index = min(max(index, 0), len(wb.sheets))
	wb.sheets = slices.Insert(wb.sheets, index, ws)
	wb.active = wb.indexOf(active)
}

func (wb *Workbook) lookup(name string) int {
	for i, ws := range wb.sheets {
		if ws.name == name {
			return i
		}
	}
	return -1
}

func (wb *Workbook) lookupFold(name string) int {
	for i, ws := range wb.sheets {
		if strings.EqualFold(ws.name, name) {
			return i
		}
	}
	return -1
}

func (wb *Workbook) indexOf(ws *Worksheet) int {
	return slices.Index(wb.sheets, ws)
}

func (wb *Workbook) checkNewName(name string) error {
	if err := ValidateSheetName(name); err != nil {
		return err
	}
	if wb.lookupFold(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
	}
	return nil
}

func (wb *Workbook) nextSheetName() string {
	for n := len(wb.sheets) + 1; ; n++ {
		name := fmt.Sprintf("Sheet%d", n)
		if wb.lookupFold(name) < 0 {
			return name
		}
	}
}

func (wb *Workbook) uniqueName(base string) string {
	base = truncateName(base, MaxSheetNameLength)
	name := base
	for n := 1; wb.lookupFold(name) >= 0; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateName(base, MaxSheetNameLength-len(suffix)) + suffix
	}
	return name
}

// ValidateSheetName checks the length and character rules for sheet names.
func ValidateSheetName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxSheetNameLength {
		return fmt.Errorf("%w: %q must be 1 to %d characters", ErrInvalidSheetName, name, MaxSheetNameLength)
	}
	if strings.ContainsAny(name, invalidSheetNameChars) {
		return fmt.Errorf("%w: %q contains one of %s", ErrInvalidSheetName, name, invalidSheetNameChars)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: %q starts or ends with an apostrophe", ErrInvalidSheetName, name)
	}
	return nil
}

// SanitizeSheetName replaces forbidden characters with '_' and truncates
// to the maximum length. An empty result becomes DefaultSheetName.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetNameChars, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(truncateName(strings.TrimSpace(name), MaxSheetNameLength), "'")
	if name == "" {
		return DefaultSheetName
	}
	return name
}

func truncateName(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
