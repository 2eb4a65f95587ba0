package models

import (
	"errors"
	"fmt"
)

var (
	// ErrRange is matched by every RangeError.
	ErrRange = errors.New("range error")
	// ErrImport is matched by every ImportError.
	ErrImport = errors.New("import error")
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("sheet not found")
	// ErrCodec is matched by every CodecError.
	ErrCodec = errors.New("codec error")

	// ErrInvalidSheetName indicates a sheet name that is empty, too long or
	// contains one of \ / ? * [ ] :.
	ErrInvalidSheetName = errors.New("invalid sheet name")
	// ErrDuplicateSheet indicates a sheet name already used in the workbook.
	ErrDuplicateSheet = errors.New("duplicate sheet name")
	// ErrLastSheet is returned when removing the only remaining sheet.
	ErrLastSheet = errors.New("cannot remove the last sheet")
	// ErrInvalidStyle indicates a style attribute outside its domain.
	ErrInvalidStyle = errors.New("invalid style")
)

// RangeError reports an overlapping merge request, a missing merge region or
// a write outside the addressable sheet area.
type RangeError struct {
	Range  string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %s: %s", e.Range, e.Reason)
}

// Is lets errors.Is match ErrRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}

// ImportError reports a record or row that cannot be written at its
// position. Row is the zero-based index of the offending input row.
type ImportError struct {
	Row    int
	Reason string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed at input row %d: %s", e.Row, e.Reason)
}

// Is lets errors.Is match ErrImport.
func (e *ImportError) Is(target error) bool {
	return target == ErrImport
}

// NotFoundError reports a sheet name that does not exist in the workbook.
type NotFoundError struct {
	Sheet string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found", e.Sheet)
}

// Is lets errors.Is match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CodecError wraps a failure from the native container codec. The wrapped
// error is surfaced unchanged through Unwrap.
type CodecError struct {
	Op  string // "encode" or "decode"
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("xlsx %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrCodec.
func (e *CodecError) Is(target error) bool {
	return target == ErrCodec
}

// NewCodecError creates a new CodecError.
func NewCodecError(op string, err error) *CodecError {
	return &CodecError{Op: op, Err: err}
}
