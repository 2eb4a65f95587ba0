package cellbook

import (
	"errors"
	"fmt"

	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates a format name or file extension that no
// reader or writer handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrInvalidOptions indicates options that failed validation.
var ErrInvalidOptions = errors.New("invalid options")

// Sentinels of the model layer, re-exported for callers that only import
// this package.
var (
	ErrInvalidAddress = coord.ErrInvalidAddress
	ErrRange          = models.ErrRange
	ErrImport         = models.ErrImport
	ErrNotFound       = models.ErrNotFound
	ErrCodec          = models.ErrCodec
)

// ConversionError represents an error while opening, converting or saving a
// workbook.
type ConversionError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("conversion error (%s): %v", e.Format, e.Err)
	}
	return fmt.Sprintf("conversion error in %q (%s): %v", e.Path, e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(path string, format Format, err error) *ConversionError {
	return &ConversionError{
		Path:   path,
		Format: format,
		Err:    err,
	}
}
