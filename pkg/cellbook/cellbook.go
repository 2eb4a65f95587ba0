package cellbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/cellbook-go/internal/logger"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/output"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/parser"
)

// Codec reads and writes the native xlsx container from and to the
// format-agnostic workbook description.
type Codec interface {
	Encode(w io.Writer, data *models.WorkbookData) error
	Decode(r io.Reader) (*models.WorkbookData, error)
}

// ExcelizeCodec is the Codec backed by excelize. Its failures are wrapped
// in a models.CodecError.
type ExcelizeCodec struct{}

// Encode writes data as an xlsx container.
func (ExcelizeCodec) Encode(w io.Writer, data *models.WorkbookData) error {
	if err := output.EncodeXLSX(w, data); err != nil {
		return models.NewCodecError("encode", err)
	}
	return nil
}

// Decode reads an xlsx container.
func (ExcelizeCodec) Decode(r io.Reader) (*models.WorkbookData, error) {
	data, err := parser.DecodeXLSX(r)
	if err != nil {
		return nil, models.NewCodecError("decode", err)
	}
	return data, nil
}

// DefaultCodec is used when Options.Codec is nil.
var DefaultCodec Codec = ExcelizeCodec{}

// Result is the outcome of Convert.
type Result struct {
	// Markdown is the full rendered document.
	Markdown string
	// Tables holds the inferred table of every selected sheet.
	Tables []output.SheetTable
	// Metadata is the metadata block, empty unless requested.
	Metadata string
}

// Open loads a workbook from an xlsx, JSON, CSV or Markdown file. The format
// is inferred from the extension. A CSV sheet, and a Markdown table without
// a heading, is named after the file unless opts.SheetName is set.
func Open(path string, opts Options) (*models.Workbook, error) {
	format, err := FormatFromExtension(path)
	if err != nil {
		return nil, NewConversionError(path, "", err)
	}
	if (format == FormatCSV || format == FormatMarkdown) && opts.SheetName == "" {
		opts.SheetName = models.SanitizeSheetName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, NewConversionError(path, format, err)
	}
	defer f.Close()

	wb, err := Read(f, format, opts)
	if err != nil {
		return nil, NewConversionError(path, format, err)
	}
	return wb, nil
}

// Read loads a workbook of the given format from r.
func Read(r io.Reader, format Format, opts Options) (*models.Workbook, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		data, err := opts.codec().Decode(r)
		if err != nil {
			return nil, err
		}
		return models.FromData(data)
	case FormatCSV:
		return parser.ReadCSV(r, parser.CSVOptions{
			SheetName: opts.SheetName,
			Delimiter: opts.delimiter(),
			Encoding:  opts.Encoding,
		})
	case FormatJSON:
		return parser.ReadJSON(r)
	case FormatMarkdown:
		wb, err := parser.ReadMarkdown(r)
		if err != nil {
			return nil, err
		}
		// Only an unnamed single table takes opts.SheetName.
		if names := wb.SheetNames(); opts.SheetName != "" && len(names) == 1 && names[0] == models.DefaultSheetName {
			if err := wb.RenameSheet(models.DefaultSheetName, opts.SheetName); err != nil {
				return nil, err
			}
		}
		return wb, nil
	}
	return nil, fmt.Errorf("%w: %s cannot be read", ErrUnsupportedFormat, format)
}

// ExportAs renders wb in format and returns the complete document. xlsx
// always holds the whole workbook; the other formats honour SheetName.
func ExportAs(wb *models.Workbook, format Format, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		var buf bytes.Buffer
		if err := opts.codec().Encode(&buf, models.Describe(wb)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatCSV:
		return output.ToCSV(wb, output.CSVOptions{
			SheetName: opts.SheetName,
			Delimiter: opts.delimiter(),
			ValueMode: opts.ValueMode,
			Encoding:  opts.Encoding,
		})
	case FormatJSON:
		return output.ToJSON(wb, output.JSONOptions{
			SheetName:       opts.SheetName,
			ValueMode:       opts.ValueMode,
			Pretty:          opts.Pretty,
			IncludeMetadata: opts.ShouldIncludeMetadata(),
		})
	case FormatMarkdown:
		md, err := output.ToMarkdown(wb, opts.markdown())
		if err != nil {
			return nil, err
		}
		return []byte(md), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save writes wb to path. An empty format is inferred from the extension.
// Nothing is written unless the whole document rendered.
func Save(wb *models.Workbook, path string, format Format, opts Options) error {
	if format == "" {
		f, err := FormatFromExtension(path)
		if err != nil {
			return NewConversionError(path, "", err)
		}
		format = f
	}
	data, err := ExportAs(wb, format, opts)
	if err != nil {
		return NewConversionError(path, format, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewConversionError(path, format, err)
	}
	return nil
}

// Convert opens path and renders it as Markdown.
func Convert(path string, opts Options) (*Result, error) {
	return ConvertContext(context.Background(), path, opts)
}

// ConvertContext is Convert with a context carrying the logger.
func ConvertContext(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.IncludeMetadata == nil {
		opts.IncludeMetadata = Bool(true)
	}
	ctx = logger.WithLogger(ctx, map[string]interface{}{"path": path})

	wb, err := Open(path, opts)
	if err != nil {
		logger.ErrorLog(ctx, "open failed", err)
		return nil, err
	}
	logger.DebugLog(ctx, "opened workbook with %d sheets", wb.Len())

	res, err := Render(wb, opts)
	if err != nil {
		return nil, NewConversionError(path, FormatMarkdown, err)
	}
	logger.DebugLog(ctx, "rendered %d tables", len(res.Tables))
	return res, nil
}

// Render converts an open workbook to Markdown.
func Render(wb *models.Workbook, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	mopts := opts.markdown()
	tables, err := output.RenderTables(wb, mopts)
	if err != nil {
		return nil, err
	}
	md, err := output.ToMarkdown(wb, mopts)
	if err != nil {
		return nil, err
	}
	res := &Result{Markdown: md, Tables: tables}
	if mopts.IncludeMetadata {
		res.Metadata = output.RenderMetadata(wb, mopts)
	}
	return res, nil
}
