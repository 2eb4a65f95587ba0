// Package cellbook opens, converts and saves spreadsheet workbooks.
package cellbook

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/ukaji3/cellbook-go/internal/textenc"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/output"
)

var validate = validator.New()

// Options configures reading, exporting and conversion.
type Options struct {
	// SheetName selects one sheet. Empty selects every sheet for Markdown
	// and JSON and the active sheet for CSV. When reading CSV it names the
	// sheet.
	SheetName string `yaml:"sheet_name,omitempty" validate:"max=31"`
	// IncludeMetadata adds the document metadata block.
	// If nil, defaults to true for Convert, false otherwise.
	IncludeMetadata *bool `yaml:"include_metadata,omitempty"`
	// ValueMode selects which side of formula cells is rendered.
	ValueMode models.ValueMode `yaml:"value_mode,omitempty" validate:"omitempty,oneof=value formula"`
	// IncludeHyperlinks renders hyperlinks as Markdown links.
	// If nil, defaults to true.
	IncludeHyperlinks *bool `yaml:"include_hyperlinks,omitempty"`
	// IncludeGeneratorInfo prepends the generator banner to Markdown.
	IncludeGeneratorInfo bool `yaml:"include_generator_info,omitempty"`
	// Pretty indents JSON output.
	Pretty bool `yaml:"pretty,omitempty"`
	// Delimiter separates CSV fields. Empty means ",".
	Delimiter string `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`
	// Encoding names the CSV character encoding. Empty means UTF-8.
	Encoding string `yaml:"encoding,omitempty"`
	// Codec reads and writes xlsx. If nil, the excelize codec is used.
	Codec Codec `yaml:"-"`
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		ValueMode: models.ValueModeValue,
	}
}

// ShouldIncludeMetadata returns whether to add the metadata block.
func (o Options) ShouldIncludeMetadata() bool {
	return o.IncludeMetadata != nil && *o.IncludeMetadata
}

// ShouldIncludeHyperlinks returns whether to render hyperlinks as links.
func (o Options) ShouldIncludeHyperlinks() bool {
	if o.IncludeHyperlinks != nil {
		return *o.IncludeHyperlinks
	}
	return true
}

// Validate checks every option before any output is produced.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.Delimiter != "" && !output.ValidDelimiter(o.delimiter()) {
		return fmt.Errorf("%w: delimiter %q", ErrInvalidOptions, o.Delimiter)
	}
	if _, err := textenc.Lookup(o.Encoding); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

func (o Options) delimiter() rune {
	if o.Delimiter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(o.Delimiter)
	return r
}

func (o Options) codec() Codec {
	if o.Codec != nil {
		return o.Codec
	}
	return DefaultCodec
}

func (o Options) markdown() output.MarkdownOptions {
	return output.MarkdownOptions{
		SheetName:            o.SheetName,
		IncludeMetadata:      o.ShouldIncludeMetadata(),
		ValueMode:            o.ValueMode,
		IncludeHyperlinks:    o.ShouldIncludeHyperlinks(),
		IncludeGeneratorInfo: o.IncludeGeneratorInfo,
	}
}

// Bool returns a pointer to b, for the optional toggles of Options.
func Bool(b bool) *bool {
	return &b
}
