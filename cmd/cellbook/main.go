// Package main provides the CLI entry point for cellbook-go.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ukaji3/cellbook-go/internal/config"
	"github.com/ukaji3/cellbook-go/internal/logger"
	"github.com/ukaji3/cellbook-go/pkg/cellbook"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/coord"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/models"
	"github.com/ukaji3/cellbook-go/pkg/cellbook/parser"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type convertFlags struct {
	output        string
	format        string
	sheet         string
	metadata      bool
	valueMode     string
	hyperlinks    bool
	generatorInfo bool
	pretty        bool
	delimiter     string
	encoding      string
	profile       string
	sheetsDir     string
}

type importFlags struct {
	output string
	sheet  string
	anchor string
}

func newRootCmd() *cobra.Command {
	var env *config.EnvConfig

	rootCmd := &cobra.Command{
		Use:   "cellbook",
		Short: "Convert spreadsheet workbooks",
		Long: `cellbook-go reads xlsx, CSV, JSON and Markdown workbooks and writes them
as xlsx, CSV, JSON or Markdown tables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnvConfig()
			if err != nil {
				return err
			}
			env = cfg
			logger.InitLogging(cfg.LogFile, cfg.LogLevel)
			return nil
		},
	}

	rootCmd.AddCommand(
		newConvertCmd(func() *config.EnvConfig { return env }),
		newImportCmd(),
		newSheetsCmd(),
	)
	return rootCmd
}

func newConvertCmd(env func() *config.EnvConfig) *cobra.Command {
	var f convertFlags
	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert a workbook to another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], &f, env())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&f.format, "format", "", "Output format: xlsx, csv, json, markdown (default: from --output, else CELLBOOK_DEFAULT_FORMAT)")
	flags.StringVar(&f.sheet, "sheet", "", "Convert only this sheet")
	flags.BoolVar(&f.metadata, "metadata", false, "Include document metadata")
	flags.StringVar(&f.valueMode, "value-mode", "value", "Formula rendering: value or formula")
	flags.BoolVar(&f.hyperlinks, "hyperlinks", true, "Render hyperlinks as Markdown links")
	flags.BoolVar(&f.generatorInfo, "generator-info", false, "Prepend the generator banner to Markdown")
	flags.BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	flags.StringVar(&f.delimiter, "delimiter", "", "CSV field delimiter (default: ,)")
	flags.StringVar(&f.encoding, "encoding", "", "CSV character encoding (default: utf-8)")
	flags.StringVar(&f.profile, "profile", "", "YAML conversion profile (default: CELLBOOK_PROFILE)")
	flags.StringVar(&f.sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	return cmd
}

func runConvert(cmd *cobra.Command, inputPath string, f *convertFlags, env *config.EnvConfig) error {
	ctx := logger.WithLogger(cmd.Context(), map[string]interface{}{"input": inputPath})

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts, err := convertOptions(cmd, f, env)
	if err != nil {
		return err
	}
	format, err := outputFormat(f, env)
	if err != nil {
		return err
	}

	wb, err := cellbook.Open(inputPath, opts)
	if err != nil {
		logger.ErrorLog(ctx, "open failed", err)
		return fmt.Errorf("open failed: %w", err)
	}

	if f.output != "" || f.sheetsDir == "" {
		data, err := cellbook.ExportAs(wb, format, opts)
		if err != nil {
			logger.ErrorLog(ctx, "conversion failed", err)
			return fmt.Errorf("conversion failed: %w", err)
		}
		if f.output != "" {
			if err := os.WriteFile(f.output, data, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if f.sheetsDir != "" {
		if err := writeSheetFiles(wb, format, opts, f.sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}

	logger.InfoLog(ctx, "converted %d sheets to %s", wb.Len(), format)
	return nil
}

// convertOptions layers flags that were set over the profile, which is
// layered over the defaults.
func convertOptions(cmd *cobra.Command, f *convertFlags, env *config.EnvConfig) (cellbook.Options, error) {
	opts := cellbook.DefaultOptions()
	profile := f.profile
	if profile == "" && env != nil {
		profile = env.Profile
	}
	if profile != "" {
		p, err := config.LoadProfile(profile)
		if err != nil {
			return opts, err
		}
		opts = p
	}
	if env != nil && env.Pretty {
		opts.Pretty = true
	}

	flags := cmd.Flags()
	if flags.Changed("sheet") {
		opts.SheetName = f.sheet
	}
	if flags.Changed("metadata") {
		opts.IncludeMetadata = cellbook.Bool(f.metadata)
	}
	if flags.Changed("value-mode") {
		opts.ValueMode = models.ValueMode(f.valueMode)
	}
	if flags.Changed("hyperlinks") {
		opts.IncludeHyperlinks = cellbook.Bool(f.hyperlinks)
	}
	if flags.Changed("generator-info") {
		opts.IncludeGeneratorInfo = f.generatorInfo
	}
	if flags.Changed("pretty") {
		opts.Pretty = f.pretty
	}
	if flags.Changed("delimiter") {
		opts.Delimiter = f.delimiter
	}
	if flags.Changed("encoding") {
		opts.Encoding = f.encoding
	}
	return opts, opts.Validate()
}

func outputFormat(f *convertFlags, env *config.EnvConfig) (cellbook.Format, error) {
	switch {
	case f.format != "":
		return cellbook.ParseFormat(f.format)
	case f.output != "":
		return cellbook.FormatFromExtension(f.output)
	case env != nil && env.DefaultFormat != "":
		return cellbook.ParseFormat(env.DefaultFormat)
	}
	return cellbook.FormatMarkdown, nil
}

func writeSheetFiles(wb *models.Workbook, format cellbook.Format, opts cellbook.Options, dir string) error {
	if format == cellbook.FormatXLSX {
		return fmt.Errorf("per-sheet output does not support %s", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, ws := range wb.Sheets() {
		opts.SheetName = ws.Name()
		data, err := cellbook.ExportAs(wb, format, opts)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, ws.Name()+format.Extension())
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return err
		}
	}

	return nil
}

func newImportCmd() *cobra.Command {
	var f importFlags
	cmd := &cobra.Command{
		Use:   "import [records.json]",
		Short: "Import a JSON array of records into a new workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], &f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Name of the sheet to fill")
	cmd.Flags().StringVar(&f.anchor, "anchor", "A1", "Top-left cell of the imported table")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runImport(cmd *cobra.Command, inputPath string, f *importFlags) error {
	ctx := logger.WithLogger(cmd.Context(), map[string]interface{}{"input": inputPath})

	anchor, err := coord.ParseLabel(f.anchor)
	if err != nil {
		return fmt.Errorf("invalid anchor: %w", err)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open records: %w", err)
	}
	defer in.Close()

	records, err := parser.DecodeRecords(in)
	if err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}

	wb := models.NewWorkbook()
	if f.sheet != "" {
		if err := wb.RenameSheet(models.DefaultSheetName, f.sheet); err != nil {
			return err
		}
	}
	n, err := wb.Active().ImportRecords(records, anchor)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if err := cellbook.Save(wb, f.output, "", cellbook.DefaultOptions()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.InfoLog(ctx, "imported %d rows into %s", n, f.output)
	return nil
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [input]",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := cellbook.Open(args[0], cellbook.DefaultOptions())
			if err != nil {
				return fmt.Errorf("open failed: %w", err)
			}
			return listSheets(cmd, wb)
		},
	}
}

func listSheets(cmd *cobra.Command, wb *models.Workbook) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTIVE\tNAME\tDIMENSION\tVISIBILITY")
	active := wb.Active()
	for _, ws := range wb.Sheets() {
		marker := ""
		if ws == active {
			marker = "*"
		}
		dim := "-"
		if r, ok := ws.Dimension(); ok {
			dim = r.Label()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, ws.Name(), dim, ws.Visibility())
	}
	return tw.Flush()
}
