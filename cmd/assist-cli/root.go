package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yashubustudio/assist/assist"
	"yashubustudio/assist/internal/logging"
)

const (
	formatText = "text"
	formatCSV  = "csv"
	formatJSON = "json"
)

type cliOptions struct {
	configPath string
	source     string
	locale     string
	columns    assist.ColumnConfig
	format     string
	verbose    bool

	logger  *zap.Logger
	service *assist.Service
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:   "assist-cli",
		Short: "Look up course articulation equivalences from a CSV dataset",
		Long: `assist-cli reads an articulation CSV (columns b_course, cc_name, cc_course by
default) and answers the same questions as the desktop app:

  assist-cli courses                       list university courses
  assist-cli institutions                  list community colleges
  assist-cli by-course "MATH 1A"           equivalents of one university course
  assist-cli by-institution "De Anza College"  courses articulated by one college`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return opts.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flags.StringVar(&opts.source, "source", "", "CSV path or URL (overrides config and ASSIST_DATA_SOURCE)")
	flags.StringVar(&opts.locale, "locale", "", "Locale used to sort selector values")
	flags.StringVar(&opts.columns.SourceCourse, "source-column", "", "Column name or #index for the university course")
	flags.StringVar(&opts.columns.TargetInstitution, "institution-column", "", "Column name or #index for the community college")
	flags.StringVar(&opts.columns.TargetCourse, "course-column", "", "Column name or #index for the equivalent course")
	flags.StringVarP(&opts.format, "format", "f", formatText, "Output format: text, csv or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newListCmd(opts, "courses", "List distinct university courses", assist.FieldSourceCourse),
		newListCmd(opts, "institutions", "List distinct community colleges", assist.FieldTargetInstitution),
		newLookupCmd(opts, "by-course [course]", "Show community college equivalents of a university course", assist.ViewBySource),
		newLookupCmd(opts, "by-institution [college]", "Show university courses articulated by a community college", assist.ViewByTarget),
	)
	return root
}

func (o *cliOptions) setup(ctx context.Context) error {
	switch o.format {
	case formatText, formatCSV, formatJSON:
	default:
		return fmt.Errorf("unknown format %q (want text, csv or json)", o.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := assist.LoadEnvFile(""); err != nil {
		return err
	}
	cfg, err := assist.LoadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.source != "" {
		cfg.DataSource = o.source
	}
	if o.locale != "" {
		cfg.Locale = o.locale
	}
	if o.columns.SourceCourse != "" {
		cfg.Columns.SourceCourse = o.columns.SourceCourse
	}
	if o.columns.TargetInstitution != "" {
		cfg.Columns.TargetInstitution = o.columns.TargetInstitution
	}
	if o.columns.TargetCourse != "" {
		cfg.Columns.TargetCourse = o.columns.TargetCourse
	}
	cfg.ApplyColumnCandidates()
	o.logger, err = logging.New(o.verbose)
	if err != nil {
		return err
	}
	o.service = assist.NewService(cfg, o.logger)
	return o.service.Load(ctx)
}

func newListCmd(opts *cliOptions, use, short string, field assist.Field) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var values []string
			if field == assist.FieldTargetInstitution {
				values = opts.service.DistinctTargetInstitutions()
			} else {
				values = opts.service.DistinctSourceCourses()
			}
			return writeValues(cmd.OutOrStdout(), opts.format, field, values)
		},
	}
}

func newLookupCmd(opts *cliOptions, use, short string, view assist.View) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := opts.service.Lookup(view, args[0])
			if len(rows) == 0 && opts.format == formatText {
				fmt.Fprintf(cmd.ErrOrStderr(), "no articulations found for %q\n", args[0])
				return nil
			}
			return writeRows(cmd.OutOrStdout(), opts.format, view, rows)
		},
	}
}

func writeValues(w io.Writer, format string, field assist.Field, values []string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, values)
	case formatCSV:
		writer := csv.NewWriter(w)
		for _, v := range values {
			if err := writer.Write([]string{v}); err != nil {
				return fmt.Errorf("write value: %w", err)
			}
		}
		writer.Flush()
		return writer.Error()
	default:
		t := table.New().Border(lipgloss.NormalBorder()).Headers(titleCase(field.String()))
		for _, v := range values {
			t.Row(v)
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	}
}

func writeRows(w io.Writer, format string, view assist.View, rows []assist.Row) error {
	switch format {
	case formatJSON:
		return writeJSON(w, rows)
	case formatCSV:
		return assist.WriteRowsCSV(w, view, rows)
	default:
		cols := assist.Columns(view)
		t := table.New().Border(lipgloss.NormalBorder()).Headers(cols[0], cols[1])
		for _, r := range rows {
			t.Row(r.Label, r.Course)
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// isLoadError reports whether err came from fetching or parsing the data file.
func isLoadError(err error) bool {
	var le *assist.LoadError
	return errors.As(err, &le)
}
