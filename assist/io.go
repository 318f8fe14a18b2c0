package assist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultDataSource is the data file read when no source is configured.
const DefaultDataSource = "data/articulations.csv"

var (
	// ErrEmptyFile is returned when the data file has no header row.
	ErrEmptyFile = errors.New("empty data file")
	// ErrMissingColumn is returned when a required column cannot be resolved from the header.
	ErrMissingColumn = errors.New("required column not found")
)

// LoadError reports a data file that could not be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load records: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadOptions allows callers to choose which CSV columns map to record fields.
type LoadOptions struct {
	Columns ColumnConfig
	// Comma overrides the delimiter. Zero picks tab for .tsv sources and comma otherwise.
	Comma rune
}

// LoadRecords fetches source (a path, file:// URI or http(s):// URL) and parses it.
// Every failure is returned as a *LoadError.
func LoadRecords(ctx context.Context, source string, opts LoadOptions) (RecordSet, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, &LoadError{Err: errors.New("no data source configured")}
	}
	if opts.Comma == 0 {
		opts.Comma = delimiterFor(source)
	}
	rc, err := openSource(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	defer rc.Close()
	records, err := parseRecords(ctx, rc, opts)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return records, nil
}

// ParseRecords reads header-keyed records from r, preserving row order.
func ParseRecords(r io.Reader, opts LoadOptions) (RecordSet, error) {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	records, err := parseRecords(context.Background(), r, opts)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return records, nil
}

func delimiterFor(source string) rune {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		p = u.Path
	}
	if strings.EqualFold(filepath.Ext(p), ".tsv") {
		return '\t'
	}
	return ','
}

func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	u, err := url.Parse(source)
	// Single letter schemes are Windows drive letters.
	if err != nil || len(u.Scheme) <= 1 {
		return openFile(source)
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return openFile(u.Path)
	case "http", "https":
		return fetchURL(ctx, u.String())
	default:
		// Relative paths such as "dir:x/a.csv" parse with a scheme.
		if fileExists(source) {
			return openFile(source)
		}
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

func fetchURL(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func parseRecords(ctx context.Context, r io.Reader, opts LoadOptions) (RecordSet, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.Comma
	reader.FieldsPerRecord = -1
	row, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make([]string, len(row))
	for i, cell := range row {
		header[i] = normalizeHeader(cell)
	}
	cols, err := resolveColumns(header, opts.Columns)
	if err != nil {
		return nil, err
	}
	records := make(RecordSet, 0, 64)
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, Record{
			SourceCourse:      cellAt(row, cols.source),
			TargetInstitution: cellAt(row, cols.institution),
			TargetCourse:      cellAt(row, cols.course),
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

type resolvedColumns struct {
	source      int
	institution int
	course      int
}

func resolveColumns(header []string, explicit ColumnConfig) (resolvedColumns, error) {
	candidates := getColumnCandidates()
	idx := make(map[Field]int, 3)
	for _, f := range []Field{FieldSourceCourse, FieldTargetInstitution, FieldTargetCourse} {
		col, err := pickColumn(header, explicit.forField(f), candidates.forField(f))
		if err != nil {
			return resolvedColumns{}, fmt.Errorf("%s column: %w", f, err)
		}
		if col < 0 {
			return resolvedColumns{}, fmt.Errorf("%w: %s (header: %s)", ErrMissingColumn, f, strings.Join(header, ","))
		}
		idx[f] = col
	}
	return resolvedColumns{
		source:      idx[FieldSourceCourse],
		institution: idx[FieldTargetInstitution],
		course:      idx[FieldTargetCourse],
	}, nil
}

func pickColumn(header []string, explicit string, candidates []string) (int, error) {
	if strings.TrimSpace(explicit) != "" {
		return matchExplicitColumn(header, explicit)
	}
	return findColumn(header, candidates), nil
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

func matchExplicitColumn(header []string, explicit string) (int, error) {
	trimmed := normalizeHeader(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, err
		}
		if idx >= len(header) {
			return -1, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrMissingColumn, explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

// LocalPath returns the filesystem path behind source, or false for remote sources.
func LocalPath(source string) (string, bool) {
	u, err := url.Parse(source)
	if err != nil || len(u.Scheme) <= 1 {
		return filepath.Clean(source), true
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return filepath.Clean(u.Path), true
	case "http", "https":
		return "", false
	}
	if fileExists(source) {
		return filepath.Clean(source), true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
