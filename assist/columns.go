package assist

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// ColumnCandidates defines possible header names for auto-detecting CSV/TSV columns.
type ColumnCandidates struct {
	SourceCourse      []string `json:"sourceCourse"`
	TargetInstitution []string `json:"targetInstitution"`
	TargetCourse      []string `json:"targetCourse"`
}

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		SourceCourse:      []string{"b_course", "source_course", "university_course", "course"},
		TargetInstitution: []string{"cc_name", "institution", "community_college", "college"},
		TargetCourse:      []string{"cc_course", "target_course", "equivalent_course", "equivalent"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates updates the column detection candidates used during auto-detection.
// Fields left nil fall back to the built-in defaults.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) forField(f Field) []string {
	switch f {
	case FieldSourceCourse:
		return c.SourceCourse
	case FieldTargetInstitution:
		return c.TargetInstitution
	case FieldTargetCourse:
		return c.TargetCourse
	default:
		return nil
	}
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		SourceCourse:      pickStrings(c.SourceCourse, defaults.SourceCourse),
		TargetInstitution: pickStrings(c.TargetInstitution, defaults.TargetInstitution),
		TargetCourse:      pickStrings(c.TargetCourse, defaults.TargetCourse),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		SourceCourse:      cloneStrings(c.SourceCourse),
		TargetInstitution: cloneStrings(c.TargetInstitution),
		TargetCourse:      cloneStrings(c.TargetCourse),
	}
}

func (c ColumnConfig) forField(f Field) string {
	switch f {
	case FieldSourceCourse:
		return c.SourceCourse
	case FieldTargetInstitution:
		return c.TargetInstitution
	case FieldTargetCourse:
		return c.TargetCourse
	default:
		return ""
	}
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// normalizeHeader prepares a header cell for matching. Data cells never go through here.
func normalizeHeader(cell string) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	cell = norm.NFKC.String(cell)
	return strings.TrimSpace(cell)
}
