package assist

import (
	"encoding/json"
	"fmt"
)

// Field identifies one column of an articulation record.
type Field int

const (
	// FieldSourceCourse is the course identifier at the university.
	FieldSourceCourse Field = iota
	// FieldTargetInstitution is the community college name.
	FieldTargetInstitution
	// FieldTargetCourse is the equivalent course at the community college.
	FieldTargetCourse
)

func (f Field) String() string {
	switch f {
	case FieldSourceCourse:
		return "source course"
	case FieldTargetInstitution:
		return "target institution"
	case FieldTargetCourse:
		return "target course"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Record is one articulation fact. Values are kept exactly as they appear in the source data.
type Record struct {
	SourceCourse      string `json:"sourceCourse"`
	TargetInstitution string `json:"targetInstitution"`
	TargetCourse      string `json:"targetCourse"`
}

// Value returns the record's value for the given field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldSourceCourse:
		return r.SourceCourse
	case FieldTargetInstitution:
		return r.TargetInstitution
	case FieldTargetCourse:
		return r.TargetCourse
	default:
		return ""
	}
}

// RecordSet is the ordered list of records read from one data file, header excluded.
type RecordSet []Record

// Clone returns a copy that shares no backing array with s.
func (s RecordSet) Clone() RecordSet {
	if s == nil {
		return nil
	}
	out := make(RecordSet, len(s))
	copy(out, s)
	return out
}

// View selects which projection of the record set is displayed.
type View int

const (
	// ViewBySource is keyed by source course and lists (institution, course) pairs.
	ViewBySource View = iota
	// ViewByTarget is keyed by institution and lists (source course, course) pairs.
	ViewByTarget
)

// Views lists every view in tab order.
var Views = []View{ViewBySource, ViewByTarget}

// KeyField is the field a view filters on.
func (v View) KeyField() Field {
	if v == ViewByTarget {
		return FieldTargetInstitution
	}
	return FieldSourceCourse
}

// Label is the human readable tab title.
func (v View) Label() string {
	switch v {
	case ViewBySource:
		return "By University Course"
	case ViewByTarget:
		return "By Community College"
	default:
		return fmt.Sprintf("view %d", int(v))
	}
}

// Row is one line of a projected result table.
type Row struct {
	Label  string `json:"label"`
	Course string `json:"course"`
}

// ColumnConfig names the CSV header (or 1-based "#N" index) used for each field.
// Empty entries fall back to auto-detection.
type ColumnConfig struct {
	SourceCourse      string `json:"sourceCourse,omitempty"`
	TargetInstitution string `json:"targetInstitution,omitempty"`
	TargetCourse      string `json:"targetCourse,omitempty"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	DataSource         string            `json:"dataSource"`
	Columns            ColumnConfig      `json:"columns"`
	Locale             string            `json:"locale"`
	LoadTimeoutSeconds int               `json:"loadTimeoutSeconds"`
	Watch              bool              `json:"watch"`
	// ColumnCandidates replaces the built-in header names tried during auto-detection.
	ColumnCandidates   *ColumnCandidates `json:"columnCandidates,omitempty"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.DataSource == "" {
		c.DataSource = DefaultDataSource
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.LoadTimeoutSeconds <= 0 {
		c.LoadTimeoutSeconds = 15
	}
}
