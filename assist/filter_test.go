package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var scenarioRecords = RecordSet{
	{SourceCourse: "MATH 1A", TargetInstitution: "Foothill College", TargetCourse: "MATH 1A"},
	{SourceCourse: "MATH 1A", TargetInstitution: "De Anza College", TargetCourse: "MATH 1A"},
}

func TestLookup_BySourceCourse(t *testing.T) {
	rows := Lookup(scenarioRecords, ViewBySource, "MATH 1A")
	assert.Equal(t, []Row{
		{Label: "Foothill College", Course: "MATH 1A"},
		{Label: "De Anza College", Course: "MATH 1A"},
	}, rows)
}

func TestLookup_ByTargetInstitution(t *testing.T) {
	rows := Lookup(scenarioRecords, ViewByTarget, "De Anza College")
	assert.Equal(t, []Row{{Label: "MATH 1A", Course: "MATH 1A"}}, rows)
}

// An unset selection shows nothing rather than the whole table.
func TestLookup_EmptySelectionYieldsNoRows(t *testing.T) {
	for _, view := range Views {
		assert.Empty(t, Lookup(scenarioRecords, view, ""), view.Label())
	}
	for _, f := range []Field{FieldSourceCourse, FieldTargetInstitution, FieldTargetCourse} {
		assert.Empty(t, FilterByField(scenarioRecords, f, ""), f.String())
	}
}

func TestFilterByField_StableAndExact(t *testing.T) {
	records := RecordSet{
		{SourceCourse: "A", TargetInstitution: "X", TargetCourse: "1"},
		{SourceCourse: "B", TargetInstitution: "X", TargetCourse: "2"},
		{SourceCourse: "A", TargetInstitution: "Y", TargetCourse: "3"},
		{SourceCourse: "a", TargetInstitution: "Z", TargetCourse: "4"},
		{SourceCourse: "A ", TargetInstitution: "Z", TargetCourse: "5"},
		{SourceCourse: "A", TargetInstitution: "Z", TargetCourse: "6"},
	}
	got := FilterByField(records, FieldSourceCourse, "A")
	assert.Equal(t, RecordSet{records[0], records[2], records[5]}, got)

	for _, rec := range got {
		assert.Equal(t, "A", rec.SourceCourse)
	}
}

func TestFilterByField_DoesNotMutateInput(t *testing.T) {
	records := scenarioRecords.Clone()
	got := FilterByField(records, FieldTargetInstitution, "Foothill College")
	got[0].TargetCourse = "changed"
	assert.Equal(t, scenarioRecords, records)
}

func TestFilterByField_NoMatch(t *testing.T) {
	assert.Empty(t, FilterByField(scenarioRecords, FieldSourceCourse, "PHYS 7A"))
}

func TestColumns(t *testing.T) {
	assert.Equal(t, [2]string{"Community College", "Equivalent Course"}, Columns(ViewBySource))
	assert.Equal(t, [2]string{"University Course", "Equivalent Course"}, Columns(ViewByTarget))
}

func TestViewKeyField(t *testing.T) {
	assert.Equal(t, FieldSourceCourse, ViewBySource.KeyField())
	assert.Equal(t, FieldTargetInstitution, ViewByTarget.KeyField())
}
