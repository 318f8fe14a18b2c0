package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistinctValues(t *testing.T) {
	records := RecordSet{
		{SourceCourse: "MATH 1B", TargetInstitution: "Foothill College"},
		{SourceCourse: "", TargetInstitution: "De Anza College"},
		{SourceCourse: "CHEM 1A", TargetInstitution: "Foothill College"},
		{SourceCourse: "MATH 1B", TargetInstitution: ""},
		{SourceCourse: "math 1b", TargetInstitution: "Diablo Valley College"},
	}
	c := NewCollator("en")

	courses := DistinctValues(records, FieldSourceCourse, c)
	assert.ElementsMatch(t, []string{"CHEM 1A", "MATH 1B", "math 1b"}, courses)
	assert.Equal(t, "CHEM 1A", courses[0])

	colleges := DistinctValues(records, FieldTargetInstitution, c)
	assert.Equal(t, []string{"De Anza College", "Diablo Valley College", "Foothill College"}, colleges)
}

func TestDistinctValues_NoDuplicatesAndSorted(t *testing.T) {
	records := RecordSet{}
	for _, v := range []string{"b", "B", "a", "é", "e", "b", "Zulu", "zulu", "10", "9", "a"} {
		records = append(records, Record{TargetCourse: v})
	}
	c := NewCollator("en")
	values := DistinctValues(records, FieldTargetCourse, c)

	seen := map[string]bool{}
	for _, v := range values {
		require.False(t, seen[v], "duplicate %q", v)
		seen[v] = true
	}
	assert.Len(t, values, 9)
	for i := 1; i < len(values); i++ {
		assert.LessOrEqual(t, c.CompareString(values[i-1], values[i]), 0, "%q before %q", values[i-1], values[i])
	}
}

func TestDistinctValues_Deterministic(t *testing.T) {
	forward := RecordSet{{SourceCourse: "B"}, {SourceCourse: "a"}, {SourceCourse: "A"}, {SourceCourse: "b"}}
	reversed := RecordSet{forward[3], forward[2], forward[1], forward[0]}
	c := NewCollator("en")
	assert.Equal(t, DistinctValues(forward, FieldSourceCourse, c), DistinctValues(reversed, FieldSourceCourse, c))
}

func TestDistinctValues_Empty(t *testing.T) {
	assert.Empty(t, DistinctValues(nil, FieldSourceCourse, nil))
	assert.Empty(t, DistinctValues(RecordSet{{}}, FieldTargetInstitution, nil))
}

func TestNewCollator_InvalidLocaleFallsBack(t *testing.T) {
	c := NewCollator("not a locale!")
	require.NotNil(t, c)
	assert.Negative(t, c.CompareString("apple", "banana"))
}
