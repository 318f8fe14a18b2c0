package assist

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewCollator returns a collator for the given BCP 47 locale, falling back to English.
// Collators are not safe for concurrent use; create one per goroutine.
func NewCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag)
}

// DistinctValues returns the unique non-empty values of field in locale order.
// Values are compared verbatim: no trimming or case folding.
func DistinctValues(records RecordSet, field Field, c *collate.Collator) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range records {
		v := rec.Value(field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	SortValues(out, c)
	return out
}

// SortValues sorts values with the collator. Strings the collator ranks equal are
// ordered byte-wise so the result does not depend on input order.
func SortValues(values []string, c *collate.Collator) {
	if c == nil {
		c = NewCollator("")
	}
	sort.Slice(values, func(i, j int) bool {
		if cmp := c.CompareString(values[i], values[j]); cmp != 0 {
			return cmp < 0
		}
		return values[i] < values[j]
	})
}
