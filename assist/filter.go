package assist

// FilterByField returns the records whose field equals value, in their original order.
// An empty value selects nothing.
func FilterByField(records RecordSet, field Field, value string) RecordSet {
	if value == "" {
		return RecordSet{}
	}
	out := make(RecordSet, 0)
	for _, rec := range records {
		if rec.Value(field) == value {
			out = append(out, rec)
		}
	}
	return out
}

// Project maps records onto the two display columns of view.
func Project(records RecordSet, view View) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		label := rec.TargetInstitution
		if view == ViewByTarget {
			label = rec.SourceCourse
		}
		rows[i] = Row{Label: label, Course: rec.TargetCourse}
	}
	return rows
}

// Lookup filters records on the view's key field and projects the matches.
func Lookup(records RecordSet, view View, value string) []Row {
	return Project(FilterByField(records, view.KeyField(), value), view)
}

// Columns returns the column titles of view's result table.
func Columns(view View) [2]string {
	if view == ViewByTarget {
		return [2]string{"University Course", "Equivalent Course"}
	}
	return [2]string{"Community College", "Equivalent Course"}
}
