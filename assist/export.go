package assist

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteRowsCSV writes rows under view's column titles.
func WriteRowsCSV(w io.Writer, view View, rows []Row) error {
	writer := csv.NewWriter(w)
	cols := Columns(view)
	if err := writer.Write(cols[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write([]string{row.Label, row.Course}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}
	return nil
}
