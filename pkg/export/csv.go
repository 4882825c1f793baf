// Package export writes decoded sessions to external formats.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// csvHeader matches the column layout downstream spreadsheets expect.
var csvHeader = []string{"Timestamp", "Name", "Value"}

// WriteCSV writes the samples as CSV with a Timestamp, Name, Value header
// row. Array values are rendered in bracketed list form.
func WriteCSV(w io.Writer, samples []session.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Timestamp, 'f', 6, 64),
			s.Name,
			s.Value.Text(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
