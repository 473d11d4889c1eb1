package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/arnoldtRealph/intervensie/app/models"
)

// WriteTable writes the records as CSV in the canonical column order, one
// row per record plus the header. Output is byte-identical for the same
// input sequence. Zero records produce the header row only.
func WriteTable(w io.Writer, records []models.Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		row := []string{
			rec.DateLabel(),
			rec.Grade,
			rec.Subject,
			rec.Theme,
			rec.StartTime,
			rec.EndTime,
			strconv.Itoa(rec.Invited),
			strconv.Itoa(rec.Attended),
			rec.Facilitator,
			rec.PhotoRef,
			rec.SheetCell(),
			fmt.Sprintf("%.2f", rec.Ratio()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderTable is WriteTable into a byte slice.
func RenderTable(records []models.Session) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
