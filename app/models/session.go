package models

import (
	"math"
	"strings"
	"time"
)

// DateFormat is the calendar-date layout used throughout the table and API.
const DateFormat = "2006-01-02"

// TimeFormat is the layout for the optional start/end time-of-day fields.
const TimeFormat = "15:04"

// UnknownDate is what a row's date reads as when the stored value could not
// be parsed. Such rows are kept, never dropped.
const UnknownDate = "unknown"

// Columns is the canonical column set of the durable table, in declared
// order. The headers are the original register's Afrikaans names so existing
// intervensie_database.csv files load unchanged. "Opkoms %" is derived and
// recomputed on every read; a stored value is never trusted.
var Columns = []string{
	"Datum",
	"Graad",
	"Vak",
	"Tema",
	"Begintyd",
	"Eindtyd",
	"Totaal Genooi",
	"Totaal Opgedaag",
	"Opvoeder",
	"Foto",
	"Presensielys",
	"Opkoms %",
}

// Session represents one logged intervention-class event.
type Session struct {
	Date        time.Time `json:"-"`
	DateRaw     string    `json:"-"` // set to UnknownDate when the stored date did not parse
	Grade       string    `json:"graad,omitempty"`
	Subject     string    `json:"vak"`
	Theme       string    `json:"tema"`
	StartTime   string    `json:"begintyd,omitempty"`
	EndTime     string    `json:"eindtyd,omitempty"`
	Invited     int       `json:"totaal_genooi"`
	Attended    int       `json:"totaal_opgedaag"`
	Facilitator string    `json:"opvoeder"`
	PhotoRef    string    `json:"foto,omitempty"`
	SheetRefs   []string  `json:"presensielys,omitempty"`
}

// DateKnown reports whether the session carries a parseable calendar date.
func (s *Session) DateKnown() bool {
	return s.DateRaw == "" && !s.Date.IsZero()
}

// DateLabel returns the ISO date string, or UnknownDate for rows whose
// stored date could not be parsed.
func (s *Session) DateLabel() string {
	if !s.DateKnown() {
		return UnknownDate
	}
	return s.Date.Format(DateFormat)
}

// Ratio computes the attendance percentage, rounded to two decimals.
// A session with zero invited learners has a ratio of 0.0.
func (s *Session) Ratio() float64 {
	if s.Invited <= 0 {
		return 0.0
	}
	r := float64(s.Attended) / float64(s.Invited) * 100
	return math.Round(r*100) / 100
}

// SheetCell joins the attendance-sheet refs into the single table cell value.
func (s *Session) SheetCell() string {
	return strings.Join(s.SheetRefs, ";")
}

// SplitSheetCell parses a Presensielys cell back into individual refs.
func SplitSheetCell(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var refs []string
	for _, p := range strings.Split(cell, ";") {
		if p = strings.TrimSpace(p); p != "" {
			refs = append(refs, p)
		}
	}
	return refs
}
