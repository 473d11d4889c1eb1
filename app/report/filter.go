// Package report computes filtered views of the session table and renders
// them as CSV or Word documents. Everything here is pure: the inputs are a
// record slice plus explicit parameters, and nothing mutates the store.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/arnoldtRealph/intervensie/app/models"
)

// Filter selects a subset of sessions by lookback window and categorical
// accepted-value sets.
type Filter struct {
	Window models.Window

	// Categories maps a field name ("vak", "graad", "opvoeder") to its
	// accepted values. A field that is present with an empty set matches
	// nothing: an empty multi-select is an explicit "select none", not
	// "no filter". An absent field does not filter.
	Categories map[string]map[string]bool

	// MonthlyCalendar picks calendar-month offset semantics for the
	// monthly window instead of the default fixed 30-day lookback.
	MonthlyCalendar bool
}

// Cutoff returns the inclusive lower date bound for the window anchored at
// now, and whether a bound applies at all. The upper bound is open: future
// dated sessions always pass.
func (f Filter) Cutoff(now time.Time) (time.Time, bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch f.Window {
	case models.WindowWeekly:
		return day.AddDate(0, 0, -7), true
	case models.WindowMonthly:
		if f.MonthlyCalendar {
			return day.AddDate(0, -1, 0), true
		}
		return day.AddDate(0, 0, -30), true
	case models.WindowQuarterly:
		return day.AddDate(0, 0, -90), true
	case models.WindowYearly:
		return day.AddDate(0, 0, -365), true
	default:
		return time.Time{}, false
	}
}

// Apply returns the sessions passing the filter, in input order. Sessions
// with an unknown date are excluded from every window except All.
func (f Filter) Apply(records []models.Session, now time.Time) []models.Session {
	out := []models.Session{}
	for i := range records {
		if f.Match(&records[i], now) {
			out = append(out, records[i])
		}
	}
	return out
}

// Match reports whether a single session passes the filter anchored at now.
func (f Filter) Match(rec *models.Session, now time.Time) bool {
	if cutoff, bounded := f.Cutoff(now); bounded {
		if !rec.DateKnown() {
			return false
		}
		d := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(cutoff) {
			return false
		}
	}
	return f.matchCategories(rec)
}

func (f Filter) matchCategories(rec *models.Session) bool {
	for field, accepted := range f.Categories {
		var value string
		switch field {
		case "vak":
			value = rec.Subject
		case "graad":
			value = rec.Grade
		case "opvoeder":
			value = rec.Facilitator
		default:
			continue
		}
		// len(accepted) == 0 falls through to "nothing matches".
		if !accepted[value] {
			return false
		}
	}
	return true
}

// Describe renders the active filter as the human-readable line used in
// report headers, e.g. "Weekliks; Vak: Wiskunde, Fisika".
func (f Filter) Describe() string {
	parts := []string{f.Window.Label()}
	for _, field := range []string{"graad", "vak", "opvoeder"} {
		accepted, ok := f.Categories[field]
		if !ok {
			continue
		}
		values := make([]string, 0, len(accepted))
		for v := range accepted {
			values = append(values, v)
		}
		sort.Strings(values)
		label := map[string]string{"graad": "Graad", "vak": "Vak", "opvoeder": "Opvoeder"}[field]
		if len(values) == 0 {
			parts = append(parts, label+": (geen)")
		} else {
			parts = append(parts, label+": "+strings.Join(values, ", "))
		}
	}
	return strings.Join(parts, "; ")
}

// Summary holds the aggregate figures shown on the dashboard and in the
// report's summary block.
type Summary struct {
	Sessions  int     `json:"sessies"`
	Invited   int     `json:"totaal_genooi"`
	Attended  int     `json:"totaal_opgedaag"`
	MeanRatio float64 `json:"gemiddelde_opkoms"`
}

// Summarize aggregates the filtered view. MeanRatio is the mean of the
// per-session computed ratios, not the ratio of the summed counts.
func Summarize(records []models.Session) Summary {
	s := Summary{Sessions: len(records)}
	if len(records) == 0 {
		return s
	}
	var total float64
	for i := range records {
		s.Invited += records[i].Invited
		s.Attended += records[i].Attended
		total += records[i].Ratio()
	}
	s.MeanRatio = total / float64(len(records))
	return s
}
