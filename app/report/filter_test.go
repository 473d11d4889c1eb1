package report

import (
	"testing"
	"time"

	"github.com/arnoldtRealph/intervensie/app/models"
)

func session(date string, subject string) models.Session {
	s := models.Session{
		Subject:     subject,
		Theme:       "Tema",
		Invited:     10,
		Attended:    5,
		Facilitator: "Mnr. Arnoldt",
	}
	if d, err := time.Parse(models.DateFormat, date); err == nil {
		s.Date = d
	} else {
		s.DateRaw = models.UnknownDate
	}
	return s
}

func TestWeeklyWindowBoundary(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	flt := Filter{Window: models.WindowWeekly}

	records := []models.Session{
		session("2024-03-08", "op die grens"), // exactly 7 days back: included
		session("2024-03-07", "te oud"),       // one day past: excluded
		session("2024-04-01", "toekoms"),      // future-dated: always passes
	}
	got := flt.Apply(records, now)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
	if got[0].Subject != "op die grens" || got[1].Subject != "toekoms" {
		t.Fatalf("wrong subset: %+v", got)
	}
}

func TestWindowIntervals(t *testing.T) {
	now := time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC)
	cases := []struct {
		window models.Window
		in     string
		out    string
	}{
		{models.WindowWeekly, "2024-06-23", "2024-06-22"},
		{models.WindowMonthly, "2024-05-31", "2024-05-30"},
		{models.WindowQuarterly, "2024-04-01", "2024-03-31"},
		{models.WindowYearly, "2023-07-01", "2023-06-30"},
	}
	for _, c := range cases {
		flt := Filter{Window: c.window}
		got := flt.Apply([]models.Session{session(c.in, "in"), session(c.out, "uit")}, now)
		if len(got) != 1 || got[0].Subject != "in" {
			t.Fatalf("%s: got %+v", c.window, got)
		}
	}
}

func TestMonthlyCalendarPolicy(t *testing.T) {
	// 2024-03-31 minus a calendar month clips to 2024-02-29; fixed lookback
	// lands on 2024-03-01.
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	rec := session("2024-02-29", "einde Februarie")

	fixed := Filter{Window: models.WindowMonthly}
	if got := fixed.Apply([]models.Session{rec}, now); len(got) != 0 {
		t.Fatalf("30-day policy should exclude 2024-02-29")
	}
	calendar := Filter{Window: models.WindowMonthly, MonthlyCalendar: true}
	if got := calendar.Apply([]models.Session{rec}, now); len(got) != 1 {
		t.Fatalf("calendar policy should include 2024-02-29")
	}
}

func TestUnknownDatesOnlyPassAll(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	records := []models.Session{session("nie 'n datum nie", "onbekend")}

	for _, w := range []models.Window{models.WindowWeekly, models.WindowMonthly, models.WindowQuarterly, models.WindowYearly} {
		if got := (Filter{Window: w}).Apply(records, now); len(got) != 0 {
			t.Fatalf("%s: unknown-date row must be excluded", w)
		}
	}
	if got := (Filter{Window: models.WindowAll}).Apply(records, now); len(got) != 1 {
		t.Fatalf("All window must keep unknown-date rows")
	}
}

func TestEmptyAcceptedSetMatchesNothing(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	records := []models.Session{session("2024-03-14", "Wiskunde")}

	flt := Filter{
		Window:     models.WindowAll,
		Categories: map[string]map[string]bool{"vak": {}},
	}
	if got := flt.Apply(records, now); len(got) != 0 {
		t.Fatalf("empty accepted set behaved as no-filter: %+v", got)
	}

	// absent field really is no-filter
	flt.Categories = map[string]map[string]bool{}
	if got := flt.Apply(records, now); len(got) != 1 {
		t.Fatalf("absent field must not filter")
	}
}

func TestCategoryFilters(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	a := session("2024-03-14", "Wiskunde")
	a.Grade = "Graad 10"
	b := session("2024-03-14", "Fisika")
	b.Grade = "Graad 11"

	flt := Filter{
		Window: models.WindowAll,
		Categories: map[string]map[string]bool{
			"vak":   {"Wiskunde": true, "Geografie": true},
			"graad": {"Graad 10": true},
		},
	}
	got := flt.Apply([]models.Session{a, b}, now)
	if len(got) != 1 || got[0].Subject != "Wiskunde" {
		t.Fatalf("got %+v", got)
	}
}

func TestSummarizeMeanOfRatios(t *testing.T) {
	// mean of per-record ratios, not ratio of sums: (100 + 50) / 2 = 75,
	// while 15/20 of the summed counts would be 75 too; pick counts where
	// they differ.
	a := models.Session{Invited: 10, Attended: 10} // 100%
	b := models.Session{Invited: 40, Attended: 10} // 25%
	s := Summarize([]models.Session{a, b})
	if s.Sessions != 2 || s.Invited != 50 || s.Attended != 20 {
		t.Fatalf("sums wrong: %+v", s)
	}
	if s.MeanRatio != 62.5 {
		t.Fatalf("MeanRatio = %v, want 62.5 (ratio-of-sums would be 40)", s.MeanRatio)
	}

	if z := Summarize(nil); z.Sessions != 0 || z.MeanRatio != 0 {
		t.Fatalf("empty summary wrong: %+v", z)
	}
}

func TestDescribe(t *testing.T) {
	flt := Filter{
		Window:     models.WindowWeekly,
		Categories: map[string]map[string]bool{"vak": {"Fisika": true, "Wiskunde": true}},
	}
	if got := flt.Describe(); got != "Weekliks; Vak: Fisika, Wiskunde" {
		t.Fatalf("unexpected description %q", got)
	}
	empty := Filter{Window: models.WindowAll, Categories: map[string]map[string]bool{"graad": {}}}
	if got := empty.Describe(); got != "Alles; Graad: (geen)" {
		t.Fatalf("unexpected description %q", got)
	}
}
