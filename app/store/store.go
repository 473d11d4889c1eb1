// Package store owns the durable session table. The table is a flat CSV
// file with a header row; no other package opens or rewrites it. Records are
// held in memory and snapshotted back to the file on every successful
// mutation. Identity is ordinal position: deleting a row shifts every later
// ordinal down by one.
//
// There is deliberately no cross-process locking: two processes racing on
// the same file are last-writer-wins, matching the single-logical-writer
// model the register has always had.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arnoldtRealph/intervensie/app/models"
)

var ErrNotFound = errors.New("record not found")

// ValidationError names the constraint a rejected submission violated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Policy holds the per-deployment validation switches.
type Policy struct {
	RequireSheet bool
}

// Store is the single owner of the durable table file.
type Store struct {
	mu       sync.Mutex
	path     string
	policy   Policy
	records  []models.Session
	revision uint64
}

// Open reads the table at path. A missing file is an empty store; the file
// is created on the first mutation. An unreadable or malformed file is an
// error: existing data is never silently discarded.
func Open(path string, policy Policy) (*Store, error) {
	s := &Store{path: path, policy: policy}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	records, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	s.records = records
	return s, nil
}

// All returns the records in insertion order. The slice is a copy; callers
// may not mutate the store through it.
func (s *Store) All() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Session, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the current record count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Revision returns a counter that increments on every successful mutation.
// Views memoized against it stay valid until the next append or delete.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Append validates rec and appends it to the table, returning its ordinal.
// The table file is fully rewritten. On a ValidationError nothing changes.
func (s *Store) Append(rec models.Session) (int, error) {
	if err := s.validate(&rec); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if err := s.snapshot(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return 0, err
	}
	s.revision++
	return len(s.records) - 1, nil
}

// Delete removes the record at the given ordinal and rewrites the table.
// The removed record is returned so the caller can cascade artifact
// deletion. The ordinal is resolved against the table as it is now, so a
// stale ordinal acts on whatever record currently sits at that position.
func (s *Store) Delete(ordinal int) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ordinal < 0 || ordinal >= len(s.records) {
		return models.Session{}, fmt.Errorf("%w: ordinal %d out of range [0,%d)", ErrNotFound, ordinal, len(s.records))
	}

	removed := s.records[ordinal]
	rest := make([]models.Session, 0, len(s.records)-1)
	rest = append(rest, s.records[:ordinal]...)
	rest = append(rest, s.records[ordinal+1:]...)

	prev := s.records
	s.records = rest
	if err := s.snapshot(); err != nil {
		s.records = prev
		return models.Session{}, err
	}
	s.revision++
	return removed, nil
}

func (s *Store) validate(rec *models.Session) error {
	if !rec.DateKnown() {
		return &ValidationError{Field: "Datum", Reason: "a valid date is required"}
	}
	if strings.TrimSpace(rec.Subject) == "" {
		return &ValidationError{Field: "Vak", Reason: "subject is required"}
	}
	if strings.TrimSpace(rec.Theme) == "" {
		return &ValidationError{Field: "Tema", Reason: "theme is required"}
	}
	if strings.TrimSpace(rec.Facilitator) == "" {
		return &ValidationError{Field: "Opvoeder", Reason: "facilitator is required"}
	}
	if !models.ValidGrade(rec.Grade) {
		return &ValidationError{Field: "Graad", Reason: "unknown grade label"}
	}
	if rec.Invited < 1 {
		return &ValidationError{Field: "Totaal Genooi", Reason: "must be at least 1"}
	}
	if rec.Attended < 0 {
		return &ValidationError{Field: "Totaal Opgedaag", Reason: "must not be negative"}
	}
	if rec.Attended > rec.Invited {
		return &ValidationError{Field: "Totaal Opgedaag", Reason: "cannot exceed Totaal Genooi"}
	}
	if rec.StartTime != "" && rec.EndTime != "" {
		start, err := time.Parse(models.TimeFormat, rec.StartTime)
		if err != nil {
			return &ValidationError{Field: "Begintyd", Reason: "invalid time, use HH:MM"}
		}
		end, err := time.Parse(models.TimeFormat, rec.EndTime)
		if err != nil {
			return &ValidationError{Field: "Eindtyd", Reason: "invalid time, use HH:MM"}
		}
		if !start.Before(end) {
			return &ValidationError{Field: "Begintyd", Reason: "start time must be before end time"}
		}
	}
	if s.policy.RequireSheet && len(rec.SheetRefs) == 0 {
		return &ValidationError{Field: "Presensielys", Reason: "an attendance sheet is required"}
	}
	return nil
}

// snapshot rewrites the whole table file. Caller holds the lock.
func (s *Store) snapshot() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("rewrite table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		return fmt.Errorf("rewrite table: %w", err)
	}
	for i := range s.records {
		if err := w.Write(rowOf(&s.records[i])); err != nil {
			return fmt.Errorf("rewrite table: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("rewrite table: %w", err)
	}
	return nil
}

func rowOf(rec *models.Session) []string {
	return []string{
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
}

// readTable parses the CSV table. The header is matched by name, so older
// tables with fewer columns load with the missing fields defaulted, and
// unknown extra columns are ignored. Rows with unparseable dates are kept
// with the date marked unknown. The stored ratio column is ignored.
func readTable(f *os.File) ([]models.Session, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []models.Session
	for _, row := range rows[1:] {
		rec := models.Session{
			Grade:       cell(row, "Graad"),
			Subject:     cell(row, "Vak"),
			Theme:       cell(row, "Tema"),
			StartTime:   cell(row, "Begintyd"),
			EndTime:     cell(row, "Eindtyd"),
			Invited:     parseCount(cell(row, "Totaal Genooi")),
			Attended:    parseCount(cell(row, "Totaal Opgedaag")),
			Facilitator: cell(row, "Opvoeder"),
			PhotoRef:    cell(row, "Foto"),
			SheetRefs:   models.SplitSheetCell(cell(row, "Presensielys")),
		}
		if d, err := time.Parse(models.DateFormat, cell(row, "Datum")); err == nil {
			rec.Date = d
		} else {
			rec.DateRaw = models.UnknownDate
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseCount is lenient about count cells: older exports wrote integers as
// floats ("20.0"). Anything unparseable defaults to zero.
func parseCount(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
