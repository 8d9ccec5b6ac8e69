// Package activity keeps an append-only CSV record of store mutations in
// <home>/logs/activity.csv.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tally-dev/tally/internal/ledger"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp     time.Time
	Op            string
	TransactionID string
	Count         int
	Detail        string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,op,transaction_id,count,detail"

const (
	numFields = 5
	logDir    = "logs"
	logFile   = "logs/activity.csv"
	colTime   = 0
	colOp     = 1
	colTxnID  = 2
	colCount  = 3
	colDetail = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colOp] = e.Op
	row[colTxnID] = e.TransactionID
	row[colCount] = strconv.Itoa(e.Count)
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	count, err := strconv.Atoi(record[colCount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing count %q: %w", record[colCount], err)
	}

	return Entry{
		Timestamp:     ts,
		Op:            record[colOp],
		TransactionID: record[colTxnID],
		Count:         count,
		Detail:        record[colDetail],
	}, nil
}

// FromEvent converts a store event into a log entry stamped at now.
func FromEvent(ev ledger.Event, now time.Time) Entry {
	return Entry{
		Timestamp:     now.UTC().Truncate(time.Second),
		Op:            string(ev.Op),
		TransactionID: ev.ID,
		Count:         ev.Count,
		Detail:        ev.Detail,
	}
}

// Append writes entries to <home>/logs/activity.csv, creating the file and header if needed.
func Append(home string, entries []Entry) error {
	dir := filepath.Join(home, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(home, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <home>/logs/activity.csv.
// Returns an empty slice if the file does not exist.
func Read(home string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(home, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder buffers store events until Flush.
type Recorder struct {
	now     func() time.Time
	pending []Entry
}

// NewRecorder returns a Recorder stamping entries with now.
func NewRecorder(now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{now: now}
}

// Record is a ledger.Store change hook.
func (r *Recorder) Record(ev ledger.Event) {
	r.pending = append(r.pending, FromEvent(ev, r.now()))
}

// Pending returns the buffered entries.
func (r *Recorder) Pending() []Entry {
	return r.pending
}

// Flush appends buffered entries to the home's log and clears the buffer.
func (r *Recorder) Flush(home string) error {
	if len(r.pending) == 0 {
		return nil
	}
	if err := Append(home, r.pending); err != nil {
		return err
	}
	r.pending = nil
	return nil
}
