// Package history keeps the committed versions of a canvas.
//
// A Store is a bounded stack of immutable snapshots with a cursor. Committing
// while the cursor is not at the tail throws away the redo branch; committing
// past MaxRecords evicts the oldest snapshot, which then becomes the floor that
// undo cannot go below.
package history

import (
	"fmt"
	"slices"
	"time"

	"github.com/brunoga/deep"

	"poster/internal/document"
	"poster/internal/logging"
)

// MaxRecords caps the number of snapshots a Store keeps.
const MaxRecords = 50

// InitialLabel labels the record a Store starts with.
const InitialLabel = "initialize canvas"

// Record is one committed snapshot. State never aliases another record or
// any caller-held value.
type Record struct {
	Seq   uint64
	Label string
	Time  time.Time
	State document.CanvasState
}

// RecordInfo describes a record for listing without exposing its snapshot.
type RecordInfo struct {
	Index   int
	Seq     uint64
	Label   string
	Time    time.Time
	Current bool
}

// ChangeKind says what moved the cursor.
type ChangeKind int

const (
	ChangeCommit ChangeKind = iota
	ChangeUndo
	ChangeRedo
	ChangeJump
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCommit:
		return "commit"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	case ChangeJump:
		return "jump"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is delivered to observers after the cursor or record set changes.
type Change struct {
	Kind   ChangeKind
	Cursor int
	Len    int
	Label  string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the timestamp source for new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the sole owner of committed canvas state. It is not safe for
// concurrent use; the editor drives it from a single event loop.
type Store struct {
	records    []Record
	cursor     int
	seq        uint64
	navigating bool
	now        func() time.Time
	observers  []func(Change)
}

// New returns a Store holding initial as its only record.
func New(initial document.CanvasState, opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.seq = 1
	s.records = []Record{{
		Seq:   s.seq,
		Label: InitialLabel,
		Time:  s.now(),
		State: deep.MustCopy(initial),
	}}
	return s
}

// OnChange registers fn to run after every commit, undo, redo and jump.
// Commits made from fn while the store is navigating are ignored.
func (s *Store) OnChange(fn func(Change)) {
	s.observers = append(s.observers, fn)
}

// Commit records state as the new current snapshot and reports whether a
// record was added. Any records after the cursor are discarded first.
//
// Commit does nothing while an undo, redo or jump is notifying observers, so
// that reacting to navigation never creates history.
func (s *Store) Commit(label string, state document.CanvasState) bool {
	if s.navigating {
		logging.Logger().Debug("history: commit suppressed during navigation", "label", label)
		return false
	}

	if dropped := len(s.records) - 1 - s.cursor; dropped > 0 {
		logging.Logger().Debug("history: discarding redo branch", "records", dropped)
	}
	s.records = s.records[:s.cursor+1]

	s.seq++
	s.records = append(s.records, Record{
		Seq:   s.seq,
		Label: label,
		Time:  s.now(),
		State: deep.MustCopy(state),
	})
	s.cursor = len(s.records) - 1

	if over := len(s.records) - MaxRecords; over > 0 {
		s.records = slices.Delete(s.records, 0, over)
		s.cursor -= over
		logging.Logger().Debug("history: evicted oldest records", "count", over)
	}
	s.check()

	logging.Logger().Debug("history: commit", "seq", s.seq, "label", label, "cursor", s.cursor)
	s.notify(ChangeCommit)
	return true
}

// Undo steps the cursor back and returns the snapshot now current. At the
// oldest record it does nothing and reports false.
func (s *Store) Undo() (document.CanvasState, bool) {
	if s.cursor == 0 {
		return document.CanvasState{}, false
	}
	s.navigate(s.cursor-1, ChangeUndo)
	return s.Current(), true
}

// Redo steps the cursor forward and returns the snapshot now current. At the
// newest record it does nothing and reports false.
func (s *Store) Redo() (document.CanvasState, bool) {
	if s.cursor >= len(s.records)-1 {
		return document.CanvasState{}, false
	}
	s.navigate(s.cursor+1, ChangeRedo)
	return s.Current(), true
}

// JumpTo moves the cursor to index without removing any records. It reports
// false when index does not name a record.
func (s *Store) JumpTo(index int) (document.CanvasState, bool) {
	if index < 0 || index >= len(s.records) {
		return document.CanvasState{}, false
	}
	if index != s.cursor {
		s.navigate(index, ChangeJump)
	}
	return s.Current(), true
}

func (s *Store) navigate(to int, kind ChangeKind) {
	s.cursor = to
	s.check()
	logging.Logger().Debug("history: "+kind.String(), "cursor", s.cursor, "label", s.records[s.cursor].Label)

	s.navigating = true
	defer func() { s.navigating = false }()
	s.notify(kind)
}

// Current returns a copy of the snapshot at the cursor.
func (s *Store) Current() document.CanvasState {
	return deep.MustCopy(s.records[s.cursor].State)
}

// Label returns the label of the record at the cursor.
func (s *Store) Label() string {
	return s.records[s.cursor].Label
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Cursor returns the index of the current record.
func (s *Store) Cursor() int { return s.cursor }

// CanUndo reports whether Undo would move the cursor.
func (s *Store) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (s *Store) CanRedo() bool { return s.cursor < len(s.records)-1 }

// Records lists every record, oldest first.
func (s *Store) Records() []RecordInfo {
	out := make([]RecordInfo, len(s.records))
	for i, r := range s.records {
		out[i] = RecordInfo{
			Index:   i,
			Seq:     r.Seq,
			Label:   r.Label,
			Time:    r.Time,
			Current: i == s.cursor,
		}
	}
	return out
}

func (s *Store) notify(kind ChangeKind) {
	c := Change{Kind: kind, Cursor: s.cursor, Len: len(s.records), Label: s.records[s.cursor].Label}
	for _, fn := range s.observers {
		fn(c)
	}
}

// check panics when a structural invariant is broken. Reaching it means a bug
// in this package.
func (s *Store) check() {
	if len(s.records) == 0 || len(s.records) > MaxRecords {
		panic(fmt.Sprintf("history: record count %d outside [1, %d]", len(s.records), MaxRecords))
	}
	if s.cursor < 0 || s.cursor >= len(s.records) {
		panic(fmt.Sprintf("history: cursor %d outside [0, %d)", s.cursor, len(s.records)))
	}
}
