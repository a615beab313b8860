// Package dataset implements the reference-dataset gate: a read-only
// lookup of medication names against a regulatory CSV listing proprietary
// names and their inactivation dates. The dataset is loaded into an
// immutable snapshot and swapped atomically on refresh, so concurrent
// readers never take a lock.
package dataset

import (
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Row is one reference-dataset record. Only the two required columns are
// retained; everything else in the file is ignored.
type Row struct {
	ProprietaryName  string
	InactivationDate string
}

// snapshot is the immutable result of one dataset load. Lookup maps keep
// the first occurrence of each name, preserving the row-order "first match
// decides" semantics of a linear scan.
type snapshot struct {
	rows     []Row
	byName   map[string]Row
	byFolded map[string]Row
	loadedAt time.Time
}

func newSnapshot(rows []Row, loadedAt time.Time) *snapshot {
	s := &snapshot{
		rows:     rows,
		byName:   make(map[string]Row, len(rows)),
		byFolded: make(map[string]Row, len(rows)),
		loadedAt: loadedAt,
	}

	for _, row := range rows {
		if _, ok := s.byName[row.ProprietaryName]; !ok {
			s.byName[row.ProprietaryName] = row
		}

		folded := foldName(row.ProprietaryName)
		if _, ok := s.byFolded[folded]; !ok {
			s.byFolded[folded] = row
		}
	}

	return s
}

// Container holds the current snapshot behind an atomic pointer so a
// refresh replaces the whole table in one swap.
type Container struct {
	current  atomic.Value // *snapshot
	updating atomic.Bool
}

// NewContainer creates a container holding an empty snapshot.
func NewContainer() *Container {
	c := &Container{}
	c.current.Store(newSnapshot(nil, time.Time{}))
	return c
}

func (c *Container) load() *snapshot {
	return c.current.Load().(*snapshot)
}

// Replace swaps in a freshly loaded snapshot.
func (c *Container) Replace(rows []Row) {
	c.current.Store(newSnapshot(rows, time.Now()))
}

// RowCount returns the number of rows in the current snapshot.
func (c *Container) RowCount() int {
	return len(c.load().rows)
}

// LastLoaded returns when the current snapshot was loaded; zero if no load
// has succeeded yet.
func (c *Container) LastLoaded() time.Time {
	return c.load().loadedAt
}

// BeginUpdate marks a refresh in progress; returns false if one already is.
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate clears the refresh-in-progress flag.
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}

// IsUpdating reports whether a refresh is in progress.
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// foldTransformer strips diacritics after NFD decomposition, so folded
// matching treats e.g. "Doliprane" and "Doliprané" as the same name.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldName(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
