package dataset

import (
	"fmt"
	"time"

	"github.com/avelar/pillreminder-api/interfaces"
	"github.com/avelar/pillreminder-api/logging"
)

// Compile-time check to ensure Gate implements the DatasetGate interface
var _ interfaces.DatasetGate = (*Gate)(nil)

// MatchMode selects how candidate names are compared against the dataset.
type MatchMode string

const (
	// MatchExact compares names byte for byte, the original behavior.
	MatchExact MatchMode = "exact"

	// MatchFold compares names case- and diacritic-insensitively.
	MatchFold MatchMode = "fold"
)

// Options configures the gate's matching and failure policy.
type Options struct {
	Path       string
	Match      MatchMode
	FailClosed bool
}

// Gate answers whether a medication name is marked inactive in the
// reference dataset. It is advisory: the result carries the facts and the
// caller decides whether to proceed.
type Gate struct {
	container *Container
	opts      Options
}

// NewGate creates a gate and performs the initial dataset load. A failed
// load does not fail construction: the gate starts empty and either fails
// open (default) or closed per Options, and the error is logged either way.
func NewGate(opts Options) *Gate {
	if opts.Match == "" {
		opts.Match = MatchExact
	}

	g := &Gate{
		container: NewContainer(),
		opts:      opts,
	}

	if err := g.Refresh(); err != nil {
		logging.Error("Initial reference dataset load failed",
			"path", opts.Path,
			"fail_closed", opts.FailClosed,
			"error", err)
	}

	return g
}

// Refresh reloads the dataset from disk and swaps the snapshot in
// atomically. Readers keep the previous snapshot until the swap.
func (g *Gate) Refresh() error {
	if !g.container.BeginUpdate() {
		logging.Info("Dataset refresh already in progress, skipping...")
		return nil
	}
	defer g.container.EndUpdate()

	start := time.Now()

	rows, err := LoadFile(g.opts.Path)
	if err != nil {
		return fmt.Errorf("dataset refresh failed: %w", err)
	}

	g.container.Replace(rows)

	logging.Info("Reference dataset loaded",
		"path", g.opts.Path,
		"rows", len(rows),
		"duration", time.Since(start).String())

	return nil
}

// Check looks the candidate name up in the current snapshot. The first
// dataset row whose proprietary name matches decides: a non-empty
// inactivation date means inactive. An unmatched name is active by
// default; so is any name while the dataset is unavailable, unless the
// gate was configured to fail closed.
func (g *Gate) Check(name string) interfaces.GateResult {
	result := interfaces.GateResult{Name: name}

	snap := g.container.load()

	if len(snap.rows) == 0 {
		if g.opts.FailClosed {
			logging.Warn("Dataset unavailable, failing closed", "name", name)
			result.Inactive = true
		} else {
			logging.Warn("Dataset unavailable, failing open", "name", name)
		}
		return result
	}

	var (
		row Row
		ok  bool
	)

	switch g.opts.Match {
	case MatchFold:
		row, ok = snap.byFolded[foldName(name)]
	default:
		row, ok = snap.byName[name]
	}

	if !ok {
		return result
	}

	result.Matched = true
	result.InactivationDate = row.InactivationDate
	result.Inactive = row.InactivationDate != ""

	return result
}

// RowCount returns the size of the current snapshot.
func (g *Gate) RowCount() int {
	return g.container.RowCount()
}

// LastLoaded returns when the current snapshot was loaded.
func (g *Gate) LastLoaded() time.Time {
	return g.container.LastLoaded()
}

// IsUpdating reports whether a refresh is running.
func (g *Gate) IsUpdating() bool {
	return g.container.IsUpdating()
}
