// Package board holds the client-side state of the tracking dashboard: an
// in-memory ordered list of tracked packages plus the API client used to
// resolve new entries. Nothing here persists; a restart starts empty.
package board

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/parcel-proxy/internal/track"
)

// FilterAll disables the status predicate so only the search term applies.
const FilterAll = "all"

// Package is a tracked entry on the board. The id is local-only identity for
// add/remove; the tracking service assigns none.
type Package struct {
	ID string `json:"id"`
	track.Result
}

// Counts is the board's summary rollup.
type Counts struct {
	Total     int
	InTransit int
	Delivered int
}

// List is an ordered, concurrency-safe collection of tracked packages.
// Entries are append-only and remove-only; re-tracking a number creates a
// new entry rather than updating in place.
type List struct {
	mu   sync.Mutex
	pkgs []Package
}

func NewList() *List {
	return &List{}
}

// Add appends a result under a fresh local id and returns the stored entry.
func (l *List) Add(res track.Result) Package {
	pkg := Package{ID: shortID(), Result: res}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pkgs = append(l.pkgs, pkg)
	return pkg
}

// Remove deletes the entry with the given local id. It reports whether an
// entry was removed; removal is irreversible.
func (l *List) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, pkg := range l.pkgs {
		if pkg.ID == id {
			l.pkgs = append(l.pkgs[:i], l.pkgs[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the list in insertion order.
func (l *List) Items() []Package {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Package, len(l.pkgs))
	copy(out, l.pkgs)
	return out
}

// Filter derives a view of the list. A package is included when the search
// query matches its tracking number or carrier case-insensitively AND its
// status equals the selected bucket (FilterAll matches every bucket). Both
// predicates are recomputed on every call; the list stays small enough that
// indexing would be overhead.
func (l *List) Filter(query, status string) []Package {
	q := strings.ToLower(query)

	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Package, 0, len(l.pkgs))
	for _, pkg := range l.pkgs {
		matchesSearch := strings.Contains(strings.ToLower(pkg.TrackingNumber), q) ||
			strings.Contains(strings.ToLower(pkg.Carrier), q)
		matchesStatus := status == FilterAll || string(pkg.Status) == status
		if matchesSearch && matchesStatus {
			out = append(out, pkg)
		}
	}
	return out
}

// Counts returns the summary rollup shown above the package grid.
func (l *List) Counts() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := Counts{Total: len(l.pkgs)}
	for _, pkg := range l.pkgs {
		switch pkg.Status {
		case track.StatusInTransit:
			c.InTransit++
		case track.StatusDelivered:
			c.Delivered++
		}
	}
	return c
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
