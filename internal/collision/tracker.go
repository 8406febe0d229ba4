// Package collision tracks hashed dictionary acronyms and detects hash collisions.
package collision

import (
	"github.com/arloliu/omm/errs"
)

// Tracker maps acronym hashes to field ids.
//
// Lookups go through the hash first; when two different acronyms share a hash
// the tracker flags a collision and keeps an exact-name side table so lookups
// stay correct.
type Tracker struct {
	byHash       map[uint64]entry
	byName       map[string]int16 // populated only once a collision is seen
	hasCollision bool
}

type entry struct {
	name string
	fid  int16
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64]entry),
	}
}

// Track records acronym with its hash and field id.
//
// Returns:
//   - errs.ErrInvalidDictionary if the acronym is empty
//   - errs.ErrDuplicateAcronym if the acronym is already tracked
func (t *Tracker) Track(acronym string, hash uint64, fid int16) error {
	if acronym == "" {
		return errs.ErrInvalidDictionary
	}

	if t.byName != nil {
		if _, ok := t.byName[acronym]; ok {
			return errs.ErrDuplicateAcronym
		}
	}

	existing, exists := t.byHash[hash]
	if exists {
		if existing.name == acronym {
			return errs.ErrDuplicateAcronym
		}

		if !t.hasCollision {
			t.hasCollision = true
			t.byName = make(map[string]int16, len(t.byHash)+1)
			for _, e := range t.byHash {
				t.byName[e.name] = e.fid
			}
		}
		t.byName[acronym] = fid

		return nil
	}

	t.byHash[hash] = entry{name: acronym, fid: fid}
	if t.byName != nil {
		t.byName[acronym] = fid
	}

	return nil
}

// Lookup returns the field id tracked for acronym.
func (t *Tracker) Lookup(acronym string, hash uint64) (int16, bool) {
	if t.hasCollision {
		fid, ok := t.byName[acronym]
		return fid, ok
	}

	e, ok := t.byHash[hash]
	if !ok || e.name != acronym {
		return 0, false
	}

	return e.fid, true
}

// HasCollision reports whether two tracked acronyms share a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}
