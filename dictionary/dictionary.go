// Package dictionary holds the field dictionary used to type FieldList entries.
//
// A FieldList entry carries only a field id; the dictionary maps the id to the
// field's acronym, wire type, ripple-to field and optional enum table. A
// Dictionary is built once (Load, LoadFile or Add) and is then safe for
// concurrent reads.
package dictionary

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/collision"
	"github.com/arloliu/omm/internal/hash"
)

// FieldDef describes one dictionary field.
type FieldDef struct {
	FieldID    int16
	Acronym    string
	DDEAcronym string
	Type       format.DataType
	RippleTo   int16 // 0 when the field does not ripple
	Enums      *EnumTable
}

// EnumTable maps enum values of a field to their display strings.
type EnumTable struct {
	display map[uint16]string
}

// NewEnumTable creates an enum table from a value-to-display map.
func NewEnumTable(values map[uint16]string) *EnumTable {
	return &EnumTable{display: maps.Clone(values)}
}

// Display returns the display string of v.
func (t *EnumTable) Display(v uint16) (string, bool) {
	if t == nil {
		return "", false
	}
	s, ok := t.display[v]

	return s, ok
}

// Len returns the number of enum values.
func (t *EnumTable) Len() int {
	if t == nil {
		return 0
	}

	return len(t.display)
}

// Dictionary is a set of field definitions indexed by field id and acronym.
type Dictionary struct {
	Version  string
	fields   map[int16]*FieldDef
	acronyms *collision.Tracker
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		fields:   make(map[int16]*FieldDef),
		acronyms: collision.NewTracker(),
	}
}

// Add inserts a field definition.
//
// Returns:
//   - errs.ErrInvalidFieldType if def.Type cannot be carried by a FieldList entry
//   - errs.ErrDuplicateField if def.FieldID is already defined
//   - errs.ErrDuplicateAcronym if def.Acronym is already defined
func (d *Dictionary) Add(def FieldDef) error {
	if !validFieldType(def.Type) {
		return fmt.Errorf("%w: fid %d has type %s", errs.ErrInvalidFieldType, def.FieldID, def.Type)
	}

	if _, exists := d.fields[def.FieldID]; exists {
		return fmt.Errorf("%w: fid %d", errs.ErrDuplicateField, def.FieldID)
	}

	if err := d.acronyms.Track(def.Acronym, hash.ID(def.Acronym), def.FieldID); err != nil {
		return fmt.Errorf("fid %d acronym %q: %w", def.FieldID, def.Acronym, err)
	}

	stored := def
	d.fields[def.FieldID] = &stored

	return nil
}

// FieldByID returns the definition of fid.
func (d *Dictionary) FieldByID(fid int16) (FieldDef, bool) {
	if d == nil {
		return FieldDef{}, false
	}

	def, ok := d.fields[fid]
	if !ok {
		return FieldDef{}, false
	}

	return *def, true
}

// FieldByName returns the definition whose acronym is acronym.
func (d *Dictionary) FieldByName(acronym string) (FieldDef, bool) {
	if d == nil {
		return FieldDef{}, false
	}

	fid, ok := d.acronyms.Lookup(acronym, hash.ID(acronym))
	if !ok {
		return FieldDef{}, false
	}

	return d.FieldByID(fid)
}

// EnumDisplay returns the display string of enum value v of field fid.
func (d *Dictionary) EnumDisplay(fid int16, v uint16) (string, bool) {
	def, ok := d.FieldByID(fid)
	if !ok {
		return "", false
	}

	return def.Enums.Display(v)
}

// Len returns the number of fields.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}

	return len(d.fields)
}

// HasAcronymCollision reports whether two acronyms share an index hash.
// Lookups stay exact either way.
func (d *Dictionary) HasAcronymCollision() bool {
	return d.acronyms.HasCollision()
}

// All yields the fields in ascending field id order.
func (d *Dictionary) All() iter.Seq[FieldDef] {
	return func(yield func(FieldDef) bool) {
		if d == nil {
			return
		}

		defs := slices.SortedFunc(maps.Values(d.fields), func(a, b *FieldDef) int {
			return cmp.Compare(a.FieldID, b.FieldID)
		})
		for _, def := range defs {
			if !yield(*def) {
				return
			}
		}
	}
}

func validFieldType(t format.DataType) bool {
	return t.IsPrimitive() || t == format.Array || t.IsContainer() || t.IsBlob() || t == format.NoData
}
