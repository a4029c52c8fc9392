package variant

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/marmos91/netwire/pkg/wire"
)

// Key identifies a sub-record type within a section.
type Key struct {
	Class  uint64
	Number uint64
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.Class, k.Number)
}

// Entry describes one legal tag.
type Entry struct {
	Name           string
	RequiresLength bool
	FixedLength    int  // required value of the length field, 0 when variable
	Terminator     bool // designated end marker
}

// Catalog resolves tags to entries.
type Catalog interface {
	Lookup(Key) (Entry, bool)
	Keys() []Key
}

// StaticCatalog is a map-backed Catalog for tables declared in code.
type StaticCatalog map[Key]Entry

func (c StaticCatalog) Lookup(k Key) (Entry, bool) {
	e, ok := c[k]
	return e, ok
}

// Keys returns the catalog keys ordered by class, then number.
func (c StaticCatalog) Keys() []Key {
	keys := make([]Key, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(a.Class, b.Class); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	return keys
}

// Validate checks the entries that do not depend on a section.
func (c StaticCatalog) Validate() error {
	return validateEntries(c, 0, "catalog")
}

// validateEntries checks every entry; minLength is the smallest legal
// length value for the owning section.
func validateEntries(c Catalog, minLength int, owner string) error {
	keys := c.Keys()
	if len(keys) == 0 {
		return catalogError("%s: catalog is empty", owner)
	}
	for _, k := range keys {
		e, ok := c.Lookup(k)
		if !ok {
			return catalogError("%s: key %s listed but not resolvable", owner, k)
		}
		switch {
		case e.Name == "":
			return catalogError("%s: entry %s has no name", owner, k)
		case e.Terminator && e.RequiresLength:
			return catalogError("%s: terminator %s (%s) cannot carry a length", owner, k, e.Name)
		case e.FixedLength < 0:
			return catalogError("%s: entry %s (%s) has negative fixed length", owner, k, e.Name)
		case e.FixedLength != 0 && !e.RequiresLength:
			return catalogError("%s: entry %s (%s) declares a fixed length without a length field", owner, k, e.Name)
		case e.FixedLength != 0 && e.FixedLength < minLength:
			return catalogError("%s: entry %s (%s) fixed length %d is below the minimum %d", owner, k, e.Name, e.FixedLength, minLength)
		}
	}
	return nil
}

func hasTerminator(c Catalog) bool {
	for _, k := range c.Keys() {
		if e, _ := c.Lookup(k); e.Terminator {
			return true
		}
	}
	return false
}

func catalogError(format string, args ...any) *wire.Error {
	return wire.Errorf(wire.KindInvalidCatalog, "Validate", wire.Position{}, format, args...)
}
