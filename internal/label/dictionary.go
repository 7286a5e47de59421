// Package label interns tree node labels into dense integer ids.
//
// Grounded on the teacher's pkg/collections slice-indexed stores
// (internal/parser/hprof's IndexedObjectStore pattern of append-only,
// dense-id interning) generalized here from heap objects to labels.
package label

// ID identifies an interned label. None is the typed sentinel for "no
// label" (open question decision: never a magic string placeholder).
type ID int32

// None is the sentinel id meaning "no label" / "not mapped".
const None ID = -1

// Dictionary interns labels into ids assigned in insertion order.
// Insert is idempotent. A Dictionary's lifetime spans one join/lookup
// invocation; it may be shared and appended to across many trees in that
// invocation, but it is not safe for concurrent writers (see the
// concurrency model: callers must externally serialize).
type Dictionary struct {
	ids    map[string]ID
	labels []string
}

// New creates an empty label dictionary.
func New() *Dictionary {
	return &Dictionary{ids: make(map[string]ID)}
}

// Insert returns the id for label, assigning a fresh one in insertion
// order on first sight.
func (d *Dictionary) Insert(lbl string) ID {
	if id, ok := d.ids[lbl]; ok {
		return id
	}
	id := ID(len(d.labels))
	d.ids[lbl] = id
	d.labels = append(d.labels, lbl)
	return id
}

// Lookup returns the id for label and whether it has been inserted.
func (d *Dictionary) Lookup(lbl string) (ID, bool) {
	id, ok := d.ids[lbl]
	return id, ok
}

// Label returns the label text for id, or "" if id is out of range.
func (d *Dictionary) Label(id ID) string {
	if id < 0 || int(id) >= len(d.labels) {
		return ""
	}
	return d.labels[id]
}

// Size returns the number of distinct labels interned so far.
func (d *Dictionary) Size() int {
	return len(d.labels)
}

// Clear empties the dictionary, ready for a new invocation.
func (d *Dictionary) Clear() {
	d.ids = make(map[string]ID)
	d.labels = nil
}
