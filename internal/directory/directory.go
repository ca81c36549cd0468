// Package directory holds the fixed recipient directory: an ordered,
// immutable list of known recipient names loaded once at startup.
package directory

// Directory is a read-only snapshot of the recipient list. Order matters:
// it is the tie-break order used by the matcher, and duplicates are
// tolerated (each entry is scored independently).
type Directory struct {
	names []string
}

// New copies the given names into an immutable directory.
func New(names []string) *Directory {
	copied := make([]string, len(names))
	copy(copied, names)
	return &Directory{names: copied}
}

// Names returns a copy of the directory entries in original order.
func (d *Directory) Names() []string {
	copied := make([]string, len(d.names))
	copy(copied, d.names)
	return copied
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.names)
}
