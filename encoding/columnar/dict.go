package columnar

import "github.com/grailbio/hts/sam"

// Dict is a categorical dictionary from chromosome names to dense uint32
// codes.  Codes are assigned in order of first appearance.  The zero value
// is not usable; call NewDict.
type Dict struct {
	names []string
	ids   map[string]uint32
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{ids: make(map[string]uint32)}
}

// NewDictFromHeader returns a dictionary whose codes are the reference IDs
// of h, so that rows sort in header order.
func NewDictFromHeader(h *sam.Header) *Dict {
	d := NewDict()
	for _, ref := range h.Refs() {
		d.ID(ref.Name())
	}
	return d
}

// ID returns the code for name, assigning the next free code if name is new.
func (d *Dict) ID(name string) uint32 {
	if id, ok := d.ids[name]; ok {
		return id
	}
	id := uint32(len(d.names))
	d.names = append(d.names, name)
	d.ids[name] = id
	return id
}

// Lookup returns the code for name, if it has one.
func (d *Dict) Lookup(name string) (uint32, bool) {
	id, ok := d.ids[name]
	return id, ok
}

// Name returns the name with the given code.  It panics if id was never
// assigned.
func (d *Dict) Name(id uint32) string {
	return d.names[id]
}

// Len returns the number of distinct names.
func (d *Dict) Len() int { return len(d.names) }
