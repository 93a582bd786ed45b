package datasets

import "github.com/eegml/eegset/frames"

// Field is one named scalar inside a Description.
type Field struct {
	Name  string
	Value any
}

// Description is an ordered record of scalar metadata fields describing one
// recording (subject and session attributes such as age, gender, run).
// It is immutable after construction.
type Description struct {
	fields []Field
	pos    map[string]int
}

// NewDescription builds a description from fields in the given order.
// Later duplicates of a name overwrite the earlier value in place.
func NewDescription(fields ...Field) Description {
	d := Description{pos: make(map[string]int, len(fields))}
	for _, f := range fields {
		if i, ok := d.pos[f.Name]; ok {
			d.fields[i].Value = f.Value
			continue
		}
		d.pos[f.Name] = len(d.fields)
		d.fields = append(d.fields, f)
	}
	return d
}

// Has reports whether the description contains the named field.
func (d Description) Has(name string) bool {
	_, ok := d.pos[name]
	return ok
}

// Get returns the value of the named field and whether it exists.
func (d Description) Get(name string) (any, bool) {
	i, ok := d.pos[name]
	if !ok {
		return nil, false
	}
	return d.fields[i].Value, true
}

// Value returns the value of the named field, or nil when absent.
func (d Description) Value(name string) any {
	v, _ := d.Get(name)
	return v
}

// Names returns the field names in order.
func (d Description) Names() []string {
	out := make([]string, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.Name
	}
	return out
}

// Len returns the number of fields.
func (d Description) Len() int { return len(d.fields) }

// cells converts the description into frame cells, preserving field order.
func (d Description) cells() []frames.Cell {
	cells := make([]frames.Cell, len(d.fields))
	for i, f := range d.fields {
		cells[i] = frames.Cell{Name: f.Name, Value: f.Value}
	}
	return cells
}
