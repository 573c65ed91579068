// Package memento implements the hierarchical persistence tree used to save
// and restore workbench state across sessions.
//
// A Memento is a node with a type, an ordered bag of attributes, ordered
// children and at most one free-text payload. Attributes are stored as text;
// the typed accessors format and parse canonical representations.
package memento

import (
	"strconv"
)

// IDKey is the reserved attribute holding a node's id.
const IDKey = "IMemento.internal.id"

// Memento is a node of the persistence tree.
//
// The zero value is not usable; construct roots with New and descendants with
// CreateChild or CreateChildWithID.
type Memento struct {
	typ string

	keys  []string
	attrs map[string]string

	children []*Memento

	text    string
	hasText bool
}

// New returns a new root memento of the given type.
func New(typ string) *Memento {
	return &Memento{
		typ:   typ,
		attrs: make(map[string]string),
	}
}

// GetType returns the node type, which is the element tag in the document.
func (m *Memento) GetType() string { return m.typ }

// GetID returns the node id, or the empty string if it has none.
func (m *Memento) GetID() string { return m.attrs[IDKey] }

// CreateChild appends and returns a new child of the given type.
func (m *Memento) CreateChild(typ string) *Memento {
	child := New(typ)
	m.children = append(m.children, child)
	return child
}

// CreateChildWithID appends and returns a new child of the given type with
// the given id. The id can not be changed afterwards.
func (m *Memento) CreateChildWithID(typ, id string) *Memento {
	child := m.CreateChild(typ)
	child.set(IDKey, id)
	return child
}

// GetChild returns the first child of the given type in document order, or nil.
func (m *Memento) GetChild(typ string) *Memento {
	for _, child := range m.children {
		if child.typ == typ {
			return child
		}
	}
	return nil
}

// GetChildren returns all children of the given type in document order.
func (m *Memento) GetChildren(typ string) []*Memento {
	result := []*Memento{}
	for _, child := range m.children {
		if child.typ == typ {
			result = append(result, child)
		}
	}
	return result
}

// GetAllChildren returns all children regardless of type in document order.
func (m *Memento) GetAllChildren() []*Memento {
	result := make([]*Memento, len(m.children))
	copy(result, m.children)
	return result
}

// AttributeKeys returns the attribute keys in insertion order, including the
// reserved id key if set.
func (m *Memento) AttributeKeys() []string {
	result := make([]string, len(m.keys))
	copy(result, m.keys)
	return result
}

// IsEmpty indicates whether the node has neither attributes, children nor
// text.
func (m *Memento) IsEmpty() bool {
	return len(m.keys) == 0 && len(m.children) == 0 && !m.hasText
}

// set stores a raw attribute value, keeping first-insertion order.
// Returns false if the write was refused because it targets an already set id.
func (m *Memento) set(key, value string) bool {
	if key == EncodingKey {
		return false
	}
	old, exists := m.attrs[key]
	if exists {
		if key == IDKey && old != value {
			return false
		}
	} else {
		m.keys = append(m.keys, key)
	}
	m.attrs[key] = value
	return true
}

// PutString sets a string attribute.
// Writes to the reserved id key are ignored once the id is set, writes to
// the reserved encoding key always.
func (m *Memento) PutString(key, value string) {
	m.set(key, value)
}

// PutInteger sets an integer attribute.
func (m *Memento) PutInteger(key string, value int) {
	m.set(key, strconv.Itoa(value))
}

// PutFloat sets a floating point attribute.
func (m *Memento) PutFloat(key string, value float64) {
	m.set(key, strconv.FormatFloat(value, 'g', -1, 64))
}

// PutBoolean sets a boolean attribute, stored as "true" or "false".
func (m *Memento) PutBoolean(key string, value bool) {
	m.set(key, strconv.FormatBool(value))
}

// PutTextData sets the free-text payload of this node.
func (m *Memento) PutTextData(text string) {
	m.text = text
	m.hasText = true
}

// GetString returns the attribute value and whether the key is present.
func (m *Memento) GetString(key string) (string, bool) {
	v, ok := m.attrs[key]
	return v, ok
}

// GetInteger returns the attribute parsed as an integer. ok is false both if the
// key is absent and if its value is malformed.
func (m *Memento) GetInteger(key string) (value int, ok bool) {
	raw, present := m.attrs[key]
	if !present {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GetFloat returns the attribute parsed as a float. ok is false both if the key
// is absent and if its value is malformed.
func (m *Memento) GetFloat(key string) (value float64, ok bool) {
	raw, present := m.attrs[key]
	if !present {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GetBoolean returns the attribute parsed as a boolean. Only "true" and "false"
// are accepted; anything else reports ok=false.
func (m *Memento) GetBoolean(key string) (value bool, ok bool) {
	switch m.attrs[key] {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// GetTextData returns the free-text payload and whether one is set.
func (m *Memento) GetTextData() (string, bool) {
	return m.text, m.hasText
}

// PutMemento copies all attributes and children of other into m.
//
// m's own text payload is left untouched; the copied descendants keep their
// text. The reserved id of m is not overwritten if already set.
func (m *Memento) PutMemento(other *Memento) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		m.set(key, other.attrs[key])
	}
	for _, child := range other.children {
		m.children = append(m.children, child.clone())
	}
}

func (m *Memento) clone() *Memento {
	c := New(m.typ)
	for _, key := range m.keys {
		c.set(key, m.attrs[key])
	}
	for _, child := range m.children {
		c.children = append(c.children, child.clone())
	}
	c.text, c.hasText = m.text, m.hasText
	return c
}

// Clone returns a deep copy of m.
func (m *Memento) Clone() *Memento { return m.clone() }

// Equal reports whether m and other describe the same tree: same type,
// same attribute set, same text and pairwise equal children in order.
// Attribute order is not significant.
func (m *Memento) Equal(other *Memento) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.typ != other.typ || len(m.attrs) != len(other.attrs) || len(m.children) != len(other.children) {
		return false
	}
	for k, v := range m.attrs {
		if ov, ok := other.attrs[k]; !ok || ov != v {
			return false
		}
	}
	mt, _ := m.GetTextData()
	ot, _ := other.GetTextData()
	if mt != ot {
		return false
	}
	for i := range m.children {
		if !m.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}
