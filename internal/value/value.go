// Package value defines the tagged value tree produced by the tokener and
// its canonical text form.
//
// A parent exclusively owns its children. Trees are built bottom-up, either
// by the tokener or through the constructors below, so they are acyclic and
// never share nodes.
package value

import (
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Integer
	Double
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:    "null",
	Boolean: "boolean",
	Integer: "integer",
	Double:  "double",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node of the tree. The zero Value is Null.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	elems   []*Value
	members []Member
}

// KindError is the panic value raised when an operation is applied to a
// Value of the wrong kind.
type KindError struct {
	Op   string
	Kind Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("value: %s on %s value", e.Op, e.Kind)
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{kind: Null} }

// NewBoolean returns a boolean holding b.
func NewBoolean(b bool) *Value { return &Value{kind: Boolean, b: b} }

// NewInteger returns an integer holding i.
func NewInteger(i int64) *Value { return &Value{kind: Integer, i: i} }

// NewDouble returns a double holding f.
func NewDouble(f float64) *Value { return &Value{kind: Double, f: f} }

// NewString returns a string holding the decoded text s.
func NewString(s string) *Value { return &Value{kind: String, s: s} }

// NewArray returns an array holding elems in order.
func NewArray(elems ...*Value) *Value {
	v := &Value{kind: Array}
	for _, e := range elems {
		v.PushBack(e)
	}
	return v
}

// NewObject returns an empty object.
func NewObject() *Value { return &Value{kind: Object} }

// Kind returns the variant held by v. A nil Value reports Null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v.Kind() == Null }

func (v *Value) mustBe(op string, k Kind) {
	if v.Kind() != k {
		panic(&KindError{Op: op, Kind: v.Kind()})
	}
}

// Insert stores elem at index of an array. Slots between the current end
// and index are filled with Null; an occupied slot is replaced and the
// previous element dropped. A nil elem is stored as Null.
func (v *Value) Insert(index int, elem *Value) {
	v.mustBe("Insert", Array)
	if index < 0 {
		panic(fmt.Sprintf("value: Insert at negative index %d", index))
	}
	if elem == nil {
		elem = NewNull()
	}
	if index < len(v.elems) {
		v.elems[index] = elem
		return
	}
	for len(v.elems) < index {
		v.elems = append(v.elems, NewNull())
	}
	v.elems = append(v.elems, elem)
}

// PushBack appends elem to an array.
func (v *Value) PushBack(elem *Value) {
	v.mustBe("PushBack", Array)
	v.Insert(len(v.elems), elem)
}

// At returns the element at index i of an array, or nil when i is out of
// range or v is not an array. The result is still owned by v.
func (v *Value) At(i int) *Value {
	if v.Kind() != Array || i < 0 || i >= len(v.elems) {
		return nil
	}
	return v.elems[i]
}

// Elements returns the elements of an array. The slice must not be
// modified.
func (v *Value) Elements() []*Value {
	if v.Kind() != Array {
		return nil
	}
	return v.elems
}

// Len returns the number of elements of an array or members of an object,
// and zero for every other kind.
func (v *Value) Len() int {
	switch v.Kind() {
	case Array:
		return len(v.elems)
	case Object:
		return len(v.members)
	}
	return 0
}

// Add appends a member to an object. Existing members with the same key
// are kept and lookups keep seeing the first one.
func (v *Value) Add(key string, val *Value) {
	v.mustBe("Add", Object)
	if val == nil {
		val = NewNull()
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Find returns the value of the first member named key, or nil.
func (v *Value) Find(key string) *Value {
	if v.Kind() != Object {
		return nil
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Erase removes the first member named key and reports whether one was
// found.
func (v *Value) Erase(key string) bool {
	v.mustBe("Erase", Object)
	for i, m := range v.members {
		if m.Key == key {
			copy(v.members[i:], v.members[i+1:])
			v.members[len(v.members)-1] = Member{}
			v.members = v.members[:len(v.members)-1]
			return true
		}
	}
	return false
}

// Members returns the members of an object in insertion order. The slice
// must not be modified.
func (v *Value) Members() []Member {
	if v.Kind() != Object {
		return nil
	}
	return v.members
}

// Equal reports whether v and o are structurally equal. Integer and Double
// values never compare equal to each other.
func (v *Value) Equal(o *Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case Null:
		return true
	case Boolean:
		return v.b == o.b
	case Integer:
		return v.i == o.i
	case Double:
		return v.f == o.f || (v.f != v.f && o.f != o.f)
	case String:
		return v.s == o.s
	case Array:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.members) != len(o.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != o.members[i].Key || !v.members[i].Value.Equal(o.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return NewNull()
	}
	c := *v
	if v.elems != nil {
		c.elems = make([]*Value, len(v.elems))
		for i, e := range v.elems {
			c.elems[i] = e.Clone()
		}
	}
	if v.members != nil {
		c.members = make([]Member, len(v.members))
		for i, m := range v.members {
			c.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return &c
}
