// Package model defines the value and status types shared across the job
// execution subsystem: the dynamically typed AnyValue used for workspace
// variables, job/runner/instruction status enums, and the job log record.
package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind identifies the concrete shape held by an AnyValue.
type Kind int

const (
	// KindEmpty is the zero value of AnyValue: no type, no data.
	KindEmpty Kind = iota
	KindBool
	KindInt64
	KindUint64
	KindFloat64
	KindString
	KindStruct
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// AnyValue is a dynamically typed value carried over the variable update and
// request/reply boundaries of the job execution subsystem. It stands in for
// the sup::dto::AnyValue of the underlying engine: a value that can be a
// scalar, a named-member struct, or an ordered array, discovered at runtime
// rather than declared in Go's type system.
//
// The zero value is a valid empty AnyValue (Kind() == KindEmpty).
type AnyValue struct {
	kind Kind

	scalarBool    bool
	scalarInt64   int64
	scalarUint64  uint64
	scalarFloat64 float64
	scalarString  string

	members map[string]AnyValue
	order   []string
	elems   []AnyValue
}

// Empty returns the empty AnyValue.
func Empty() AnyValue { return AnyValue{} }

// NewBool wraps a bool scalar.
func NewBool(v bool) AnyValue { return AnyValue{kind: KindBool, scalarBool: v} }

// NewInt64 wraps a signed integer scalar.
func NewInt64(v int64) AnyValue { return AnyValue{kind: KindInt64, scalarInt64: v} }

// NewUint64 wraps an unsigned integer scalar.
func NewUint64(v uint64) AnyValue { return AnyValue{kind: KindUint64, scalarUint64: v} }

// NewFloat64 wraps a floating point scalar.
func NewFloat64(v float64) AnyValue { return AnyValue{kind: KindFloat64, scalarFloat64: v} }

// NewString wraps a string scalar.
func NewString(v string) AnyValue { return AnyValue{kind: KindString, scalarString: v} }

// NewArray wraps an ordered list of values.
func NewArray(elems ...AnyValue) AnyValue {
	cp := make([]AnyValue, len(elems))
	copy(cp, elems)
	return AnyValue{kind: KindArray, elems: cp}
}

// NewStruct wraps a named-member record. Members are ordered by name,
// sorted ascending.
func NewStruct(fields map[string]AnyValue) AnyValue {
	order := make([]string, 0, len(fields))
	for k := range fields {
		order = append(order, k)
	}
	sort.Strings(order)
	members := make(map[string]AnyValue, len(fields))
	for _, k := range order {
		members[k] = fields[k]
	}
	return AnyValue{kind: KindStruct, members: members, order: order}
}

// Kind reports the concrete shape of the value.
func (v AnyValue) Kind() Kind { return v.kind }

// IsEmpty reports whether the value carries no data.
func (v AnyValue) IsEmpty() bool { return v.kind == KindEmpty }

// Bool returns the wrapped bool and whether the value actually holds one.
func (v AnyValue) Bool() (bool, bool) { return v.scalarBool, v.kind == KindBool }

// Int64 returns the wrapped int64 and whether the value actually holds one.
func (v AnyValue) Int64() (int64, bool) { return v.scalarInt64, v.kind == KindInt64 }

// Uint64 returns the wrapped uint64 and whether the value actually holds one.
func (v AnyValue) Uint64() (uint64, bool) { return v.scalarUint64, v.kind == KindUint64 }

// Float64 returns the wrapped float64 and whether the value actually holds one.
func (v AnyValue) Float64() (float64, bool) { return v.scalarFloat64, v.kind == KindFloat64 }

// String returns the wrapped string and whether the value actually holds
// one. The method does not stringify other kinds; use Describe for that.
func (v AnyValue) String() (string, bool) { return v.scalarString, v.kind == KindString }

// Member looks up a named field on a struct value. ok is false for any other
// kind or for an unknown field name.
func (v AnyValue) Member(name string) (AnyValue, bool) {
	if v.kind != KindStruct {
		return AnyValue{}, false
	}
	m, ok := v.members[name]
	return m, ok
}

// MemberNames returns the field names of a struct value, sorted by name.
// It returns nil for any other kind.
func (v AnyValue) MemberNames() []string {
	if v.kind != KindStruct {
		return nil
	}
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Elements returns the contents of an array value. It returns nil for any
// other kind.
func (v AnyValue) Elements() []AnyValue {
	if v.kind != KindArray {
		return nil
	}
	out := make([]AnyValue, len(v.elems))
	copy(out, v.elems)
	return out
}

// Equal reports whether two values hold the same kind and data, recursing
// into struct members and array elements.
func (v AnyValue) Equal(other AnyValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindEmpty:
		return true
	case KindBool:
		return v.scalarBool == other.scalarBool
	case KindInt64:
		return v.scalarInt64 == other.scalarInt64
	case KindUint64:
		return v.scalarUint64 == other.scalarUint64
	case KindFloat64:
		return v.scalarFloat64 == other.scalarFloat64
	case KindString:
		return v.scalarString == other.scalarString
	case KindArray:
		if len(v.elems) != len(other.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(other.elems[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if len(v.order) != len(other.order) {
			return false
		}
		for _, k := range v.order {
			ov, ok := other.members[k]
			if !ok || !v.members[k].Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Describe renders the value as a short human-readable string, used in log
// events and error messages where a full JSON dump would be noisy.
func (v AnyValue) Describe() string {
	switch v.kind {
	case KindEmpty:
		return "<empty>"
	case KindBool:
		return fmt.Sprintf("%t", v.scalarBool)
	case KindInt64:
		return fmt.Sprintf("%d", v.scalarInt64)
	case KindUint64:
		return fmt.Sprintf("%d", v.scalarUint64)
	case KindFloat64:
		return fmt.Sprintf("%g", v.scalarFloat64)
	case KindString:
		return v.scalarString
	case KindArray:
		return fmt.Sprintf("array[%d]", len(v.elems))
	case KindStruct:
		return fmt.Sprintf("struct{%d fields}", len(v.order))
	default:
		return "<unknown>"
	}
}

// MarshalJSON renders the value as a {"kind": ..., "value": ...} envelope so
// the dynamic kind is visible in the encoded JSON. AnyValue has no
// UnmarshalJSON; the encoding is not decoded back into an AnyValue.
func (v AnyValue) MarshalJSON() ([]byte, error) {
	env := struct {
		Kind  string          `json:"kind"`
		Value json.RawMessage `json:"value,omitempty"`
	}{Kind: v.kind.String()}

	var (
		raw []byte
		err error
	)
	switch v.kind {
	case KindEmpty:
	case KindBool:
		raw, err = json.Marshal(v.scalarBool)
	case KindInt64:
		raw, err = json.Marshal(v.scalarInt64)
	case KindUint64:
		raw, err = json.Marshal(v.scalarUint64)
	case KindFloat64:
		raw, err = json.Marshal(v.scalarFloat64)
	case KindString:
		raw, err = json.Marshal(v.scalarString)
	case KindArray:
		raw, err = json.Marshal(v.elems)
	case KindStruct:
		ordered := make(map[string]AnyValue, len(v.members))
		for k, mv := range v.members {
			ordered[k] = mv
		}
		raw, err = json.Marshal(ordered)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal anyvalue payload: %w", err)
	}
	env.Value = raw
	return json.Marshal(env)
}
