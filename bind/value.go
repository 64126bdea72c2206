package bind

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind is the element type a value converts to.
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindString
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindNone:
		return "none"
	default:
		return "unknown"
	}
}

// ValueType is the declared type of an entry: a scalar kind, or an array of one.
type ValueType struct {
	elem   Kind
	array  bool
	nested bool
}

// Declared value types.
var (
	NoType  = ValueType{}
	Integer = ValueType{elem: KindInt}
	Float   = ValueType{elem: KindFloat}
	String  = ValueType{elem: KindString}
)

// ArrayOf declares an array of t. Arrays of arrays are rejected by NewSchema.
func ArrayOf(t ValueType) ValueType {
	return ValueType{elem: t.elem, array: true, nested: t.array}
}

// Elem returns the element kind.
func (t ValueType) Elem() Kind { return t.elem }

// IsArray reports whether t was declared with ArrayOf.
func (t ValueType) IsArray() bool { return t.array }

// IsSet reports whether a type was declared at all.
func (t ValueType) IsSet() bool { return t.elem != KindNone }

// String returns the string representation of the type
func (t ValueType) String() string {
	if t.array {
		return "[]" + t.elem.String()
	}
	return t.elem.String()
}

// Binder write errors. Conversion failures are reported as *ConversionError.
var (
	ErrUnbound   = errors.New("bind: value has no destination")
	ErrArrayFull = errors.New("bind: array destination is full")
)

// ConversionError reports text that does not match the destination kind.
type ConversionError struct {
	Raw  string
	Kind Kind
	Err  error
}

func (e *ConversionError) Error() string {
	return "bind: cannot convert " + strconv.Quote(e.Raw) + " to " + e.Kind.String()
}

func (e *ConversionError) Unwrap() error { return e.Err }

type binderKind uint8

const (
	binderUnbound binderKind = iota
	binderInt
	binderFloat
	binderString
	binderArray
)

// Binder is a write target: a single scalar, or a cursor over a fixed
// capacity slice. The zero Binder is unbound and fails every write.
type Binder struct {
	kind binderKind
	ip   *int
	fp   *float64
	sp   *string
	arr  cursor
}

// IntVar binds a scalar int.
func IntVar(p *int) Binder { return Binder{kind: binderInt, ip: p} }

// FloatVar binds a scalar float64.
func FloatVar(p *float64) Binder { return Binder{kind: binderFloat, fp: p} }

// StringVar binds a scalar string.
func StringVar(p *string) Binder { return Binder{kind: binderString, sp: p} }

// IntArray binds the slots of view; capacity is len(view).
func IntArray(view []int) Binder {
	return Binder{kind: binderArray, arr: &sliceCursor[int]{view: view, elem: KindInt, conv: parseInt}}
}

// FloatArray binds the slots of view; capacity is len(view).
func FloatArray(view []float64) Binder {
	return Binder{kind: binderArray, arr: &sliceCursor[float64]{view: view, elem: KindFloat, conv: parseFloat}}
}

// StringArray binds the slots of view; capacity is len(view).
func StringArray(view []string) Binder {
	return Binder{kind: binderArray, arr: &sliceCursor[string]{view: view, elem: KindString, conv: parseString}}
}

// Write converts raw and stores it in the destination.
func (b Binder) Write(raw string) error {
	switch b.kind {
	case binderInt:
		v, err := parseInt(raw)
		if err != nil {
			return err
		}
		*b.ip = v
	case binderFloat:
		v, err := parseFloat(raw)
		if err != nil {
			return err
		}
		*b.fp = v
	case binderString:
		*b.sp = raw
	case binderArray:
		return b.arr.write(raw)
	case binderUnbound:
		return ErrUnbound
	default:
		return ErrUnbound
	}
	return nil
}

// Kind returns the element kind the binder converts to.
func (b Binder) Kind() Kind {
	switch b.kind {
	case binderInt:
		return KindInt
	case binderFloat:
		return KindFloat
	case binderString:
		return KindString
	case binderArray:
		return b.arr.kind()
	default:
		return KindNone
	}
}

// IsBound reports whether the binder has a destination.
func (b Binder) IsBound() bool { return b.kind != binderUnbound }

// IsArray reports whether the binder is an array cursor.
func (b Binder) IsArray() bool { return b.kind == binderArray }

// Cap returns the number of slots of an array binder, 1 for scalars and 0 when unbound.
func (b Binder) Cap() int {
	switch b.kind {
	case binderArray:
		return b.arr.capacity()
	case binderUnbound:
		return 0
	default:
		return 1
	}
}

// isNil reports whether a scalar binder points nowhere.
func (b Binder) isNil() bool {
	switch b.kind {
	case binderInt:
		return b.ip == nil
	case binderFloat:
		return b.fp == nil
	case binderString:
		return b.sp == nil
	}
	return false
}

// Len returns how many array slots were written during the current parse.
func (b Binder) Len() int {
	if b.kind == binderArray {
		return b.arr.written()
	}
	return 0
}

func (b Binder) reset() {
	if b.kind == binderArray {
		b.arr.rewind()
	}
}

type cursor interface {
	write(raw string) error
	kind() Kind
	capacity() int
	written() int
	rewind()
}

type sliceCursor[T int | float64 | string] struct {
	view []T
	n    int
	elem Kind
	conv func(string) (T, error)
}

func (c *sliceCursor[T]) write(raw string) error {
	if c.n >= len(c.view) {
		return ErrArrayFull
	}
	v, err := c.conv(raw)
	if err != nil {
		return err
	}
	c.view[c.n] = v
	c.n++
	return nil
}

func (c *sliceCursor[T]) kind() Kind    { return c.elem }
func (c *sliceCursor[T]) capacity() int { return len(c.view) }
func (c *sliceCursor[T]) written() int  { return c.n }
func (c *sliceCursor[T]) rewind()       { c.n = 0 }

func parseInt(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, strconv.IntSize)
	if err != nil {
		return 0, &ConversionError{Raw: raw, Kind: KindInt, Err: err}
	}
	return int(v), nil
}

// parseFloat accepts finite decimal notation only: hex floats, inf and
// nan are a non-numeric remainder.
func parseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err == nil && (strings.ContainsAny(raw, "xX") || math.IsInf(v, 0) || math.IsNaN(v)) {
		err = &strconv.NumError{Func: "ParseFloat", Num: raw, Err: strconv.ErrSyntax}
	}
	if err != nil {
		return 0, &ConversionError{Raw: raw, Kind: KindFloat, Err: err}
	}
	return v, nil
}

func parseString(raw string) (string, error) { return raw, nil }
