package bind

import (
	"errors"
	"strings"
)

// Callback is invoked once per successful occurrence of an entry, after its
// values were written. It runs synchronously inside Parse.
type Callback func(e *Entry, st *State)

// State is the per-parse bookkeeping of one entry.
type State struct {
	callCount int
	fulfilled int
	binder    Binder
	callback  Callback
}

// CallCount returns how many occurrences of the entry completed.
func (st *State) CallCount() int { return st.callCount }

// Fulfilled returns how many values the current or most recent occurrence received.
func (st *State) Fulfilled() int { return st.fulfilled }

// Binder returns the bound destination.
func (st *State) Binder() Binder { return st.binder }

// HasCallback reports whether a callback is attached.
func (st *State) HasCallback() bool { return st.callback != nil }

func (st *State) reset() {
	st.callCount = 0
	st.fulfilled = 0
	st.binder.reset()
}

// Runtime holds one State per schema entry. A Runtime serves one parse at a
// time; concurrent parses over the same Schema each need their own.
type Runtime struct {
	schema *Schema
	states []State
}

// Binding configures one State of a Runtime under construction.
type Binding func(rt *Runtime) error

// Var binds the entry named name to b. The name may be written with its
// dashes ("--count", "-c") or bare, in which case the long name is tried
// before the short one.
func Var(name string, b Binder) Binding {
	return func(rt *Runtime) error {
		idx, err := rt.lookup(name)
		if err != nil {
			return err
		}
		rt.states[idx].binder = b
		return nil
	}
}

// VarAt binds the entry declared at index i to b.
func VarAt(i int, b Binder) Binding {
	return func(rt *Runtime) error {
		if i < 0 || i >= len(rt.states) {
			return setupErr(SetupUnknownBinding, -1, "", "no entry at index %d", i)
		}
		rt.states[i].binder = b
		return nil
	}
}

// Handle attaches cb to the entry named name.
func Handle(name string, cb Callback) Binding {
	return func(rt *Runtime) error {
		idx, err := rt.lookup(name)
		if err != nil {
			return err
		}
		rt.states[idx].callback = cb
		return nil
	}
}

// NewRuntime creates the mutable state for one parse and checks every
// destination against its entry. Mismatches are setup errors; they are all
// reported together.
func (s *Schema) NewRuntime(bindings ...Binding) (*Runtime, error) {
	rt := &Runtime{
		schema: s,
		states: make([]State, len(s.entries)),
	}

	var errs []error
	for _, b := range bindings {
		if err := b(rt); err != nil {
			errs = append(errs, err)
		}
	}
	for i := range rt.states {
		if err := checkPairing(i, &s.entries[i], rt.states[i].binder); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rt, nil
}

func (rt *Runtime) lookup(name string) (int, error) {
	res := rt.schema.resolver
	if strings.HasPrefix(name, shortPrefix) {
		if idx := res.Index(name); idx >= 0 {
			return idx, nil
		}
	} else {
		if idx := res.Index(longPrefix + name); idx >= 0 {
			return idx, nil
		}
		if idx := res.Index(shortPrefix + name); idx >= 0 {
			return idx, nil
		}
	}
	return -1, setupErr(SetupUnknownBinding, -1, name, "no entry named %q", name)
}

func checkPairing(i int, e *Entry, b Binder) error {
	if !b.IsBound() {
		return nil
	}
	name := e.Name()
	if e.arity == 0 {
		return setupErr(SetupBinderMismatch, i, name, "switch takes no destination")
	}
	if b.isNil() {
		return setupErr(SetupBinderMismatch, i, name, "nil %s destination", b.Kind())
	}
	if b.Kind() != e.typ.Elem() {
		return setupErr(SetupBinderMismatch, i, name,
			"destination holds %s, entry converts to %s", b.Kind(), e.typ.Elem())
	}
	if b.IsArray() {
		if b.Cap() < e.arity {
			return setupErr(SetupBinderMismatch, i, name,
				"array destination has %d slots, arity is %d", b.Cap(), e.arity)
		}
		return nil
	}
	if e.arity > 1 || e.typ.IsArray() {
		return setupErr(SetupBinderMismatch, i, name,
			"scalar destination for arity %d of type %s; use an array", e.arity, e.typ)
	}
	return nil
}

// Schema returns the schema the runtime was built for.
func (rt *Runtime) Schema() *Schema { return rt.schema }

// Len returns the number of states.
func (rt *Runtime) Len() int { return len(rt.states) }

// At returns the state of the entry declared at index i.
func (rt *Runtime) At(i int) *State {
	if i < 0 || i >= len(rt.states) {
		return nil
	}
	return &rt.states[i]
}

// State returns the state of the entry named name, spelled as for Var.
func (rt *Runtime) State(name string) *State {
	idx, err := rt.lookup(name)
	if err != nil {
		return nil
	}
	return &rt.states[idx]
}

func (rt *Runtime) reset() {
	for i := range rt.states {
		rt.states[i].reset()
	}
}
