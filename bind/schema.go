package bind

import (
	"errors"
	"strings"
	"unicode"
)

// Schema is a validated, immutable set of entries plus its name resolver.
// A Schema is safe to share between goroutines; every parse brings its own
// Runtime.
type Schema struct {
	entries  []Entry
	resolver *Resolver
}

// NewSchema validates the declarations and freezes them into a Schema.
//
// Per-entry defects are collected for every entry and returned together.
// Name collisions and positional rank defects are only checked once every
// entry is individually valid, and the first one found is returned.
func NewSchema(builders ...*EntryBuilder) (*Schema, error) {
	entries := make([]Entry, len(builders))
	var errs []error
	for i, b := range builders {
		if b == nil {
			errs = append(errs, setupErr(SetupEmptyName, i, "", "nil declaration"))
			continue
		}
		entries[i] = b.entry
		errs = append(errs, checkEntry(i, &entries[i])...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := checkNames(entries); err != nil {
		return nil, err
	}
	if err := assignRanks(entries); err != nil {
		return nil, err
	}

	s := &Schema{entries: entries}
	res, err := newResolver(s)
	if err != nil {
		return nil, err
	}
	s.resolver = res
	return s, nil
}

// MustSchema is like NewSchema but panics on a declaration defect. It is
// meant for package-level schemas so that a broken declaration stops the
// program before any input is read.
func MustSchema(builders ...*EntryBuilder) *Schema {
	s, err := NewSchema(builders...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of entries.
func (s *Schema) Len() int { return len(s.entries) }

// Entry returns the entry declared at index i.
func (s *Schema) Entry(i int) *Entry {
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return &s.entries[i]
}

// Index returns the declaration index of e, or -1 when e is not owned by s.
func (s *Schema) Index(e *Entry) int {
	for i := range s.entries {
		if &s.entries[i] == e {
			return i
		}
	}
	return -1
}

// Resolver returns the schema's name resolver.
func (s *Schema) Resolver() *Resolver { return s.resolver }

func checkEntry(i int, e *Entry) []error {
	var errs []error
	name := e.Name()

	if e.long == "" && e.short == "" {
		errs = append(errs, setupErr(SetupEmptyName, i, name, "entry has neither a long nor a short name"))
	}
	if e.long != "" && !validName(e.long) {
		errs = append(errs, setupErr(SetupInvalidName, i, name, "invalid long name %q", e.long))
	}
	if e.short != "" && !validName(e.short) {
		errs = append(errs, setupErr(SetupInvalidName, i, name, "invalid short name %q", e.short))
	}

	if e.positional {
		if e.short != "" {
			errs = append(errs, setupErr(SetupPositionalShortName, i, name, "positional entry cannot have a short name"))
		}
		if e.long == "" {
			errs = append(errs, setupErr(SetupPositionalNoLong, i, name, "positional entry needs a long name"))
		}
		if e.arity == 0 {
			errs = append(errs, setupErr(SetupPositionalNoArity, i, name, "positional entry needs a non-zero arity"))
		}
	} else {
		e.order, e.ordered = unsetOrder, false
	}

	if e.arity < 0 {
		errs = append(errs, setupErr(SetupNegativeArity, i, name, "arity %d is negative", e.arity))
	}
	if e.arity > 0 && !e.typ.IsSet() {
		errs = append(errs, setupErr(SetupMissingType, i, name, "arity %d needs a value type", e.arity))
	}
	if e.typ.nested {
		errs = append(errs, setupErr(SetupNestedArray, i, name, "arrays of arrays are not supported"))
	}
	if e.callLimit <= 0 {
		errs = append(errs, setupErr(SetupZeroCallLimit, i, name, "call limit must be positive, got %d", e.callLimit))
	}
	return errs
}

func validName(s string) bool {
	if s == "" || s[0] == '-' {
		return false
	}
	if strings.ContainsRune(s, '=') {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}

// checkNames stops at the first collision.
func checkNames(entries []Entry) error {
	seen := make(map[string]int, 2*len(entries))
	for i := range entries {
		for _, key := range entries[i].keys() {
			if prev, ok := seen[key]; ok {
				return setupErr(SetupDuplicateName, i, entries[i].Name(),
					"name %q already declared by entry %d", key, prev)
			}
			seen[key] = i
		}
	}
	return nil
}

// assignRanks places explicitly ordered positionals at their rank and fills
// the remaining ranks with unordered positionals in declaration order.
func assignRanks(entries []Entry) error {
	count := 0
	for i := range entries {
		if entries[i].positional {
			count++
		}
	}
	ranks := make([]int, count)
	for r := range ranks {
		ranks[r] = -1
	}

	for i := range entries {
		e := &entries[i]
		if !e.positional || !e.ordered {
			continue
		}
		if e.order < 0 || e.order >= count {
			return setupErr(SetupOrderOutOfRange, i, e.Name(),
				"positional order %d outside [0, %d)", e.order, count)
		}
		if prev := ranks[e.order]; prev >= 0 {
			return setupErr(SetupOrderCollision, i, e.Name(),
				"positional order %d already taken by entry %d", e.order, prev)
		}
		ranks[e.order] = i
	}

	next := 0
	for i := range entries {
		e := &entries[i]
		if !e.positional || e.ordered {
			continue
		}
		for ranks[next] >= 0 {
			next++
		}
		ranks[next] = i
		e.order = next
	}
	return nil
}

// EntryInfo is a serialisable description of an entry.
type EntryInfo struct {
	Long       string `json:"long,omitempty" yaml:"long,omitempty" toml:"long,omitempty"`
	Short      string `json:"short,omitempty" yaml:"short,omitempty" toml:"short,omitempty"`
	Arity      int    `json:"arity" yaml:"arity" toml:"arity"`
	Type       string `json:"type" yaml:"type" toml:"type"`
	Positional bool   `json:"positional,omitempty" yaml:"positional,omitempty" toml:"positional,omitempty"`
	Order      int    `json:"order" yaml:"order" toml:"order"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Restricted bool   `json:"restricted,omitempty" yaml:"restricted,omitempty" toml:"restricted,omitempty"`
	Immediate  bool   `json:"immediate,omitempty" yaml:"immediate,omitempty" toml:"immediate,omitempty"`
	CallLimit  int    `json:"call_limit" yaml:"call_limit" toml:"call_limit"`
	Help       string `json:"help,omitempty" yaml:"help,omitempty" toml:"help,omitempty"`
}

// Describe returns one EntryInfo per entry in declaration order.
func (s *Schema) Describe() []EntryInfo {
	out := make([]EntryInfo, len(s.entries))
	for i := range s.entries {
		e := &s.entries[i]
		out[i] = EntryInfo{
			Long:       e.long,
			Short:      e.short,
			Arity:      e.arity,
			Type:       e.typ.String(),
			Positional: e.positional,
			Order:      e.order,
			Required:   e.IsRequired(),
			Restricted: e.IsRestricted(),
			Immediate:  e.IsImmediate(),
			CallLimit:  e.callLimit,
			Help:       e.help,
		}
	}
	return out
}
