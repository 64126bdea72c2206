package bind

import (
	"github.com/dzonerzy/go-snapbind/internal/fuzzy"
	"github.com/dzonerzy/go-snapbind/internal/intern"
)

const (
	longPrefix  = "--"
	shortPrefix = "-"

	suggestDistance = 2
)

// keys returns the command-line spellings of the entry's names.
func (e *Entry) keys() []string {
	out := make([]string, 0, 2)
	if e.long != "" {
		out = append(out, intern.Key(longPrefix, e.long))
	}
	if e.short != "" {
		out = append(out, intern.Key(shortPrefix, e.short))
	}
	return out
}

// Resolver maps command-line names and positional ranks to entries.
// It never changes after NewSchema returns and may be shared freely.
type Resolver struct {
	schema *Schema
	byName map[string]int
	ranks  []int
	names  []string // declaration order, for suggestions and Names
}

func newResolver(s *Schema) (*Resolver, error) {
	r := &Resolver{
		schema: s,
		byName: make(map[string]int, 2*len(s.entries)),
	}

	declared := 0
	positionals := 0
	for i := range s.entries {
		e := &s.entries[i]
		for _, key := range e.keys() {
			r.byName[key] = i
			r.names = append(r.names, key)
			declared++
		}
		if e.positional {
			positionals++
		}
	}

	r.ranks = make([]int, positionals)
	for i := range s.entries {
		if e := &s.entries[i]; e.positional {
			r.ranks[e.order] = i
		}
	}

	if err := r.verify(declared); err != nil {
		return nil, err
	}
	return r, nil
}

// verify checks that every key leads back to an entry of the same schema
// that owns that spelling, and that no name was lost or invented.
func (r *Resolver) verify(declared int) error {
	if len(r.byName) != declared {
		return setupErr(SetupDanglingName, -1, "",
			"resolver holds %d names, schema declares %d", len(r.byName), declared)
	}
	for key, idx := range r.byName {
		if idx < 0 || idx >= len(r.schema.entries) {
			return setupErr(SetupDanglingName, -1, key, "name points outside the schema")
		}
		e := &r.schema.entries[idx]
		if key != longPrefix+e.long && key != shortPrefix+e.short {
			return setupErr(SetupDanglingName, idx, e.Name(), "name %q does not belong to the entry", key)
		}
	}
	for rank, idx := range r.ranks {
		if e := &r.schema.entries[idx]; !e.positional || e.order != rank {
			return setupErr(SetupDanglingName, idx, e.Name(), "positional rank %d points to the wrong entry", rank)
		}
	}
	return nil
}

// Lookup resolves a command-line spelling such as "--count" or "-c".
func (r *Resolver) Lookup(token string) (*Entry, bool) {
	idx, ok := r.byName[token]
	if !ok {
		return nil, false
	}
	return &r.schema.entries[idx], true
}

// Index resolves a command-line spelling to a declaration index, or -1.
func (r *Resolver) Index(token string) int {
	if idx, ok := r.byName[token]; ok {
		return idx
	}
	return -1
}

// Positional returns the positional entry with the given rank.
func (r *Resolver) Positional(rank int) (*Entry, bool) {
	if rank < 0 || rank >= len(r.ranks) {
		return nil, false
	}
	return &r.schema.entries[r.ranks[rank]], true
}

// Len returns the number of declared entries.
func (r *Resolver) Len() int { return len(r.schema.entries) }

// PositionalLen returns the number of positional entries.
func (r *Resolver) PositionalLen() int { return len(r.ranks) }

// Names returns every command-line spelling in declaration order.
func (r *Resolver) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Suggest returns the declared spelling closest to an unknown token, or "".
func (r *Resolver) Suggest(token string) string {
	return fuzzy.FindBestFlag(token, r.names, suggestDistance)
}
