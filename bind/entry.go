package bind

// Behavior is a set of independently combinable entry behaviors.
type Behavior uint32

const (
	// BehaviorRequired fails the parse when the entry never matched.
	BehaviorRequired Behavior = 1 << iota
	// BehaviorRestricted lets an occurrence end with fewer than arity values
	// when the next token is a flag or input runs out.
	BehaviorRestricted
	// BehaviorImmediate stops the parse right after the entry matched.
	BehaviorImmediate
)

// Has reports whether all bits of x are set in b.
func (b Behavior) Has(x Behavior) bool { return b&x == x }

const unsetOrder = -1

// Entry is the immutable description of one accepted argument.
// Entries are owned by a Schema and must not be copied out of it for
// identity comparisons; use Schema.Index.
type Entry struct {
	long       string
	short      string
	arity      int
	typ        ValueType
	positional bool
	order      int
	ordered    bool // Order was called
	behavior   Behavior
	callLimit  int
	help       string
}

// Long returns the long name without dashes, or "".
func (e *Entry) Long() string { return e.long }

// Short returns the short name without the dash, or "".
func (e *Entry) Short() string { return e.short }

// Arity returns the number of values one occurrence consumes.
func (e *Entry) Arity() int { return e.arity }

// Type returns the declared value type.
func (e *Entry) Type() ValueType { return e.typ }

// IsPositional reports whether the entry is identified by position.
func (e *Entry) IsPositional() bool { return e.positional }

// Order returns the resolved positional rank, or -1 for flags.
func (e *Entry) Order() int { return e.order }

// Behavior returns the behavior bits.
func (e *Entry) Behavior() Behavior { return e.behavior }

// IsRequired reports whether the entry must match at least once.
func (e *Entry) IsRequired() bool { return e.behavior.Has(BehaviorRequired) }

// IsRestricted reports whether an occurrence may be cut short.
func (e *Entry) IsRestricted() bool { return e.behavior.Has(BehaviorRestricted) }

// IsImmediate reports whether a match ends the parse.
func (e *Entry) IsImmediate() bool { return e.behavior.Has(BehaviorImmediate) }

// CallLimit returns the maximum number of legal occurrences.
func (e *Entry) CallLimit() int { return e.callLimit }

// Help returns the free-form description attached to the entry.
func (e *Entry) Help() string { return e.help }

// Name returns the name used in messages: the long name if any, else the short one.
func (e *Entry) Name() string {
	if e.long != "" {
		return e.long
	}
	return e.short
}

// DisplayName returns the name as written on the command line.
func (e *Entry) DisplayName() string {
	switch {
	case e.positional:
		return "<" + e.long + ">"
	case e.long != "":
		return longPrefix + e.long
	default:
		return shortPrefix + e.short
	}
}

// EntryBuilder provides a fluent interface for declaring an entry.
// Builders are consumed by NewSchema, which validates and freezes them.
type EntryBuilder struct {
	entry Entry
}

// Flag starts a flag declaration with the given long name.
func Flag(long string) *EntryBuilder {
	return &EntryBuilder{entry: Entry{long: long, order: unsetOrder, callLimit: 1}}
}

// ShortFlag starts a flag declaration with only a short name.
func ShortFlag(short string) *EntryBuilder {
	return &EntryBuilder{entry: Entry{short: short, order: unsetOrder, callLimit: 1}}
}

// Positional starts a positional declaration. Positionals take one value
// of type String unless told otherwise.
func Positional(long string) *EntryBuilder {
	return &EntryBuilder{entry: Entry{
		long:       long,
		positional: true,
		arity:      1,
		typ:        String,
		order:      unsetOrder,
		callLimit:  1,
	}}
}

// Long sets the long name.
func (b *EntryBuilder) Long(name string) *EntryBuilder {
	b.entry.long = name
	return b
}

// Short sets the short name.
func (b *EntryBuilder) Short(name string) *EntryBuilder {
	b.entry.short = name
	return b
}

// Args sets the arity.
func (b *EntryBuilder) Args(n int) *EntryBuilder {
	b.entry.arity = n
	return b
}

// Type sets the value type.
func (b *EntryBuilder) Type(t ValueType) *EntryBuilder {
	b.entry.typ = t
	return b
}

// Order reserves an explicit positional rank (0-based).
func (b *EntryBuilder) Order(rank int) *EntryBuilder {
	b.entry.order = rank
	b.entry.ordered = true
	return b
}

// Required marks the entry as required
func (b *EntryBuilder) Required() *EntryBuilder {
	b.entry.behavior |= BehaviorRequired
	return b
}

// Restricted allows occurrences with fewer than arity values
func (b *EntryBuilder) Restricted() *EntryBuilder {
	b.entry.behavior |= BehaviorRestricted
	return b
}

// Immediate makes a match end the parse
func (b *EntryBuilder) Immediate() *EntryBuilder {
	b.entry.behavior |= BehaviorImmediate
	return b
}

// Limit sets the maximum number of occurrences
func (b *EntryBuilder) Limit(n int) *EntryBuilder {
	b.entry.callLimit = n
	return b
}

// Help attaches a description
func (b *EntryBuilder) Help(text string) *EntryBuilder {
	b.entry.help = text
	return b
}

// Switch is shorthand for a flag of arity 0.
func Switch(long string) *EntryBuilder {
	return Flag(long)
}

// IntFlag is shorthand for a single-valued integer flag.
func IntFlag(long string) *EntryBuilder {
	return Flag(long).Args(1).Type(Integer)
}

// FloatFlag is shorthand for a single-valued float flag.
func FloatFlag(long string) *EntryBuilder {
	return Flag(long).Args(1).Type(Float)
}

// StringFlag is shorthand for a single-valued string flag.
func StringFlag(long string) *EntryBuilder {
	return Flag(long).Args(1).Type(String)
}
