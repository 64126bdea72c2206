package bind

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dzonerzy/go-snapbind/internal/pool"
	snapio "github.com/dzonerzy/go-snapbind/io"
)

// Status is the terminal state of a parse.
type Status int

const (
	StatusFailed Status = iota
	StatusCompleted
	StatusCompletedEarly
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCompletedEarly:
		return "completed_early"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const endOfFlags = "--"

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger traces every match at debug level.
func WithLogger(l *snapio.Logger) ParserOption {
	return func(p *Parser) { p.logger = l }
}

// WithSuggestions toggles "did you mean" suggestions on unknown flags.
func WithSuggestions(enabled bool) ParserOption {
	return func(p *Parser) { p.suggest = enabled }
}

// Parser walks argument tokens against a Schema. A Parser holds no per-parse
// state and may be used from many goroutines, each with its own Runtime.
type Parser struct {
	schema  *Schema
	logger  *snapio.Logger
	suggest bool
}

// NewParser creates a parser for s.
func NewParser(s *Schema, opts ...ParserOption) *Parser {
	p := &Parser{schema: s, suggest: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenClass uint8

const (
	tokValue tokenClass = iota
	tokFlag
	tokEndOfFlags
	tokUnknownFlag
)

// scan is the state of one parse.
type scan struct {
	p       *Parser
	res     *Resolver
	entries []Entry
	rt      *Runtime
	args    []string
	pos     int

	rank     int  // lowest positional rank that may still take values
	open     int  // entry index of a positional occurrence in progress, or -1
	flagsOff bool // "--" seen
}

var scans = pool.NewPoolWithReset(
	func() *scan { return &scan{} },
	func(s *scan) { *s = scan{open: -1} },
)

// Parse consumes args (without the program name) into rt. On StatusFailed
// the returned error is a *ParseError and the contents of rt and of every
// bound destination are indeterminate.
func (p *Parser) Parse(rt *Runtime, args []string) (Status, error) {
	if rt == nil || rt.schema != p.schema {
		return StatusFailed, setupErr(SetupForeignRuntime, -1, "", "runtime was not built from the parser's schema")
	}
	rt.reset()

	s := scans.Get()
	defer scans.Put(s)
	s.p = p
	s.res = p.schema.resolver
	s.entries = p.schema.entries
	s.rt = rt
	s.args = args

	st, err := s.run()
	if err != nil {
		p.logger.Debug("parse failed: %v", err)
	}
	return st, err
}

func (s *scan) run() (Status, error) {
	for s.pos < len(s.args) {
		tok := s.args[s.pos]
		class, idx, inline, hasInline := s.classify(tok)

		switch class {
		case tokEndOfFlags:
			s.flagsOff = true
			s.pos++

		case tokFlag:
			if s.entries[idx].IsImmediate() && s.open >= 0 && !s.entries[s.open].IsRestricted() {
				// The immediate entry wins over the unfinished positional.
				s.open = -1
			}
			if early, err := s.interruptPositional(); err != nil || early {
				return statusOf(early, err)
			}
			at := s.pos
			s.pos++
			early, err := s.occurrence(idx, at, inline, hasInline)
			if err != nil || early {
				return statusOf(early, err)
			}

		case tokUnknownFlag:
			return StatusFailed, s.unknownFlag(tok)

		default:
			early, err := s.positional(tok)
			if err != nil || early {
				return statusOf(early, err)
			}
			s.pos++
		}
	}
	return s.finish()
}

func statusOf(early bool, err error) (Status, error) {
	if err != nil {
		return StatusFailed, err
	}
	if early {
		return StatusCompletedEarly, nil
	}
	return StatusCompleted, nil
}

// classify decides what tok is. For flags it also returns the entry index
// and the text after the first '=' if there is one.
func (s *scan) classify(tok string) (class tokenClass, idx int, inline string, hasInline bool) {
	if s.flagsOff {
		return tokValue, -1, "", false
	}
	if tok == endOfFlags {
		return tokEndOfFlags, -1, "", false
	}
	if len(tok) < 2 || tok[0] != '-' {
		return tokValue, -1, "", false
	}

	name, value, found := strings.Cut(tok, "=")
	if idx = s.res.Index(name); idx >= 0 {
		return tokFlag, idx, value, found
	}
	if isSignedNumber(tok) {
		return tokValue, -1, "", false
	}
	return tokUnknownFlag, -1, "", false
}

// isSignedNumber reports whether tok starts like a negative number: a sign
// followed by a digit, or by a dot and a digit. Conversion decides the rest.
func isSignedNumber(tok string) bool {
	if len(tok) < 2 || (tok[0] != '-' && tok[0] != '+') {
		return false
	}
	c := tok[1]
	if c >= '0' && c <= '9' {
		return true
	}
	return c == '.' && len(tok) > 2 && tok[2] >= '0' && tok[2] <= '9'
}

// occurrence handles one named occurrence of entry idx found at position at.
func (s *scan) occurrence(idx, at int, inline string, hasInline bool) (bool, error) {
	e := &s.entries[idx]
	st := &s.rt.states[idx]

	if st.callCount >= e.callLimit {
		return false, s.fail(ErrorTypeCallLimitExceeded, e, s.args[at], at, nil,
			e.DisplayName()+" may be given at most "+strconv.Itoa(e.callLimit)+" time(s)")
	}
	st.fulfilled = 0

	if hasInline {
		if e.arity == 0 {
			return false, s.fail(ErrorTypeUnexpectedValue, e, s.args[at], at, nil,
				e.DisplayName()+" does not take a value")
		}
		if err := s.write(idx, inline, at); err != nil {
			return false, err
		}
		st.fulfilled++
	}

	for st.fulfilled < e.arity {
		if s.pos >= len(s.args) || !s.isValue(s.args[s.pos]) {
			if e.IsRestricted() {
				break
			}
			if s.immediateNext() {
				// Left unfinished; the caller runs the immediate entry next.
				return false, nil
			}
			return false, s.missingValue(e)
		}
		if err := s.write(idx, s.args[s.pos], s.pos); err != nil {
			return false, err
		}
		st.fulfilled++
		s.pos++
	}

	return s.complete(idx), nil
}

func (s *scan) isValue(tok string) bool {
	class, _, _, _ := s.classify(tok)
	return class == tokValue
}

// immediateNext reports whether the token at the cursor is an immediate flag.
func (s *scan) immediateNext() bool {
	if s.pos >= len(s.args) {
		return false
	}
	class, idx, _, _ := s.classify(s.args[s.pos])
	return class == tokFlag && s.entries[idx].IsImmediate()
}

// positional feeds one value token to the lowest positional rank that can
// still take it.
func (s *scan) positional(tok string) (bool, error) {
	idx := s.open
	if idx < 0 {
		for ; s.rank < s.res.PositionalLen(); s.rank++ {
			cand := s.res.ranks[s.rank]
			if s.rt.states[cand].callCount < s.entries[cand].callLimit {
				idx = cand
				break
			}
		}
		if idx < 0 {
			return false, s.fail(ErrorTypeUnexpectedPositional, nil, tok, s.pos, nil,
				"unexpected argument: "+tok)
		}
		s.rt.states[idx].fulfilled = 0
		s.open = idx
	}

	if err := s.write(idx, tok, s.pos); err != nil {
		return false, err
	}
	st := &s.rt.states[idx]
	st.fulfilled++
	if st.fulfilled < s.entries[idx].arity {
		return false, nil
	}
	s.open = -1
	return s.complete(idx), nil
}

// interruptPositional closes a positional occurrence that a flag cut short.
func (s *scan) interruptPositional() (bool, error) {
	if s.open < 0 {
		return false, nil
	}
	idx := s.open
	s.open = -1
	if !s.entries[idx].IsRestricted() {
		return false, s.missingValue(&s.entries[idx])
	}
	return s.complete(idx), nil
}

// complete records a successful occurrence and reports whether the parse
// must stop here.
func (s *scan) complete(idx int) bool {
	e := &s.entries[idx]
	st := &s.rt.states[idx]
	st.callCount++

	if l := s.p.logger; l.Enabled(snapio.LevelDebug) {
		l.Debug("matched %s (call %d/%d, %d/%d values)",
			e.DisplayName(), st.callCount, e.callLimit, st.fulfilled, e.arity)
	}
	if st.callback != nil {
		st.callback(e, st)
	}
	return e.IsImmediate()
}

func (s *scan) finish() (Status, error) {
	if early, err := s.interruptPositional(); err != nil || early {
		return statusOf(early, err)
	}
	for i := range s.entries {
		e := &s.entries[i]
		if e.IsRequired() && s.rt.states[i].callCount == 0 {
			return StatusFailed, s.fail(ErrorTypeMissingRequired, e, "", -1, nil,
				"missing required "+kindWord(e)+": "+e.DisplayName())
		}
	}
	return StatusCompleted, nil
}

func (s *scan) write(idx int, raw string, at int) error {
	err := s.rt.states[idx].binder.Write(raw)
	if err == nil {
		return nil
	}
	e := &s.entries[idx]
	switch {
	case errors.Is(err, ErrArrayFull):
		return s.fail(ErrorTypeArrayFull, e, raw, at, err,
			"too many values for "+e.DisplayName())
	case errors.Is(err, ErrUnbound):
		return s.fail(ErrorTypeUnbound, e, raw, at, err,
			e.DisplayName()+" has no destination")
	default:
		return s.fail(ErrorTypeConversionFailed, e, raw, at, err,
			"invalid "+e.typ.Elem().String()+" value for "+e.DisplayName()+": "+raw)
	}
}

func (s *scan) missingValue(e *Entry) error {
	at := s.pos
	tok := ""
	if at < len(s.args) {
		tok = s.args[at]
	} else {
		at = -1
	}
	return s.fail(ErrorTypeMissingValue, e, tok, at, nil,
		e.DisplayName()+" requires "+strconv.Itoa(e.arity)+" value(s)")
}

func (s *scan) unknownFlag(tok string) error {
	name, _, _ := strings.Cut(tok, "=")
	err := s.fail(ErrorTypeUnknownFlag, nil, tok, s.pos, nil, "unknown flag: "+name)
	if s.p.suggest {
		err.Suggestion = s.res.Suggest(name)
	}
	return err
}

func (s *scan) fail(typ ErrorType, e *Entry, tok string, at int, cause error, msg string) *ParseError {
	pe := &ParseError{
		Type:     typ,
		Message:  msg,
		Token:    tok,
		Position: at,
		Cause:    cause,
	}
	if e != nil {
		pe.Flag = e.DisplayName()
	}
	return pe
}

func kindWord(e *Entry) string {
	if e.positional {
		return "argument"
	}
	return "flag"
}
