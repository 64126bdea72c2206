// Package intern keeps one canonical copy of every declared argument name.
// Schemas built over and over (one per test, one per request in a server)
// end up sharing the same backing strings for their resolver keys.
package intern

import "sync"

// Table is a thread-safe set of canonical strings.
type Table struct {
	strings map[string]string
	mu      sync.RWMutex
}

// NewTable creates a table with room for capacity strings.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = 64
	}
	return &Table{strings: make(map[string]string, capacity)}
}

// Intern returns the canonical copy of s.
func (t *Table) Intern(s string) string {
	t.mu.RLock()
	if c, ok := t.strings[s]; ok {
		t.mu.RUnlock()
		return c
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.strings[s]; ok {
		return c
	}
	t.strings[s] = s
	return s
}

// Key returns the canonical copy of prefix+name. The concatenation is only
// allocated the first time a key is seen.
func (t *Table) Key(prefix, name string) string {
	if len(prefix)+len(name) <= len(keyBuf{}) {
		var buf keyBuf
		n := copy(buf[:], prefix)
		n += copy(buf[n:], name)
		// map lookups with a converted []byte key do not allocate
		t.mu.RLock()
		c, ok := t.strings[string(buf[:n])]
		t.mu.RUnlock()
		if ok {
			return c
		}
	}
	return t.Intern(prefix + name)
}

type keyBuf [64]byte

// Preload adds names without returning them.
func (t *Table) Preload(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range names {
		t.strings[s] = s
	}
}

// Len returns the number of canonical strings held.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strings)
}

// Reset forgets every string.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.strings)
}

// CommonKeys are resolver keys most command lines declare.
var CommonKeys = []string{
	"--help", "-h", "--version", "-v", "--verbose", "--quiet", "-q",
	"--output", "-o", "--input", "-i", "--force", "-f", "--debug", "-d",
	"--config", "-c", "--format", "--dry-run", "-n",
}

// Names is the process-wide table used by schemas.
var Names = func() *Table {
	t := NewTable(128)
	t.Preload(CommonKeys...)
	return t
}()

// Intern returns the canonical copy of s from Names.
func Intern(s string) string { return Names.Intern(s) }

// Key returns the canonical copy of prefix+name from Names.
func Key(prefix, name string) string { return Names.Key(prefix, name) }
