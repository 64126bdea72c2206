package intern

import (
	"fmt"
	"sync"
	"testing"
	"unsafe"
)

func sameData(a, b string) bool {
	return unsafe.StringData(a) == unsafe.StringData(b)
}

func TestTable_Intern(t *testing.T) {
	table := NewTable(0)

	s1 := table.Intern(string([]byte("count")))
	s2 := table.Intern(string([]byte("count")))
	if !sameData(s1, s2) {
		t.Errorf("Expected the same backing string for repeated Intern")
	}

	if s3 := table.Intern("other"); s3 == s1 {
		t.Errorf("Expected different strings for different values")
	}
}

func TestTable_Key(t *testing.T) {
	table := NewTable(0)

	k1 := table.Key("--", "count")
	k2 := table.Key("--", "count")
	if k1 != "--count" {
		t.Fatalf("Key = %q, want --count", k1)
	}
	if !sameData(k1, k2) {
		t.Errorf("Expected Key to return the canonical copy on the second call")
	}

	short := table.Key("-", "c")
	if short != "-c" {
		t.Errorf("Key = %q, want -c", short)
	}

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	if got := table.Key("--", string(long)); len(got) != 102 {
		t.Errorf("Expected long keys to bypass the stack buffer, got len %d", len(got))
	}
}

func TestTable_Key_NoAllocOnHit(t *testing.T) {
	table := NewTable(0)
	table.Key("--", "verbose")

	allocs := testing.AllocsPerRun(100, func() {
		_ = table.Key("--", "verbose")
	})
	if allocs != 0 {
		t.Errorf("Expected 0 allocations for a known key, got %.1f", allocs)
	}
}

func TestTable_PreloadLenReset(t *testing.T) {
	table := NewTable(0)
	table.Preload("--a", "--b", "--a")

	if n := table.Len(); n != 2 {
		t.Errorf("Expected 2 strings, got %d", n)
	}

	table.Intern("--c")
	if n := table.Len(); n != 3 {
		t.Errorf("Expected 3 strings, got %d", n)
	}

	table.Reset()
	if n := table.Len(); n != 0 {
		t.Errorf("Expected 0 strings after reset, got %d", n)
	}
}

func TestNames_Preloaded(t *testing.T) {
	for _, k := range CommonKeys {
		if got := Intern(k); got != k {
			t.Errorf("Intern(%q) = %q", k, got)
		}
	}
	if got := Key("--", "help"); got != "--help" {
		t.Errorf("Key(--, help) = %q", got)
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable(0)

	const goroutines = 16
	const perG = 200

	var wg sync.WaitGroup
	results := make([][]string, goroutines)
	for g := range goroutines {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := make([]string, perG)
			for i := range perG {
				out[i] = table.Key("--", fmt.Sprintf("flag-%d", i%20))
			}
			results[g] = out
		}(g)
	}
	wg.Wait()

	if n := table.Len(); n != 20 {
		t.Errorf("Expected 20 canonical keys, got %d", n)
	}
	for g := 1; g < goroutines; g++ {
		for i := range perG {
			if !sameData(results[0][i], results[g][i]) {
				t.Fatalf("goroutine %d got a non-canonical copy of %q", g, results[g][i])
			}
		}
	}
}
