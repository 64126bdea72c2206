package bind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRuntime_Pairing(t *testing.T) {
	s := MustSchema(
		IntFlag("count"),
		Flag("triple").Args(3).Type(Integer),
		Flag("list").Args(1).Type(ArrayOf(String)),
		Switch("verbose"),
		FloatFlag("ratio").Short("r"),
	)

	var (
		n     int
		f     float64
		str   string
		ints3 = make([]int, 3)
		ints2 = make([]int, 2)
		strs  = make([]string, 4)
	)

	tests := []struct {
		name     string
		bindings []Binding
		want     []SetupErrorType
	}{
		{
			name: "all matching",
			bindings: []Binding{
				Var("count", IntVar(&n)),
				Var("triple", IntArray(ints3)),
				Var("list", StringArray(strs)),
				Var("-r", FloatVar(&f)),
			},
		},
		{
			name:     "unbound is accepted",
			bindings: nil,
		},
		{
			name:     "scalar for arity 3",
			bindings: []Binding{Var("triple", IntVar(&n))},
			want:     []SetupErrorType{SetupBinderMismatch},
		},
		{
			name:     "scalar for array type",
			bindings: []Binding{Var("list", StringVar(&str))},
			want:     []SetupErrorType{SetupBinderMismatch},
		},
		{
			name:     "array too small",
			bindings: []Binding{Var("triple", IntArray(ints2))},
			want:     []SetupErrorType{SetupBinderMismatch},
		},
		{
			name:     "wrong scalar kind",
			bindings: []Binding{Var("count", FloatVar(&f))},
			want:     []SetupErrorType{SetupBinderMismatch},
		},
		{
			name:     "wrong array kind",
			bindings: []Binding{Var("list", IntArray(ints3))},
			want:     []SetupErrorType{SetupBinderMismatch},
		},
		{
			name:     "destination on a switch",
			bindings: []Binding{Var("verbose", StringVar(&str))},
			want:     []SetupErrorType{SetupBinderMismatch},
		},
		{
			name: "nil scalar destinations",
			bindings: []Binding{
				Var("count", IntVar(nil)),
				Var("ratio", FloatVar(nil)),
			},
			want: []SetupErrorType{SetupBinderMismatch, SetupBinderMismatch},
		},
		{
			name:     "nil string destination",
			bindings: []Binding{Var("list", StringVar(nil))},
			want:     []SetupErrorType{SetupBinderMismatch},
		},
		{
			name:     "unknown name",
			bindings: []Binding{Var("missing", IntVar(&n))},
			want:     []SetupErrorType{SetupUnknownBinding},
		},
		{
			name:     "unknown index",
			bindings: []Binding{VarAt(42, IntVar(&n))},
			want:     []SetupErrorType{SetupUnknownBinding},
		},
		{
			name: "all defects reported",
			bindings: []Binding{
				Handle("nope", func(*Entry, *State) {}),
				Var("count", StringVar(&str)),
				Var("triple", IntVar(&n)),
			},
			want: []SetupErrorType{SetupUnknownBinding, SetupBinderMismatch, SetupBinderMismatch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := s.NewRuntime(tt.bindings...)
			if diff := cmp.Diff(tt.want, setupTypes(err)); diff != "" {
				t.Fatalf("setup errors mismatch (-want +got):\n%s", diff)
			}
			if tt.want == nil && rt.Len() != s.Len() {
				t.Errorf("runtime has %d states, schema has %d entries", rt.Len(), s.Len())
			}
		})
	}
}

func TestNewRuntime_ArityThreeScalarRejectedBeforeParsing(t *testing.T) {
	s := MustSchema(Flag("point").Args(3).Type(Float))
	var x float64

	rt, err := s.NewRuntime(Var("point", FloatVar(&x)))
	if err == nil || rt != nil {
		t.Fatal("Expected NewRuntime to reject a scalar for arity 3")
	}
	se := SetupErrors(err)
	if len(se) != 1 || se[0].Entry != 0 || se[0].Type != SetupBinderMismatch {
		t.Errorf("unexpected setup errors: %v", err)
	}
}

func TestRuntime_StateLookup(t *testing.T) {
	s := MustSchema(Switch("verbose").Short("v"), ShortFlag("q"), Positional("file"))
	called := false
	rt, err := s.NewRuntime(Handle("v", func(*Entry, *State) { called = true }))
	if err != nil {
		t.Fatalf("NewRuntime failed: %v", err)
	}

	for _, name := range []string{"verbose", "--verbose", "-v", "v"} {
		if rt.State(name) != rt.At(0) {
			t.Errorf("State(%q) does not resolve to entry 0", name)
		}
	}
	if rt.State("q") != rt.At(1) || rt.State("file") != rt.At(2) {
		t.Error("State lookup by bare short name or positional long name failed")
	}
	if rt.State("nope") != nil || rt.At(3) != nil || rt.At(-1) != nil {
		t.Error("Expected nil for unknown states")
	}
	if !rt.At(0).HasCallback() || rt.At(1).HasCallback() {
		t.Error("callback attached to the wrong state")
	}
	rt.At(0).callback(s.Entry(0), rt.At(0))
	if !called {
		t.Error("Expected the attached callback to be the handler")
	}
	if rt.Schema() != s {
		t.Error("Runtime.Schema mismatch")
	}
}

func TestRuntime_Reset(t *testing.T) {
	s := MustSchema(Flag("v").Args(2).Type(Integer).Limit(2))
	view := make([]int, 4)
	rt, err := s.NewRuntime(VarAt(0, IntArray(view)))
	if err != nil {
		t.Fatalf("NewRuntime failed: %v", err)
	}

	st := rt.At(0)
	st.callCount, st.fulfilled = 2, 2
	_ = st.binder.Write("1")

	rt.reset()
	if st.CallCount() != 0 || st.Fulfilled() != 0 || st.Binder().Len() != 0 {
		t.Errorf("reset left count=%d fulfilled=%d len=%d", st.CallCount(), st.Fulfilled(), st.Binder().Len())
	}
}
