//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"io"
	"testing"

	"github.com/dzonerzy/go-snapbind/bind"
	mw "github.com/dzonerzy/go-snapbind/middleware"
)

// Category: middleware

var noop bind.Callback = func(*bind.Entry, *bind.State) {}

// benchTarget returns an entry and its state for calling callbacks directly.
func benchTarget(b *testing.B) (*bind.Entry, *bind.State) {
	b.Helper()
	s := bind.MustSchema(bind.IntFlag("port").Short("p"))
	var port int
	rt, err := s.NewRuntime(bind.Var("port", bind.IntVar(&port)))
	if err != nil {
		b.Fatal(err)
	}
	return s.Entry(0), rt.At(0)
}

func benchCallback(b *testing.B, cb bind.Callback) {
	e, st := benchTarget(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cb(e, st)
	}
}

func BenchmarkMW_SilentLogger(b *testing.B) {
	benchCallback(b, mw.SilentLogger()(noop))
}

func BenchmarkMW_TextLogger(b *testing.B) {
	benchCallback(b, mw.LoggerWithWriter(io.Discard)(noop))
}

func BenchmarkMW_JSONLogger(b *testing.B) {
	benchCallback(b, mw.LoggerWithWriter(io.Discard, mw.WithLogFormat(mw.LogFormatJSON))(noop))
}

func BenchmarkMW_Recovery_NoStack(b *testing.B) {
	benchCallback(b, mw.Recovery(mw.WithStackTrace(false))(noop))
}

func BenchmarkMW_Validate(b *testing.B) {
	ports := []int{8080}
	check := mw.Validate([]mw.NamedValidator{mw.Custom("port_range", mw.Range(ports, 1, 65535))})
	benchCallback(b, check(noop))
}

func BenchmarkMW_Chain(b *testing.B) {
	chain := mw.Chain(mw.SilentLogger(), mw.Recovery(mw.WithStackTrace(false)), mw.NoopValidator())
	benchCallback(b, chain.Apply(noop))
}

func BenchmarkMiddlewareChainParse(b *testing.B) {
	s := bind.MustSchema(bind.Switch("verbose").Short("v"), bind.IntFlag("port"))
	chain := mw.Chain(mw.SilentLogger(), mw.Recovery(mw.WithStackTrace(false)))

	var port int
	rt, err := s.NewRuntime(
		bind.Var("port", bind.IntVar(&port)),
		chain.Handle("verbose", nil),
		chain.Handle("port", nil),
	)
	if err != nil {
		b.Fatal(err)
	}
	p := bind.NewParser(s)

	args := []string{"-v", "--port", "9000"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Parse(rt, args)
	}
}
