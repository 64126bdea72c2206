// Package bind is a declarative command-line argument binding engine.
//
// A program declares its flags and positional arguments once, as a Schema.
// NewSchema validates the declarations and builds a name Resolver; the
// result is immutable and may be shared by any number of goroutines.
// Every parse then gets its own Runtime, which pairs each entry with a
// destination (a scalar or a fixed-size slice) and an optional callback:
//
//	var schema = bind.MustSchema(
//		bind.Switch("help").Short("h").Immediate(),
//		bind.IntFlag("count").Short("c").Required(),
//		bind.Flag("point").Args(3).Type(bind.Float),
//		bind.Positional("file"),
//	)
//
//	var count int
//	point := make([]float64, 3)
//	rt, err := schema.NewRuntime(
//		bind.Var("count", bind.IntVar(&count)),
//		bind.Var("point", bind.FloatArray(point)),
//	)
//	status, err := bind.NewParser(schema).Parse(rt, os.Args[1:])
//
// Declaration defects are reported as *SetupError, from NewSchema or
// NewRuntime, before any token is read. Bad input is reported as *ParseError
// and stops the parse at the first offending token.
package bind
