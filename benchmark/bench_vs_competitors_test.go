package benchmark_test

import (
	"testing"

	"github.com/shayne/yargs"
	"github.com/spf13/cobra"
	"github.com/urfave/cli/v2"

	"github.com/dzonerzy/go-snapbind/bind"
)

// Benchmark simple CLI with basic flags
// Tests parsing performance with int and bool flags. The bind variants
// build their schema once, the way a program would; the others rebuild
// their command per iteration since their flag sets keep parse state.

func BenchmarkSimpleCLI_Bind(b *testing.B) {
	s := bind.MustSchema(bind.IntFlag("port").Short("p"), bind.Switch("verbose").Short("v"))
	var port int
	rt, err := s.NewRuntime(bind.Var("port", bind.IntVar(&port)))
	if err != nil {
		b.Fatal(err)
	}
	parser := bind.NewParser(s)

	args := []string{"--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = parser.Parse(rt, args)
	}
}

func BenchmarkSimpleCLI_Cobra(b *testing.B) {
	args := []string{"--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{
			Use: "bench",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		rootCmd.Flags().IntP("port", "p", 8080, "Server port")
		rootCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSimpleCLI_Urfave(b *testing.B) {
	args := []string{"bench", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
				&cli.BoolFlag{Name: "verbose", Usage: "Verbose output"},
			},
			Action: func(_ *cli.Context) error { return nil },
		}
		_ = app.Run(args)
	}
}

type simpleFlags struct {
	Port    int  `flag:"port" help:"Server port"`
	Verbose bool `flag:"verbose" help:"Verbose output"`
}

func BenchmarkSimpleCLI_Yargs(b *testing.B) {
	args := []string{"--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := yargs.ParseFlags[simpleFlags](args); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark many flags
// Tests performance with many flags (realistic CLI tool scenario)

var manyArgs = []string{
	"--flag1", "test1",
	"--flag2", "test2",
	"--flag3", "test3",
	"--port", "9000",
	"--verbose",
	"--debug",
}

func BenchmarkManyFlags_Bind(b *testing.B) {
	s := bind.MustSchema(
		bind.StringFlag("flag1"),
		bind.StringFlag("flag2"),
		bind.StringFlag("flag3"),
		bind.StringFlag("flag4"),
		bind.StringFlag("flag5"),
		bind.IntFlag("port").Short("p"),
		bind.Switch("verbose").Short("v"),
		bind.Switch("debug"),
		bind.Switch("quiet"),
		bind.Switch("force"),
	)
	var (
		flags [5]string
		port  int
	)
	rt, err := s.NewRuntime(
		bind.Var("flag1", bind.StringVar(&flags[0])),
		bind.Var("flag2", bind.StringVar(&flags[1])),
		bind.Var("flag3", bind.StringVar(&flags[2])),
		bind.Var("flag4", bind.StringVar(&flags[3])),
		bind.Var("flag5", bind.StringVar(&flags[4])),
		bind.Var("port", bind.IntVar(&port)),
	)
	if err != nil {
		b.Fatal(err)
	}
	parser := bind.NewParser(s)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = parser.Parse(rt, manyArgs)
	}
}

func BenchmarkManyFlags_Cobra(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{
			Use: "bench",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		rootCmd.Flags().String("flag1", "value1", "Flag 1")
		rootCmd.Flags().String("flag2", "value2", "Flag 2")
		rootCmd.Flags().String("flag3", "value3", "Flag 3")
		rootCmd.Flags().String("flag4", "value4", "Flag 4")
		rootCmd.Flags().String("flag5", "value5", "Flag 5")
		rootCmd.Flags().IntP("port", "p", 8080, "Port")
		rootCmd.Flags().BoolP("verbose", "v", false, "Verbose")
		rootCmd.Flags().Bool("debug", false, "Debug")
		rootCmd.Flags().Bool("quiet", false, "Quiet")
		rootCmd.Flags().Bool("force", false, "Force")
		rootCmd.SetArgs(manyArgs)
		_ = rootCmd.Execute()
	}
}

func BenchmarkManyFlags_Urfave(b *testing.B) {
	args := append([]string{"bench"}, manyArgs...)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "flag1", Value: "value1", Usage: "Flag 1"},
				&cli.StringFlag{Name: "flag2", Value: "value2", Usage: "Flag 2"},
				&cli.StringFlag{Name: "flag3", Value: "value3", Usage: "Flag 3"},
				&cli.StringFlag{Name: "flag4", Value: "value4", Usage: "Flag 4"},
				&cli.StringFlag{Name: "flag5", Value: "value5", Usage: "Flag 5"},
				&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port"},
				&cli.BoolFlag{Name: "verbose", Usage: "Verbose"},
				&cli.BoolFlag{Name: "debug", Usage: "Debug"},
				&cli.BoolFlag{Name: "quiet", Usage: "Quiet"},
				&cli.BoolFlag{Name: "force", Usage: "Force"},
			},
			Action: func(_ *cli.Context) error { return nil },
		}
		_ = app.Run(args)
	}
}

type manyFlags struct {
	Flag1   string `flag:"flag1"`
	Flag2   string `flag:"flag2"`
	Flag3   string `flag:"flag3"`
	Flag4   string `flag:"flag4"`
	Flag5   string `flag:"flag5"`
	Port    int    `flag:"port"`
	Verbose bool   `flag:"verbose"`
	Debug   bool   `flag:"debug"`
	Quiet   bool   `flag:"quiet"`
	Force   bool   `flag:"force"`
}

func BenchmarkManyFlags_Yargs(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = yargs.ParseFlags[manyFlags](manyArgs)
	}
}

// Benchmark positionals
// Two named positionals followed by a list, the shape of cp/mv style tools.

var positionalArgs = []string{"--force", "src.txt", "dst.txt", "a", "b", "c"}

func BenchmarkPositionals_Bind(b *testing.B) {
	s := bind.MustSchema(
		bind.Switch("force"),
		bind.Positional("src"),
		bind.Positional("dst"),
		bind.Positional("extra").Args(8).Type(bind.ArrayOf(bind.String)).Restricted(),
	)
	var src, dst string
	extra := make([]string, 8)
	rt, err := s.NewRuntime(
		bind.Var("src", bind.StringVar(&src)),
		bind.Var("dst", bind.StringVar(&dst)),
		bind.Var("extra", bind.StringArray(extra)),
	)
	if err != nil {
		b.Fatal(err)
	}
	parser := bind.NewParser(s)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = parser.Parse(rt, positionalArgs)
	}
}

func BenchmarkPositionals_Cobra(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{
			Use:  "bench <src> <dst> [extra...]",
			Args: cobra.MinimumNArgs(2),
			Run:  func(_ *cobra.Command, _ []string) {},
		}
		rootCmd.Flags().Bool("force", false, "Force")
		rootCmd.SetArgs(positionalArgs)
		_ = rootCmd.Execute()
	}
}

func BenchmarkPositionals_Urfave(b *testing.B) {
	args := append([]string{"bench"}, positionalArgs...)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name:  "bench",
			Flags: []cli.Flag{&cli.BoolFlag{Name: "force"}},
			Action: func(c *cli.Context) error {
				_, _ = c.Args().Get(0), c.Args().Get(1)
				return nil
			},
		}
		_ = app.Run(args)
	}
}

type positionalFlags struct {
	Force bool `flag:"force"`
}

func BenchmarkPositionals_Yargs(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = yargs.ParseFlags[positionalFlags](positionalArgs)
	}
}
