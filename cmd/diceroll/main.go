// Command diceroll is a minimal kong-based dice roller, for scripts and
// one-off invocations that don't need the full cmd/dice command tree.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tgrennan/dicey"
)

var cli struct {
	Verbosity string `help:"short, medium, or verbose" default:"medium" enum:"short,medium,verbose"`
	Markdown  bool   `help:"render output as markdown"`
	Expr      string `arg:"" help:"dice expression to roll, e.g. '3d6+2'"`
}

func main() {
	kctx := kong.Parse(&cli, kong.Description("roll a single dice expression and print its result"))

	cmd, err := dice.ParseCommand(cli.Expr)
	kctx.FatalIfErrorf(err)

	result, err := cmd.Run(context.Background(), dice.DefaultSource, nil)
	kctx.FatalIfErrorf(err)

	f := dice.NewFormatter()
	switch cli.Verbosity {
	case "short":
		f.Verbosity = dice.Short
	case "verbose":
		f.Verbosity = dice.Verbose
	default:
		f.Verbosity = dice.Medium
	}
	f.Markdown = cli.Markdown

	for _, run := range result.Runs {
		if run.Dice != nil {
			fmt.Printf("%s = %s\n", f.FormatHistory(*run.Dice), f.FormatTotal(run.Total()))
		} else {
			fmt.Println(f.FormatTotal(run.Total()))
		}
	}

	os.Exit(0)
}
