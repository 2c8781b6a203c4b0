// Command dice is a CLI dice roller: it parses and rolls dice commands,
// supports a REPL, a quick calculator, an HTTP API server, and man-page
// generation.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/repr"
	"github.com/ryanuber/columnize"
	"github.com/urfave/cli"

	"github.com/tgrennan/dicey"
	"github.com/tgrennan/dicey/internal/calc"
	"github.com/tgrennan/dicey/internal/config"
	"github.com/tgrennan/dicey/internal/server"
	dicesync "github.com/tgrennan/dicey/sync"
)

var debug bool

func main() {
	app := cli.NewApp()
	app.Name = "dice"
	app.Usage = "CLI dice roller"
	app.Version = "0.1.0"

	globalFlags := []cli.Flag{
		cli.BoolFlag{
			Name:        "debug",
			Usage:       "print the parsed expression tree before rolling",
			Destination: &debug,
		},
		cli.StringFlag{
			Name:  "verbosity",
			Value: "medium",
			Usage: "short, medium, or verbose",
		},
		cli.BoolFlag{
			Name:  "markdown",
			Usage: "render output as markdown",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "roll",
			Aliases:   []string{"r"},
			Usage:     "roll a dice command",
			ArgsUsage: "<expression>",
			Flags:     globalFlags,
			Action:    rollAction,
		},
		{
			Name:      "parse",
			Aliases:   []string{"p"},
			Usage:     "parse a dice command without rolling it",
			ArgsUsage: "<expression>",
			Flags:     globalFlags,
			Action:    parseAction,
		},
		{
			Name:      "eval",
			Aliases:   []string{"e"},
			Usage:     "evaluate a quick arithmetic+dice expression",
			ArgsUsage: "<expression>",
			Action:    evalAction,
		},
		{
			Name:   "repl",
			Usage:  "enter a REPL mode",
			Flags:  globalFlags,
			Action: replAction,
		},
		{
			Name:  "server",
			Usage: "start an HTTP server",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "port", Value: 8000},
				cli.BoolFlag{Name: "pretty"},
				cli.StringFlag{Name: "config"},
			},
			Action: serverAction,
		},
		{
			Name:   "man",
			Usage:  "generate the manual page",
			Action: manAction,
		},
	}

	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func formatterFromContext(c *cli.Context) dice.Formatter {
	f := dice.NewFormatter()
	switch c.String("verbosity") {
	case "short":
		f.Verbosity = dice.Short
	case "verbose":
		f.Verbosity = dice.Verbose
	default:
		f.Verbosity = dice.Medium
	}
	f.Markdown = c.Bool("markdown")
	return f
}

func rollAction(c *cli.Context) error {
	expr := c.Args().Get(0)
	if expr == "" {
		return dice.ParamErrorf("usage: dice roll <expression>")
	}

	cmd, err := dice.ParseCommand(expr)
	if err != nil {
		return err
	}
	if debug {
		repr.Println(cmd)
	}

	result, err := cmd.Run(context.Background(), dice.DefaultSource, nil)
	if err != nil {
		return err
	}

	f := formatterFromContext(c)
	if len(result.Runs) == 1 {
		run := result.Runs[0]
		if run.Dice != nil {
			fmt.Printf("%s = %s\n", f.FormatHistory(*run.Dice), f.FormatTotal(run.Total()))
		} else {
			fmt.Printf("%s\n", f.FormatTotal(run.Total()))
		}
		return nil
	}

	rows := make([]string, 0, len(result.Runs)+1)
	rows = append(rows, "Run | Total")
	for i, run := range result.Runs {
		rows = append(rows, fmt.Sprintf("%d | %s", i+1, f.FormatTotal(run.Total())))
	}
	fmt.Println(columnize.SimpleFormat(rows))
	if result.Total != nil {
		fmt.Printf("Sum: %s\n", f.FormatTotal(*result.Total))
	}
	return nil
}

func parseAction(c *cli.Context) error {
	expr := c.Args().Get(0)
	if expr == "" {
		return dice.ParamErrorf("usage: dice parse <expression>")
	}
	cmd, err := dice.ParseCommand(expr)
	if err != nil {
		return err
	}
	if debug {
		repr.Println(cmd)
	}
	f := formatterFromContext(c)
	fmt.Println(f.FormatExpr(cmd.Expr))
	return nil
}

func evalAction(c *cli.Context) error {
	expr := c.Args().Get(0)
	if expr == "" {
		return dice.ParamErrorf("usage: dice eval <expression>")
	}
	result, err := calc.Evaluate(context.Background(), dice.DefaultSource, expr)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

func replAction(c *cli.Context) error {
	f := formatterFromContext(c)
	return runREPL(f)
}

func serverAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	opts := server.Options{
		Port:       c.Int("port"),
		PrettyLogs: c.Bool("pretty") || cfg.Server.PrettyLogs,
		DebugMode:  cfg.Server.DebugMode,
	}
	if !c.IsSet("port") {
		opts.Port = cfg.Server.Port
	}
	srv := server.New(opts, dicesync.Wrap(dice.DefaultSource))
	return srv.Run()
}

func manAction(c *cli.Context) error {
	man, err := c.App.ToMan()
	if err != nil {
		return err
	}
	fmt.Println(man)
	return nil
}
