package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tgrennan/dicey"
)

const replPrompt = ">>> "

// runREPL reads dice commands from stdin, one per line, rolling and
// printing each until EOF or a line reading "quit".
func runREPL(f dice.Formatter) error {
	scanner := bufio.NewScanner(os.Stdin)

	interactive := false
	if fi, err := os.Stdin.Stat(); err == nil {
		interactive = fi.Mode()&os.ModeCharDevice != 0
	}

	for {
		if interactive {
			fmt.Fprint(os.Stderr, replPrompt)
		}
		if !scanner.Scan() {
			return nil
		}
		line := scanner.Text()
		if line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		cmd, err := dice.ParseCommand(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		result, err := cmd.Run(ctx, dice.DefaultSource, nil)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		for _, run := range result.Runs {
			if run.Dice != nil {
				fmt.Printf("%s = %s\n", f.FormatHistory(*run.Dice), f.FormatTotal(run.Total()))
			} else {
				fmt.Println(f.FormatTotal(run.Total()))
			}
		}
	}
}
