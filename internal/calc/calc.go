// Package calc implements the package's "quick calculator": a non-core
// convenience that lets a caller hand in a loose arithmetic-and-dice string
// ("2d6+3", "floor(max(d20,d20)/2)") and get back both the expanded,
// dice-rolled form of the expression and its evaluated float64 result.
//
// Unlike the core Expression/Command pipeline, the calculator does not
// preserve per-roll history or support the full modifier/aggregator
// grammar beyond what dice.ParseCommand already accepts for a single dice
// term; it exists for quick one-line evaluations where callers want
// arithmetic functions (floor, max, min, ...) composed around dice terms.
package calc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	eval "github.com/Knetic/govaluate"

	"github.com/tgrennan/dicey"
)

// Possible error types for mathematical functions.
var (
	ErrNotEnoughArgs   = errors.New("not enough args")
	ErrInvalidArgCount = errors.New("invalid argument count")
)

// Functions are the arithmetic helper functions usable in quick-calculator
// expressions alongside dice terms.
var Functions = map[string]eval.ExpressionFunction{
	"abs":   absFunc,
	"ceil":  ceilFunc,
	"floor": floorFunc,
	"max":   maxFunc,
	"min":   minFunc,
	"round": roundFunc,
}

// ListFunctions returns the names of every registered helper function.
func ListFunctions() []string {
	names := make([]string, 0, len(Functions))
	for name := range Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func absFunc(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return 0, ErrInvalidArgCount
	}
	return math.Abs(args[0].(float64)), nil
}

func ceilFunc(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return 0, ErrInvalidArgCount
	}
	return math.Ceil(args[0].(float64)), nil
}

func floorFunc(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return 0, ErrInvalidArgCount
	}
	return math.Floor(args[0].(float64)), nil
}

func maxFunc(args ...interface{}) (interface{}, error) {
	if len(args) < 1 {
		return 0, ErrNotEnoughArgs
	}
	sort.Slice(args, func(i, j int) bool {
		return args[i].(float64) < args[j].(float64)
	})
	return args[len(args)-1], nil
}

func minFunc(args ...interface{}) (interface{}, error) {
	if len(args) < 1 {
		return 0, ErrNotEnoughArgs
	}
	sort.Slice(args, func(i, j int) bool {
		return args[i].(float64) < args[j].(float64)
	})
	return args[0], nil
}

func roundFunc(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return 0, ErrInvalidArgCount
	}
	return math.Round(args[0].(float64)), nil
}

// diceTermPattern finds dice terms embedded in an otherwise-arithmetic
// expression string, so they can be rolled and substituted before the rest
// is handed to govaluate. Mirrors internal/lexer's Dice rule, including its
// tolerance for whitespace between a die head and its modifier/aggregator
// suffix.
var diceTermPattern = regexp.MustCompile(`[0-9]*[dD]([0-9]+|[Ff])(?:[ \t\r\n]*[a-zA-Z!][a-zA-Z0-9\[\],<>=-]*)*`)

// Result is the outcome of evaluating a quick-calculator expression.
type Result struct {
	// Original is the expression as given.
	Original string
	// Rolled is Original with every dice term replaced by its parenthesised
	// rolled total.
	Rolled string
	// Total is the expression's evaluated float64 result.
	Total float64
}

func (r *Result) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s = %v", r.Rolled, r.Total)
}

// Evaluate rolls every dice term embedded in expression, substitutes its
// total back into the string, and evaluates the resulting arithmetic
// expression with the registered Functions available.
func Evaluate(ctx context.Context, src dice.Source, expression string) (*Result, error) {
	res := &Result{Original: expression}

	var rollErr error
	rolled := diceTermPattern.ReplaceAllStringFunc(expression, func(term string) string {
		if rollErr != nil {
			return ""
		}
		spec, err := dice.ParseCommand(term)
		if err != nil {
			rollErr = err
			return ""
		}
		evaluated, err := spec.Run(ctx, src, nil)
		if err != nil {
			rollErr = err
			return ""
		}
		total := evaluated.Runs[0].Total()
		return "(" + strings.TrimSpace(fmt.Sprintf("%v", total)) + ")"
	})
	if rollErr != nil {
		return nil, rollErr
	}
	res.Rolled = rolled

	exp, err := eval.NewEvaluableExpressionWithFunctions(res.Rolled, Functions)
	if err != nil {
		return nil, dice.NewParseError(err)
	}
	result, err := exp.Evaluate(nil)
	if err != nil {
		return nil, dice.ParamErrorf("invalid expression: %v", err)
	}
	total, ok := result.(float64)
	if !ok {
		return nil, dice.ParamErrorf("expression result %v is not a number", result)
	}
	res.Total = total
	return res, nil
}
