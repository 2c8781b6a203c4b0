package dice

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxDice is the package-wide dice limit: the maximum number of dice that may
// ever appear in a single count, a single repeat, or a single batch at any
// pipeline stage. It is the universal guard against pathological input.
const MaxDice = 5000

// growthStage names the pipeline stage a dice-limit violation occurred in, for
// the "Exceed maximum allowed number of dice (5000) during {stage}." message.
type growthStage string

// Growth stages recognised by the dice limit guard.
const (
	StageParse     growthStage = "parse"
	StageRerolls   growthStage = "rerolls"
	StageBatch     growthStage = "batch aggregation"
	StageRepeat    growthStage = "repeated roll count"
	StageExplosion growthStage = "explosions"
)

// A ParseError wraps a lexical or numeric failure encountered while parsing
// dice notation text. ParseErrors carry their underlying cause so that clones
// stay cheap; two ParseErrors compare equal only when they share a cause.
type ParseError struct {
	cause error
}

// NewParseError wraps cause as a ParseError.
func NewParseError(cause error) *ParseError {
	return &ParseError{cause: cause}
}

// ParseErrorf builds a ParseError from a formatted message.
func ParseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{cause: fmt.Errorf(format, args...)}
}

func (e *ParseError) Error() string {
	if e == nil || e.cause == nil {
		return "parse error"
	}
	return "parse error: " + e.cause.Error()
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports whether target is a *ParseError sharing the same cause pointer.
func (e *ParseError) Is(target error) bool {
	other, ok := target.(*ParseError)
	return ok && other != nil && e != nil && other.cause == e.cause
}

// A ParamError is a semantic failure discovered during or after parsing: dice
// limit breaches, undefined variables, Keep/Drop n > len, conflicting target
// clauses, diverging unlimited modifiers, and zero-length repeat counts.
type ParamError struct {
	Message string
}

// NewParamError builds a ParamError from a message.
func NewParamError(message string) *ParamError {
	return &ParamError{Message: message}
}

// ParamErrorf builds a ParamError from a formatted message.
func ParamErrorf(format string, args ...interface{}) *ParamError {
	return &ParamError{Message: fmt.Sprintf(format, args...)}
}

func (e *ParamError) Error() string {
	if e == nil {
		return "parameter error"
	}
	return e.Message
}

// errDiceLimit builds the canonical dice-limit ParamError for a given stage.
func errDiceLimit(stage growthStage) *ParamError {
	return ParamErrorf("Exceed maximum allowed number of dice (%d) during %s.", MaxDice, stage)
}

// Sentinel errors for conditions that have one fixed message.
var (
	// ErrZeroSided is returned when a Basic die of size 0 is requested: the
	// grammar alone rules it out, so it is a ParseError rather than a
	// ParamError.
	ErrZeroSided = ParseErrorf("number would be zero for non-zero type")
	// ErrUndefinedVariable is returned when $name has no matching binding.
	ErrUndefinedVariable = NewParamError("undefined variable")
	// ErrEmptyRepeat is returned for a repeat count of 0.
	ErrEmptyRepeat = NewParamError("repeat count must be at least 1")
	// ErrDivergingReroll is returned for RerollUnlimited thresholds that would
	// never terminate.
	ErrDivergingReroll = NewParamError("unlimited reroll threshold would loop forever")
	// ErrDivergingExplode is returned for ExplodeUnlimited thresholds that would
	// never terminate.
	ErrDivergingExplode = NewParamError("unlimited explode threshold would loop forever")
)

// wrap is a small helper matching the teacher's use of github.com/pkg/errors
// for adding context to a cause while preserving the chain for errors.Is/As.
func wrap(cause error, message string) error {
	return errors.Wrap(cause, message)
}

// wrapParseError builds a ParseError whose cause is err annotated with
// message, for the numeric/lexical parse failures that need more context
// than the bare strconv/lexer error gives the caller.
func wrapParseError(cause error, message string) *ParseError {
	return &ParseError{cause: wrap(cause, message)}
}
