package dice

import (
	"regexp"
	"strconv"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/tgrennan/dicey/internal/lexer"
)

// Parser holds the token stream for one parse call. It implements a
// precedence climber over the arithmetic operators with dice terms, var
// references, and parenthesised blocks as primaries -- arithmetic rules
// above dice rules, so "2d6 + 3" parses as add(dice(2d6), 3), never as a
// dice term with a "+3" modifier (the dice term's own modifier/aggregator
// suffix is consumed entirely inside the single Dice token emitted by the
// lexer).
type Parser struct {
	tokens []plexer.Token
	pos    int
}

// ParseExpression parses a full arithmetic/dice expression from src.
func ParseExpression(src string) (*Expression, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, wrapParseError(err, "tokenizing expression")
	}
	p := &Parser{tokens: tokens}
	expr, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, ParseErrorf("unexpected trailing input %q", p.remaining())
	}
	return expr, nil
}

// ParseCommand parses a full command: an expression, optional "^[mode]count"
// repeat suffix, and optional ": reason" trailer. The reason is free text --
// it is split off the raw source on the first ':' before tokenizing, since
// the notation lexer has no rule for bare words.
func ParseCommand(src string) (Command, error) {
	body, reason := splitReason(src)

	tokens, err := lexer.Tokenize(body)
	if err != nil {
		return Command{}, wrapParseError(err, "tokenizing command")
	}
	p := &Parser{tokens: tokens}

	expr, err := p.parseBinary(0)
	if err != nil {
		return Command{}, err
	}

	repeat := Repeat{Count: 1, Mode: RepeatNone}
	if p.peekIs("Mode") {
		tok := p.next()
		mode, count, err := parseModeToken(tok.Value)
		if err != nil {
			return Command{}, err
		}
		repeat.Mode = mode
		repeat.Count = count
		if repeat.Count <= 0 {
			return Command{}, ErrEmptyRepeat
		}
		if repeat.Count > MaxDice {
			return Command{}, errDiceLimit(StageRepeat)
		}
	}

	if !p.atEnd() {
		return Command{}, ParseErrorf("unexpected trailing input %q", p.remaining())
	}

	return Command{Expr: expr, Repeat: repeat, Reason: reason}, nil
}

// splitReason separates src's leading expression/command text from its
// trailing ": reason" free-text clause, if any.
func splitReason(src string) (body, reason string) {
	idx := strings.IndexByte(src, ':')
	if idx < 0 {
		return src, ""
	}
	return src[:idx], strings.TrimSpace(src[idx+1:])
}

// ParseVarDecl parses the separate "$name = expr [: reason]" entry point.
func ParseVarDecl(src string) (string, *Expression, string, error) {
	body, reason := splitReason(src)

	tokens, err := lexer.Tokenize(body)
	if err != nil {
		return "", nil, "", wrapParseError(err, "tokenizing variable declaration")
	}
	p := &Parser{tokens: tokens}
	if !p.peekIs("Ident") {
		return "", nil, "", ParseErrorf("expected $name at start of variable declaration")
	}
	name := strings.TrimPrefix(p.next().Value, "$")
	if !p.peekIsPunct("=") {
		return "", nil, "", ParseErrorf("expected '=' after $%s", name)
	}
	p.next()

	expr, err := p.parseBinary(0)
	if err != nil {
		return "", nil, "", err
	}

	if !p.atEnd() {
		return "", nil, "", ParseErrorf("unexpected trailing input %q", p.remaining())
	}
	return name, expr, reason, nil
}

var modeTokenRe = regexp.MustCompile(`^\^([+#]?)(\d+)$`)

func parseModeToken(tok string) (RepeatMode, int, error) {
	m := modeTokenRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, 0, ParseErrorf("malformed repeat suffix %q", tok)
	}
	count, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, wrapParseError(err, "parsing repeat count")
	}
	switch m[1] {
	case "+":
		return RepeatSum, count, nil
	case "#":
		return RepeatSort, count, nil
	default:
		return RepeatNone, count, nil
	}
}

// --- precedence climbing over + - (lower) and * / (higher) ---

var binOps = map[string]struct {
	op   BinOp
	prec int
}{
	"+": {OpAdd, 1},
	"-": {OpSub, 1},
	"*": {OpMul, 2},
	"/": {OpDiv, 2},
}

func (p *Parser) parseBinary(minPrec int) (*Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		sym, ok := p.peekPunctOp()
		if !ok {
			break
		}
		info, known := binOps[sym]
		if !known || info.prec < minPrec {
			break
		}
		p.next()
		right, err := p.parseBinary(info.prec + 1)
		if err != nil {
			return nil, err
		}
		left = Binary(info.op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (*Expression, error) {
	if p.peekIsPunct("-") {
		p.next()
		inner, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		switch inner.Kind {
		case ExprInteger:
			return Int(-inner.Integer), nil
		case ExprFloat:
			return Float64(-inner.Float), nil
		default:
			return Binary(OpSub, Int(0), inner), nil
		}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (*Expression, error) {
	if p.atEnd() {
		return nil, ParseErrorf("unexpected end of input")
	}
	tok := p.peek()
	switch tok.Type {
	case p.symbol("Dice"):
		p.next()
		spec, err := parseDiceTerm(tok.Value)
		if err != nil {
			return nil, err
		}
		return DiceExpr(spec), nil
	case p.symbol("Float"):
		p.next()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, wrapParseError(err, "parsing float literal")
		}
		return Float64(v), nil
	case p.symbol("Int"):
		p.next()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, wrapParseError(err, "parsing integer literal")
		}
		return Int(v), nil
	case p.symbol("Ident"):
		p.next()
		name := strings.TrimPrefix(tok.Value, "$")
		return VarRef(name, nil), nil
	case p.symbol("Punct"):
		if tok.Value == "(" {
			p.next()
			inner, err := p.parseBinary(0)
			if err != nil {
				return nil, err
			}
			if !p.peekIsPunct(")") {
				return nil, ParseErrorf("expected closing ')'")
			}
			p.next()
			return Block(inner), nil
		}
	}
	return nil, ParseErrorf("unexpected token %q", tok.Value)
}

// --- token stream helpers ---

func (p *Parser) symbol(name string) plexer.TokenType {
	return lexer.Definition.Symbols()[name]
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *Parser) peek() plexer.Token {
	if p.atEnd() {
		return plexer.Token{}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() plexer.Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *Parser) peekIs(name string) bool {
	return !p.atEnd() && p.peek().Type == p.symbol(name)
}

func (p *Parser) peekIsPunct(value string) bool {
	return !p.atEnd() && p.peek().Type == p.symbol("Punct") && p.peek().Value == value
}

func (p *Parser) peekPunctOp() (string, bool) {
	if !p.atEnd() && p.peek().Type == p.symbol("Punct") {
		v := p.peek().Value
		if _, ok := binOps[v]; ok {
			return v, true
		}
	}
	return "", false
}

func (p *Parser) remaining() string {
	var b strings.Builder
	for i := p.pos; i < len(p.tokens); i++ {
		if i > p.pos {
			b.WriteByte(' ')
		}
		b.WriteString(p.tokens[i].Value)
	}
	return b.String()
}

// --- dice-term sub-parser ---

var diceHeadRe = regexp.MustCompile(`^(\d*)[dD]([0-9]+|[Ff])`)

// parseDiceTerm parses one complete "[count]d(sides|F)modifier*aggregator*"
// token as matched whole by the lexer, consuming its modifier/aggregator
// suffix left-to-right and greedily, in the style of regex-driven dice
// notation parsers: each iteration skips any whitespace the lexer folded
// into the token, tries the longest-matching known prefix, and strips it
// before continuing.
func parseDiceTerm(text string) (spec RollSpec, err error) {
	defer func() {
		if r := recover(); r != nil {
			pte, ok := r.(parseTermError)
			if !ok {
				panic(r)
			}
			spec, err = RollSpec{}, pte.err
		}
	}()

	head := diceHeadRe.FindStringSubmatch(text)
	if head == nil {
		return RollSpec{}, ParseErrorf("malformed dice term %q", text)
	}

	count := 1
	if head[1] != "" {
		c, err := strconv.Atoi(head[1])
		if err != nil {
			return RollSpec{}, wrapParseError(err, "parsing dice count")
		}
		count = c
	}
	if count > MaxDice {
		return RollSpec{}, errDiceLimit(StageParse)
	}

	var kind Kind
	if head[2] == "F" || head[2] == "f" {
		kind = Fudge
	} else {
		sides, err := strconv.ParseUint(head[2], 10, 32)
		if err != nil {
			return RollSpec{}, wrapParseError(err, "parsing dice sides")
		}
		if sides == 0 {
			return RollSpec{}, ErrZeroSided
		}
		kind = Basic(sides)
	}

	rest := text[len(head[0]):]

	var (
		mods           []Modifier
		target, failure, double *int64
		enum           *TargetEnum
	)

	for rest != "" {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			break
		}
		switch {
		case matchConsume(&rest, rerollUnlimitedRe, func(m []string) error {
			t, err := parseIntValue(m[1])
			if err != nil {
				return err
			}
			if err := checkFudgeThreshold(t, kind); err != nil {
				return err
			}
			if err := checkRerollUnlimited(t, kind); err != nil {
				return err
			}
			mods = append(mods, RerollUnlimited{Threshold: t})
			return nil
		}):
		case matchConsume(&rest, rerollOnceRe, func(m []string) error {
			t, err := parseIntValue(m[1])
			if err != nil {
				return err
			}
			if err := checkFudgeThreshold(t, kind); err != nil {
				return err
			}
			mods = append(mods, RerollOnce{Threshold: t})
			return nil
		}):
		case matchConsume(&rest, explodeUnlimitedRe, func(m []string) error {
			t := kind.Max()
			if m[1] != "" {
				var err error
				t, err = parseIntValue(m[1])
				if err != nil {
					return err
				}
			}
			if err := checkFudgeThreshold(t, kind); err != nil {
				return err
			}
			if err := checkExplodeUnlimited(t, kind); err != nil {
				return err
			}
			mods = append(mods, ExplodeUnlimited{Threshold: t})
			return nil
		}):
		case matchConsume(&rest, explodeOnceRe, func(m []string) error {
			t := kind.Max()
			if m[1] != "" {
				var err error
				t, err = parseIntValue(m[1])
				if err != nil {
					return err
				}
			}
			if err := checkFudgeThreshold(t, kind); err != nil {
				return err
			}
			mods = append(mods, ExplodeOnce{Threshold: t})
			return nil
		}):
		case matchConsume(&rest, keepHighRe, func(m []string) error {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return wrapParseError(err, "parsing keep-high count")
			}
			mods = append(mods, KeepHigh(n))
			return nil
		}):
		case matchConsume(&rest, keepLowRe, func(m []string) error {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return wrapParseError(err, "parsing keep-low count")
			}
			mods = append(mods, KeepLow(n))
			return nil
		}):
		case matchConsume(&rest, dropHighRe, func(m []string) error {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return wrapParseError(err, "parsing drop-high count")
			}
			mods = append(mods, DropHigh(n))
			return nil
		}):
		case matchConsume(&rest, dropLowRe, func(m []string) error {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return wrapParseError(err, "parsing drop-low count")
			}
			mods = append(mods, DropLow(n))
			return nil
		}):
		case matchConsume(&rest, targetEnumRe, func(m []string) error {
			if enum != nil {
				return ParamErrorf("duplicate target-enum aggregator")
			}
			values, err := parseEnumValues(m[1])
			if err != nil {
				return err
			}
			e := NewTargetEnum(values...)
			enum = &e
			return nil
		}):
		case matchConsume(&rest, targetDoubleRe, func(m []string) error {
			if double != nil {
				return ParamErrorf("duplicate double-target aggregator")
			}
			v, err := parseIntValue(m[1])
			if err != nil {
				return err
			}
			double = &v
			return nil
		}):
		case matchConsume(&rest, targetRe, func(m []string) error {
			if target != nil {
				return ParamErrorf("duplicate target aggregator")
			}
			v, err := parseIntValue(m[1])
			if err != nil {
				return err
			}
			target = &v
			return nil
		}):
		case matchConsume(&rest, failureRe, func(m []string) error {
			if failure != nil {
				return ParamErrorf("duplicate failure aggregator")
			}
			v, err := parseIntValue(m[1])
			if err != nil {
				return err
			}
			failure = &v
			return nil
		}):
		default:
			return RollSpec{}, ParseErrorf("unrecognized dice modifier at %q", rest)
		}
	}

	var agg Aggregator = Sum{}
	if enum != nil {
		agg = *enum
	} else if target != nil || failure != nil || double != nil {
		agg = TargetFailureDouble{Target: target, Failure: failure, Double: double}
	}

	return RollSpec{Kind: kind, Count: count, Modifiers: mods, Aggregator: agg}, nil
}

// matchConsume tries re against *rest; on match it strips the matched prefix
// and invokes fn with the submatches, returning true iff re matched. A
// non-nil error from fn is propagated by panicking with parseTermError,
// which parseDiceTerm recovers -- this keeps every modifier case a plain
// one-liner instead of threading an extra error return through the switch.
func matchConsume(rest *string, re *regexp.Regexp, fn func([]string) error) bool {
	loc := re.FindStringSubmatchIndex(*rest)
	if loc == nil || loc[0] != 0 {
		return false
	}
	m := re.FindStringSubmatch(*rest)
	if err := fn(m); err != nil {
		panic(parseTermError{err})
	}
	*rest = (*rest)[loc[1]:]
	return true
}

type parseTermError struct{ err error }

func parseIntValue(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, wrapParseError(err, "parsing modifier value")
	}
	return v, nil
}

func parseEnumValues(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := parseIntValue(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var (
	rerollUnlimitedRe = regexp.MustCompile(`^ir(-?\d+)`)
	rerollOnceRe      = regexp.MustCompile(`^r(-?\d+)`)
	explodeUnlimitedRe = regexp.MustCompile(`^!(-?\d+)?`)
	explodeOnceRe     = regexp.MustCompile(`^e(-?\d+)?`)
	keepHighRe        = regexp.MustCompile(`^K(\d+)`)
	keepLowRe         = regexp.MustCompile(`^k(\d+)`)
	dropHighRe        = regexp.MustCompile(`^D(\d+)`)
	dropLowRe         = regexp.MustCompile(`^d(\d+)`)
	targetEnumRe      = regexp.MustCompile(`^t\[([^\]]*)\]`)
	targetDoubleRe    = regexp.MustCompile(`^tt(-?\d+)`)
	targetRe          = regexp.MustCompile(`^t(-?\d+)`)
	failureRe         = regexp.MustCompile(`^f(-?\d+)`)
)
