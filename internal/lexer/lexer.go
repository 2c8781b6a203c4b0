// Package lexer tokenizes dice notation text for the parser. It leans on
// participle/v2's stateful regexp lexer purely for tokenization; the actual
// grammar (precedence climbing, dice-term modifier parsing) lives in the
// parser, hand-written rather than declared via participle struct tags.
package lexer

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Definition is the shared token definition for dice notation. The Dice rule
// spans whitespace between the die head and each modifier/aggregator suffix
// (and between successive suffixes), so "2d20 e2" and "20d20 e tt20" lex as
// one token the same as their unspaced equivalents.
var Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Dice", Pattern: `[0-9]*[dD]([0-9]+|[Ff])(?:[ \t\r\n]*[a-zA-Z!][a-zA-Z0-9\[\],<>=-]*)*`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `\$[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Mode", Pattern: `\^[+#]?[0-9]+`},
	{Name: "Punct", Pattern: `[-+*/()=:]`},
})

// Tokenize lexes src into a token slice, stripping whitespace tokens and the
// trailing EOF sentinel.
func Tokenize(src string) ([]lexer.Token, error) {
	lex, err := Definition.Lex("", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	out := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.EOF() {
			continue
		}
		if Definition.Symbols()["Whitespace"] == t.Type {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
