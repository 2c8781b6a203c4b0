/*
Package dice implements a tabletop dice-notation language: a parser and
evaluator that turns textual dice expressions such as "2d20K1 e1 + 3" or
"(2d6+6)^+8 : attack" into an expression tree, rolls that tree against a
pluggable randomness source, and renders the outcome at a configurable level
of detail. The "^[mode]count" repeat suffix is lexed as one token: no
whitespace may appear between '^', its mode character, and the count.

# Dice Notation

Dice notation is an algebra-like system for indicating dice rolls in games.
Rolls are usually given in the form AdX+B, where A is the number of X-sided
dice to roll, with an optional arithmetic modifier B. A may be omitted if it
is 1: 1dX can be written as simply dX. X may also be "F" or "f" for a Fudge
(a.k.a. Fate) die, whose faces are {-1, 0, +1}.

Dice notation can carry modifiers that change the rolled batch before it is
summed (reroll, explode, keep, drop) and an aggregator that changes how the
batch is reduced to a total (sum, target number, target enumeration). See
ParseExpression, ParseCommand, RollSpec, and Modifier for the details of
each.

# Grammar

	command     := expr [ '^' ['+' | '#'] count ]? [':' text]?
	expr        := term (('+'|'-') term)*
	term        := factor (('*'|'/') factor)*
	factor      := float | integer | dice | '(' expr ')' | '$' ident
	dice        := [count] 'd' (integer | 'F' | 'f') mod* agg*
	mod         := ('r'|'ir') value | ('e'|'!') [value] | ('K'|'k'|'D'|'d') posint
	agg         := 't' (value | '[' value (',' value)* ']')
	             | 'tt' value
	             | 'f' value

Every count, repeat, and batch-growth step is bounded by the package's dice
limit, MaxDice, so no input can force unbounded work.
*/
package dice
