// Package query implements the waveform search language: a lexer, a
// recursive-descent parser, an immutable expression tree, and the hint-based
// skip-scan used to find the next or previous time an expression is true.
//
// # Grammar
//
//	expr       := or_expr
//	or_expr    := and_expr ( ("or"|"||") and_expr )*
//	and_expr   := condition ( ("and"|"&&") condition )*
//	condition  := "(" expr ")" | value [ relop value ]
//	relop      := "=" | "==" | "!=" | "<>" | "><" | "<" | "<=" | ">" | ">="
//	value      := netref [ "[" INT [":" INT] "]" ] | literal
//	literal    := [ "'" ("b"|"o"|"d"|"h") ] DIGITS
//	netref     := IDENT ("." IDENT)*
//
// A condition with no relational operator means "value != 0".
//
// # Hints
//
// Evaluating a node at time t returns its result together with a Hint: the
// nearest times after and before t at which the result could differ. A hint
// may be closer than the true change (conservative) but never farther, so a
// search can jump straight from hint to hint without missing a match.
//
// Net references take their hints from the surrounding transitions.
// Comparisons take the closer of their operands' hints. Logical nodes
// combine child hints by the current truth values:
//
//	AND  T,T  nearest of both    OR  T,T  farthest of both
//	AND  T,F  the false side     OR  T,F  the true side
//	AND  F,F  farthest of both   OR  F,F  nearest of both
//
// "Nearest" is min for forward hints and max for backward hints.
//
// # Concurrency
//
// Trees are immutable and hints are returned by value, so a single Search
// may be evaluated from many goroutines at once.
package query
