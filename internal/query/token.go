// Package query implements the expression grammar: a hand-written
// recursive-descent parser turning a textual group-name expression into a
// postfix token stream, plus the tagged Expression/Probe query value used
// by callers of the retrieval engine.
package query

import "github.com/jettpy/himpy-go/internal/element"

// TokenKind distinguishes the four kinds of postfix token.
type TokenKind int

const (
	// KindName is a bare group name or raw element key.
	KindName TokenKind = iota
	// KindTuple is a parenthesised multi-dimensional atom, e.g. (top, green).
	KindTuple
	// KindOp is one of the seven binary operator signs.
	KindOp
	// KindNegate is the "unary -" marker: negate the value immediately
	// beneath it on the evaluation stack.
	KindNegate
)

// Token is one element of the postfix stream produced by Parse.
type Token struct {
	Kind  TokenKind
	Name  string
	Tuple []string
	Op    element.Operator
}
