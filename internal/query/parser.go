package query

import (
	"fmt"

	"github.com/jettpy/himpy-go/internal/element"
)

// Parse is a pure function from expression text to a postfix token vector.
// It retains no state between calls: each call allocates a fresh parser
// struct local to the call, so Parse itself is safe for concurrent use even
// though nothing here is cached or reused.
//
//	expr    := term ( op term )*
//	term    := op* ( element | '(' element_list ')' | '(' expr ')' )
//	element := [A-Za-z][A-Za-z0-9_]*
//	element_list := element ( ',' element )*
//	op      := '+' | '-' | '*' | '/' | '&' | '|' | '#|' | '#/'
func Parse(s string) ([]Token, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("query: empty expression")
	}
	p := &parser{toks: toks}
	if err := p.expr(); err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("query: unexpected token %q at position %d", p.toks[p.pos].text, p.toks[p.pos].pos)
	}
	return p.out, nil
}

// parser holds only the scratch state for a single Parse call; it is never
// retained or reused across calls, unlike the source grammar's reusable
// parser-instance-with-mutable-scratch-state design.
type parser struct {
	toks []lexTok
	pos  int
	out  []Token
}

func (p *parser) peek() (lexTok, bool) {
	if p.pos >= len(p.toks) {
		return lexTok{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) expr() error {
	if err := p.term(); err != nil {
		return err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != lexOp {
			break
		}
		op, valid := element.ParseOperator(t.text)
		if !valid {
			return fmt.Errorf("query: unknown operator %q at position %d", t.text, t.pos)
		}
		p.pos++
		if err := p.term(); err != nil {
			return err
		}
		p.out = append(p.out, Token{Kind: KindOp, Op: op})
	}
	return nil
}

// term consumes a run of leading operator signs (the grammar's op*), then
// one atom. Only a strict prefix-run of literal '-' signs from the very
// start counts toward negation; a leading sign that is not itself '-'
// still gets consumed (op* matches any operator token) but ends the
// negation count, and any sign after that point has no effect at all.
func (p *parser) term() error {
	negCount := 0
	counting := true
	for {
		t, ok := p.peek()
		if !ok || t.kind != lexOp {
			break
		}
		if counting && t.text == "-" {
			negCount++
		} else {
			counting = false
		}
		p.pos++
	}
	if err := p.atom(); err != nil {
		return err
	}
	for i := 0; i < negCount; i++ {
		p.out = append(p.out, Token{Kind: KindNegate})
	}
	return nil
}

func (p *parser) atom() error {
	t, ok := p.peek()
	if !ok {
		return fmt.Errorf("query: unexpected end of expression")
	}
	switch t.kind {
	case lexIdent:
		p.pos++
		p.out = append(p.out, Token{Kind: KindName, Name: t.text})
		return nil
	case lexLParen:
		return p.parenthesized()
	default:
		return fmt.Errorf("query: unexpected token %q at position %d", t.text, t.pos)
	}
}

// parenthesized disambiguates a bare comma-list of names (a tuple atom, or
// a single name if the list has exactly one entry) from a fully
// parenthesised sub-expression, via ordered-choice backtracking: try the
// comma-list first, and only attempt the general sub-expression if that
// fails to consume a matching ')'.
func (p *parser) parenthesized() error {
	open := p.pos
	if names, ok := p.tryNameList(); ok {
		if len(names) == 1 {
			p.out = append(p.out, Token{Kind: KindName, Name: names[0]})
		} else {
			p.out = append(p.out, Token{Kind: KindTuple, Tuple: names})
		}
		return nil
	}
	p.pos = open
	p.pos++ // consume '('
	if err := p.expr(); err != nil {
		return err
	}
	t, ok := p.peek()
	if !ok || t.kind != lexRParen {
		return fmt.Errorf("query: unmatched '(' opened at position %d", p.toks[open].pos)
	}
	p.pos++
	return nil
}

// tryNameList attempts to parse "(" name ("," name)* ")" without emitting
// any tokens unless it succeeds, leaving p.pos unchanged on failure so the
// caller can fall back to a full sub-expression parse.
func (p *parser) tryNameList() ([]string, bool) {
	start := p.pos
	savedOut := len(p.out)
	pos := start
	if p.toks[pos].kind != lexLParen {
		return nil, false
	}
	pos++
	var names []string
	for {
		if pos >= len(p.toks) || p.toks[pos].kind != lexIdent {
			p.pos = start
			p.out = p.out[:savedOut]
			return nil, false
		}
		names = append(names, p.toks[pos].text)
		pos++
		if pos < len(p.toks) && p.toks[pos].kind == lexComma {
			pos++
			continue
		}
		break
	}
	if pos >= len(p.toks) || p.toks[pos].kind != lexRParen {
		p.pos = start
		p.out = p.out[:savedOut]
		return nil, false
	}
	pos++
	p.pos = pos
	return names, true
}
