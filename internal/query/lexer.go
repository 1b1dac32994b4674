package query

import (
	"fmt"
	"strings"
)

type lexKind int

const (
	lexIdent lexKind = iota
	lexOp
	lexLParen
	lexRParen
	lexComma
)

type lexTok struct {
	kind lexKind
	text string
	pos  int
}

const singleCharOps = "+-*/&|"

func lex(s string) ([]lexTok, error) {
	var toks []lexTok
	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, lexTok{lexLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, lexTok{lexRParen, ")", i})
			i++
		case c == ',':
			toks = append(toks, lexTok{lexComma, ",", i})
			i++
		case c == '#':
			if i+1 < n && (s[i+1] == '|' || s[i+1] == '/') {
				toks = append(toks, lexTok{lexOp, s[i : i+2], i})
				i += 2
			} else {
				return nil, fmt.Errorf("query: unknown operator at position %d", i)
			}
		case strings.IndexByte(singleCharOps, c) >= 0:
			toks = append(toks, lexTok{lexOp, string(c), i})
			i++
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentCont(s[j]) {
				j++
			}
			toks = append(toks, lexTok{lexIdent, s[i:j], i})
			i = j
		default:
			return nil, fmt.Errorf("query: unexpected character %q at position %d", c, i)
		}
	}
	return toks, nil
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '_'
}
