package query

import (
	"fmt"
	"strconv"
)

// tokenType identifies the kind of a lexical token.
type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokField
	tokCompare
	tokBinOp
	tokPipe // abs delimiter or OR, depending on position
	tokNot
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokDoubleSlash
	tokPercent
	tokPower
	tokLParen
	tokRParen
)

var tokenNames = map[tokenType]string{
	tokEOF:         "end of input",
	tokNumber:      "number",
	tokField:       "field",
	tokCompare:     "comparison",
	tokBinOp:       "boolean operator",
	tokPipe:        "'|'",
	tokNot:         "negation",
	tokPlus:        "'+'",
	tokMinus:       "'-'",
	tokStar:        "'*'",
	tokSlash:       "'/'",
	tokDoubleSlash: "'//'",
	tokPercent:     "'%'",
	tokPower:       "'**'",
	tokLParen:      "'('",
	tokRParen:      "')'",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// token is one lexeme of a query string.
type token struct {
	Type  tokenType
	Value string
	Pos   int
	Num   float64
}

var keywords = map[string]tokenType{
	"day":   tokField,
	"month": tokField,
	"year":  tokField,
	"and":   tokBinOp,
	"or":    tokBinOp,
	"xor":   tokBinOp,
	"not":   tokNot,
}

// lexer splits a query string into tokens.
type lexer struct {
	input  string
	pos    int
	tokens []token
}

// newLexer creates a lexer for input.
func newLexer(input string) *lexer {
	return &lexer{input: input}
}

// tokenize performs full tokenization of the input. The last token is
// always tokEOF.
func (l *lexer) tokenize() ([]token, error) {
	l.tokens = nil
	l.pos = 0
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}
		ch := l.input[l.pos]
		switch {
		case ch == '(':
			l.emit(tokLParen, 1)
		case ch == ')':
			l.emit(tokRParen, 1)
		case ch == '+':
			l.emit(tokPlus, 1)
		case ch == '-':
			l.emit(tokMinus, 1)
		case ch == '*' && l.peek(1) == '*':
			l.emit(tokPower, 2)
		case ch == '*':
			l.emit(tokStar, 1)
		case ch == '/' && l.peek(1) == '/':
			l.emit(tokDoubleSlash, 2)
		case ch == '/':
			l.emit(tokSlash, 1)
		case ch == '%':
			l.emit(tokPercent, 1)
		case ch == '|':
			l.emit(tokPipe, 1)
		case ch == '&', ch == '^':
			l.emit(tokBinOp, 1)
		case ch == '~':
			l.emit(tokNot, 1)
		case ch == '=' && l.peek(1) == '=',
			ch == '!' && l.peek(1) == '=',
			ch == '<' && l.peek(1) == '=',
			ch == '>' && l.peek(1) == '=':
			l.emit(tokCompare, 2)
		case ch == '<', ch == '>':
			l.emit(tokCompare, 1)
		case isDigit(ch), ch == '.' && isDigit(l.peek(1)):
			tok, err := l.readNumber()
			if err != nil {
				return nil, err
			}
			l.tokens = append(l.tokens, tok)
		case isIdentStart(ch):
			tok, err := l.readKeyword()
			if err != nil {
				return nil, err
			}
			l.tokens = append(l.tokens, tok)
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", ch, l.pos)
		}
	}
	l.tokens = append(l.tokens, token{Type: tokEOF, Pos: l.pos})
	return l.tokens, nil
}

func (l *lexer) emit(t tokenType, width int) {
	l.tokens = append(l.tokens, token{Type: t, Value: l.input[l.pos : l.pos+width], Pos: l.pos})
	l.pos += width
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t' || l.input[l.pos] == '\n' || l.input[l.pos] == '\r') {
		l.pos++
	}
}

func (l *lexer) peek(offset int) byte {
	idx := l.pos + offset
	if idx < len(l.input) {
		return l.input[idx]
	}
	return 0
}

// readNumber accepts 12, 1.5, .5 and 1e3 style literals.
func (l *lexer) readNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.peek(0) == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		exp := 1
		if s := l.peek(1); s == '+' || s == '-' {
			exp = 2
		}
		if isDigit(l.peek(exp)) {
			l.pos += exp
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.pos++
			}
		}
	}

	text := l.input[start:l.pos]
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, fmt.Errorf("invalid number %q at position %d", text, start)
	}
	return token{Type: tokNumber, Value: text, Pos: start, Num: num}, nil
}

func (l *lexer) readKeyword() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]
	t, ok := keywords[word]
	if !ok {
		return token{}, fmt.Errorf("unknown identifier %q at position %d", word, start)
	}
	return token{Type: t, Value: word, Pos: start}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
