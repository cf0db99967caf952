// Package query compiles filter strings such as "8 < month < 10 and day == 1"
// into predicates over calendar days.
package query

import (
	"fmt"
	"math"

	"github.com/cyp0633/libcalseries/errs"
)

// parser is a recursive descent parser over a token stream. Arithmetic is
// folded while parsing, so the resulting tree only holds comparisons.
type parser struct {
	tokens []token
	pos    int
}

// newParser creates a parser over tokens produced by a lexer.
func newParser(tokens []token) *parser {
	return &parser{tokens: tokens}
}

// Compile parses s into an expression.
func Compile(s string) (*Expr, error) {
	tokens, err := newLexer(s).tokenize()
	if err != nil {
		return nil, errs.Wrap(errs.Query, err, "bad query string %q", s)
	}
	p := newParser(tokens)
	root, err := p.parse()
	if err != nil {
		return nil, errs.Wrap(errs.Query, err, "bad query string %q", s)
	}
	return &Expr{source: s, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(s string) *Expr {
	e, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return e
}

// parse consumes the whole token stream.
func (p *parser) parse() (node, error) {
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != tokEOF {
		return nil, fmt.Errorf("unexpected %s %q at position %d", tok.Type, tok.Value, tok.Pos)
	}
	return n, nil
}

func (p *parser) current() token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token{Type: tokEOF}
}

func (p *parser) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t tokenType) (token, error) {
	tok := p.current()
	if tok.Type != t {
		return tok, fmt.Errorf("expected %s, got %s at position %d", t, tok.Type, tok.Pos)
	}
	return p.advance(), nil
}

// parseExpr handles negation and boolean operators. Every boolean operator
// has the same precedence and groups to the right; a negation covers
// everything after it.
func (p *parser) parseExpr() (node, error) {
	if p.current().Type == tokNot {
		p.advance()
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &negation{operand: operand}, nil
	}

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type == tokBinOp || tok.Type == tokPipe {
		p.advance()
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &binary{op: tok.Value, left: left, right: right}, nil
	}
	return left, nil
}

// parsePrimary parses a parenthesized expression or a filter. An opening
// parenthesis may also start an arithmetic group such as "(2+6) == month",
// in which case the parser backtracks and reads a filter instead.
func (p *parser) parsePrimary() (node, error) {
	if p.current().Type == tokLParen {
		saved := p.pos
		p.advance()
		inner, err := p.parseExpr()
		if err == nil && p.current().Type == tokRParen {
			p.advance()
			return inner, nil
		}
		p.pos = saved
	}
	return p.parseFilter()
}

// parseFilter reads "field OP sum" or "sum OP field", optionally followed
// by more "OP sum" links that compare the same field.
func (p *parser) parseFilter() (node, error) {
	var first *comparison

	if tok := p.current(); tok.Type == tokField {
		p.advance()
		op, err := p.expect(tokCompare)
		if err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		first = &comparison{field: Field(tok.Value), op: op.Value, value: v}
	} else {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		op, err := p.expect(tokCompare)
		if err != nil {
			return nil, err
		}
		field, err := p.expect(tokField)
		if err != nil {
			return nil, err
		}
		first = &comparison{field: Field(field.Value), op: op.Value, value: v, flipped: true}
	}

	var result node = first
	for p.current().Type == tokCompare {
		op := p.advance()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result = &binary{
			op:    "and",
			left:  result,
			right: &comparison{field: first.field, op: op.Value, value: v},
		}
	}
	return result, nil
}

// parseValue folds a sum and truncates it toward zero.
func (p *parser) parseValue() (int, error) {
	start := p.current().Pos
	v, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	if math.Abs(v) >= 1<<53 {
		return 0, fmt.Errorf("value %g at position %d is out of range", v, start)
	}
	return int(v), nil
}

func (p *parser) parseSum() (float64, error) {
	acc, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.current()
		if tok.Type != tokPlus && tok.Type != tokMinus {
			return acc, nil
		}
		p.advance()
		rhs, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if tok.Type == tokPlus {
			acc += rhs
		} else {
			acc -= rhs
		}
		if err := checkFinite(acc, tok); err != nil {
			return 0, err
		}
	}
}

func (p *parser) parseProduct() (float64, error) {
	acc, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.current()
		switch tok.Type {
		case tokStar, tokSlash, tokDoubleSlash, tokPercent, tokPower:
		default:
			return acc, nil
		}
		p.advance()
		rhs, err := p.parseAtom()
		if err != nil {
			return 0, err
		}
		if acc, err = apply(tok, acc, rhs); err != nil {
			return 0, err
		}
	}
}

func apply(op token, a, b float64) (float64, error) {
	var res float64
	switch op.Type {
	case tokStar:
		res = a * b
	case tokPower:
		res = math.Pow(a, b)
	default:
		if b == 0 {
			return 0, fmt.Errorf("division by zero at position %d", op.Pos)
		}
		switch op.Type {
		case tokSlash:
			res = a / b
		case tokDoubleSlash:
			res = math.Floor(a / b)
		default:
			// sign follows the divisor
			res = math.Mod(a, b)
			if res != 0 && (res < 0) != (b < 0) {
				res += b
			}
		}
	}
	return res, checkFinite(res, op)
}

func checkFinite(v float64, at token) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite result at position %d", at.Pos)
	}
	return nil
}

func (p *parser) parseAtom() (float64, error) {
	tok := p.current()
	switch tok.Type {
	case tokNumber:
		p.advance()
		return tok.Num, nil
	case tokMinus:
		p.advance()
		v, err := p.parseAtom()
		return -v, err
	case tokLParen:
		p.advance()
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		return v, nil
	case tokPipe:
		p.advance()
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(tokPipe); err != nil {
			return 0, err
		}
		return math.Abs(v), nil
	default:
		return 0, fmt.Errorf("unexpected %s at position %d", tok.Type, tok.Pos)
	}
}
