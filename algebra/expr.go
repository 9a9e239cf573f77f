package algebra

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tailored-agentic-units/interpreter/numeric"
)

// Sentinel errors for expression evaluation.
var (
	ErrSyntax         = errors.New("syntax error")
	ErrDivisionByZero = errors.New("division by zero")
)

// Value is an evaluated number. Integer tracks whether the value is still an
// exact integer: literals without a fractional part or exponent start out as
// integers and stay that way through +, -, * and non-negative integer powers.
// Division always produces a non-integer value.
type Value struct {
	Float   float64
	Integer bool
}

// String renders integers without a fractional part and everything else in
// numeric.Format form.
func (v Value) String() string {
	if v.Integer {
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	}
	return numeric.Format(v.Float)
}

// Evaluate computes an arithmetic expression built from numeric literals,
// parentheses, unary signs and the operators + - * / **. Identifiers, floor
// division and every other operator are rejected with ErrSyntax.
func Evaluate(expr string) (Value, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return Value{}, err
	}

	p := &parser{toks: toks}
	v, err := p.parseSum()
	if err != nil {
		return Value{}, err
	}
	if p.pos != len(p.toks) {
		return Value{}, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.toks[p.pos].text)
	}
	return v, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(expr string) ([]token, error) {
	var toks []token

	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '*':
			if i+1 < len(expr) && expr[i+1] == '*' {
				toks = append(toks, token{tokOp, "**"})
				i += 2
				continue
			}
			toks = append(toks, token{tokOp, "*"})
			i++
		case c == '/':
			if i+1 < len(expr) && expr[i+1] == '/' {
				return nil, fmt.Errorf("%w: floor division is not supported", ErrSyntax)
			}
			toks = append(toks, token{tokOp, "/"})
			i++
		case c == '+' || c == '-':
			toks = append(toks, token{tokOp, string(c)})
			i++
		case isDigit(c) || c == '.':
			j := scanNumber(expr, i)
			if j == i {
				return nil, fmt.Errorf("%w: malformed number at %d", ErrSyntax, i)
			}
			toks = append(toks, token{tokNumber, expr[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrSyntax, c)
		}
	}

	return toks, nil
}

// scanNumber returns the end offset of the numeric literal starting at i, or
// i when no digits are present.
func scanNumber(s string, i int) int {
	j := i
	digits := 0
	for j < len(s) && isDigit(s[j]) {
		j++
		digits++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		start := k
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > start {
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseSum() (Value, error) {
	left, err := p.parseProduct()
	if err != nil {
		return Value{}, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.pos++

		right, err := p.parseProduct()
		if err != nil {
			return Value{}, err
		}

		if tok.text == "+" {
			left = Value{Float: left.Float + right.Float, Integer: left.Integer && right.Integer}
		} else {
			left = Value{Float: left.Float - right.Float, Integer: left.Integer && right.Integer}
		}
	}
}

func (p *parser) parseProduct() (Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Value{}, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		p.pos++

		right, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}

		if tok.text == "*" {
			left = Value{Float: left.Float * right.Float, Integer: left.Integer && right.Integer}
			continue
		}
		if right.Float == 0 {
			return Value{}, ErrDivisionByZero
		}
		left = Value{Float: left.Float / right.Float}
	}
}

// parseUnary binds looser than ** so that -2**2 is -(2**2).
func (p *parser) parseUnary() (Value, error) {
	tok, ok := p.peek()
	if ok && tok.kind == tokOp && (tok.text == "+" || tok.text == "-") {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		if tok.text == "-" {
			v.Float = -v.Float
			if v.Integer && v.Float == 0 {
				v.Float = 0
			}
		}
		return v, nil
	}
	return p.parsePower()
}

// parsePower is right-associative: 2**3**2 is 2**(3**2).
func (p *parser) parsePower() (Value, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return Value{}, err
	}

	tok, ok := p.peek()
	if !ok || tok.kind != tokOp || tok.text != "**" {
		return base, nil
	}
	p.pos++

	exp, err := p.parseUnary()
	if err != nil {
		return Value{}, err
	}

	if base.Float == 0 && exp.Float < 0 {
		return Value{}, ErrDivisionByZero
	}
	result := math.Pow(base.Float, exp.Float)
	if math.IsNaN(result) {
		return Value{}, fmt.Errorf("%w: complex result", ErrSyntax)
	}
	return Value{Float: result, Integer: base.Integer && exp.Integer && exp.Float >= 0}, nil
}

func (p *parser) parsePrimary() (Value, error) {
	tok, ok := p.peek()
	if !ok {
		return Value{}, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}

	switch tok.kind {
	case tokNumber:
		p.pos++
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		integer := true
		for i := 0; i < len(tok.text); i++ {
			if c := tok.text[i]; c == '.' || c == 'e' || c == 'E' {
				integer = false
				break
			}
		}
		return Value{Float: f, Integer: integer}, nil

	case tokLParen:
		p.pos++
		v, err := p.parseSum()
		if err != nil {
			return Value{}, err
		}
		if next, ok := p.peek(); !ok || next.kind != tokRParen {
			return Value{}, fmt.Errorf("%w: missing closing parenthesis", ErrSyntax)
		}
		p.pos++
		return v, nil
	}

	return Value{}, fmt.Errorf("%w: unexpected %q", ErrSyntax, tok.text)
}
