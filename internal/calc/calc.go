// Package calc evaluates plain arithmetic expressions. It is a deliberately
// restricted recursive-descent parser: decimal literals, + - * /, unary sign,
// and parentheses. Nothing else is ever executed.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidExpression is returned for any input the grammar cannot consume.
var ErrInvalidExpression = errors.New("invalid arithmetic expression")

// Eval parses and evaluates one expression.
func Eval(expr string) (float64, error) {
	p := &parser{input: strings.TrimSpace(expr)}
	if p.input == "" {
		return 0, ErrInvalidExpression
	}

	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, p.input[p.pos:])
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrInvalidExpression
	}
	return value, nil
}

// Format renders a result the way a person would say it: integers without a
// decimal point, everything else with minimal digits.
func Format(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

type parser struct {
	input string
	pos   int
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.consume('+'):
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value += rhs
		case p.consume('-'):
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value -= rhs
		default:
			return value, nil
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) parseTerm() (float64, error) {
	value, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.consume('*'):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			value *= rhs
		case p.consume('/'):
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("%w: division by zero", ErrInvalidExpression)
			}
			value /= rhs
		default:
			return value, nil
		}
	}
}

// unary := ('+' | '-')* primary
func (p *parser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.consume('-') {
		value, err := p.parseUnary()
		return -value, err
	}
	if p.consume('+') {
		return p.parseUnary()
	}
	return p.parsePrimary()
}

// primary := number | '(' expr ')'
func (p *parser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.consume('(') {
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if !p.consume(')') {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidExpression)
		}
		return value, nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	seenDigit := false
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			seenDigit = true
			p.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		break
	}
	if !seenDigit {
		return 0, fmt.Errorf("%w: expected a number at position %d", ErrInvalidExpression, start)
	}

	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExpression, p.input[start:p.pos])
	}
	return value, nil
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}
