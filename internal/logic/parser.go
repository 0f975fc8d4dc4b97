package logic

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseError reports a formula that does not conform to the grammar.
type ParseError struct {
	Formula string
	Pos     int
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid formula %q at position %d: %s", e.Formula, e.Pos, e.Reason)
}

// Parse parses a formalization string into an expression.
func Parse(formula string) (Expr, error) {
	p := &parser{input: formula}
	p.lex()
	if p.err != nil {
		return nil, p.err
	}
	expr := p.parseIff()
	if p.err != nil {
		return nil, p.err
	}
	if p.pos < len(p.tokens) {
		p.fail("unexpected trailing input %q", p.tokens[p.pos].text)
		return nil, p.err
	}
	return expr, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNot             // -
	tokAnd             // &
	tokOr              // |
	tokImp             // ->
	tokIff             // <->
	tokLParen
	tokRParen
	tokComma
	tokDot
	tokEq
)

type token struct {
	kind tokenKind
	text string
	off  int
}

type parser struct {
	input  string
	tokens []token
	pos    int
	err    error
}

func (p *parser) fail(format string, args ...any) Expr {
	if p.err == nil {
		off := len(p.input)
		if p.pos < len(p.tokens) {
			off = p.tokens[p.pos].off
		}
		p.err = &ParseError{Formula: p.input, Pos: off, Reason: fmt.Sprintf(format, args...)}
	}
	return nil
}

func (p *parser) lex() {
	i := 0
	for i < len(p.input) {
		c := rune(p.input[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			p.tokens = append(p.tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			p.tokens = append(p.tokens, token{tokRParen, ")", i})
			i++
		case c == ',':
			p.tokens = append(p.tokens, token{tokComma, ",", i})
			i++
		case c == '.':
			p.tokens = append(p.tokens, token{tokDot, ".", i})
			i++
		case c == '=':
			p.tokens = append(p.tokens, token{tokEq, "=", i})
			i++
		case c == '&':
			p.tokens = append(p.tokens, token{tokAnd, "&", i})
			i++
		case c == '|':
			p.tokens = append(p.tokens, token{tokOr, "|", i})
			i++
		case c == '~' || c == '!':
			p.tokens = append(p.tokens, token{tokNot, string(c), i})
			i++
		case c == '-':
			if strings.HasPrefix(p.input[i:], "->") {
				p.tokens = append(p.tokens, token{tokImp, "->", i})
				i += 2
			} else {
				p.tokens = append(p.tokens, token{tokNot, "-", i})
				i++
			}
		case c == '<':
			if strings.HasPrefix(p.input[i:], "<->") {
				p.tokens = append(p.tokens, token{tokIff, "<->", i})
				i += 3
			} else {
				p.err = &ParseError{Formula: p.input, Pos: i, Reason: "unexpected '<'"}
				return
			}
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(p.input) {
				r := rune(p.input[j])
				if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
					j++
					continue
				}
				break
			}
			p.tokens = append(p.tokens, token{tokIdent, p.input[i:j], i})
			i = j
		default:
			p.err = &ParseError{Formula: p.input, Pos: i, Reason: fmt.Sprintf("unexpected character %q", c)}
			return
		}
	}
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind tokenKind) (token, bool) {
	if tok, ok := p.peek(); ok && tok.kind == kind {
		p.pos++
		return tok, true
	}
	return token{}, false
}

func (p *parser) parseIff() Expr {
	left := p.parseImp()
	if p.err != nil {
		return nil
	}
	for {
		if _, ok := p.accept(tokIff); !ok {
			return left
		}
		right := p.parseImp()
		if p.err != nil {
			return nil
		}
		left = Iff{L: left, R: right}
	}
}

func (p *parser) parseImp() Expr {
	left := p.parseOr()
	if p.err != nil {
		return nil
	}
	if _, ok := p.accept(tokImp); !ok {
		return left
	}
	right := p.parseImp() // right associative
	if p.err != nil {
		return nil
	}
	return Imp{L: left, R: right}
}

func (p *parser) parseOr() Expr {
	left := p.parseAnd()
	if p.err != nil {
		return nil
	}
	for {
		if _, ok := p.accept(tokOr); !ok {
			return left
		}
		right := p.parseAnd()
		if p.err != nil {
			return nil
		}
		left = Or{L: left, R: right}
	}
}

func (p *parser) parseAnd() Expr {
	left := p.parseUnary()
	if p.err != nil {
		return nil
	}
	for {
		if _, ok := p.accept(tokAnd); !ok {
			return left
		}
		right := p.parseUnary()
		if p.err != nil {
			return nil
		}
		left = And{L: left, R: right}
	}
}

func (p *parser) parseUnary() Expr {
	if _, ok := p.accept(tokNot); ok {
		inner := p.parseUnary()
		if p.err != nil {
			return nil
		}
		return Not{X: inner}
	}
	if tok, ok := p.peek(); ok && tok.kind == tokIdent && (tok.text == "all" || tok.text == "exists") {
		p.pos++
		return p.parseQuantifier(tok.text)
	}
	return p.parseAtom()
}

// parseQuantifier handles "all x y.BODY": several variables before the dot
// desugar to nested single-variable quantifiers.
func (p *parser) parseQuantifier(kw string) Expr {
	var vars []string
	for {
		tok, ok := p.accept(tokIdent)
		if !ok {
			break
		}
		vars = append(vars, tok.text)
	}
	if len(vars) == 0 {
		return p.fail("quantifier %q without variable", kw)
	}
	if _, ok := p.accept(tokDot); !ok {
		return p.fail("expected '.' after quantified variables")
	}
	body := p.parseUnary()
	if p.err != nil {
		return nil
	}
	for i := len(vars) - 1; i >= 0; i-- {
		if kw == "all" {
			body = All{Var: vars[i], Body: body}
		} else {
			body = Exists{Var: vars[i], Body: body}
		}
	}
	return body
}

func (p *parser) parseAtom() Expr {
	if _, ok := p.accept(tokLParen); ok {
		inner := p.parseIff()
		if p.err != nil {
			return nil
		}
		if _, ok := p.accept(tokRParen); !ok {
			return p.fail("missing closing parenthesis")
		}
		return inner
	}
	name, ok := p.accept(tokIdent)
	if !ok {
		return p.fail("expected identifier")
	}
	if _, ok := p.accept(tokLParen); ok {
		var args []Term
		for {
			arg, ok := p.accept(tokIdent)
			if !ok {
				return p.fail("expected term in argument list of %q", name.text)
			}
			args = append(args, Term{Name: arg.text})
			if _, ok := p.accept(tokComma); ok {
				continue
			}
			break
		}
		if _, ok := p.accept(tokRParen); !ok {
			return p.fail("missing ')' after arguments of %q", name.text)
		}
		return Atom{Name: name.text, Args: args}
	}
	if _, ok := p.accept(tokEq); ok {
		right, ok := p.accept(tokIdent)
		if !ok {
			return p.fail("expected term after '='")
		}
		return Eq{L: Term{Name: name.text}, R: Term{Name: right.text}}
	}
	return Atom{Name: name.text}
}
