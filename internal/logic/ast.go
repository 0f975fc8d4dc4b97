package logic

import (
	"fmt"
	"strings"
)

// Expr is a parsed logic formula. Implementations are immutable; Negated
// and friends build new nodes.
type Expr interface {
	// String renders the formula in the input syntax.
	String() string
	isExpr()
}

// Term is an individual term inside an atom: a variable or a constant.
type Term struct {
	Name string
}

func (t Term) String() string { return t.Name }

// Atom is a predicate application, or a propositional variable when Args
// is empty.
type Atom struct {
	Name string
	Args []Term
}

// Not is classical negation.
type Not struct{ X Expr }

// And, Or, Imp, Iff are the binary connectives.
type And struct{ L, R Expr }
type Or struct{ L, R Expr }
type Imp struct{ L, R Expr }
type Iff struct{ L, R Expr }

// All and Exists bind one variable each; nested quantifiers bind several.
type All struct {
	Var  string
	Body Expr
}
type Exists struct {
	Var  string
	Body Expr
}

// Eq is equality between individual terms.
type Eq struct{ L, R Term }

func (Atom) isExpr()   {}
func (Not) isExpr()    {}
func (And) isExpr()    {}
func (Or) isExpr()     {}
func (Imp) isExpr()    {}
func (Iff) isExpr()    {}
func (All) isExpr()    {}
func (Exists) isExpr() {}
func (Eq) isExpr()     {}

func (a Atom) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	parts := make([]string, len(a.Args))
	for i, t := range a.Args {
		parts[i] = t.Name
	}
	return fmt.Sprintf("%s(%s)", a.Name, strings.Join(parts, ","))
}

func (n Not) String() string    { return "-" + parenthesize(n.X) }
func (e And) String() string    { return fmt.Sprintf("(%s & %s)", e.L, e.R) }
func (e Or) String() string     { return fmt.Sprintf("(%s | %s)", e.L, e.R) }
func (e Imp) String() string    { return fmt.Sprintf("(%s -> %s)", e.L, e.R) }
func (e Iff) String() string    { return fmt.Sprintf("(%s <-> %s)", e.L, e.R) }
func (q All) String() string    { return fmt.Sprintf("all %s.%s", q.Var, parenthesize(q.Body)) }
func (q Exists) String() string { return fmt.Sprintf("exists %s.%s", q.Var, parenthesize(q.Body)) }
func (e Eq) String() string     { return fmt.Sprintf("(%s = %s)", e.L, e.R) }

// parenthesize wraps non-atomic subformulas whose String form is not
// already parenthesized.
func parenthesize(e Expr) string {
	switch e.(type) {
	case Atom, Not:
		return e.String()
	case And, Or, Imp, Iff, Eq:
		return e.String() // binary String forms are parenthesized
	default:
		return "(" + e.String() + ")"
	}
}

// Negated returns the classical negation of e.
func Negated(e Expr) Expr { return Not{X: e} }
