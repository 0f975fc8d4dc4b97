package logic

import (
	"fmt"
	"strings"
	"unicode"
)

// UniversalSort is the single SMT sort all individual terms live in.
const UniversalSort = "Universal"

// LabeledExpr pairs a formula with the premise/conclusion label it
// formalizes. Order matters: rendered programs list premises in the order
// given here, which keeps program text deterministic for diagnostics and
// golden tests.
type LabeledExpr struct {
	Label string
	Expr  Expr
}

// Declaration maps a formal symbol to its intended natural-language
// meaning. Meanings are carried into the program as comments.
type Declaration struct {
	Symbol  string
	Meaning string
}

// Program renders a complete SMT-LIB 2 validity check: declarations
// preamble, one define-fun per premise and conclusion, and a refutation
// query equivalent to "premises ∧ ¬conclusion is unsatisfiable".
func Program(premises []LabeledExpr, conclusion LabeledExpr, decls []Declaration) string {
	inv := NewInventory()
	for _, p := range premises {
		inv.Add(p.Expr)
	}
	inv.Add(conclusion.Expr)

	var b strings.Builder
	writePreamble(&b, inv, decls)

	names := make([]string, 0, len(premises))
	for _, p := range premises {
		name := "premise" + smtSymbol(p.Label)
		names = append(names, name)
		fmt.Fprintf(&b, "(define-fun %s () Bool %s)\n", name, renderSMT(p.Expr))
	}
	conclName := "conclusion" + smtSymbol(conclusion.Label)
	fmt.Fprintf(&b, "(define-fun %s () Bool %s)\n", conclName, renderSMT(conclusion.Expr))
	fmt.Fprintf(&b, "(define-fun argument () Bool (=> (and %s) %s))\n",
		strings.Join(names, " "), conclName)
	b.WriteString("(assert (not argument))\n")
	b.WriteString("(check-sat)\n")
	return b.String()
}

// writePreamble declares the universal sort and every declared symbol that
// figures in the formulas, each annotated with its plain-text meaning.
func writePreamble(b *strings.Builder, inv *Inventory, decls []Declaration) {
	fmt.Fprintf(b, "(declare-sort %s)\n", UniversalSort)
	for _, d := range decls {
		switch {
		case inv.Propositional[d.Symbol]:
			fmt.Fprintf(b, "(declare-fun %s () Bool) ;; %s\n", d.Symbol, d.Meaning)
		case inv.Predicates[d.Symbol] > 0:
			arity := inv.Predicates[d.Symbol]
			sorts := strings.TrimSpace(strings.Repeat(UniversalSort+" ", arity))
			fmt.Fprintf(b, "(declare-fun %s (%s) Bool) ;; %s\n", d.Symbol, sorts, d.Meaning)
		case inv.Constants[d.Symbol] || startsLower(d.Symbol):
			fmt.Fprintf(b, "(declare-const %s %s) ;; %s\n", d.Symbol, UniversalSort, d.Meaning)
		}
	}
	// Symbols used but never declared still need SMT declarations so the
	// generated program is well formed; the structural rules have already
	// reported them as flaws.
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Symbol] = true
	}
	for _, name := range inv.Names() {
		if declared[name] {
			continue
		}
		switch {
		case inv.Propositional[name]:
			fmt.Fprintf(b, "(declare-fun %s () Bool)\n", name)
		case inv.Predicates[name] > 0:
			arity := inv.Predicates[name]
			sorts := strings.TrimSpace(strings.Repeat(UniversalSort+" ", arity))
			fmt.Fprintf(b, "(declare-fun %s (%s) Bool)\n", name, sorts)
		default:
			fmt.Fprintf(b, "(declare-const %s %s)\n", name, UniversalSort)
		}
	}
}

// renderSMT renders an expression as an SMT-LIB s-expression.
func renderSMT(e Expr) string {
	switch n := e.(type) {
	case Atom:
		if len(n.Args) == 0 {
			return n.Name
		}
		parts := make([]string, len(n.Args))
		for i, t := range n.Args {
			parts[i] = t.Name
		}
		return fmt.Sprintf("(%s %s)", n.Name, strings.Join(parts, " "))
	case Eq:
		return fmt.Sprintf("(= %s %s)", n.L.Name, n.R.Name)
	case Not:
		return fmt.Sprintf("(not %s)", renderSMT(n.X))
	case And:
		return fmt.Sprintf("(and %s %s)", renderSMT(n.L), renderSMT(n.R))
	case Or:
		return fmt.Sprintf("(or %s %s)", renderSMT(n.L), renderSMT(n.R))
	case Imp:
		return fmt.Sprintf("(=> %s %s)", renderSMT(n.L), renderSMT(n.R))
	case Iff:
		return fmt.Sprintf("(= %s %s)", renderSMT(n.L), renderSMT(n.R))
	case All:
		return fmt.Sprintf("(forall ((%s %s)) %s)", n.Var, UniversalSort, renderSMT(n.Body))
	case Exists:
		return fmt.Sprintf("(exists ((%s %s)) %s)", n.Var, UniversalSort, renderSMT(n.Body))
	default:
		panic(fmt.Sprintf("unhandled expression type %T", e))
	}
}

// smtSymbol folds a PCS label into a fragment legal inside an SMT symbol.
func smtSymbol(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
