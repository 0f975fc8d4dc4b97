package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/arglint/arglint/internal/solver"
)

// TruthTableProver decides propositional SMT-LIB programs by enumerating
// assignments, so tests exercise the full render-query-verdict path
// without an external solver binary. Programs that declare constants or
// quantified predicates are answered with Unknown.
type TruthTableProver struct{}

func (TruthTableProver) Prove(_ context.Context, program string) (solver.Result, error) {
	sexprs, err := parseSExprs(program)
	if err != nil {
		return solver.Result{}, &solver.SolverError{
			Code:    solver.ErrCodeBadOutput,
			Message: "unparseable program",
			Err:     err,
		}
	}

	vars := []string{}
	defs := map[string]any{}
	var assertion any
	propositional := true

	for _, sx := range sexprs {
		form, ok := sx.([]any)
		if !ok || len(form) == 0 {
			continue
		}
		head, _ := form[0].(string)
		switch head {
		case "declare-sort", "check-sat":
		case "declare-const":
			propositional = false
		case "declare-fun":
			// (declare-fun name (args...) Bool)
			if len(form) >= 3 {
				if args, ok := form[2].([]any); ok && len(args) == 0 {
					vars = append(vars, form[1].(string))
				} else {
					propositional = false
				}
			}
		case "define-fun":
			// (define-fun name () Bool body)
			if len(form) == 5 {
				defs[form[1].(string)] = form[4]
			}
		case "assert":
			if len(form) == 2 {
				assertion = form[1]
			}
		}
	}
	if !propositional {
		return solver.Result{Outcome: solver.Unknown, Raw: "unknown"}, nil
	}
	if assertion == nil {
		return solver.Result{}, &solver.SolverError{
			Code:    solver.ErrCodeBadOutput,
			Message: "program asserts nothing",
		}
	}

	assignment := map[string]bool{}
	for i := 0; i < 1<<uint(len(vars)); i++ {
		for bit, v := range vars {
			assignment[v] = i&(1<<uint(bit)) != 0
		}
		sat, err := evalProp(assertion, assignment, defs)
		if err != nil {
			return solver.Result{}, &solver.SolverError{
				Code:    solver.ErrCodeBadOutput,
				Message: "unevaluable program",
				Err:     err,
			}
		}
		if sat {
			return solver.Result{Outcome: solver.Sat, Raw: "sat"}, nil
		}
	}
	return solver.Result{Outcome: solver.Unsat, Raw: "unsat"}, nil
}

func evalProp(sx any, assignment map[string]bool, defs map[string]any) (bool, error) {
	switch n := sx.(type) {
	case string:
		if v, ok := assignment[n]; ok {
			return v, nil
		}
		if body, ok := defs[n]; ok {
			return evalProp(body, assignment, defs)
		}
		return false, fmt.Errorf("unbound symbol %q", n)
	case []any:
		if len(n) == 0 {
			return false, fmt.Errorf("empty form")
		}
		head, _ := n[0].(string)
		switch head {
		case "not":
			v, err := evalProp(n[1], assignment, defs)
			return !v, err
		case "and":
			for _, arg := range n[1:] {
				v, err := evalProp(arg, assignment, defs)
				if err != nil || !v {
					return false, err
				}
			}
			return true, nil
		case "or":
			for _, arg := range n[1:] {
				v, err := evalProp(arg, assignment, defs)
				if err != nil || v {
					return v, err
				}
			}
			return false, nil
		case "=>":
			l, err := evalProp(n[1], assignment, defs)
			if err != nil {
				return false, err
			}
			r, err := evalProp(n[2], assignment, defs)
			return !l || r, err
		case "=":
			l, err := evalProp(n[1], assignment, defs)
			if err != nil {
				return false, err
			}
			r, err := evalProp(n[2], assignment, defs)
			return l == r, err
		default:
			return false, fmt.Errorf("unknown form %q", head)
		}
	default:
		return false, fmt.Errorf("unexpected node %T", sx)
	}
}

// parseSExprs reads a sequence of s-expressions, dropping ;; comments.
// Atoms are strings, forms are []any.
func parseSExprs(src string) ([]any, error) {
	var tokens []string
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		line = strings.ReplaceAll(line, "(", " ( ")
		line = strings.ReplaceAll(line, ")", " ) ")
		tokens = append(tokens, strings.Fields(line)...)
	}

	var out []any
	pos := 0
	var read func() (any, error)
	read = func() (any, error) {
		if pos >= len(tokens) {
			return nil, fmt.Errorf("unexpected end of input")
		}
		tok := tokens[pos]
		pos++
		if tok == "(" {
			form := []any{}
			for {
				if pos >= len(tokens) {
					return nil, fmt.Errorf("unclosed form")
				}
				if tokens[pos] == ")" {
					pos++
					return form, nil
				}
				sub, err := read()
				if err != nil {
					return nil, err
				}
				form = append(form, sub)
			}
		}
		if tok == ")" {
			return nil, fmt.Errorf("unbalanced close paren")
		}
		return tok, nil
	}
	for pos < len(tokens) {
		sx, err := read()
		if err != nil {
			return nil, err
		}
		out = append(out, sx)
	}
	return out, nil
}
