package logic

import "sort"

// Inventory is the symbol census of one or more formulas: which names are
// propositional variables, which are predicates (with arity), which are
// individual constants, and which only ever occur bound.
type Inventory struct {
	Propositional map[string]bool
	Predicates    map[string]int // name -> arity
	Constants     map[string]bool
	Bound         map[string]bool
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Propositional: make(map[string]bool),
		Predicates:    make(map[string]int),
		Constants:     make(map[string]bool),
		Bound:         make(map[string]bool),
	}
}

// Add walks the expression and records every symbol occurrence.
func (inv *Inventory) Add(e Expr) {
	inv.walk(e, make(map[string]bool))
}

func (inv *Inventory) walk(e Expr, bound map[string]bool) {
	switch n := e.(type) {
	case Atom:
		if len(n.Args) == 0 {
			inv.Propositional[n.Name] = true
			return
		}
		if arity, ok := inv.Predicates[n.Name]; !ok || arity < len(n.Args) {
			inv.Predicates[n.Name] = len(n.Args)
		}
		for _, t := range n.Args {
			inv.addTerm(t, bound)
		}
	case Eq:
		inv.addTerm(n.L, bound)
		inv.addTerm(n.R, bound)
	case Not:
		inv.walk(n.X, bound)
	case And:
		inv.walk(n.L, bound)
		inv.walk(n.R, bound)
	case Or:
		inv.walk(n.L, bound)
		inv.walk(n.R, bound)
	case Imp:
		inv.walk(n.L, bound)
		inv.walk(n.R, bound)
	case Iff:
		inv.walk(n.L, bound)
		inv.walk(n.R, bound)
	case All:
		inv.Bound[n.Var] = true
		inner := withBound(bound, n.Var)
		inv.walk(n.Body, inner)
	case Exists:
		inv.Bound[n.Var] = true
		inner := withBound(bound, n.Var)
		inv.walk(n.Body, inner)
	}
}

func (inv *Inventory) addTerm(t Term, bound map[string]bool) {
	if bound[t.Name] {
		return
	}
	inv.Constants[t.Name] = true
}

func withBound(bound map[string]bool, v string) map[string]bool {
	inner := make(map[string]bool, len(bound)+1)
	for k := range bound {
		inner[k] = true
	}
	inner[v] = true
	return inner
}

// Names returns every declarable symbol (propositional variables,
// predicates, constants), sorted. Bound variables are not declarable.
func (inv *Inventory) Names() []string {
	seen := make(map[string]bool)
	for n := range inv.Propositional {
		seen[n] = true
	}
	for n := range inv.Predicates {
		seen[n] = true
	}
	for n := range inv.Constants {
		seen[n] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Uses reports whether the inventory contains the symbol under any role,
// including as a bound variable.
func (inv *Inventory) Uses(name string) bool {
	if inv.Propositional[name] || inv.Constants[name] || inv.Bound[name] {
		return true
	}
	_, ok := inv.Predicates[name]
	return ok
}
