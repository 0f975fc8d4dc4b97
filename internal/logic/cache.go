package logic

import (
	"sort"

	"github.com/arglint/arglint/internal/model"
)

// Cache memoizes Collect per argument so one verification pass parses
// every formalization once: the flawless-formalizations check fills it,
// the prover-backed checks read from it.
type Cache struct {
	keys  Keys
	byArg map[*model.Argument]*ArgumentFormalization
}

// NewCache returns an empty cache collecting with the given keys.
func NewCache(keys Keys) *Cache {
	return &Cache{keys: keys, byArg: make(map[*model.Argument]*ArgumentFormalization)}
}

// Collect returns the argument's formalization, collecting it on first
// use.
func (c *Cache) Collect(g *model.ArgumentGraph, arg *model.Argument) *ArgumentFormalization {
	if af, ok := c.byArg[arg]; ok {
		return af
	}
	af := Collect(g, arg, c.keys)
	c.byArg[arg] = af
	return af
}

// Details returns the cached parse results in a form a finding can
// carry: the parsed expressions keyed by proposition label, plus the
// merged symbol declarations under "declarations".
func (c *Cache) Details() map[string]any {
	details := make(map[string]any)
	seen := make(map[string]bool)
	var decls []Declaration
	for _, af := range c.byArg {
		for _, it := range af.Items {
			if it.Expr == nil {
				continue
			}
			if _, ok := details[it.Item.PropLabel]; !ok {
				details[it.Item.PropLabel] = it.Expr
			}
		}
		for _, d := range af.Declarations {
			if !seen[d.Symbol] {
				seen[d.Symbol] = true
				decls = append(decls, d)
			}
		}
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Symbol < decls[j].Symbol })
	details["declarations"] = decls
	return details
}
