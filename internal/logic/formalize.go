package logic

import (
	"fmt"
	"sort"

	"github.com/arglint/arglint/internal/model"
)

// Keys names the statement-metadata entries the collector reads. Callers
// configure them; the defaults match common reconstruction output.
type Keys struct {
	Formalization string
	Declarations  string
	From          string
}

// DefaultKeys returns the conventional metadata key names.
func DefaultKeys() Keys {
	return Keys{Formalization: "formalization", Declarations: "declarations", From: "from"}
}

// ItemFormalization is one premise-conclusion item together with its parsed
// formula. Expr is nil when the item carried no formalization or the
// formalization failed to parse.
type ItemFormalization struct {
	Item model.PCSItem
	Raw  string
	Expr Expr
}

// ArgumentFormalization is the formal reading of one argument: per-item
// formulas, the merged symbol declarations, and every flaw found while
// collecting them. Downstream validity checks run only on flawless,
// complete collections.
type ArgumentFormalization struct {
	Argument     *model.Argument
	Items        []ItemFormalization
	Declarations []Declaration
	Flaws        []string
}

// Complete reports whether every item parsed to a formula and no flaws
// were recorded.
func (af *ArgumentFormalization) Complete() bool {
	if len(af.Flaws) > 0 {
		return false
	}
	for _, it := range af.Items {
		if it.Expr == nil {
			return false
		}
	}
	return true
}

// HasExpressions reports whether at least one item parsed to a formula.
// Checks that need formulas stand down entirely when nothing parsed.
func (af *ArgumentFormalization) HasExpressions() bool {
	for _, it := range af.Items {
		if it.Expr != nil {
			return true
		}
	}
	return false
}

// Premises returns the formulas of all non-conclusion items, labeled by
// their sequence labels, in sequence order.
func (af *ArgumentFormalization) Premises() []LabeledExpr {
	var out []LabeledExpr
	for _, it := range af.Items {
		if it.Item.Conclusion || it.Expr == nil {
			continue
		}
		out = append(out, LabeledExpr{Label: it.Item.Label, Expr: it.Expr})
	}
	return out
}

// FinalConclusion returns the formula of the last item, which by
// convention is the argument's conclusion.
func (af *ArgumentFormalization) FinalConclusion() (LabeledExpr, bool) {
	if len(af.Items) == 0 {
		return LabeledExpr{}, false
	}
	last := af.Items[len(af.Items)-1]
	if !last.Item.Conclusion || last.Expr == nil {
		return LabeledExpr{}, false
	}
	return LabeledExpr{Label: last.Item.Label, Expr: last.Expr}, true
}

// ItemExpr returns the formula of the item with the given label.
func (af *ArgumentFormalization) ItemExpr(label string) (Expr, bool) {
	for _, it := range af.Items {
		if it.Item.Label == label {
			return it.Expr, it.Expr != nil
		}
	}
	return nil, false
}

// Collect gathers and parses the formalizations of every item in the
// argument's premise-conclusion sequence, merges the per-statement symbol
// declarations, and cross-checks declared against used symbols. All
// problems are recorded as flaws rather than errors: a flawed collection
// is a verification finding, not a failure of the collector.
func Collect(graph *model.ArgumentGraph, arg *model.Argument, keys Keys) *ArgumentFormalization {
	af := &ArgumentFormalization{Argument: arg}
	meanings := make(map[string]string)
	var order []string

	for _, item := range arg.PCS {
		itf := ItemFormalization{Item: item}
		prop := graph.ItemProposition(item)
		if prop == nil || prop.Data == nil {
			af.Flaws = append(af.Flaws, fmt.Sprintf("no formalization provided for (%s)", item.Label))
			af.Items = append(af.Items, itf)
			continue
		}
		raw, ok := prop.Data[keys.Formalization].(string)
		if !ok || raw == "" {
			af.Flaws = append(af.Flaws, fmt.Sprintf("no formalization provided for (%s)", item.Label))
			af.Items = append(af.Items, itf)
			continue
		}
		itf.Raw = raw
		expr, err := Parse(raw)
		if err != nil {
			af.Flaws = append(af.Flaws, fmt.Sprintf("formalization of (%s) does not parse: %v", item.Label, err))
			af.Items = append(af.Items, itf)
			continue
		}
		itf.Expr = expr
		af.Items = append(af.Items, itf)

		if rawDecls, ok := prop.Data[keys.Declarations]; ok {
			for _, symbol := range sortedDeclKeys(rawDecls) {
				meaning := declMeaning(rawDecls, symbol)
				prev, seen := meanings[symbol]
				switch {
				case !seen:
					meanings[symbol] = meaning
					order = append(order, symbol)
				case prev != meaning:
					af.Flaws = append(af.Flaws, fmt.Sprintf(
						"symbol '%s' declared as %q at (%s) conflicts with earlier declaration %q",
						symbol, meaning, item.Label, prev))
				}
			}
		}
	}

	for _, symbol := range order {
		af.Declarations = append(af.Declarations, Declaration{Symbol: symbol, Meaning: meanings[symbol]})
	}

	// Cross-check the declared symbols against the ones the formulas use.
	inv := NewInventory()
	for _, it := range af.Items {
		if it.Expr != nil {
			inv.Add(it.Expr)
		}
	}
	for _, d := range af.Declarations {
		if !inv.Uses(d.Symbol) {
			af.Flaws = append(af.Flaws, fmt.Sprintf("declared symbol '%s' is not used in any formalization", d.Symbol))
		}
	}
	for _, name := range inv.Names() {
		if _, ok := meanings[name]; !ok {
			af.Flaws = append(af.Flaws, fmt.Sprintf("symbol '%s' is used but never declared", name))
		}
	}
	return af
}

// CollectAll collects formalizations for every argument in the graph that
// carries a premise-conclusion sequence.
func CollectAll(graph *model.ArgumentGraph, keys Keys) []*ArgumentFormalization {
	var out []*ArgumentFormalization
	for _, arg := range graph.Arguments {
		if len(arg.PCS) == 0 {
			continue
		}
		out = append(out, Collect(graph, arg, keys))
	}
	return out
}

func sortedDeclKeys(raw any) []string {
	var keys []string
	switch m := raw.(type) {
	case map[string]any:
		for k := range m {
			keys = append(keys, k)
		}
	case map[string]string:
		for k := range m {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func declMeaning(raw any, symbol string) string {
	switch m := raw.(type) {
	case map[string]any:
		if s, ok := m[symbol].(string); ok {
			return s
		}
	case map[string]string:
		return m[symbol]
	}
	return ""
}
