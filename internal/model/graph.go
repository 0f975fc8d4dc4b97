package model

// Valence classifies the polarity of a dialectical relation.
type Valence string

const (
	Support    Valence = "support"
	Attack     Valence = "attack"
	Contradict Valence = "contradict"
)

// Grounding records on whose authority a dialectical relation holds.
//
//   - Sketched: drawn in an argument map, not yet backed by reconstructions.
//   - Grounded: derived from the inferential structure of reconstructions.
//   - Axiomatic: declared on its own authority (e.g. on a claim statement).
type Grounding string

const (
	Sketched  Grounding = "sketched"
	GroundedG Grounding = "grounded"
	Axiomatic Grounding = "axiomatic"
)

// DialecticalRelation is a directed support/attack/contradiction edge
// between two labeled nodes (arguments or propositions).
type DialecticalRelation struct {
	Source    string
	Target    string
	Valence   Valence
	Grounding Grounding
}

// Proposition is a reusable statement node. A proposition referenced from a
// premise-conclusion sequence carries the item's text; free-standing claims
// in a map are propositions too.
//
// Data holds the statement's inline metadata (formalization, declarations,
// annotation_ids, ...) exactly as parsed. Key names are configuration, not
// model concerns.
type Proposition struct {
	Label string
	Texts []string
	Data  map[string]any
}

// PCSItem is one line of an argument's premise-conclusion sequence.
// Conclusion items carry inference metadata (typically {"from": [labels]}).
type PCSItem struct {
	Label      string
	PropLabel  string
	Conclusion bool
	Inference  map[string]any
}

// From returns the labels the item's inference draws on, using the given
// metadata key. Nil if the item is not a conclusion or carries no usable
// inference data.
func (it PCSItem) From(fromKey string) []string {
	if !it.Conclusion || it.Inference == nil {
		return nil
	}
	raw, ok := it.Inference[fromKey]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		if strs, ok := raw.([]string); ok {
			return strs
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Argument is a titled node, optionally reconstructed as an ordered
// premise-conclusion sequence.
type Argument struct {
	Label string
	Gists []string
	PCS   []PCSItem
	Data  map[string]any
}

// ArgumentGraph is the parsed form of a graph-syntax snippet: the node and
// edge sets of one document.
type ArgumentGraph struct {
	Arguments    []*Argument
	Propositions []*Proposition
	Relations    []DialecticalRelation
}

// Argument returns the argument with the given label, or nil.
func (g *ArgumentGraph) Argument(label string) *Argument {
	for _, a := range g.Arguments {
		if a.Label == label {
			return a
		}
	}
	return nil
}

// Proposition returns the proposition with the given label, or nil.
func (g *ArgumentGraph) Proposition(label string) *Proposition {
	for _, p := range g.Propositions {
		if p.Label == label {
			return p
		}
	}
	return nil
}

// RelationsBetween returns every dialectical relation from source to target.
func (g *ArgumentGraph) RelationsBetween(source, target string) []DialecticalRelation {
	var rels []DialecticalRelation
	for _, r := range g.Relations {
		if r.Source == source && r.Target == target {
			rels = append(rels, r)
		}
	}
	return rels
}

// ItemProposition resolves a PCS item to its underlying proposition, or nil.
func (g *ArgumentGraph) ItemProposition(it PCSItem) *Proposition {
	return g.Proposition(it.PropLabel)
}

// FinalConclusion returns the last item of the argument's sequence and
// whether the sequence is non-empty.
func (a *Argument) FinalConclusion() (PCSItem, bool) {
	if len(a.PCS) == 0 {
		return PCSItem{}, false
	}
	return a.PCS[len(a.PCS)-1], true
}

// Item returns the PCS item with the given label and whether it exists.
func (a *Argument) Item(label string) (PCSItem, bool) {
	for _, it := range a.PCS {
		if it.Label == label {
			return it, true
		}
	}
	return PCSItem{}, false
}
