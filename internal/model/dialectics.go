package model

import "fmt"

// Dialectics helpers: structural reasoning about identity, contradiction
// and indirect relations between graph nodes. None of this involves the
// logic subsystem; it operates on labels, texts and declared relations only.

// negationSchemes are the surface forms under which one statement counts
// as the verbatim negation of another.
var negationSchemes = []string{
	"NOT: %s",
	"Not: %s",
	"NOT %s",
	"Not %s",
}

// AreIdentical reports whether two propositions count as the same
// statement: same label, or a shared (canonicalized) text.
func AreIdentical(p1, p2 *Proposition) bool {
	if p1 == nil || p2 == nil {
		return false
	}
	if p1.Label == p2.Label {
		return true
	}
	texts2 := canonicalEach(p2.Texts)
	for _, t := range canonicalEach(p1.Texts) {
		for _, u := range texts2 {
			if t != "" && t == u {
				return true
			}
		}
	}
	return false
}

// AreContradictory reports whether two distinct propositions contradict
// each other: either a declared attack/contradict relation connects them
// (in either direction), or one's text is a "NOT:"-schemed negation of the
// other's.
func AreContradictory(p1, p2 *Proposition, g *ArgumentGraph) bool {
	if p1 == nil || p2 == nil || p1.Label == p2.Label {
		return false
	}
	if g != nil {
		for _, rel := range g.Relations {
			if rel.Valence != Attack && rel.Valence != Contradict {
				continue
			}
			if rel.Source == rel.Target {
				continue
			}
			srcHit := rel.Source == p1.Label || rel.Source == p2.Label
			tgtHit := rel.Target == p1.Label || rel.Target == p2.Label
			if srcHit && tgtHit {
				return true
			}
		}
	}
	return negates(p1, p2) || negates(p2, p1)
}

// negates reports whether some text of p1 is a schemed negation of some
// text of p2.
func negates(p1, p2 *Proposition) bool {
	for _, t1 := range canonicalEach(p1.Texts) {
		for _, t2 := range canonicalEach(p2.Texts) {
			for _, scheme := range negationSchemes {
				if t1 == CanonicalText(fmt.Sprintf(scheme, t2)) {
					return true
				}
			}
		}
	}
	return false
}

// IndirectlySupports reports whether from supports to in the map, directly
// or through one intermediate proposition (support-of-support, or
// attack-of-attack). A node trivially supports itself.
func IndirectlySupports(from, to string, g *ArgumentGraph) bool {
	if from == to {
		return true
	}
	for _, rel := range g.RelationsBetween(from, to) {
		if rel.Valence == Support {
			return true
		}
	}
	for _, prop := range g.Propositions {
		if prop.Label == "" || prop.Label == from || prop.Label == to {
			continue
		}
		for _, r1 := range g.RelationsBetween(from, prop.Label) {
			for _, r2 := range g.RelationsBetween(prop.Label, to) {
				sameSign := (r1.Valence == Support && r2.Valence == Support) ||
					(r1.Valence != Support && r2.Valence != Support)
				if sameSign {
					return true
				}
			}
		}
	}
	return false
}

// IndirectlyAttacks reports whether from attacks to in the map, directly or
// through one intermediate proposition (support-of-attack or
// attack-of-support).
func IndirectlyAttacks(from, to string, g *ArgumentGraph) bool {
	if from == to {
		return false
	}
	for _, rel := range g.RelationsBetween(from, to) {
		if rel.Valence == Attack {
			return true
		}
	}
	for _, prop := range g.Propositions {
		if prop.Label == "" || prop.Label == from || prop.Label == to {
			continue
		}
		for _, r1 := range g.RelationsBetween(from, prop.Label) {
			for _, r2 := range g.RelationsBetween(prop.Label, to) {
				mixedSign := (r1.Valence == Support && r2.Valence != Support) ||
					(r1.Valence != Support && r2.Valence == Support)
				if mixedSign {
					return true
				}
			}
		}
	}
	return false
}

// InferenceClosure returns the labels of every item used, directly or
// through intermediate conclusions, in the inference to the item with the
// given label.
func InferenceClosure(a *Argument, label, fromKey string) map[string]bool {
	used := make(map[string]bool)
	var visit func(label string)
	visit = func(label string) {
		it, ok := a.Item(label)
		if !ok || !it.Conclusion {
			return
		}
		for _, parent := range it.From(fromKey) {
			if used[parent] {
				continue
			}
			used[parent] = true
			visit(parent)
		}
	}
	visit(label)
	return used
}
