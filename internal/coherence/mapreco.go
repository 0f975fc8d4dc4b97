package coherence

import (
	"fmt"

	"github.com/arglint/arglint/internal/argdown"
	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/verify"
)

// MapRecoElems checks that the argument map and the reconstructions name
// the same arguments and claims.
func MapRecoElems(mapFilter, recoFilter verify.ArtifactFilter) *PairHandler {
	return &PairHandler{
		id:        "map_reco_elem_coherence",
		first:     mapFilter,
		second:    recoFilter,
		separator: " - ",
		check: func(first, second *verify.Artifact) []string {
			return mapRecoElems(argdown.Graph(first), argdown.Graph(second))
		},
	}
}

func mapRecoElems(mapG, recoG *model.ArgumentGraph) []string {
	if mapG == nil || recoG == nil {
		return nil
	}
	var msgs []string
	for _, a := range mapG.Arguments {
		if recoG.Argument(a.Label) == nil {
			msgs = append(msgs, fmt.Sprintf(
				"Argument <%s> in map is not reconstructed (argument label mismatch).", a.Label))
		}
	}
	for _, a := range recoG.Arguments {
		if mapG.Argument(a.Label) == nil {
			msgs = append(msgs, fmt.Sprintf(
				"Reconstructed argument <%s> is not in the map (argument label mismatch).", a.Label))
		}
	}
	for _, p := range mapG.Propositions {
		if recoG.Proposition(p.Label) == nil {
			msgs = append(msgs, fmt.Sprintf(
				"Claim [%s] in argument map has no corresponding proposition in reconstructions (proposition label mismatch).", p.Label))
		}
	}
	return msgs
}

// MapRecoRelations checks both directions of relation coherence: every
// sketched edge of the map must be grounded in the reconstructions'
// premise-conclusion structure, and every declared relation of the
// reconstructions whose endpoints figure in the map must be captured
// there, directly or through one intermediate node.
func MapRecoRelations(mapFilter, recoFilter verify.ArtifactFilter, fromKey string) *PairHandler {
	return &PairHandler{
		id:        "map_reco_relation_coherence",
		first:     mapFilter,
		second:    recoFilter,
		separator: " - ",
		check: func(first, second *verify.Artifact) []string {
			mapG, recoG := argdown.Graph(first), argdown.Graph(second)
			if mapG == nil || recoG == nil {
				return nil
			}
			msgs := sketchedRelationsGrounded(mapG, recoG)
			msgs = append(msgs, recoRelationsInMap(mapG, recoG)...)
			return msgs
		},
	}
}

// sketchedRelationsGrounded verifies each sketched map edge against the
// reconstruction: a support edge holds when the source's conclusion
// figures among the target's premises, an attack edge when it
// contradicts one of them. Edges whose endpoints are not reconstructed
// at all are left to the element check.
func sketchedRelationsGrounded(mapG, recoG *model.ArgumentGraph) []string {
	var msgs []string
	for _, rel := range mapG.Relations {
		if rel.Grounding != model.Sketched {
			continue
		}
		srcArg, srcProp := resolveInReco(mapG, recoG, rel.Source)
		tgtArg, tgtProp := resolveInReco(mapG, recoG, rel.Target)
		if srcArg == nil && srcProp == nil {
			continue
		}
		if tgtArg == nil && tgtProp == nil {
			continue
		}

		// The source contributes a statement: its final conclusion if it is
		// an argument, or the proposition itself.
		var srcStatement *model.Proposition
		if srcArg != nil {
			if len(srcArg.PCS) == 0 {
				continue
			}
			srcStatement = recoG.ItemProposition(srcArg.PCS[len(srcArg.PCS)-1])
		} else {
			srcStatement = srcProp
		}

		switch {
		case tgtArg != nil:
			if len(tgtArg.PCS) == 0 {
				continue
			}
			if rel.Valence == model.Support && !figuresAsPremise(srcStatement, tgtArg, recoG, model.AreIdentical) {
				msgs = append(msgs, fmt.Sprintf(
					"Sketched support relation from %s to <%s> in argument map is not grounded in the "+
						"argument reconstruction, %s does not figure as premise in <%s>.",
					nodeRef(srcArg, rel.Source), rel.Target, statementRef(srcArg, rel.Source), rel.Target))
			}
			if rel.Valence == model.Attack && !figuresAsPremise(srcStatement, tgtArg, recoG, contradictoryIn(recoG)) {
				msgs = append(msgs, fmt.Sprintf(
					"Sketched attack relation from %s to <%s> in argument map is not grounded in the "+
						"argument reconstruction, %s does not contradict any premise in <%s>.",
					nodeRef(srcArg, rel.Source), rel.Target, statementRef(srcArg, rel.Source), rel.Target))
			}
		case srcArg != nil:
			// Argument endpoint pointing at a plain claim.
			if rel.Valence == model.Support && !model.AreIdentical(srcStatement, tgtProp) {
				msgs = append(msgs, fmt.Sprintf(
					"Sketched support relation from <%s> to [%s] in argument map is not grounded in the "+
						"argument reconstruction, proposition [%s] does not figure as conclusion in <%s>.",
					rel.Source, rel.Target, rel.Target, rel.Source))
			}
			if rel.Valence == model.Attack && !model.AreContradictory(srcStatement, tgtProp, recoG) {
				msgs = append(msgs, fmt.Sprintf(
					"Sketched attack relation from <%s> to [%s] in argument map is not grounded in the "+
						"argument reconstruction, proposition [%s] does not contradict the conclusion of <%s>.",
					rel.Source, rel.Target, rel.Target, rel.Source))
			}
		}
	}
	return msgs
}

// recoRelationsInMap verifies that relations declared in the
// reconstructions are captured by the map, allowing one intermediate
// node (support of support, attack of support, and so on).
func recoRelationsInMap(mapG, recoG *model.ArgumentGraph) []string {
	mapLabels := nodeLabels(mapG)
	var msgs []string
	for _, rel := range recoG.Relations {
		if !containsString(mapLabels, rel.Source) || !containsString(mapLabels, rel.Target) {
			continue
		}
		switch rel.Valence {
		case model.Support:
			if !model.IndirectlySupports(rel.Source, rel.Target, mapG) {
				msgs = append(msgs, fmt.Sprintf(
					"According to the argument reconstructions, item '%s' supports item '%s', "+
						"but this dialectical relation is not captured in the argument map.",
					rel.Source, rel.Target))
			}
		case model.Attack, model.Contradict:
			if !model.IndirectlyAttacks(rel.Source, rel.Target, mapG) {
				msgs = append(msgs, fmt.Sprintf(
					"According to the argument reconstructions, item '%s' attacks item '%s', "+
						"but this dialectical relation is not captured in the argument map.",
					rel.Source, rel.Target))
			}
		}
	}
	return msgs
}

// resolveInReco maps a map-node label to its reconstruction counterpart.
// A label naming an argument in the map resolves against the
// reconstruction's arguments, anything else against its propositions.
func resolveInReco(mapG, recoG *model.ArgumentGraph, label string) (*model.Argument, *model.Proposition) {
	if mapG.Argument(label) != nil {
		return recoG.Argument(label), nil
	}
	return nil, recoG.Proposition(label)
}

func figuresAsPremise(statement *model.Proposition, arg *model.Argument, g *model.ArgumentGraph, match func(a, b *model.Proposition) bool) bool {
	if statement == nil {
		return false
	}
	for _, it := range arg.PCS {
		if it.Conclusion {
			continue
		}
		if match(g.ItemProposition(it), statement) {
			return true
		}
	}
	return false
}

func contradictoryIn(g *model.ArgumentGraph) func(a, b *model.Proposition) bool {
	return func(a, b *model.Proposition) bool { return model.AreContradictory(a, b, g) }
}

func nodeRef(arg *model.Argument, label string) string {
	if arg != nil {
		return "<" + label + ">"
	}
	return "[" + label + "]"
}

func statementRef(arg *model.Argument, label string) string {
	if arg != nil {
		return fmt.Sprintf("conclusion of <%s>", label)
	}
	return fmt.Sprintf("proposition [%s]", label)
}
