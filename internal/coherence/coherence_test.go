package coherence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/verify"
)

func artifact(id string, kind verify.ArtifactKind, filename string, parsed any) *verify.Artifact {
	return &verify.Artifact{
		ID:       id,
		Kind:     kind,
		Metadata: map[string]any{"filename": filename},
		Parsed:   parsed,
	}
}

// coherentPair builds a map and a matching reconstruction: arguments A1
// and A2, a sketched support edge A1 -> A2 in the map, grounded in the
// reconstruction by A1's conclusion reappearing as a premise of A2.
func coherentPair() (*model.ArgumentGraph, *model.ArgumentGraph) {
	mapG := &model.ArgumentGraph{
		Arguments: []*model.Argument{
			{Label: "A1", Gists: []string{"first argument"}},
			{Label: "A2", Gists: []string{"second argument"}},
		},
		Relations: []model.DialecticalRelation{
			{Source: "A1", Target: "A2", Valence: model.Support, Grounding: model.Sketched},
		},
	}
	recoG := &model.ArgumentGraph{
		Arguments: []*model.Argument{
			{Label: "A1", PCS: []model.PCSItem{
				{Label: "1", PropLabel: "p1"},
				{Label: "2", PropLabel: "p2", Conclusion: true, Inference: map[string]any{"from": []any{"1"}}},
			}},
			{Label: "A2", PCS: []model.PCSItem{
				{Label: "1", PropLabel: "p2"},
				{Label: "2", PropLabel: "p3", Conclusion: true, Inference: map[string]any{"from": []any{"1"}}},
			}},
		},
		Propositions: []*model.Proposition{
			{Label: "p1", Texts: []string{"We should eat less meat."}},
			{Label: "p2", Texts: []string{"Fewer animals will be farmed."}},
			{Label: "p3", Texts: []string{"Emissions will drop."}},
		},
	}
	return mapG, recoG
}

func TestMapRecoElems_Coherent(t *testing.T) {
	mapG, recoG := coherentPair()
	assert.Empty(t, mapRecoElems(mapG, recoG))
}

func TestMapRecoElems_Mismatches(t *testing.T) {
	mapG, recoG := coherentPair()
	mapG.Arguments = append(mapG.Arguments, &model.Argument{Label: "A3"})
	recoG.Arguments = append(recoG.Arguments, &model.Argument{Label: "A4"})
	mapG.Propositions = append(mapG.Propositions, &model.Proposition{Label: "orphan", Texts: []string{"stray claim"}})

	msgs := mapRecoElems(mapG, recoG)
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[0], "Argument <A3> in map is not reconstructed")
	assert.Contains(t, msgs[1], "Reconstructed argument <A4> is not in the map")
	assert.Contains(t, msgs[2], "Claim [orphan] in argument map has no corresponding proposition")
}

func TestSketchedSupport_GroundedByPremiseReuse(t *testing.T) {
	mapG, recoG := coherentPair()
	assert.Empty(t, sketchedRelationsGrounded(mapG, recoG))
}

func TestSketchedSupport_FlippedDirectionFails(t *testing.T) {
	mapG, recoG := coherentPair()
	mapG.Relations[0] = model.DialecticalRelation{
		Source: "A2", Target: "A1", Valence: model.Support, Grounding: model.Sketched,
	}
	msgs := sketchedRelationsGrounded(mapG, recoG)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Sketched support relation from <A2> to <A1>")
	assert.Contains(t, msgs[0], "does not figure as premise in <A1>")
}

func TestSketchedAttack_GroundedByContradiction(t *testing.T) {
	mapG, recoG := coherentPair()
	mapG.Relations[0].Valence = model.Attack
	// A1 now concludes the schemed negation of A2's premise.
	recoG.Propositions[1].Texts = []string{"Fewer animals will be farmed."}
	recoG.Arguments[0].PCS[1].PropLabel = "p4"
	recoG.Propositions = append(recoG.Propositions,
		&model.Proposition{Label: "p4", Texts: []string{"NOT: Fewer animals will be farmed."}})

	assert.Empty(t, sketchedRelationsGrounded(mapG, recoG))
}

func TestSketchedAttack_UngroundedFails(t *testing.T) {
	mapG, recoG := coherentPair()
	mapG.Relations[0].Valence = model.Attack
	msgs := sketchedRelationsGrounded(mapG, recoG)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "does not contradict any premise in <A2>")
}

func TestSketchedSupportOnClaim_ConclusionMatch(t *testing.T) {
	mapG, recoG := coherentPair()
	mapG.Propositions = append(mapG.Propositions, &model.Proposition{Label: "c1"})
	mapG.Relations[0] = model.DialecticalRelation{
		Source: "A1", Target: "c1", Valence: model.Support, Grounding: model.Sketched,
	}
	recoG.Propositions = append(recoG.Propositions,
		&model.Proposition{Label: "c1", Texts: []string{"Fewer animals will be farmed."}})

	assert.Empty(t, sketchedRelationsGrounded(mapG, recoG))

	recoG.Proposition("c1").Texts = []string{"Something else entirely."}
	msgs := sketchedRelationsGrounded(mapG, recoG)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "does not figure as conclusion in <A1>")
}

func TestRecoRelationsInMap(t *testing.T) {
	mapG, recoG := coherentPair()
	mapG.Propositions = append(mapG.Propositions,
		&model.Proposition{Label: "c1"}, &model.Proposition{Label: "c2"})
	recoG.Propositions = append(recoG.Propositions,
		&model.Proposition{Label: "c1", Texts: []string{"one"}},
		&model.Proposition{Label: "c2", Texts: []string{"two"}})
	recoG.Relations = []model.DialecticalRelation{
		{Source: "c1", Target: "c2", Valence: model.Support, Grounding: model.Axiomatic},
	}

	msgs := recoRelationsInMap(mapG, recoG)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "item 'c1' supports item 'c2'")
	assert.Contains(t, msgs[0], "not captured in the argument map")

	mapG.Relations = append(mapG.Relations, model.DialecticalRelation{
		Source: "c1", Target: "c2", Valence: model.Support, Grounding: model.Axiomatic,
	})
	assert.Empty(t, recoRelationsInMap(mapG, recoG))
}

// annotatedReco builds an annotation and a reconstruction that cohere:
// two segments assigned to argument A1, segment 2 supporting segment 1,
// mirrored by item (1) being inferred from item (2).
func annotatedReco() (*model.ArgumentGraph, *model.AnnotationTree) {
	recoG := &model.ArgumentGraph{
		Arguments: []*model.Argument{
			{Label: "A1", PCS: []model.PCSItem{
				{Label: "2", PropLabel: "p2"},
				{Label: "1", PropLabel: "p1", Conclusion: true, Inference: map[string]any{"from": []any{"2"}}},
			}},
		},
		Propositions: []*model.Proposition{
			{Label: "p1", Texts: []string{"We should eat less meat."}, Data: map[string]any{"annotation_ids": []any{"1"}}},
			{Label: "p2", Texts: []string{"Animals suffer."}, Data: map[string]any{"annotation_ids": []any{"2"}}},
		},
	}
	tree := &model.AnnotationTree{
		Segments: []*model.Segment{
			{ID: "1", Text: "We should eat less meat.", ArgumentLabel: "A1", RefRecoLabel: "1"},
			{ID: "2", Text: "Animals suffer.", ArgumentLabel: "A1", RefRecoLabel: "2", Supports: []string{"1"}},
		},
	}
	return recoG, tree
}

func TestAnnoRecoElems_Coherent(t *testing.T) {
	recoG, tree := annotatedReco()
	assert.Empty(t, annoRecoElems(recoG, tree))
}

func TestAnnoRecoElems_IllegalArgumentLabel(t *testing.T) {
	recoG, tree := annotatedReco()
	tree.Segments[0].ArgumentLabel = "A9"
	msgs := annoRecoElems(recoG, tree)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "Illegal 'argument_label' reference of proposition element with id=1")
}

func TestAnnoRecoElems_MissingAnnotationIDs(t *testing.T) {
	recoG, tree := annotatedReco()
	recoG.Propositions[1].Data = nil
	msgs := annoRecoElems(recoG, tree)
	found := false
	for _, m := range msgs {
		if m == "Missing 'annotation_ids' attribute in proposition '2' of argument 'A1'." {
			found = true
		}
	}
	assert.True(t, found, "got %v", msgs)
}

func TestAnnoRecoElems_RefRecoMismatch(t *testing.T) {
	recoG, tree := annotatedReco()
	tree.Segments[0].RefRecoLabel = "3"
	msgs := annoRecoElems(recoG, tree)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "Illegal 'ref_reco_label' reference of proposition element with id=1")
}

func TestAnnoRecoElems_SharedSegmentBetweenPropositions(t *testing.T) {
	recoG, tree := annotatedReco()
	recoG.Propositions[1].Data = map[string]any{"annotation_ids": []any{"1", "2"}}
	msgs := annoRecoElems(recoG, tree)
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "referenced by distinct propositions") {
			found = true
		}
	}
	assert.True(t, found, "got %v", msgs)
}

func TestAnnoRecoRelations_RoundTrip(t *testing.T) {
	recoG, tree := annotatedReco()
	assert.Empty(t, annoRecoRelations(recoG, tree, "from"))
}

func TestAnnoRecoRelations_FlippedSupportFails(t *testing.T) {
	recoG, tree := annotatedReco()
	tree.Segments[1].Supports = nil
	tree.Segments[0].Supports = []string{"2"}
	msgs := annoRecoRelations(recoG, tree, "from")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Annotated support relation 1 -> 2 is not matched by the inferential relations in the argument 'A1'")
}

func TestAnnoRecoRelations_SameArgumentAttackIllegal(t *testing.T) {
	recoG, tree := annotatedReco()
	tree.Segments[1].Supports = nil
	tree.Segments[1].Attacks = []string{"1"}
	msgs := annoRecoRelations(recoG, tree, "from")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Text segments assigned to the same argument cannot attack each other")
}

func TestAnnoRecoRelations_CrossArgumentSupport(t *testing.T) {
	recoG, tree := annotatedReco()
	recoG.Arguments = append(recoG.Arguments, &model.Argument{
		Label: "A2",
		PCS: []model.PCSItem{
			{Label: "1", PropLabel: "p3"},
			{Label: "2", PropLabel: "p4", Conclusion: true, Inference: map[string]any{"from": []any{"1"}}},
		},
	})
	recoG.Propositions = append(recoG.Propositions,
		&model.Proposition{Label: "p3", Texts: []string{"base"}, Data: map[string]any{"annotation_ids": []any{"3"}}},
		&model.Proposition{Label: "p4", Texts: []string{"target"}, Data: map[string]any{"annotation_ids": []any{}}})
	tree.Segments = append(tree.Segments, &model.Segment{
		ID: "3", Text: "base", ArgumentLabel: "A2", RefRecoLabel: "1", Supports: []string{"1"},
	})

	// No declared relation between A2 and A1 yet.
	msgs := annoRecoRelations(recoG, tree, "from")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "annotated to support each other")

	recoG.Relations = append(recoG.Relations, model.DialecticalRelation{
		Source: "A2", Target: "A1", Valence: model.Support, Grounding: model.Sketched,
	})
	assert.Empty(t, annoRecoRelations(recoG, tree, "from"))
}

// annotatedMap builds an annotation and an argument map that cohere.
func annotatedMap() (*model.ArgumentGraph, *model.AnnotationTree) {
	mapG := &model.ArgumentGraph{
		Arguments: []*model.Argument{
			{Label: "A1", Gists: []string{"pro"}, Data: map[string]any{"annotation_ids": []any{"1"}}},
			{Label: "A2", Gists: []string{"con"}, Data: map[string]any{"annotation_ids": []any{"2"}}},
		},
		Relations: []model.DialecticalRelation{
			{Source: "A2", Target: "A1", Valence: model.Attack, Grounding: model.Sketched},
		},
	}
	tree := &model.AnnotationTree{
		Segments: []*model.Segment{
			{ID: "1", Text: "pro reason", ArgumentLabel: "A1"},
			{ID: "2", Text: "con reason", ArgumentLabel: "A2", Attacks: []string{"1"}},
		},
	}
	return mapG, tree
}

func TestAnnoMapElems_Coherent(t *testing.T) {
	mapG, tree := annotatedMap()
	assert.Empty(t, annoMapElems(mapG, tree))
}

func TestAnnoMapElems_LabelMismatch(t *testing.T) {
	mapG, tree := annotatedMap()
	tree.Segments[1].ArgumentLabel = "A1"
	msgs := annoMapElems(mapG, tree)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1], "different argument_label: A1")
}

func TestAnnoMapRelations_Matched(t *testing.T) {
	mapG, tree := annotatedMap()
	assert.Empty(t, annoMapRelations(mapG, tree))
}

func TestAnnoMapRelations_UnmatchedBothWays(t *testing.T) {
	mapG, tree := annotatedMap()
	tree.Segments[1].Attacks = nil
	tree.Segments[0].Supports = []string{"2"}
	msgs := annoMapRelations(mapG, tree)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "Annotated support relation 1 -> 2 is not matched by any relation in the argument map.")
	assert.Contains(t, msgs[1], "Dialectical attack relation A2 -> A1 is not matched by any relation in the text annotation.")
}

func TestPairHandler_SelectsLastMatchingPair(t *testing.T) {
	mapG, recoG := coherentPair()
	staleMap := &model.ArgumentGraph{Arguments: []*model.Argument{{Label: "STALE"}}}

	req := verify.NewRequest("tok", "source")
	req.Artifacts = []*verify.Artifact{
		artifact("argdown_001", verify.KindArgdown, "map.ad", staleMap),
		artifact("argdown_002", verify.KindArgdown, "map.ad", mapG),
		artifact("argdown_003", verify.KindArgdown, "reconstructions.ad", recoG),
	}

	h := MapRecoElems(MapFilter(), RecoFilter())
	require.NoError(t, h.Handle(context.Background(), req))

	findings := req.FindingsBy("map_reco_elem_coherence")
	require.Len(t, findings, 1)
	assert.True(t, findings[0].Valid, findings[0].Message)
	assert.Equal(t, []string{"argdown_002", "argdown_003"}, findings[0].ArtifactIDs)
}

func TestPairHandler_NoPairNoFinding(t *testing.T) {
	req := verify.NewRequest("tok", "source")
	req.Artifacts = []*verify.Artifact{
		artifact("argdown_001", verify.KindArgdown, "map.ad", &model.ArgumentGraph{}),
	}
	h := MapRecoElems(MapFilter(), RecoFilter())
	require.NoError(t, h.Handle(context.Background(), req))
	assert.Empty(t, req.FindingsBy("map_reco_elem_coherence"))
}
