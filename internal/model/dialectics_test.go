package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func prop(label string, texts ...string) *Proposition {
	return &Proposition{Label: label, Texts: texts}
}

func TestCanonicalText(t *testing.T) {
	assert.Equal(t, "Animals suffer.", CanonicalText("  Animals\n suffer.  "))
	// Composed and decomposed code points compare equal after NFC.
	assert.Equal(t, CanonicalText("café"), CanonicalText("café"))
	assert.Equal(t, "", CanonicalText("  \n\t "))
}

func TestAreIdentical(t *testing.T) {
	assert.True(t, AreIdentical(prop("a", "x"), prop("a", "y")), "label match")
	assert.True(t, AreIdentical(prop("a", "Animals  suffer."), prop("b", "Animals suffer.")), "text match up to whitespace")
	assert.False(t, AreIdentical(prop("a", "x"), prop("b", "y")))
	assert.False(t, AreIdentical(prop("a", ""), prop("b", "")), "empty texts never match")
	assert.False(t, AreIdentical(nil, prop("a", "x")))
}

func TestAreContradictory_NegationScheme(t *testing.T) {
	p := prop("a", "Eating meat is fine.")
	n := prop("b", "NOT: Eating meat is fine.")
	assert.True(t, AreContradictory(p, n, nil))
	assert.True(t, AreContradictory(n, p, nil), "negation works in both directions")

	assert.False(t, AreContradictory(p, prop("c", "Something else."), nil))
	assert.False(t, AreContradictory(p, p, nil), "a proposition does not contradict itself")
}

func TestAreContradictory_DeclaredRelation(t *testing.T) {
	g := &ArgumentGraph{Relations: []DialecticalRelation{
		{Source: "a", Target: "b", Valence: Attack, Grounding: Axiomatic},
	}}
	assert.True(t, AreContradictory(prop("a", "x"), prop("b", "y"), g))
	assert.True(t, AreContradictory(prop("b", "y"), prop("a", "x"), g))
	assert.False(t, AreContradictory(prop("a", "x"), prop("c", "z"), g))
}

func mapGraph(rels ...DialecticalRelation) *ArgumentGraph {
	return &ArgumentGraph{
		Propositions: []*Proposition{prop("a"), prop("b"), prop("c")},
		Relations:    rels,
	}
}

func TestIndirectlySupports(t *testing.T) {
	direct := mapGraph(DialecticalRelation{Source: "a", Target: "b", Valence: Support})
	assert.True(t, IndirectlySupports("a", "b", direct))
	assert.False(t, IndirectlySupports("b", "a", direct), "relations are directed")
	assert.True(t, IndirectlySupports("a", "a", direct), "trivially supports itself")

	chain := mapGraph(
		DialecticalRelation{Source: "a", Target: "c", Valence: Support},
		DialecticalRelation{Source: "c", Target: "b", Valence: Support},
	)
	assert.True(t, IndirectlySupports("a", "b", chain), "support of support")

	attackAttack := mapGraph(
		DialecticalRelation{Source: "a", Target: "c", Valence: Attack},
		DialecticalRelation{Source: "c", Target: "b", Valence: Attack},
	)
	assert.True(t, IndirectlySupports("a", "b", attackAttack), "attack of attack")
}

func TestIndirectlyAttacks(t *testing.T) {
	direct := mapGraph(DialecticalRelation{Source: "a", Target: "b", Valence: Attack})
	assert.True(t, IndirectlyAttacks("a", "b", direct))
	assert.False(t, IndirectlyAttacks("a", "a", direct), "never attacks itself")

	supportAttack := mapGraph(
		DialecticalRelation{Source: "a", Target: "c", Valence: Support},
		DialecticalRelation{Source: "c", Target: "b", Valence: Attack},
	)
	assert.True(t, IndirectlyAttacks("a", "b", supportAttack), "support of attack")

	supportSupport := mapGraph(
		DialecticalRelation{Source: "a", Target: "c", Valence: Support},
		DialecticalRelation{Source: "c", Target: "b", Valence: Support},
	)
	assert.False(t, IndirectlyAttacks("a", "b", supportSupport))
}

func TestInferenceClosure(t *testing.T) {
	arg := &Argument{
		Label: "A1",
		PCS: []PCSItem{
			{Label: "1", PropLabel: "p1"},
			{Label: "2", PropLabel: "p2"},
			{Label: "3", PropLabel: "p3", Conclusion: true, Inference: map[string]any{"from": []any{"1", "2"}}},
			{Label: "4", PropLabel: "p4", Conclusion: true, Inference: map[string]any{"from": []any{"3"}}},
		},
	}

	used := InferenceClosure(arg, "4", "from")
	assert.True(t, used["3"])
	assert.True(t, used["1"], "closure follows intermediate conclusions")
	assert.True(t, used["2"])
	assert.False(t, used["4"])

	assert.Empty(t, InferenceClosure(arg, "1", "from"), "premises use nothing")
	assert.Empty(t, InferenceClosure(arg, "missing", "from"))
}

func TestPCSItemFrom(t *testing.T) {
	it := PCSItem{Label: "2", Conclusion: true, Inference: map[string]any{"from": []any{"1", 7}}}
	assert.Equal(t, []string{"1"}, it.From("from"), "non-string entries are dropped")

	assert.Nil(t, PCSItem{Label: "1"}.From("from"), "premises have no from-list")
	assert.Nil(t, PCSItem{Label: "2", Conclusion: true}.From("from"))
	assert.Equal(t, []string{"1"},
		PCSItem{Conclusion: true, Inference: map[string]any{"uses": []string{"1"}}}.From("uses"))
}

func TestFinalConclusionAndItem(t *testing.T) {
	arg := &Argument{PCS: []PCSItem{
		{Label: "1", PropLabel: "p1"},
		{Label: "2", PropLabel: "p2", Conclusion: true},
	}}

	final, ok := arg.FinalConclusion()
	assert.True(t, ok)
	assert.Equal(t, "2", final.Label)

	_, ok = (&Argument{}).FinalConclusion()
	assert.False(t, ok)

	it, ok := arg.Item("1")
	assert.True(t, ok)
	assert.Equal(t, "p1", it.PropLabel)
	_, ok = arg.Item("9")
	assert.False(t, ok)
}
