package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arglint/arglint/internal/model"
)

// reco builds a single-argument graph with one proposition per PCS item.
func reco(t *testing.T, items ...struct {
	Label      string
	Conclusion bool
	Data       map[string]any
}) (*model.ArgumentGraph, *model.Argument) {
	t.Helper()
	arg := &model.Argument{Label: "A1"}
	graph := &model.ArgumentGraph{Arguments: []*model.Argument{arg}}
	for _, it := range items {
		propLabel := "P-" + it.Label
		graph.Propositions = append(graph.Propositions, &model.Proposition{
			Label: propLabel,
			Data:  it.Data,
		})
		pcs := model.PCSItem{Label: it.Label, PropLabel: propLabel, Conclusion: it.Conclusion}
		arg.PCS = append(arg.PCS, pcs)
	}
	return graph, arg
}

type recoItem = struct {
	Label      string
	Conclusion bool
	Data       map[string]any
}

func TestCollect_Complete(t *testing.T) {
	graph, arg := reco(t,
		recoItem{Label: "1", Data: map[string]any{
			"formalization": "p -> q",
			"declarations":  map[string]any{"p": "it rains", "q": "the street is wet"},
		}},
		recoItem{Label: "2", Data: map[string]any{
			"formalization": "p",
		}},
		recoItem{Label: "3", Conclusion: true, Data: map[string]any{
			"formalization": "q",
		}},
	)

	af := Collect(graph, arg, DefaultKeys())
	require.Empty(t, af.Flaws)
	assert.True(t, af.Complete())

	premises := af.Premises()
	require.Len(t, premises, 2)
	assert.Equal(t, "1", premises[0].Label)
	assert.Equal(t, "2", premises[1].Label)

	concl, ok := af.FinalConclusion()
	require.True(t, ok)
	assert.Equal(t, "3", concl.Label)
	assert.Equal(t, "q", concl.Expr.String())

	require.Len(t, af.Declarations, 2)
	assert.Equal(t, "p", af.Declarations[0].Symbol)
	assert.Equal(t, "it rains", af.Declarations[0].Meaning)
}

func TestCollect_MissingFormalization(t *testing.T) {
	graph, arg := reco(t,
		recoItem{Label: "1", Data: map[string]any{"formalization": "p", "declarations": map[string]any{"p": "p"}}},
		recoItem{Label: "2", Conclusion: true, Data: map[string]any{"gist": "no formalization here"}},
	)

	af := Collect(graph, arg, DefaultKeys())
	assert.False(t, af.Complete())
	require.Len(t, af.Flaws, 1)
	assert.Contains(t, af.Flaws[0], "no formalization provided for (2)")

	_, ok := af.FinalConclusion()
	assert.False(t, ok, "conclusion without formula must not be usable")
}

func TestCollect_ParseFlaw(t *testing.T) {
	graph, arg := reco(t,
		recoItem{Label: "1", Data: map[string]any{"formalization": "p &", "declarations": map[string]any{"p": "p"}}},
		recoItem{Label: "2", Conclusion: true, Data: map[string]any{"formalization": "p"}},
	)

	af := Collect(graph, arg, DefaultKeys())
	assert.False(t, af.Complete())
	require.NotEmpty(t, af.Flaws)
	assert.Contains(t, af.Flaws[0], "formalization of (1) does not parse")
}

func TestCollect_ConflictingDeclarations(t *testing.T) {
	graph, arg := reco(t,
		recoItem{Label: "1", Data: map[string]any{
			"formalization": "p",
			"declarations":  map[string]any{"p": "it rains"},
		}},
		recoItem{Label: "2", Conclusion: true, Data: map[string]any{
			"formalization": "p",
			"declarations":  map[string]any{"p": "it snows"},
		}},
	)

	af := Collect(graph, arg, DefaultKeys())
	require.Len(t, af.Flaws, 1)
	assert.Contains(t, af.Flaws[0], "symbol 'p' declared as \"it snows\" at (2)")
}

func TestCollect_DeclaredButUnused(t *testing.T) {
	graph, arg := reco(t,
		recoItem{Label: "1", Data: map[string]any{
			"formalization": "p",
			"declarations":  map[string]any{"p": "p", "q": "never used"},
		}},
		recoItem{Label: "2", Conclusion: true, Data: map[string]any{"formalization": "p"}},
	)

	af := Collect(graph, arg, DefaultKeys())
	require.Len(t, af.Flaws, 1)
	assert.Contains(t, af.Flaws[0], "declared symbol 'q' is not used")
}

func TestCollect_UsedButUndeclared(t *testing.T) {
	graph, arg := reco(t,
		recoItem{Label: "1", Data: map[string]any{
			"formalization": "F(a)",
			"declarations":  map[string]any{"F": "is finite"},
		}},
		recoItem{Label: "2", Conclusion: true, Data: map[string]any{"formalization": "F(a)"}},
	)

	af := Collect(graph, arg, DefaultKeys())
	require.Len(t, af.Flaws, 1)
	assert.Contains(t, af.Flaws[0], "symbol 'a' is used but never declared")
}

func TestCollect_BoundVariablesNeedNoDeclaration(t *testing.T) {
	graph, arg := reco(t,
		recoItem{Label: "1", Data: map[string]any{
			"formalization": "all x.(F(x) -> G(x))",
			"declarations":  map[string]any{"F": "is a fish", "G": "can swim"},
		}},
		recoItem{Label: "2", Conclusion: true, Data: map[string]any{
			"formalization": "exists x.G(x)",
		}},
	)

	af := Collect(graph, arg, DefaultKeys())
	assert.Empty(t, af.Flaws)
	assert.True(t, af.Complete())
}

func TestCollectAll_SkipsUnreconstructedArguments(t *testing.T) {
	graph, _ := reco(t,
		recoItem{Label: "1", Data: map[string]any{"formalization": "p", "declarations": map[string]any{"p": "p"}}},
		recoItem{Label: "2", Conclusion: true, Data: map[string]any{"formalization": "p"}},
	)
	graph.Arguments = append(graph.Arguments, &model.Argument{Label: "A2"})

	all := CollectAll(graph, DefaultKeys())
	require.Len(t, all, 1)
	assert.Equal(t, "A1", all[0].Argument.Label)
}
