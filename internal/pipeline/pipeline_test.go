package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arglint/arglint/internal/config"
	"github.com/arglint/arglint/internal/logic"
	"github.com/arglint/arglint/internal/testutil"
	"github.com/arglint/arglint/internal/verify"
)

const infrecoDoc = "Here is my reconstruction.\n\n" +
	"```argdown {filename: \"reconstructions.ad\"}\n" +
	"<Suffering>: Animals suffer, so we should stop eating meat.\n" +
	"\n" +
	"(1) Animals suffer.\n" +
	"-- {from: [\"1\"]} --\n" +
	"(2) [No meat]: We should stop eating meat.\n" +
	"```\n"

const logrecoDoc = "```argdown {filename: \"reconstructions.ad\"}\n" +
	"<Rain>: It rains, so the street gets wet.\n" +
	"\n" +
	"(1) It rains. {formalization: \"p\", declarations: {p: \"it rains\"}}\n" +
	"(2) If it rains, the street is wet. {formalization: \"p -> q\", declarations: {q: \"the street is wet\"}}\n" +
	"-- {from: [\"1\", \"2\"]} --\n" +
	"(3) The street is wet. {formalization: \"q\"}\n" +
	"```\n"

// Same argument without any formalizations.
const bareLogrecoDoc = "```argdown {filename: \"reconstructions.ad\"}\n" +
	"<Rain>: It rains, so the street gets wet.\n" +
	"\n" +
	"(1) It rains.\n" +
	"(2) If it rains, the street is wet.\n" +
	"-- {from: [\"1\", \"2\"]} --\n" +
	"(3) The street is wet.\n" +
	"```\n"

const argmapDoc = "```argdown {filename: \"map.ad\"}\n" +
	"[No meat]: We should stop eating meat.\n" +
	"    <+ <Suffering>: Animals suffer, so we should stop eating meat.\n" +
	"```\n"

const mapRecoDoc = argmapDoc + "\n" + infrecoDoc

const annoDoc = "```xml\n" +
	`<proposition id="1" supports="2">Animals suffer.</proposition> So ` +
	`<proposition id="2">we should stop eating meat.</proposition>` + "\n" +
	"```\n"

func newTestPipeline(t *testing.T, profile Profile, tokens ...string) *Pipeline {
	t.Helper()
	if len(tokens) == 0 {
		tokens = []string{"tok-1"}
	}
	p, err := New(profile, Options{
		Prover: testutil.TruthTableProver{},
		Tokens: verify.NewFixedGenerator(tokens...),
	})
	require.NoError(t, err)
	return p
}

func findingByChecker(t *testing.T, req *verify.Request, checker string) verify.Finding {
	t.Helper()
	fs := req.FindingsBy(checker)
	require.Len(t, fs, 1, "expected exactly one %s finding", checker)
	return fs[0]
}

func TestNew_UnknownProfile(t *testing.T) {
	_, err := New(Profile("argmap+argmap"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argmap+argmap")
}

func TestProfiles_AllAssemble(t *testing.T) {
	ps := Profiles()
	require.Len(t, ps, 10)
	for i := 1; i < len(ps); i++ {
		assert.Less(t, string(ps[i-1]), string(ps[i]))
	}
	for _, profile := range ps {
		_, err := New(profile, Options{Prover: testutil.TruthTableProver{}})
		assert.NoError(t, err, profile)
	}
}

func TestRun_Infreco_WellFormedPasses(t *testing.T) {
	p := newTestPipeline(t, Infreco)
	req, err := p.Run(context.Background(), infrecoDoc)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", req.Token)
	require.Len(t, req.Artifacts, 1)
	assert.Equal(t, "argdown_001", req.Artifacts[0].ID)
	assert.True(t, req.Valid(), "findings: %+v", req.Findings)

	// Every informal dimension reports exactly once.
	for _, dim := range []string{
		"illformed_argument", "missing_label_gist", "missing_inference_info",
		"unknown_proposition_references", "unused_propositions", "disallowed_material",
	} {
		f := findingByChecker(t, req, dim)
		assert.True(t, f.Valid, dim)
		assert.Equal(t, []string{"argdown_001"}, f.ArtifactIDs)
	}
}

func TestRun_Infreco_MissingInferenceInfoFails(t *testing.T) {
	doc := "```argdown\n" +
		"<Suffering>: Animals suffer, so we should stop eating meat.\n" +
		"\n" +
		"(1) Animals suffer.\n" +
		"-----\n" +
		"(2) We should stop eating meat.\n" +
		"```\n"
	p := newTestPipeline(t, Infreco)
	req, err := p.Run(context.Background(), doc)
	require.NoError(t, err)

	assert.False(t, req.Valid())
	f := findingByChecker(t, req, "missing_inference_info")
	assert.False(t, f.Valid)
	assert.Contains(t, f.Message, "Error in argument <Suffering>:")
}

func TestRun_Logreco_ModusPonensPasses(t *testing.T) {
	p := newTestPipeline(t, Logreco)
	req, err := p.Run(context.Background(), logrecoDoc)
	require.NoError(t, err)
	assert.True(t, req.Valid(), "findings: %+v", req.Findings)

	for _, dim := range []string{
		"flawed_formalizations", "invalid_inference",
		"redundant_premises", "inconsistent_premises", "ungrounded_relations",
	} {
		assert.True(t, findingByChecker(t, req, dim).Valid, dim)
	}
}

func TestRun_Logreco_FormulaFreeArgumentFails(t *testing.T) {
	p := newTestPipeline(t, Logreco)
	req, err := p.Run(context.Background(), bareLogrecoDoc)
	require.NoError(t, err)

	assert.False(t, req.Valid())
	f := findingByChecker(t, req, "flawed_formalizations")
	assert.False(t, f.Valid)
	// With no usable formulas the prover-backed dimensions stand down
	// rather than pile failures onto the single root cause.
	for _, dim := range []string{"invalid_inference", "redundant_premises", "inconsistent_premises"} {
		assert.True(t, findingByChecker(t, req, dim).Valid, dim)
	}
	// Structure is still fine.
	assert.True(t, findingByChecker(t, req, "illformed_argument").Valid)
}

func TestRun_Logreco_FindingCarriesParsedFormalizations(t *testing.T) {
	p := newTestPipeline(t, Logreco)
	req, err := p.Run(context.Background(), logrecoDoc)
	require.NoError(t, err)

	f := findingByChecker(t, req, "flawed_formalizations")
	require.NotNil(t, f.Details)
	// Three formulas keyed by proposition label, plus the merged
	// declarations.
	assert.Len(t, f.Details, 4)
	decls, ok := f.Details["declarations"].([]logic.Declaration)
	require.True(t, ok)
	require.Len(t, decls, 2)
	assert.Equal(t, "p", decls[0].Symbol)
	assert.Equal(t, "q", decls[1].Symbol)
}

func TestRun_Argmap_Passes(t *testing.T) {
	p := newTestPipeline(t, Argmap)
	req, err := p.Run(context.Background(), argmapDoc)
	require.NoError(t, err)
	assert.True(t, req.Valid(), "findings: %+v", req.Findings)
	for _, dim := range []string{"incomplete_claims", "duplicate_labels", "premise_conclusion_structures"} {
		assert.True(t, findingByChecker(t, req, dim).Valid, dim)
	}
}

func TestRun_Arganno_Passes(t *testing.T) {
	p := newTestPipeline(t, Arganno)
	req, err := p.Run(context.Background(), annoDoc)
	require.NoError(t, err)
	assert.True(t, req.Valid(), "findings: %+v", req.Findings)

	require.Len(t, req.Artifacts, 1)
	assert.Equal(t, "xml_001", req.Artifacts[0].ID)
	assert.True(t, findingByChecker(t, req, "invalid_support_ids").Valid)
}

func TestRunWithSourceText_AlteredTextFails(t *testing.T) {
	p := newTestPipeline(t, Arganno, "tok-1", "tok-2")

	req, err := p.RunWithSourceText(context.Background(),
		annoDoc, "Animals suffer. So we should stop eating meat.")
	require.NoError(t, err)
	assert.True(t, findingByChecker(t, req, "altered_source_text").Valid)

	req, err = p.RunWithSourceText(context.Background(),
		annoDoc, "A completely different source text.")
	require.NoError(t, err)
	f := findingByChecker(t, req, "altered_source_text")
	assert.False(t, f.Valid)
	assert.Contains(t, f.Message, "altered")
}

func TestRun_ArgmapInfreco_CoherentPairPasses(t *testing.T) {
	p := newTestPipeline(t, ArgmapInfreco)
	req, err := p.Run(context.Background(), mapRecoDoc)
	require.NoError(t, err)
	assert.True(t, req.Valid(), "findings: %+v", req.Findings)

	require.Len(t, req.Artifacts, 2)
	elems := findingByChecker(t, req, "map_reco_elem_coherence")
	assert.Equal(t, []string{"argdown_001", "argdown_002"}, elems.ArtifactIDs)
	assert.True(t, findingByChecker(t, req, "map_reco_relation_coherence").Valid)
}

func TestRun_ArgmapInfreco_UnreconstructedArgumentFails(t *testing.T) {
	doc := "```argdown {filename: \"map.ad\"}\n" +
		"[No meat]: We should stop eating meat.\n" +
		"    <+ <Suffering>: Animals suffer, so we should stop eating meat.\n" +
		"    <+ <Climate>: Farming causes climate change.\n" +
		"```\n\n" + infrecoDoc
	p := newTestPipeline(t, ArgmapInfreco)
	req, err := p.Run(context.Background(), doc)
	require.NoError(t, err)

	f := findingByChecker(t, req, "map_reco_elem_coherence")
	assert.False(t, f.Valid)
	assert.Contains(t, f.Message, "Argument <Climate> in map is not reconstructed")
}

func TestRun_ArgmapInfreco_MissingPairSkipsCoherence(t *testing.T) {
	// Only a map artifact, no reconstructions: the batteries that find
	// no matching artifact and the pairwise checkers all stay silent.
	p := newTestPipeline(t, ArgmapInfreco)
	req, err := p.Run(context.Background(), argmapDoc)
	require.NoError(t, err)

	assert.Empty(t, req.FindingsBy("map_reco_elem_coherence"))
	assert.Empty(t, req.FindingsBy("map_reco_relation_coherence"))
	assert.True(t, findingByChecker(t, req, "incomplete_claims").Valid)
}

func TestRun_Idempotent(t *testing.T) {
	p := newTestPipeline(t, Logreco, "tok-1", "tok-2")

	first, err := p.Run(context.Background(), logrecoDoc)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), logrecoDoc)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", first.Token)
	assert.Equal(t, "tok-2", second.Token)

	require.Len(t, second.Artifacts, len(first.Artifacts))
	for i := range first.Artifacts {
		assert.Equal(t, first.Artifacts[i].ID, second.Artifacts[i].ID)
	}
	assert.Equal(t, first.Findings, second.Findings)
}

func TestRun_CancelledContextAborts(t *testing.T) {
	p := newTestPipeline(t, Infreco)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, infrecoDoc)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_DimensionSelection(t *testing.T) {
	cfg := config.Default()
	cfg.Dimensions = []string{"illformed_argument", "missing_inference_info"}
	p, err := New(Infreco, Options{
		Config: cfg,
		Prover: testutil.TruthTableProver{},
		Tokens: verify.NewFixedGenerator("tok-1"),
	})
	require.NoError(t, err)

	req, err := p.Run(context.Background(), infrecoDoc)
	require.NoError(t, err)

	assert.True(t, findingByChecker(t, req, "illformed_argument").Valid)
	assert.True(t, findingByChecker(t, req, "missing_inference_info").Valid)
	assert.Empty(t, req.FindingsBy("missing_label_gist"), "unselected dimensions do not run")
	assert.Empty(t, req.FindingsBy("disallowed_material"))
}

func TestNew_ConfiguredKeysReachTheRules(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.From = "uses"
	p, err := New(Infreco, Options{
		Config: cfg,
		Prover: testutil.TruthTableProver{},
		Tokens: verify.NewFixedGenerator("tok-1"),
	})
	require.NoError(t, err)

	doc := "```argdown\n" +
		"<Suffering>: Animals suffer, so we should stop eating meat.\n" +
		"\n" +
		"(1) Animals suffer.\n" +
		"-- {uses: [\"1\"]} --\n" +
		"(2) We should stop eating meat.\n" +
		"```\n"
	req, err := p.Run(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, findingByChecker(t, req, "missing_inference_info").Valid,
		"renamed inference key honored: %+v", req.Findings)
}
