package pipeline

import (
	"context"

	"github.com/arglint/arglint/internal/anno"
	"github.com/arglint/arglint/internal/argdown"
	"github.com/arglint/arglint/internal/deduction"
	"github.com/arglint/arglint/internal/logic"
	"github.com/arglint/arglint/internal/rules"
	"github.com/arglint/arglint/internal/solver"
	"github.com/arglint/arglint/internal/verify"
)

// graphBattery runs a dimension table against the last graph artifact
// matching its role filter, recording one finding per dimension. A
// request without a matching parsed artifact is left to the parser's own
// findings.
type graphBattery struct {
	id     string
	filter verify.ArtifactFilter
	reg    *rules.Registry
	dims   []rules.Dimension
	cfg    rules.Config
}

func (b *graphBattery) Name() string { return b.id }

func (b *graphBattery) Handle(ctx context.Context, req *verify.Request) error {
	a := verify.LastMatching(req, b.filter)
	if a == nil {
		return nil
	}
	g := argdown.Graph(a)
	if g == nil {
		return nil
	}
	// One cache per run: the formalization check parses, the
	// prover-backed checks reuse.
	cfg := b.cfg
	cfg.Cache = logic.NewCache(cfg.Keys)
	results, err := rules.RunBattery(ctx, b.reg, b.dims, g, cfg)
	if err != nil {
		return err
	}
	for _, res := range results {
		f := verify.Finding{
			Checker:     res.Dimension,
			Valid:       res.Passed,
			Message:     res.Message,
			ArtifactIDs: []string{a.ID},
		}
		if res.Dimension == "flawed_formalizations" {
			f.Details = cfg.Cache.Details()
		}
		req.AddFinding(f)
	}
	return nil
}

func informalBattery(filter verify.ArtifactFilter, cfg rules.Config, only []string) *graphBattery {
	reg := rules.NewRegistry()
	reg.MustRegister(rules.InformalRules()...)
	return &graphBattery{
		id:     "informal_battery",
		filter: filter,
		reg:    reg,
		dims:   selectDims(rules.DefaultInformalDimensions(), only),
		cfg:    cfg,
	}
}

func logicalBattery(filter verify.ArtifactFilter, cfg rules.Config, prover solver.Prover, only []string) *graphBattery {
	reg := rules.NewRegistry()
	reg.MustRegister(rules.InformalRules()...)
	reg.MustRegister(rules.FormalizationRules()...)
	reg.MustRegister(deduction.Rules(prover)...)
	return &graphBattery{
		id:     "logical_battery",
		filter: filter,
		reg:    reg,
		dims:   selectDims(rules.DefaultLogicalDimensions(), only),
		cfg:    cfg,
	}
}

func mapBattery(filter verify.ArtifactFilter, only []string) *graphBattery {
	reg := rules.NewRegistry()
	reg.MustRegister(rules.MapRules()...)
	return &graphBattery{
		id:     "map_battery",
		filter: filter,
		reg:    reg,
		dims:   selectDims(rules.DefaultMapDimensions(), only),
		cfg:    rules.DefaultConfig(),
	}
}

// selectDims restricts a dimension table to the named dimensions.
// Empty means the whole table.
func selectDims(dims []rules.Dimension, only []string) []rules.Dimension {
	if len(only) == 0 {
		return dims
	}
	wanted := make(map[string]bool, len(only))
	for _, id := range only {
		wanted[id] = true
	}
	var out []rules.Dimension
	for _, d := range dims {
		if wanted[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

// annoBattery runs the annotation dimension table against the last tree
// artifact matching its filter.
type annotationBattery struct {
	filter verify.ArtifactFilter
	dims   []rules.Dimension
}

func annoBattery(filter verify.ArtifactFilter, only []string) *annotationBattery {
	return &annotationBattery{
		filter: filter,
		dims:   selectDims(rules.AnnotationDimensions(), only),
	}
}

func (b *annotationBattery) Name() string { return "annotation_battery" }

func (b *annotationBattery) Handle(_ context.Context, req *verify.Request) error {
	a := verify.LastMatching(req, b.filter)
	if a == nil {
		return nil
	}
	tree := anno.Tree(a)
	if tree == nil {
		return nil
	}
	// The integrity rule compares the annotation against the bare source
	// text, which the caller provides separately from the document; the
	// rule skips itself when no source text is known.
	sourceText, _ := req.Shared["source_text"].(string)
	results, err := rules.RunAnnotationBattery(rules.AnnotationRules(), b.dims, tree, sourceText)
	if err != nil {
		return err
	}
	for _, res := range results {
		req.AddFinding(verify.Finding{
			Checker:     res.Dimension,
			Valid:       res.Passed,
			Message:     res.Message,
			ArtifactIDs: []string{a.ID},
		})
	}
	return nil
}
