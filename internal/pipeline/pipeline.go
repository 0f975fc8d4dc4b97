// Package pipeline assembles verification chains for the task profiles:
// which parsers run, which rule batteries apply to which artifact role,
// and which coherence checkers compare the artifacts pairwise.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/arglint/arglint/internal/anno"
	"github.com/arglint/arglint/internal/argdown"
	"github.com/arglint/arglint/internal/coherence"
	"github.com/arglint/arglint/internal/config"
	"github.com/arglint/arglint/internal/extract"
	"github.com/arglint/arglint/internal/rules"
	"github.com/arglint/arglint/internal/solver"
	"github.com/arglint/arglint/internal/verify"
)

// Profile names a verification pipeline.
type Profile string

const (
	Arganno              Profile = "arganno"
	Argmap               Profile = "argmap"
	Infreco              Profile = "infreco"
	Logreco              Profile = "logreco"
	ArgmapInfreco        Profile = "argmap+infreco"
	ArgmapLogreco        Profile = "argmap+logreco"
	ArgannoInfreco       Profile = "arganno+infreco"
	ArgannoLogreco       Profile = "arganno+logreco"
	ArgmapArganno        Profile = "argmap+arganno"
	ArgmapArgannoLogreco Profile = "argmap+arganno+logreco"
)

// Profiles returns every known profile name, sorted.
func Profiles() []Profile {
	ps := []Profile{
		Arganno, Argmap, Infreco, Logreco,
		ArgmapInfreco, ArgmapLogreco, ArgannoInfreco, ArgannoLogreco,
		ArgmapArganno, ArgmapArgannoLogreco,
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	return ps
}

// Options carries the collaborators a pipeline needs. Zero values take
// sensible defaults: the configured z3 binary and UUIDv7 run tokens.
type Options struct {
	Config config.Config
	Prover solver.Prover
	Tokens verify.TokenGenerator
}

// Pipeline is an assembled verification chain for one profile.
type Pipeline struct {
	profile Profile
	chain   *verify.Chain
	tokens  verify.TokenGenerator
}

// New assembles the chain for the given profile.
func New(profile Profile, opts Options) (*Pipeline, error) {
	if opts.Prover == nil {
		z3 := solver.NewZ3()
		z3.Path = opts.Config.Solver.Command
		if z3.Path == "" {
			z3.Path = config.Default().Solver.Command
		}
		if t := opts.Config.SolverTimeout(); t > 0 {
			z3.Timeout = t
		}
		opts.Prover = z3
	}
	if opts.Tokens == nil {
		opts.Tokens = verify.UUIDv7Generator{}
	}
	rcfg := opts.Config.RuleConfig()
	if rcfg.Keys.From == "" {
		rcfg = rules.DefaultConfig()
	}

	handlers, err := profileHandlers(profile, rcfg, opts.Prover, opts.Config.Dimensions)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		profile: profile,
		chain:   verify.NewChain(string(profile), handlers...),
		tokens:  opts.Tokens,
	}, nil
}

// Profile returns the pipeline's profile name.
func (p *Pipeline) Profile() Profile { return p.profile }

// Run verifies one source document and returns the completed request.
func (p *Pipeline) Run(ctx context.Context, source string) (*verify.Request, error) {
	return p.RunWithSourceText(ctx, source, "")
}

// RunWithSourceText verifies a source document and additionally makes
// the bare source text available to checkers that compare annotations
// against it. An empty sourceText leaves those checkers skipped.
func (p *Pipeline) RunWithSourceText(ctx context.Context, source, sourceText string) (*verify.Request, error) {
	req := verify.NewRequest(p.tokens.Generate(), source)
	if sourceText != "" {
		req.Shared["source_text"] = sourceText
	}
	slog.Debug("verification run starting", "profile", p.profile, "token", req.Token)
	if err := p.chain.Handle(ctx, req); err != nil {
		return nil, err
	}
	slog.Debug("verification run finished",
		"profile", p.profile, "token", req.Token,
		"findings", len(req.Findings), "valid", req.Valid())
	return req, nil
}

func profileHandlers(profile Profile, rcfg rules.Config, prover solver.Prover, only []string) ([]verify.Handler, error) {
	ex := extract.Handler{}
	graphs := argdown.ParserHandler{}
	trees := anno.ParserHandler{}

	anyGraph := verify.ByKind(verify.KindArgdown)
	anyTree := verify.ByKind(verify.KindXML)
	mapRole := coherence.MapFilter()
	recoRole := coherence.RecoFilter()

	switch profile {
	case Arganno:
		return []verify.Handler{ex, trees,
			annoBattery(anyTree, only),
		}, nil
	case Argmap:
		return []verify.Handler{ex, graphs,
			mapBattery(anyGraph, only),
		}, nil
	case Infreco:
		return []verify.Handler{ex, graphs,
			informalBattery(anyGraph, rcfg, only),
		}, nil
	case Logreco:
		return []verify.Handler{ex, graphs,
			logicalBattery(anyGraph, rcfg, prover, only),
		}, nil
	case ArgmapInfreco:
		return []verify.Handler{ex, graphs,
			mapBattery(mapRole, only),
			informalBattery(recoRole, rcfg, only),
			coherence.MapRecoElems(mapRole, recoRole),
			coherence.MapRecoRelations(mapRole, recoRole, rcfg.Keys.From),
		}, nil
	case ArgmapLogreco:
		return []verify.Handler{ex, graphs,
			mapBattery(mapRole, only),
			logicalBattery(recoRole, rcfg, prover, only),
			coherence.MapRecoElems(mapRole, recoRole),
			coherence.MapRecoRelations(mapRole, recoRole, rcfg.Keys.From),
		}, nil
	case ArgannoInfreco:
		return []verify.Handler{ex, graphs, trees,
			annoBattery(anyTree, only),
			informalBattery(anyGraph, rcfg, only),
			coherence.AnnoRecoElems(anyGraph, anyTree),
			coherence.AnnoRecoRelations(anyGraph, anyTree, rcfg.Keys.From),
		}, nil
	case ArgannoLogreco:
		return []verify.Handler{ex, graphs, trees,
			annoBattery(anyTree, only),
			logicalBattery(anyGraph, rcfg, prover, only),
			coherence.AnnoRecoElems(anyGraph, anyTree),
			coherence.AnnoRecoRelations(anyGraph, anyTree, rcfg.Keys.From),
		}, nil
	case ArgmapArganno:
		return []verify.Handler{ex, graphs, trees,
			annoBattery(anyTree, only),
			mapBattery(anyGraph, only),
			coherence.AnnoMapElems(anyGraph, anyTree),
			coherence.AnnoMapRelations(anyGraph, anyTree),
		}, nil
	case ArgmapArgannoLogreco:
		return []verify.Handler{ex, graphs, trees,
			annoBattery(anyTree, only),
			mapBattery(mapRole, only),
			logicalBattery(recoRole, rcfg, prover, only),
			coherence.AnnoMapElems(mapRole, anyTree),
			coherence.AnnoMapRelations(mapRole, anyTree),
			coherence.MapRecoElems(mapRole, recoRole),
			coherence.MapRecoRelations(mapRole, recoRole, rcfg.Keys.From),
		}, nil
	default:
		return nil, fmt.Errorf("unknown profile %q", profile)
	}
}
