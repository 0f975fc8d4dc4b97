package argdown

import (
	"context"
	"fmt"

	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/verify"
)

// ParserHandler parses every graph-syntax artifact on the request and
// attaches the resulting graph. A snippet that fails to parse yields a
// failing finding for that artifact; other snippets are still parsed.
type ParserHandler struct{}

func (ParserHandler) Name() string { return "argdown_parser" }

func (ParserHandler) Handle(_ context.Context, req *verify.Request) error {
	for _, artifact := range verify.AllMatching(req, verify.ByKind(verify.KindArgdown)) {
		graph, err := Parse(artifact.Code)
		if err != nil {
			req.AddFinding(verify.Finding{
				Checker:     "argdown_parser",
				Valid:       false,
				Message:     fmt.Sprintf("snippet does not parse: %v", err),
				ArtifactIDs: []string{artifact.ID},
			})
			continue
		}
		artifact.Parsed = graph
	}
	return nil
}

// Graph returns the parsed graph attached to the artifact, or nil.
func Graph(a *verify.Artifact) *model.ArgumentGraph {
	if a == nil {
		return nil
	}
	g, _ := a.Parsed.(*model.ArgumentGraph)
	return g
}
