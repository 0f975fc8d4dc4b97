package anno

import (
	"context"
	"fmt"

	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/verify"
)

// ParserHandler parses every tree-syntax artifact on the request and
// attaches the resulting annotation tree.
type ParserHandler struct{}

func (ParserHandler) Name() string { return "annotation_parser" }

func (ParserHandler) Handle(_ context.Context, req *verify.Request) error {
	for _, artifact := range verify.AllMatching(req, verify.ByKind(verify.KindXML)) {
		tree, err := Parse(artifact.Code)
		if err != nil {
			req.AddFinding(verify.Finding{
				Checker:     "annotation_parser",
				Valid:       false,
				Message:     fmt.Sprintf("snippet does not parse: %v", err),
				ArtifactIDs: []string{artifact.ID},
			})
			continue
		}
		artifact.Parsed = tree
	}
	return nil
}

// Tree returns the parsed annotation tree attached to the artifact, or nil.
func Tree(a *verify.Artifact) *model.AnnotationTree {
	if a == nil {
		return nil
	}
	t, _ := a.Parsed.(*model.AnnotationTree)
	return t
}
