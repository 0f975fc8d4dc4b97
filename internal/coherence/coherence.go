// Package coherence checks that independently authored artifacts of one
// verification request agree: the argument map against the
// reconstructions, and the source-text annotation against either. Each
// checker inspects the authoritative pair of artifacts selected by two
// role filters and records one finding; a request without a matching
// pair is simply outside the checker's remit.
package coherence

import (
	"context"
	"strings"

	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/verify"
)

// annotationIDsKey is the proposition metadata entry linking a
// reconstruction statement back to annotated text segments.
const annotationIDsKey = "annotation_ids"

// Check inspects one pair of parsed artifacts and returns its failure
// messages, empty when the pair coheres.
type Check func(first, second *verify.Artifact) []string

// PairHandler runs one coherence check over the last artifact matching
// each of its two role filters.
type PairHandler struct {
	id        string
	first     verify.ArtifactFilter
	second    verify.ArtifactFilter
	separator string
	check     Check
}

func (h *PairHandler) Name() string { return h.id }

func (h *PairHandler) Handle(_ context.Context, req *verify.Request) error {
	first := verify.LastMatching(req, h.first)
	second := verify.LastMatching(req, h.second)
	if first == nil || second == nil {
		return nil
	}
	msgs := h.check(first, second)
	req.AddFinding(verify.Finding{
		Checker:     h.id,
		Valid:       len(msgs) == 0,
		Message:     strings.Join(msgs, h.separator),
		ArtifactIDs: []string{first.ID, second.ID},
	})
	return nil
}

// MapFilter selects argument-map snippets by their fence filename.
func MapFilter() verify.ArtifactFilter {
	return verify.And(verify.ByKind(verify.KindArgdown), verify.ByFilenamePrefix("map"))
}

// RecoFilter selects reconstruction snippets by their fence filename.
func RecoFilter() verify.ArtifactFilter {
	return verify.And(verify.ByKind(verify.KindArgdown), verify.ByFilenamePrefix("reconstructions"))
}

// AnnotationFilter selects annotation snippets.
func AnnotationFilter() verify.ArtifactFilter {
	return verify.ByKind(verify.KindXML)
}

// annotationIDs reads a node's annotation id references. The second
// return is false when the attribute is absent altogether.
func annotationIDs(data map[string]any) ([]string, bool) {
	if data == nil {
		return nil, false
	}
	raw, ok := data[annotationIDsKey]
	if !ok {
		return nil, false
	}
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, true
	}
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

// nodeLabels returns the labels of every argument and proposition of the
// graph, in that order.
func nodeLabels(g *model.ArgumentGraph) []string {
	var labels []string
	for _, a := range g.Arguments {
		if a.Label != "" {
			labels = append(labels, a.Label)
		}
	}
	for _, p := range g.Propositions {
		if p.Label != "" {
			labels = append(labels, p.Label)
		}
	}
	return labels
}
