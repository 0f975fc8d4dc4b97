package verify

import "strings"

// ArtifactFilter selects artifacts a handler is interested in.
type ArtifactFilter func(*Artifact) bool

// ByKind matches artifacts of the given kind.
func ByKind(kind ArtifactKind) ArtifactFilter {
	return func(a *Artifact) bool { return a.Kind == kind }
}

// ByFilenamePrefix matches artifacts whose fence metadata filename starts
// with the given prefix. Documents name their snippets by role ("map.ad",
// "reconstructions.ad"), so role selection is a prefix test.
func ByFilenamePrefix(prefix string) ArtifactFilter {
	return func(a *Artifact) bool { return strings.HasPrefix(a.Filename(), prefix) }
}

// And matches artifacts satisfying every given filter.
func And(filters ...ArtifactFilter) ArtifactFilter {
	return func(a *Artifact) bool {
		for _, f := range filters {
			if !f(a) {
				return false
			}
		}
		return true
	}
}

// LastMatching returns the last artifact satisfying the filter, or nil.
// When a document revises a snippet, the final version is authoritative.
func LastMatching(req *Request, filter ArtifactFilter) *Artifact {
	for i := len(req.Artifacts) - 1; i >= 0; i-- {
		if filter(req.Artifacts[i]) {
			return req.Artifacts[i]
		}
	}
	return nil
}

// AllMatching returns every artifact satisfying the filter, in order.
func AllMatching(req *Request, filter ArtifactFilter) []*Artifact {
	var out []*Artifact
	for _, a := range req.Artifacts {
		if filter(a) {
			out = append(out, a)
		}
	}
	return out
}
