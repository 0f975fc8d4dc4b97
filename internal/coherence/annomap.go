package coherence

import (
	"fmt"

	"github.com/arglint/arglint/internal/anno"
	"github.com/arglint/arglint/internal/argdown"
	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/verify"
)

// mapNodeIndex resolves annotation segments against the map's node set.
type mapNodeIndex struct {
	ids       []string
	nodeLabel map[string]string
}

func indexMapSegments(mapG *model.ArgumentGraph, tree *model.AnnotationTree) mapNodeIndex {
	labels := nodeLabels(mapG)
	idx := mapNodeIndex{ids: tree.SegmentIDs(), nodeLabel: map[string]string{}}
	for _, seg := range tree.AllSegments() {
		if seg.ID != "" && containsString(labels, seg.ArgumentLabel) {
			idx.nodeLabel[seg.ID] = seg.ArgumentLabel
		}
	}
	return idx
}

// AnnoMapElems checks the element-level correspondence between an
// annotation and an argument map: each segment's argument_label names a
// map node, and each node's annotation_ids point back at segments
// assigned to that very node.
func AnnoMapElems(mapFilter, annoFilter verify.ArtifactFilter) *PairHandler {
	return &PairHandler{
		id:        "anno_map_elem_coherence",
		first:     mapFilter,
		second:    annoFilter,
		separator: " ",
		check: func(first, second *verify.Artifact) []string {
			return annoMapElems(argdown.Graph(first), anno.Tree(second))
		},
	}
}

func annoMapElems(mapG *model.ArgumentGraph, tree *model.AnnotationTree) []string {
	if mapG == nil || tree == nil {
		return nil
	}
	labels := nodeLabels(mapG)
	idx := indexMapSegments(mapG, tree)
	var msgs []string

	for _, seg := range tree.AllSegments() {
		if !containsString(labels, seg.ArgumentLabel) {
			msgs = append(msgs, fmt.Sprintf(
				"Illegal 'argument_label' reference of proposition element with id=%s: "+
					"No node with label '%s' in the Argdown argument map.", seg.ID, seg.ArgumentLabel))
		}
	}

	for _, label := range labels {
		data := nodeData(mapG, label)
		refs, _ := annotationIDs(data)
		if len(refs) == 0 {
			msgs = append(msgs, fmt.Sprintf(
				"Missing 'annotation_ids' attribute of node with label '%s'.", label))
			continue
		}
		for _, ref := range refs {
			switch {
			case !containsString(idx.ids, ref):
				msgs = append(msgs, fmt.Sprintf(
					"Illegal 'annotation_ids' reference of node with label '%s': "+
						"No proposition element with id='%s' in the annotation.", label, ref))
			case idx.nodeLabel[ref] != label:
				msgs = append(msgs, fmt.Sprintf(
					"Label reference mismatch: argument map node with label '%s' has annotation_ids=%v, "+
						"but the corresponding proposition element with id=%s in the annotation has a "+
						"different argument_label%s.", label, refs, ref, otherLabel(idx, ref)))
			}
		}
	}
	return msgs
}

func nodeData(g *model.ArgumentGraph, label string) map[string]any {
	if a := g.Argument(label); a != nil {
		return a.Data
	}
	if p := g.Proposition(label); p != nil {
		return p.Data
	}
	return nil
}

func otherLabel(idx mapNodeIndex, ref string) string {
	if l, ok := idx.nodeLabel[ref]; ok {
		return ": " + l
	}
	return ""
}

// AnnoMapRelations checks that annotated support/attack links and the
// map's dialectical relations match one-to-one.
func AnnoMapRelations(mapFilter, annoFilter verify.ArtifactFilter) *PairHandler {
	return &PairHandler{
		id:        "anno_map_relation_coherence",
		first:     mapFilter,
		second:    annoFilter,
		separator: " ",
		check: func(first, second *verify.Artifact) []string {
			return annoMapRelations(argdown.Graph(first), anno.Tree(second))
		},
	}
}

type annotatedEdge struct {
	fromID, toID string
	valence      model.Valence
}

func annoMapRelations(mapG *model.ArgumentGraph, tree *model.AnnotationTree) []string {
	if mapG == nil || tree == nil {
		return nil
	}
	idx := indexMapSegments(mapG, tree)

	var edges []annotatedEdge
	for _, seg := range tree.AllSegments() {
		for _, to := range seg.Supports {
			if containsString(idx.ids, to) {
				edges = append(edges, annotatedEdge{fromID: seg.ID, toID: to, valence: model.Support})
			}
		}
		for _, to := range seg.Attacks {
			if containsString(idx.ids, to) {
				edges = append(edges, annotatedEdge{fromID: seg.ID, toID: to, valence: model.Attack})
			}
		}
	}

	var msgs []string
	for _, e := range edges {
		matched := false
		for _, rel := range mapG.Relations {
			if rel.Source == idx.nodeLabel[e.fromID] && rel.Target == idx.nodeLabel[e.toID] && rel.Valence == e.valence {
				matched = true
				break
			}
		}
		if !matched {
			msgs = append(msgs, fmt.Sprintf(
				"Annotated %s relation %s -> %s is not matched by any relation in the argument map.",
				e.valence, e.fromID, e.toID))
		}
	}
	for _, rel := range mapG.Relations {
		matched := false
		for _, e := range edges {
			if rel.Source == idx.nodeLabel[e.fromID] && rel.Target == idx.nodeLabel[e.toID] && rel.Valence == e.valence {
				matched = true
				break
			}
		}
		if !matched {
			msgs = append(msgs, fmt.Sprintf(
				"Dialectical %s relation %s -> %s is not matched by any relation in the text annotation.",
				rel.Valence, rel.Source, rel.Target))
		}
	}
	return msgs
}
