package model

// Segment is one annotated text span. Supports and Attacks hold ids of
// other segments; ArgumentLabel and RefRecoLabel point into the argument
// graph. ExtraAttrs collects attributes outside the schema so the
// annotation rules can flag them.
type Segment struct {
	ID            string
	Text          string
	Supports      []string
	Attacks       []string
	ArgumentLabel string
	RefRecoLabel  string
	ExtraAttrs    map[string]string
	Children      []*Segment
}

// AnnotationTree is the parsed form of a tree-syntax snippet.
//
// ForeignElements lists element names outside the segment schema, in
// document order; the annotation battery reports them.
type AnnotationTree struct {
	Segments        []*Segment
	ForeignElements []string
	// Text is the full character content of the snippet, annotated and
	// unannotated passages alike, used for source integrity checks.
	Text string
}

// AllSegments returns every segment in document order, including nested
// ones. Nesting is illegal but must still be visible to the rules that
// report it.
func (t *AnnotationTree) AllSegments() []*Segment {
	var out []*Segment
	var walk func(segs []*Segment)
	walk = func(segs []*Segment) {
		for _, s := range segs {
			out = append(out, s)
			walk(s.Children)
		}
	}
	walk(t.Segments)
	return out
}

// Segment returns the segment with the given id, or nil.
func (t *AnnotationTree) Segment(id string) *Segment {
	for _, s := range t.AllSegments() {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SegmentIDs returns the ids of all segments in document order, skipping
// segments without an id.
func (t *AnnotationTree) SegmentIDs() []string {
	var ids []string
	for _, s := range t.AllSegments() {
		if s.ID != "" {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
