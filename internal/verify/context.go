package verify

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ArtifactKind classifies the representation an artifact carries.
type ArtifactKind string

const (
	// KindArgdown is graph-syntax source (maps and reconstructions).
	KindArgdown ArtifactKind = "argdown"
	// KindXML is an annotated source text.
	KindXML ArtifactKind = "xml"
)

// Artifact is one extracted representation of the analyzed text: its raw
// code, the metadata found on its code fence, and, once a parser handler
// has run, the parsed form.
//
// Parsed holds *model.ArgumentGraph for KindArgdown and
// *model.AnnotationTree for KindXML; it stays nil until a parser handler
// succeeds.
type Artifact struct {
	ID       string
	Kind     ArtifactKind
	Code     string
	Metadata map[string]any
	Parsed   any
}

// Filename returns the artifact's fence metadata filename, if any.
func (a *Artifact) Filename() string {
	if a.Metadata == nil {
		return ""
	}
	s, _ := a.Metadata["filename"].(string)
	return s
}

// Finding is one handler's verdict on one aspect of the request.
type Finding struct {
	// Checker names the handler that produced the finding.
	Checker string
	// Valid reports whether the checked aspect holds.
	Valid bool
	// Message explains a failing finding. Empty when Valid.
	Message string
	// ArtifactIDs lists the artifacts the finding is about.
	ArtifactIDs []string
	// Details carries structured by-products of the check, such as
	// parsed formalizations keyed by proposition label, for reuse by
	// later handlers.
	Details map[string]any
}

// Request is the mutable state threaded through a handler chain: the
// source document, its extracted artifacts, and the findings accumulated
// so far. Findings are append-only.
type Request struct {
	// Token correlates everything recorded for one verification run.
	Token string
	// Source is the document under analysis.
	Source string
	// SourceName is an optional display name for the document.
	SourceName string

	Artifacts []*Artifact
	Findings  []Finding

	// ExecutedChecks records, in order, the names of the handlers that
	// have run against this request.
	ExecutedChecks []string

	// Shared holds intermediate results one handler computes and later
	// handlers reuse (e.g. collected formalizations). Keys are owned by
	// the handler that writes them.
	Shared map[string]any

	stopped bool
}

// NewRequest builds a request for the given source document.
func NewRequest(token, source string) *Request {
	return &Request{Token: token, Source: source, Shared: make(map[string]any)}
}

// AddFinding appends a finding to the request.
func (r *Request) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Stop asks the chain to run no further handlers. Cooperative: the
// current handler finishes, later handlers are skipped.
func (r *Request) Stop() {
	r.stopped = true
}

// Stopped reports whether a handler has asked for the chain to stop.
func (r *Request) Stopped() bool {
	return r.stopped
}

// Artifact returns the artifact with the given ID, or nil.
func (r *Request) Artifact(id string) *Artifact {
	for _, a := range r.Artifacts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Valid reports whether every finding passed.
func (r *Request) Valid() bool {
	for _, f := range r.Findings {
		if !f.Valid {
			return false
		}
	}
	return true
}

// FindingsBy returns the findings produced by the named checker.
func (r *Request) FindingsBy(checker string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Checker == checker {
			out = append(out, f)
		}
	}
	return out
}

// TokenGenerator produces run tokens. Implemented by UUIDv7Generator
// (production) and FixedGenerator (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens, so stored
// runs list in creation order. Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens, for deterministic tests.
// Safe for concurrent use. Panics when the tokens run out, to fail fast
// on test misconfiguration.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic(fmt.Sprintf("FixedGenerator: all %d tokens exhausted", len(g.tokens)))
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
