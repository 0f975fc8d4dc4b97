// Package config loads and validates arglint configuration. Files are
// CUE; they are unified with the embedded schema, so unknown fields and
// type mismatches are rejected with positions, and omitted fields take
// the schema's defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/arglint/arglint/internal/logic"
	"github.com/arglint/arglint/internal/rules"
)

//go:embed schema.cue
var schemaCUE string

// Keys names the inline-metadata entries the rule engine reads.
type Keys struct {
	From          string `json:"from"`
	Formalization string `json:"formalization"`
	Declarations  string `json:"declarations"`
	AnnotationIDs string `json:"annotation_ids"`
}

// Solver configures the external decision procedure.
type Solver struct {
	Command        string `json:"command"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Config is the resolved configuration of one arglint invocation.
type Config struct {
	Keys   Keys   `json:"keys"`
	Solver Solver `json:"solver"`

	// Dimensions restricts a run to the named dimensions. Empty means
	// every dimension of the profile's tables.
	Dimensions []string `json:"dimensions"`
}

// Default returns the canonical configuration, identical to loading an
// empty file.
func Default() Config {
	return Config{
		Keys: Keys{
			From:          "from",
			Formalization: "formalization",
			Declarations:  "declarations",
			AnnotationIDs: "annotation_ids",
		},
		Solver: Solver{
			Command:        "z3",
			TimeoutSeconds: 10,
		},
		Dimensions: []string{},
	}
}

// Load reads and validates a CUE configuration file. An empty path
// yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates configuration bytes against the embedded schema.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("internal schema error: %w", err)
	}
	schema = schema.LookupPath(cue.ParsePath("#Config"))

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", filename, err)
	}

	unified := schema.Unify(file)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("validating %s: %w", filename, err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return cfg, nil
}

// RuleConfig converts the configuration into the rule engine's form.
func (c Config) RuleConfig() rules.Config {
	return rules.Config{Keys: logic.Keys{
		Formalization: c.Keys.Formalization,
		Declarations:  c.Keys.Declarations,
		From:          c.Keys.From,
	}}
}

// SolverTimeout returns the solver budget as a duration.
func (c Config) SolverTimeout() time.Duration {
	return time.Duration(c.Solver.TimeoutSeconds) * time.Second
}
