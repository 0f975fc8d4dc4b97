// Package model defines the artifact model shared by all verification
// stages: the argument graph (arguments with premise-conclusion sequences,
// free-standing propositions, dialectical relations) and the annotation
// tree (labeled text segments with cross-references into the graph).
//
// The model is deliberately passive. Parsers in internal/argdown and
// internal/anno build it; the rule engine, coherence checker and logic
// subsystem only read it.
package model
