// Package solver runs satisfiability queries against an external SMT
// solver and reports the outcome as an explicit value. A query that the
// solver cannot decide is a result, not an error; errors are reserved for
// the solver being unreachable or misbehaving.
package solver

import (
	"context"
	"fmt"
)

// Outcome is the solver's answer to a satisfiability query.
type Outcome string

const (
	// Unsat means the asserted program has no model.
	Unsat Outcome = "unsat"
	// Sat means the solver found a model.
	Sat Outcome = "sat"
	// Unknown means the solver gave up within its budget.
	Unknown Outcome = "unknown"
)

// Result is the outcome of one query together with the solver's raw
// output, kept for diagnostics.
type Result struct {
	Outcome Outcome
	Raw     string
}

// Prover answers SMT-LIB 2 satisfiability queries.
//
// Prove returns an error only when no verdict could be obtained at all
// (binary missing, timeout, garbled output). An Unknown outcome is a
// successful query.
type Prover interface {
	Prove(ctx context.Context, program string) (Result, error)
}

// SolverError reports a failed interaction with the external solver.
type SolverError struct {
	Code    SolverErrorCode
	Message string
	Output  string
	Err     error
}

// SolverErrorCode categorizes solver failures.
type SolverErrorCode string

const (
	// ErrCodeUnavailable indicates the solver binary could not be run.
	ErrCodeUnavailable SolverErrorCode = "SOLVER_UNAVAILABLE"

	// ErrCodeTimeout indicates the query exceeded its time budget.
	ErrCodeTimeout SolverErrorCode = "SOLVER_TIMEOUT"

	// ErrCodeBadOutput indicates the solver produced no recognizable verdict.
	ErrCodeBadOutput SolverErrorCode = "SOLVER_BAD_OUTPUT"
)

func (e *SolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SolverError) Unwrap() error { return e.Err }
