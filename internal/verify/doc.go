// Package verify is the orchestration core of the linter: a verification
// request carries a source document and the artifacts extracted from it
// through a chain of handlers, each of which appends findings. Handlers
// never abort the chain; a misbehaving handler is converted into a failing
// finding and the remaining handlers still run.
package verify
