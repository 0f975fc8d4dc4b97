package verify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Handler inspects or enriches a verification request. Implementations
// append findings and may attach parsed forms to artifacts; they must not
// remove anything another handler added.
type Handler interface {
	// Name identifies the handler in findings and logs.
	Name() string
	// Handle processes the request. A returned error marks the handler's
	// aspect as failing; it does not stop the chain.
	Handle(ctx context.Context, req *Request) error
}

// Chain runs handlers in order with fault containment: a handler that
// returns an error or panics contributes a failing finding, and the rest
// of the chain still runs. A chain stops early only on context
// cancellation or when a handler calls Request.Stop.
type Chain struct {
	name     string
	handlers []Handler
}

// NewChain builds a named composite over the given handlers.
func NewChain(name string, handlers ...Handler) *Chain {
	return &Chain{name: name, handlers: handlers}
}

// Append adds handlers to the end of the chain.
func (c *Chain) Append(handlers ...Handler) {
	c.handlers = append(c.handlers, handlers...)
}

// Name implements Handler, so chains nest.
func (c *Chain) Name() string { return c.name }

// Handle runs every handler against the request, recording each one in
// the request's audit trail.
func (c *Chain) Handle(ctx context.Context, req *Request) error {
	for _, h := range c.handlers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("chain %s interrupted: %w", c.name, err)
		}
		if req.Stopped() {
			return nil
		}
		req.ExecutedChecks = append(req.ExecutedChecks, h.Name())
		runHandler(ctx, h, req)
	}
	return nil
}

// runHandler executes one handler, converting errors and panics into
// failing findings.
func runHandler(ctx context.Context, h Handler, req *Request) {
	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panicked: %v", r)
			}
		}()
		return h.Handle(ctx, req)
	}()
	slog.Debug("handler finished",
		"handler", h.Name(),
		"token", req.Token,
		"duration", time.Since(start),
		"failed", err != nil)
	if err != nil {
		req.AddFinding(Finding{
			Checker: h.Name(),
			Valid:   false,
			Message: fmt.Sprintf("checker failed: %v", err),
		})
	}
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	ID string
	Fn func(ctx context.Context, req *Request) error
}

func (h HandlerFunc) Name() string { return h.ID }

func (h HandlerFunc) Handle(ctx context.Context, req *Request) error {
	return h.Fn(ctx, req)
}
