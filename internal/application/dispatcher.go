package application

import (
	"context"
	"encoding/json"
	"fmt"

	"azuredevops-mcp-server/internal/domain"
	"azuredevops-mcp-server/internal/infrastructure"
)

// Dispatcher is the single entry point for tool invocation. It resolves
// the descriptor, validates arguments, invokes the handler, and converts
// every possible failure mode into a well-formed tool response. No
// failure, including a panic inside a handler, propagates past Invoke:
// one broken tool call must never take down the server handling all
// other tool calls.
type Dispatcher struct {
	registry *Registry
	logger   *StructuredLogger
}

// NewDispatcher creates a dispatcher over a fully built registry.
func NewDispatcher(registry *Registry, logger *StructuredLogger) *Dispatcher {
	if logger == nil {
		logger = NewStructuredLogger()
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Invoke executes a single tool call and always returns a response.
// Safe for concurrent and repeated use: each invocation is independent
// and touches no shared mutable state beyond the read-only registry.
func (d *Dispatcher) Invoke(ctx context.Context, conn *infrastructure.Connection, req *domain.ToolRequest) (resp *domain.ToolResponse) {
	// Outermost safety boundary: a panicking handler is a programming
	// fault, reported to the caller as a generic failure.
	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.LogError("panic during tool invocation", nil, map[string]interface{}{
				"tool":  req.Name,
				"panic": fmt.Sprint(recovered),
			})
			resp = domain.ErrorResponse(renderFailure(domain.NewGenericError(fmt.Sprint(recovered))))
		}
	}()

	descriptor, ok := d.registry.Lookup(req.Name)
	if !ok {
		return domain.ErrorResponse(fmt.Sprintf("Unknown tool: %s", req.Name))
	}

	// Missing arguments object is rejected before schema validation,
	// even for tools whose schema would accept an empty object.
	if req.Arguments == nil {
		return domain.ErrorResponse("Arguments are required")
	}

	if verr := descriptor.ValidateArguments(req.Arguments); verr != nil {
		return domain.ErrorResponse(renderFailure(verr))
	}

	result, err := descriptor.Handler(ctx, conn, req.Arguments)
	if err != nil {
		d.logger.LogError("tool execution failed", err, map[string]interface{}{
			"tool": req.Name,
		})
		return domain.ErrorResponse(renderFailure(domain.Classify(err)))
	}

	text, err := serializeResult(result)
	if err != nil {
		return domain.ErrorResponse(renderFailure(domain.NewGenericError("failed to serialize result: " + err.Error())))
	}
	return domain.TextResponse(text)
}

// renderFailure renders a classified failure as "<Label>: <message>".
// This is the only place failure messages are formatted for the caller.
func renderFailure(e *domain.DomainError) string {
	return e.Kind.Label() + ": " + e.Message
}

// serializeResult converts a handler result into the response text.
// Structured results are pretty-printed as indented JSON; plain strings
// (e.g. file contents) pass through unchanged.
func serializeResult(result interface{}) (string, error) {
	if result == nil {
		return "{}", nil
	}
	if text, ok := result.(string); ok {
		return text, nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
