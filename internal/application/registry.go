package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"

	"azuredevops-mcp-server/internal/domain"
	"azuredevops-mcp-server/internal/infrastructure"
)

// HandlerFunc executes a tool operation against the Azure DevOps connection.
// The args map has already been validated against the tool's input schema
// when a handler is invoked through the dispatcher.
type HandlerFunc func(ctx context.Context, conn *infrastructure.Connection, args map[string]interface{}) (interface{}, error)

// ToolDescriptor pairs a tool's public definition, its compiled argument
// schema, and its handler. The three are always assembled as one unit at
// registration, so a handler can never be called with arguments validated
// against some other tool's schema.
type ToolDescriptor struct {
	Definition domain.ToolDefinition
	Handler    HandlerFunc
	schema     *jsonschema.Schema
}

// ValidateArguments runs the tool's compiled schema against the raw
// arguments. On failure it returns a Validation DomainError whose message
// is prefixed "Invalid input:" and enumerates every violated field, not
// just the first; the caller is an automated agent that decodes the full
// list to decide recovery.
func (d *ToolDescriptor) ValidateArguments(args map[string]interface{}) *domain.DomainError {
	result := d.schema.Validate(args)
	if result.IsValid() {
		return nil
	}

	violations := collectValidationErrors(result)
	message := "Invalid input: " + strings.Join(violations, "; ")
	return domain.NewValidationError(message, violations)
}

// collectValidationErrors flattens a validation result into one line per
// violation, sorted for deterministic output.
func collectValidationErrors(result *jsonschema.EvaluationResult) []string {
	var violations []string

	var walk func(list jsonschema.List)
	walk = func(list jsonschema.List) {
		if !list.Valid {
			location := strings.TrimPrefix(list.InstanceLocation, "/")
			if location == "" {
				location = "(root)"
			}
			for _, message := range list.Errors {
				violations = append(violations, fmt.Sprintf("%s: %s", location, message))
			}
		}
		for _, detail := range list.Details {
			walk(detail)
		}
	}
	walk(*result.ToList())

	sort.Strings(violations)
	return violations
}

// Registry is the static table mapping tool names to descriptors.
// It is built once at startup and never mutated afterwards, which makes it
// safe to share across concurrent dispatcher invocations without locking.
type Registry struct {
	tools map[string]*ToolDescriptor
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*ToolDescriptor)}
}

// Register adds a tool to the registry, compiling its input schema.
// Returns an error for empty or duplicate names and for schemas that do
// not compile; registration failures are programming errors surfaced at
// startup, not at call time.
func (r *Registry) Register(definition domain.ToolDefinition, handler HandlerFunc) error {
	if definition.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if handler == nil {
		return fmt.Errorf("tool %q has no handler", definition.Name)
	}
	if _, exists := r.tools[definition.Name]; exists {
		return fmt.Errorf("tool %q already registered", definition.Name)
	}

	schema, err := compileSchema(definition.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %q has an invalid input schema: %w", definition.Name, err)
	}

	r.tools[definition.Name] = &ToolDescriptor{
		Definition: definition,
		Handler:    handler,
		schema:     schema,
	}
	r.order = append(r.order, definition.Name)
	return nil
}

// Lookup resolves a tool descriptor by name.
func (r *Registry) Lookup(name string) (*ToolDescriptor, bool) {
	descriptor, ok := r.tools[name]
	return descriptor, ok
}

// ListTools returns the public definitions of all registered tools in
// registration order. Used for MCP tool discovery (tools/list).
func (r *Registry) ListTools() []domain.ToolDefinition {
	definitions := make([]domain.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		definitions = append(definitions, r.tools[name].Definition)
	}
	return definitions
}

// compileSchema compiles a tool input schema. Unknown extra fields are
// rejected unless a definition explicitly opts out, so that misspelled
// argument names fail loudly instead of being silently dropped.
func compileSchema(schema domain.JSONSchema) (*jsonschema.Schema, error) {
	if schema.AdditionalProperties == nil {
		reject := false
		schema.AdditionalProperties = &reject
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	return compiler.Compile(data)
}
