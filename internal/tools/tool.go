package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Definition describes a single callable tool: a unique name, a
// human-readable description, a JSON schema for its parameters, and the
// executor that runs it.
//
// Definitions provide metadata and execution behind one type so the
// registry can store heterogeneous tools while each executor keeps
// compile-time type safety for its own input (see New).
type Definition struct {
	name        string
	description string
	parameters  *jsonschema.Schema

	// handler is the type-erased execution function.
	handler func(context.Context, map[string]any) (any, error)
}

// Name returns the tool's unique identifier.
func (d *Definition) Name() string {
	return d.name
}

// Description returns the tool's functionality description.
func (d *Definition) Description() string {
	return d.description
}

// Parameters returns the JSON schema describing the tool's input.
func (d *Definition) Parameters() *jsonschema.Schema {
	return d.parameters
}

// Execute runs the tool with the given parameters.
// Parameter validation happens inside the typed handler: parameters
// that do not fit the declared input shape fail with a ToolError.
func (d *Definition) Execute(ctx context.Context, params map[string]any) (any, error) {
	return d.handler(ctx, params)
}

// New creates a tool definition with type-safe input handling.
//
// The parameter schema is derived from the In struct's json and
// jsonschema_description tags. Type erasure is performed internally so the registry
// can store tools with different input types; incoming parameter maps
// are converted via a JSON round-trip, mirroring how the backend
// delivers tool arguments.
func New[In any](
	name string,
	description string,
	handler func(context.Context, In) (any, error),
) (*Definition, error) {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to derive parameter schema for tool %q: %w", name, err)
	}

	erased := func(ctx context.Context, params map[string]any) (any, error) {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, &ToolError{
				ErrorType: "InvalidArguments",
				Message:   fmt.Sprintf("failed to encode parameters: %v", err),
			}
		}

		var input In
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, &ToolError{
				ErrorType: "InvalidArguments",
				Message:   fmt.Sprintf("parameters do not match tool %q input shape: %v", name, err),
			}
		}
		return handler(ctx, input)
	}

	return &Definition{
		name:        name,
		description: description,
		parameters:  schema,
		handler:     erased,
	}, nil
}
