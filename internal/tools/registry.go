package tools

import (
	"fmt"
	"slices"

	"github.com/venturely/venturely/internal/log"
)

// roleTools maps each platform role to the ordered list of tool names
// it may invoke. This is the single source of truth for role gating.
//
// Every name listed here must resolve to a registered tool; NewRegistry
// verifies this at construction so a dangling name is a startup error,
// never a runtime lookup miss.
var roleTools = map[string][]string{
	"entrepreneur": {"financial_calculator", "data_analyzer", "chart_generator", "document_processor"},
	"investor":     {"financial_calculator", "data_analyzer", "chart_generator"},
	"lender":       {"financial_calculator", "document_processor", "data_analyzer"},
	"grantor":      {"document_processor", "data_analyzer"},
	"partner":      {"data_analyzer", "chart_generator"},
}

// Registry holds the tool catalog and its role mapping.
//
// Construction is eager and total: every built-in executor is
// instantiated and registered before the role mapping is verified.
// After construction the registry is safe for concurrent reads;
// Register is provided for extensibility and must not race with reads.
type Registry struct {
	definitions map[string]*Definition
	order       []string
	roles       map[string][]string
	logger      log.Logger
}

// NewRegistry builds the registry with every built-in tool and the
// role mapping, verifying referential integrity.
func NewRegistry(logger log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	r := &Registry{
		definitions: make(map[string]*Definition),
		roles:       roleTools,
		logger:      logger,
	}

	builders := []func() (*Definition, error){
		NewFinancialCalculator,
		NewDataAnalyzer,
		NewDocumentProcessor,
		NewChartGenerator,
	}
	for _, build := range builders {
		def, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to build tool: %w", err)
		}
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}

	// Integrity check: every role-mapped name must exist.
	for role, names := range r.roles {
		for _, name := range names {
			if _, ok := r.definitions[name]; !ok {
				return nil, fmt.Errorf("role %q references unknown tool %q", role, name)
			}
		}
	}

	logger.Debug("tool registry built", "tools", len(r.definitions), "roles", len(r.roles))
	return r, nil
}

// Register adds a tool definition. Duplicate names are rejected.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return fmt.Errorf("cannot register nil tool definition")
	}
	if _, exists := r.definitions[def.Name()]; exists {
		return fmt.Errorf("tool %q is already registered", def.Name())
	}

	r.definitions[def.Name()] = def
	r.order = append(r.order, def.Name())
	return nil
}

// Get returns the tool definition for name.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// All returns every registered tool in registration order.
func (r *Registry) All() []*Definition {
	defs := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.definitions[name])
	}
	return defs
}

// ForUserType returns the ordered, deduplicated tool definitions mapped
// to a role. Unknown roles yield an empty list rather than failing.
func (r *Registry) ForUserType(role string) []*Definition {
	names, ok := r.roles[role]
	if !ok {
		r.logger.Debug("no tools mapped for role", "role", role)
		return []*Definition{}
	}

	defs := make([]*Definition, 0, len(names))
	seen := make([]string, 0, len(names))
	for _, name := range names {
		if slices.Contains(seen, name) {
			continue
		}
		seen = append(seen, name)
		defs = append(defs, r.definitions[name])
	}
	return defs
}

// Roles returns every role with a tool mapping, sorted.
func (r *Registry) Roles() []string {
	roles := make([]string, 0, len(r.roles))
	for role := range r.roles {
		roles = append(roles, role)
	}
	slices.Sort(roles)
	return roles
}
