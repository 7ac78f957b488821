// Package tools provides a metadata-driven registry for the wiki MCP tools.
// Tools are defined declaratively and registered through type-safe handlers.
package tools

// ToolSpec defines a tool's metadata for declarative registration.
// Each spec maps to a wiki.Client MCP method with matching Args/Result types.
type ToolSpec struct {
	// Name is the MCP tool name (e.g., "wiki_search")
	Name string

	// Method is the client method name without the MCP suffix (e.g., "Search")
	Method string

	// Description is the tool description shown to LLMs
	Description string

	// Title is the human-readable tool title for annotations
	Title string

	// Category groups tools logically (discovery, page, structure, infobox)
	Category string

	// ReadOnly indicates the tool doesn't modify wiki state
	ReadOnly bool

	// Destructive indicates the tool can delete or overwrite data
	Destructive bool

	// Idempotent indicates repeated calls have the same effect
	Idempotent bool

	// OpenWorld indicates the tool accesses external resources
	OpenWorld bool
}

// ToolsByCategory returns the tools in the given category, in registration order.
func ToolsByCategory(category string) []ToolSpec {
	var out []ToolSpec
	for _, spec := range AllTools {
		if spec.Category == category {
			out = append(out, spec)
		}
	}
	return out
}

// Categories returns the distinct tool categories in registration order.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, spec := range AllTools {
		if !seen[spec.Category] {
			seen[spec.Category] = true
			out = append(out, spec.Category)
		}
	}
	return out
}

// ptr is a helper to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
