package catalog

import "github.com/aretw0/relay/pkg/domain"

// Resolve finds the tool definition registered under name. Exact name
// equality, first match wins. The second return is false when nothing
// matches; the run loop logs and skips such calls rather than aborting
// the batch.
func Resolve(name string, defs []domain.ToolDefinition) (domain.ToolDefinition, bool) {
	for _, def := range defs {
		if def.Name == name {
			return def, true
		}
	}
	return domain.ToolDefinition{}, false
}
