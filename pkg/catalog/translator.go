// Package catalog translates the action provider's OpenAPI document into the
// tool-definition list the assistant runtime consumes, and resolves tool
// names back to action ids during a run.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/relay/internal/logging"
	"github.com/aretw0/relay/pkg/domain"
)

// Paths of the form /api/v1/exposed/{id}/execute/ with a post operation are
// the executable actions; everything else in the document is ignored.
const (
	exposedPrefix = "/api/v1/exposed/"
	exposedSuffix = "/execute/"
)

// SchemaSource provides the raw OpenAPI document. *actions.Client satisfies it.
type SchemaSource interface {
	OpenAPIDocument(ctx context.Context) ([]byte, error)
}

// Translator converts the provider's schema into tool definitions.
type Translator struct {
	source SchemaSource
	logger *slog.Logger
}

// Option configures the Translator.
type Option func(*Translator)

// WithLogger sets a structured logger for skipped-entry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// NewTranslator creates a Translator reading from the given source.
func NewTranslator(source SchemaSource, opts ...Option) *Translator {
	t := &Translator{
		source: source,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FetchAndTranslate retrieves the schema document and translates it.
// Fetch or parse failures abort the whole pass; individually malformed
// entries are logged and skipped.
func (t *Translator) FetchAndTranslate(ctx context.Context) ([]domain.ToolDefinition, error) {
	doc, err := t.source.OpenAPIDocument(ctx)
	if err != nil {
		return nil, err
	}
	return t.Translate(doc)
}

// Translate converts a raw OpenAPI document into tool definitions, in stable
// path order. Order carries no meaning downstream; stability just keeps runs
// reproducible.
func (t *Translator) Translate(data []byte) ([]domain.ToolDefinition, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &domain.SchemaFetchError{Err: err}
	}

	paths := make([]string, 0)
	for path := range doc.Paths.Map() {
		if strings.HasPrefix(path, exposedPrefix) && strings.HasSuffix(path, exposedSuffix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	defs := make([]domain.ToolDefinition, 0, len(paths))
	seen := make(map[string]string, len(paths))

	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil || item.Post == nil {
			continue
		}

		name := item.Post.OperationID
		if name == "" {
			t.logger.Warn("skipping action without operation id", "path", path)
			continue
		}

		actionID := actionIDFromPath(path)
		if actionID == "" {
			t.logger.Warn("skipping action without id segment", "path", path)
			continue
		}

		params, ok := t.extractParameters(path, item.Post)
		if !ok {
			continue
		}

		// The assistant dispatches purely by name, so a duplicate is a
		// catalog defect upstream. The resolver will always pick the first.
		if prev, dup := seen[name]; dup {
			t.logger.Warn("duplicate tool name in catalog", "name", name, "action_id", actionID, "first_action_id", prev)
		} else {
			seen[name] = actionID
		}

		defs = append(defs, domain.ToolDefinition{
			Name:       name,
			ActionID:   actionID,
			Parameters: params,
		})
	}

	return defs, nil
}

// extractParameters flattens the request-body schema into the tool parameter
// contract. No request body means an empty object schema. A declared body
// whose schema cannot be resolved is a shape defect: the entry is skipped so
// one bad action does not sink the catalog.
func (t *Translator) extractParameters(path string, op *openapi3.Operation) (domain.ParameterSchema, bool) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return domain.EmptyParameters(), true
	}

	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		t.logger.Warn("skipping action with unresolvable parameter schema", "path", path)
		return domain.ParameterSchema{}, false
	}

	schema := media.Schema.Value

	typ := "object"
	if schema.Type != nil && len(*schema.Type) > 0 {
		typ = (*schema.Type)[0]
	}

	props := make(map[string]any, len(schema.Properties))
	for propName, ref := range schema.Properties {
		raw, err := json.Marshal(ref)
		if err != nil {
			t.logger.Warn("skipping action with unserializable property", "path", path, "property", propName, "err", err)
			return domain.ParameterSchema{}, false
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			t.logger.Warn("skipping action with unserializable property", "path", path, "property", propName, "err", err)
			return domain.ParameterSchema{}, false
		}
		props[propName] = v
	}

	return domain.ParameterSchema{
		Type:       typ,
		Properties: props,
		Required:   schema.Required,
	}, true
}

// actionIDFromPath pulls the id segment out of /api/v1/exposed/{id}/execute/.
func actionIDFromPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 4 {
		return parts[4]
	}
	return ""
}
