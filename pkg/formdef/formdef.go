// Package formdef declares the site's forms in an embedded OpenAPI document
// and lowers each operation's request schema into the pkg/forms field model:
// the required list becomes required rules, pattern/format constraints become
// pattern rules, minLength becomes a length rule, and enums become option
// lists. Operations that cannot be lowered are skipped silently — a missing
// form is feature absence, not a fatal error — with a diagnostic log line.
package formdef

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/pkg/forms"
)

//go:embed forms.yaml
var defaultDocument []byte

// Operation extension keys.
const (
	extSubmitLabel  = "x-submit-label"
	extDelayMS      = "x-processing-delay-ms"
	extMailSubject  = "x-mail-subject"
	extMailBody     = "x-mail-body"
	extOrder        = "x-order"
	extPlaceholder  = "x-placeholder"
	extMultiline    = "x-multiline"
	extErrorMessage = "x-error-message"
)

// emailPattern is applied when a property declares format email without an
// explicit pattern.
const emailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

const defaultProcessingDelay = 800 * time.Millisecond

// ErrNoForms signals a document from which no form could be lowered.
var ErrNoForms = errors.New("formdef: document contains no usable forms")

// Loader parses form-definition documents.
type Loader struct {
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New constructs a Loader.
func New(options ...Option) *Loader {
	l := &Loader{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load parses the embedded site document.
func (l *Loader) Load(ctx context.Context) ([]forms.Definition, error) {
	return l.LoadDocument(ctx, defaultDocument)
}

// LoadDocument parses an OpenAPI payload and lowers every POST operation into
// a form definition, ordered by path.
func (l *Loader) LoadDocument(ctx context.Context, raw []byte) ([]forms.Definition, error) {
	if len(raw) == 0 {
		return nil, errors.New("formdef: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("formdef: load document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, ErrNoForms
	}

	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var defs []forms.Definition
	for _, path := range paths {
		item := doc.Paths.Map()[path]
		if item == nil || item.Post == nil {
			continue
		}
		def, ok := l.lowerOperation(path, item.Post)
		if !ok {
			continue
		}
		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return nil, ErrNoForms
	}
	return defs, nil
}

// ByID returns the definition with the given operation id.
func ByID(defs []forms.Definition, id string) (forms.Definition, bool) {
	for _, def := range defs {
		if def.ID == id {
			return def, true
		}
	}
	return forms.Definition{}, false
}

func (l *Loader) lowerOperation(path string, op *openapi3.Operation) (forms.Definition, bool) {
	schema := requestSchema(op)
	if schema == nil || len(schema.Properties) == 0 {
		l.logger.Warn("form skipped: operation has no request properties",
			zap.String("path", path))
		return forms.Definition{}, false
	}

	subject, _ := stringExtension(op.Extensions, extMailSubject)
	body, _ := stringExtension(op.Extensions, extMailBody)
	if subject == "" || body == "" {
		l.logger.Warn("form skipped: operation is missing mail templates",
			zap.String("path", path))
		return forms.Definition{}, false
	}

	def := forms.Definition{
		ID:              op.OperationID,
		Title:           op.Summary,
		SubjectTemplate: subject,
		BodyTemplate:    body,
		ProcessingDelay: defaultProcessingDelay,
		Fields:          lowerFields(schema),
	}
	if def.ID == "" {
		def.ID = "post:" + path
	}
	if label, ok := stringExtension(op.Extensions, extSubmitLabel); ok {
		def.SubmitLabel = label
	}
	if ms, ok := intExtension(op.Extensions, extDelayMS); ok && ms > 0 {
		def.ProcessingDelay = time.Duration(ms) * time.Millisecond
	}

	if len(def.Fields) == 0 {
		l.logger.Warn("form skipped: no fields survived lowering",
			zap.String("path", path))
		return forms.Definition{}, false
	}
	return def, true
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := op.RequestBody.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range op.RequestBody.Value.Content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func lowerFields(schema *openapi3.Schema) []forms.Field {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make([]forms.Field, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		fields = append(fields, lowerField(name, ref.Value, required[name]))
	}

	sort.SliceStable(fields, func(i, j int) bool {
		oi, oj := fieldOrder(schema.Properties[fields[i].Name].Value), fieldOrder(schema.Properties[fields[j].Name].Value)
		if oi != oj {
			return oi < oj
		}
		return fields[i].Name < fields[j].Name
	})
	return fields
}

func lowerField(name string, prop *openapi3.Schema, required bool) forms.Field {
	field := forms.Field{
		Name:  name,
		Label: prop.Title,
	}
	if field.Label == "" {
		field.Label = name
	}
	if placeholder, ok := stringExtension(prop.Extensions, extPlaceholder); ok {
		field.Placeholder = placeholder
	}
	if multiline, ok := boolExtension(prop.Extensions, extMultiline); ok {
		field.Multiline = multiline
	}

	if required {
		field.Rules = append(field.Rules, forms.Rule{Kind: forms.RuleRequired})
	}

	pattern := prop.Pattern
	if pattern == "" && prop.Format == "email" {
		pattern = emailPattern
	}
	if pattern != "" {
		params := map[string]string{forms.ParamPattern: pattern}
		if msg, ok := stringExtension(prop.Extensions, extErrorMessage); ok {
			params[forms.ParamMessage] = msg
		}
		field.Rules = append(field.Rules, forms.Rule{Kind: forms.RulePattern, Params: params})
	}

	if prop.MinLength > 0 {
		field.Rules = append(field.Rules, forms.Rule{
			Kind:   forms.RuleMinLength,
			Params: map[string]string{forms.ParamValue: fmt.Sprintf("%d", prop.MinLength)},
		})
	}

	if len(prop.Enum) > 0 {
		field.Options = make([]string, 0, len(prop.Enum))
		for _, option := range prop.Enum {
			field.Options = append(field.Options, fmt.Sprint(option))
		}
		field.Rules = append(field.Rules, forms.Rule{Kind: forms.RuleOneOf})
	}

	return field
}

func fieldOrder(prop *openapi3.Schema) int {
	if prop == nil {
		return 1 << 20
	}
	if order, ok := intExtension(prop.Extensions, extOrder); ok {
		return order
	}
	return 1 << 20
}

func stringExtension(ext map[string]any, key string) (string, bool) {
	if value, ok := ext[key].(string); ok && value != "" {
		return value, true
	}
	return "", false
}

func boolExtension(ext map[string]any, key string) (bool, bool) {
	if value, ok := ext[key].(bool); ok {
		return value, true
	}
	return false, false
}

func intExtension(ext map[string]any, key string) (int, bool) {
	switch value := ext[key].(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	default:
		return 0, false
	}
}
