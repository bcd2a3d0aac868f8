package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/common"
)

// GeneralSchema is used for unknown schema names.
const GeneralSchema = constants.GeneralSchema

// ScoredValue is a leaf of ExtractWithConfidence output.
type ScoredValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type compiledField struct {
	key   string
	spec  FieldSpec
	re    *regexp.Regexp
	label string
}

type compiledSchema struct {
	name   string
	fields []compiledField
}

// SchemaExtractor applies named or ad-hoc schemas to text. Builtin and registered
// schemas are compiled once in the constructor.
type SchemaExtractor struct {
	schemas  map[string]Schema
	compiled map[string]compiledSchema
	order    []string
	logger   *slog.Logger
}

// Option configures a SchemaExtractor.
type Option func(*schemaOptions)

type schemaOptions struct {
	extra map[string]Schema
}

// WithSchemas adds named schemas next to the builtin ones. A name that matches a
// builtin replaces it.
func WithSchemas(schemas map[string]Schema) Option {
	return func(o *schemaOptions) {
		for name, s := range schemas {
			o.extra[name] = s
		}
	}
}

func NewSchemaExtractor(logger *slog.Logger, opts ...Option) (*SchemaExtractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := schemaOptions{extra: map[string]Schema{}}
	for _, opt := range opts {
		opt(&o)
	}

	e := &SchemaExtractor{
		schemas:  builtinSchemas(),
		compiled: map[string]compiledSchema{},
		order:    append([]string(nil), builtinOrder...),
		logger:   logger,
	}
	for _, name := range sortedNames(o.extra) {
		if _, builtin := e.schemas[name]; !builtin {
			e.order = append(e.order, name)
		}
		e.schemas[name] = o.extra[name]
	}

	for name, s := range e.schemas {
		cs, err := compileSchema(name, s)
		if err != nil {
			return nil, err
		}
		e.compiled[name] = cs
	}
	logger.Debug("extract.schema.init", "schemas", len(e.order))
	return e, nil
}

var (
	defaultSchemaOnce      sync.Once
	defaultSchemaExtractor *SchemaExtractor
)

// DefaultSchemaExtractor returns the process-wide extractor over the builtin schemas.
func DefaultSchemaExtractor() *SchemaExtractor {
	defaultSchemaOnce.Do(func() {
		e, err := NewSchemaExtractor(nil)
		if err != nil {
			panic(fmt.Sprintf("builtin schemas: %v", err))
		}
		defaultSchemaExtractor = e
	})
	return defaultSchemaExtractor
}

// AvailableSchemas lists schema names, builtins first in their fixed order.
func (e *SchemaExtractor) AvailableSchemas() []string {
	return append([]string(nil), e.order...)
}

// GetSchema returns a copy of the named schema.
func (e *SchemaExtractor) GetSchema(name string) (Schema, bool) {
	s, ok := e.schemas[name]
	if !ok {
		return nil, false
	}
	out := make(Schema, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, true
}

// HasSchema reports whether name is a known schema.
func (e *SchemaExtractor) HasSchema(name string) bool {
	_, ok := e.compiled[name]
	return ok
}

// Extract applies the named schema. Unknown names fall back to the general schema.
// Fields that are not found are omitted; dotted keys become nested maps.
func (e *SchemaExtractor) Extract(text, schemaName string) map[string]any {
	return e.ExtractAbove(text, schemaName, 0)
}

// ExtractAbove is Extract with leaves scoring below minConfidence dropped.
func (e *SchemaExtractor) ExtractAbove(text, schemaName string, minConfidence float64) map[string]any {
	cs := e.lookup(schemaName)
	return e.run(cs, text, func(key, value string) any { return value }, minConfidence)
}

// ExtractWithConfidence is Extract with every leaf carrying its confidence. Leaves
// scoring below minConfidence are dropped.
func (e *SchemaExtractor) ExtractWithConfidence(text, schemaName string, minConfidence float64) map[string]any {
	cs := e.lookup(schemaName)
	return e.run(cs, text, func(key, value string) any {
		return ScoredValue{Value: value, Confidence: fieldConfidence(key, value)}
	}, minConfidence)
}

// ExtractCustom validates and applies an ad-hoc schema.
func (e *SchemaExtractor) ExtractCustom(text string, schema Schema) (map[string]any, error) {
	cs, err := compileSchema("custom", schema)
	if err != nil {
		return nil, err
	}
	return e.run(cs, text, func(key, value string) any { return value }, 0), nil
}

// ValidateSchema reports whether schema can be used for extraction.
func (e *SchemaExtractor) ValidateSchema(schema Schema) bool {
	return CheckSchema(schema) == nil
}

func (e *SchemaExtractor) lookup(name string) compiledSchema {
	if cs, ok := e.compiled[name]; ok {
		return cs
	}
	e.logger.Debug("extract.schema.fallback", "schema", name, "using", GeneralSchema)
	return e.compiled[GeneralSchema]
}

func (e *SchemaExtractor) run(cs compiledSchema, text string, leaf func(key, value string) any, minConfidence float64) map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(text) == "" {
		return out
	}

	var dropped []string
	for _, f := range cs.fields {
		raw := f.match(text)
		if raw == "" {
			continue
		}
		value, ok := sanitizeValue(f.spec.Type, raw)
		if !ok {
			dropped = append(dropped, f.key)
			continue
		}
		if minConfidence > 0 && fieldConfidence(f.key, value) < minConfidence {
			dropped = append(dropped, f.key+"(confidence)")
			continue
		}
		setNested(out, f.key, leaf(f.key, value))
	}

	if len(dropped) > 0 {
		e.logger.Debug("extract.schema.sanitize", "schema", cs.name, "dropped", dropped)
	}
	e.logger.Debug("extract.schema.ok", "schema", cs.name, "fields", len(out))
	return out
}

func (f compiledField) match(text string) string {
	if f.re == nil {
		return LabelValue(text, f.label)
	}
	m := f.re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}

// setNested stores v under a dotted key, creating intermediate maps.
func setNested(out map[string]any, key string, v any) {
	parts := strings.Split(key, ".")
	cur := out
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

// CheckSchema rejects empty schemas, entries without a known type, patterns that
// do not compile and keys that are both a leaf and a group.
func CheckSchema(schema Schema) error {
	_, err := compileSchema("", schema)
	return err
}

const (
	maxKeyLength   = 128
	maxLabelLength = 128
)

func compileSchema(name string, schema Schema) (compiledSchema, error) {
	if len(schema) == 0 {
		return compiledSchema{}, common.InvalidSchemaError("schema %q has no fields", name)
	}

	v := common.NewValidator()
	for _, key := range schema.Keys() {
		spec := schema[key]
		v.Field(key+".type", spec.Type, common.Required, common.OneOf(fieldTypes...))
		v.Field("key", key, validKey, common.MaxLength(maxKeyLength))
		v.Field(key+".label", spec.Label, common.MaxLength(maxLabelLength))
	}
	if v.HasErrors() {
		return compiledSchema{}, common.InvalidSchemaError("schema %q: %s", name, v.ErrorMessage())
	}

	cs := compiledSchema{name: name, fields: make([]compiledField, 0, len(schema))}
	for _, key := range schema.Keys() {
		spec := schema[key]
		if prefix := key + "."; hasKeyWithPrefix(schema, prefix) {
			return compiledSchema{}, common.InvalidSchemaError("schema %q: %q is both a field and a group", name, key)
		}
		f := compiledField{key: key, spec: spec, label: spec.label(key)}
		if spec.Pattern != "" {
			re, err := regexp.Compile(`(?i)` + spec.Pattern)
			if err != nil {
				return compiledSchema{}, common.InvalidSchemaError("schema %q: field %q: %v", name, key, err)
			}
			f.re = re
		}
		cs.fields = append(cs.fields, f)
	}
	return cs, nil
}

func validKey(fieldName string, value interface{}) *common.ValidationError {
	key, _ := value.(string)
	for _, part := range strings.Split(key, ".") {
		if strings.TrimSpace(part) == "" {
			return &common.ValidationError{Field: fieldName, Value: value, Message: "must not have empty segments"}
		}
	}
	return nil
}

func hasKeyWithPrefix(schema Schema, prefix string) bool {
	for k := range schema {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

func sortedNames(m map[string]Schema) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
