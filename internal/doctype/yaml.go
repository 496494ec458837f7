package doctype

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// configSchema constrains the YAML document type table. Catching shape
// errors here beats failing at first lookup in production.
const configSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "object",
    "required": ["name", "required_fields", "patterns"],
    "additionalProperties": false,
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "required_fields": {
        "type": "array",
        "minItems": 1,
        "items": {"type": "string", "minLength": 1}
      },
      "optional_fields": {
        "type": "array",
        "items": {"type": "string", "minLength": 1}
      },
      "patterns": {
        "type": "object",
        "minProperties": 1,
        "additionalProperties": {"type": "string", "minLength": 1}
      }
    }
  }
}`

type typeConfig struct {
	Name           string            `yaml:"name"`
	RequiredFields []string          `yaml:"required_fields"`
	OptionalFields []string          `yaml:"optional_fields"`
	Patterns       map[string]string `yaml:"patterns"`
}

// LoadYAML builds a registry from a YAML file, replacing the built-in
// table. The file is validated against a JSON Schema before any pattern
// is compiled.
func LoadYAML(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document types: %w", err)
	}

	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse document types: %w", err)
	}

	schema, err := jsonschema.CompileString("doctypes.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("compile doctype schema: %w", err)
	}
	if err := schema.Validate(toJSONValue(generic)); err != nil {
		return nil, fmt.Errorf("invalid document type config: %w", err)
	}

	var cfg map[string]typeConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse document types: %w", err)
	}

	keys := make([]string, 0, len(cfg))
	for key := range cfg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	defs := make([]Definition, 0, len(cfg))
	for _, key := range keys {
		def, err := buildDefinition(key, cfg[key])
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return NewRegistry(defs...)
}

func buildDefinition(key string, cfg typeConfig) (Definition, error) {
	def := Definition{
		Key:      key,
		Name:     cfg.Name,
		Required: cfg.RequiredFields,
		Optional: cfg.OptionalFields,
		Patterns: make(map[string]*regexp.Regexp, len(cfg.Patterns)),
	}
	for field, expr := range cfg.Patterns {
		// Field patterns match case-insensitively unless the author set
		// their own flags.
		if !strings.HasPrefix(expr, "(?") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return Definition{}, fmt.Errorf("document type %q field %q: %w", key, field, err)
		}
		def.Patterns[field] = re
	}
	return def, nil
}

// toJSONValue converts yaml-decoded values into the plain JSON value
// types the schema validator expects.
func toJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = toJSONValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = toJSONValue(val)
		}
		return out
	case int:
		return float64(t)
	default:
		return v
	}
}
