package shelf

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML returns the YAML document of Manifest(v).
func (r *Registry) ToYAML(ctx context.Context, v any) ([]byte, error) {
	rec, err := r.Manifest(ctx, v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(rec)
}

// FromYAML parses a YAML document and constructs an instance of t from it.
func (r *Registry) FromYAML(ctx context.Context, t *Type, data []byte) (any, error) {
	raw, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return r.Construct(ctx, t, raw)
}

// DecodeYAML parses a YAML document into JSON-compatible data: mappings
// become map[string]any and sequences []any.
func DecodeYAML(data []byte) (any, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, Issues{newIssue(pointer{}, CodeParseError, err, nil)}
	}
	return yamlNormalizeValue(node), nil
}

func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
