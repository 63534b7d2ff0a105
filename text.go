package shelf

import (
	"context"

	json "github.com/goccy/go-json"
)

// ToJSON returns the JSON text of Manifest(v).
func (r *Registry) ToJSON(ctx context.Context, v any) (string, error) {
	b, err := r.MarshalJSON(ctx, v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalJSON returns the JSON encoding of Manifest(v).
func (r *Registry) MarshalJSON(ctx context.Context, v any) ([]byte, error) {
	rec, err := r.Manifest(ctx, v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// FromJSON parses JSON text and constructs an instance of t from it.
func (r *Registry) FromJSON(ctx context.Context, t *Type, data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Issues{newIssue(pointer{}, CodeParseError, err, nil)}
	}
	return r.Construct(ctx, t, raw)
}

// FromJSON parses JSON text and constructs t using the default registry.
func FromJSON(ctx context.Context, t *Type, data []byte) (any, error) {
	return defaultRegistry.FromJSON(ctx, t, data)
}
