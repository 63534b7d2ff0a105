package shelf

import (
	"fmt"
	"maps"
	"slices"
)

// VersionTag is one schema-level version tag found in persisted data.
type VersionTag struct {
	Path    string // JSON Pointer of the tagged record.
	Version string
}

// VersionTags lists every record in data that carries a version tag, in
// document order with object keys sorted.
func VersionTags(data any) []VersionTag {
	var out []VersionTag
	walkTags(data, pointer{}, &out)
	return out
}

func walkTags(v any, p pointer, out *[]VersionTag) {
	switch t := v.(type) {
	case map[string]any:
		if tag, ok := t[VersionKey]; ok && tag != nil {
			*out = append(*out, VersionTag{Path: p.String(), Version: fmt.Sprint(tag)})
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			walkTags(t[k], p.Field(k), out)
		}
	case []any:
		for i, e := range t {
			walkTags(e, p.Index(i), out)
		}
	}
}
