package shelf

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/reoring/shelf/version"
)

// Record is the plain JSON-compatible shape of one encoded object.
type Record = map[string]any

// VersionKey is the record key holding a schema level's version tag.
const VersionKey = "version"

// UpgradeFunc migrates raw data to the version it is registered under.
// It receives a shallow copy of the current data; the returned record
// replaces it for the remaining steps of the chain.
type UpgradeFunc func(ctx context.Context, r Record) (Record, error)

// Schema describes how instances of one Type persist. Handles are returned
// by Register and configured by chaining Upgrade, Extend and Defer during
// setup, before concurrent use.
type Schema struct {
	typ      *Type
	version  version.Tuple
	fields   Fields
	upgrades map[version.Tuple]UpgradeFunc
	parent   *Type
	deferred map[*Type]struct{}
}

func newSchema(t *Type, v string, fields Fields) *Schema {
	s := &Schema{
		typ:      t,
		version:  version.Parse(v),
		fields:   make(Fields, len(fields)),
		upgrades: map[version.Tuple]UpgradeFunc{},
		deferred: map[*Type]struct{}{},
	}
	maps.Copy(s.fields, fields)
	return s
}

func (s *Schema) mustLive(op string) {
	if s == nil {
		panic("shelf: " + op + " called on a nil Schema handle")
	}
}

// Upgrade registers fn as the migration to version v. A later call for the
// same version replaces the earlier function.
func (s *Schema) Upgrade(v string, fn UpgradeFunc) *Schema {
	s.mustLive("Upgrade")
	if fn == nil {
		panic("shelf: Upgrade " + v + " with nil UpgradeFunc")
	}
	s.upgrades[version.Parse(v)] = fn
	return s
}

// Extend makes parent the schema this one inherits fields and upgrades from.
func (s *Schema) Extend(parent *Type) *Schema {
	s.mustLive("Extend")
	if parent == nil {
		panic("shelf: Extend with nil Type")
	}
	s.parent = parent
	return s
}

// Defer marks t as a nested type whose constructor is skipped while
// decoding through this schema, including deeper levels of the graph.
func (s *Schema) Defer(t *Type) *Schema {
	s.mustLive("Defer")
	if t == nil {
		panic("shelf: Defer with nil Type")
	}
	s.deferred[t] = struct{}{}
	return s
}

// Type returns the token the schema is registered for.
func (s *Schema) Type() *Type { return s.typ }

// Version returns the schema's current version.
func (s *Schema) Version() version.Tuple { return s.version }

// Fields returns a copy of the declared fields.
func (s *Schema) Fields() Fields { return maps.Clone(s.fields) }

// Parent returns the extended type, or nil.
func (s *Schema) Parent() *Type { return s.parent }

// Deferred returns the deferred types in name order.
func (s *Schema) Deferred() []*Type {
	out := slices.Collect(maps.Keys(s.deferred))
	slices.SortFunc(out, byName)
	return out
}

// UpgradeVersions returns the versions with a registered upgrade, ascending.
func (s *Schema) UpgradeVersions() []version.Tuple {
	out := slices.Collect(maps.Keys(s.upgrades))
	version.Sort(out)
	return out
}

// fieldNames returns declared field names in a stable order.
func (s *Schema) fieldNames() []string {
	names := slices.Collect(maps.Keys(s.fields))
	slices.Sort(names)
	return names
}

func byName(a, b *Type) int { return cmp.Compare(a.name, b.name) }
