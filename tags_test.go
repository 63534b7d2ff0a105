package shelf_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shelf"
)

func TestVersionTags(t *testing.T) {
	ctx := context.Background()
	reg := newCarRegistry()
	rec, err := reg.Manifest(ctx, &Garage{
		Owner: "ann",
		Cars:  []*Car{{Model: "a", Engine: &Engine{Serial: "s"}}, {Model: "b"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []shelf.VersionTag{
		{Path: "/", Version: "1.0.0"},
		{Path: "/cars/0", Version: "1.0.0"},
		{Path: "/cars/0/engine", Version: "1.0.0"},
		{Path: "/cars/1", Version: "1.0.0"},
	}, shelf.VersionTags(rec))
}

func TestVersionTags_EscapesKeysAndStringifies(t *testing.T) {
	data := map[string]any{
		"a/b": map[string]any{"version": 2},
		"c~d": map[string]any{"version": nil},
		"e":   []any{"version"},
	}
	assert.Equal(t, []shelf.VersionTag{{Path: "/a~1b", Version: "2"}}, shelf.VersionTags(data))
	assert.Empty(t, shelf.VersionTags("plain"))
}
