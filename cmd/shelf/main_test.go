package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want string
	}{
		{"0.1.0", "0.0.99", "1\n"},
		{"1.2", "1.2.0", "0\n"},
		{"1.9.9", "2.0.0", "-1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.a+" vs "+tc.b, func(t *testing.T) {
			out, err := run(t, "version", "compare", tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}

	_, err := run(t, "version", "compare", "1.0.0")
	assert.Error(t, err)
}

func TestVersionParse(t *testing.T) {
	out, err := run(t, "version", "parse", "1.x")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0\tmajor=1 minor=0 patch=0\n", out)

	out, err = run(t, "version", "parse", "--strict", "3.4.5")
	require.NoError(t, err)
	assert.Equal(t, "3.4.5\tmajor=3 minor=4 patch=5\n", out)

	_, err = run(t, "version", "parse", "--strict", "1.x")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "rec.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`{"version":"0.2.0","a":{"version":"0.1.0","value":1},"items":[{"version":"1.0.0"}]}`), 0o644))
	yamlPath := filepath.Join(dir, "rec.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("version: 0.2.0\nname: tom\n"), 0o644))
	plainPath := filepath.Join(dir, "plain.json")
	require.NoError(t, os.WriteFile(plainPath, []byte(`[1,2]`), 0o644))

	out, err := run(t, "inspect", jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "/\t0.2.0\n/a\t0.1.0\n/items/0\t1.0.0\n", out)

	out, err = run(t, "-v", "inspect", yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "/\t0.2.0\n", out)

	out, err = run(t, "inspect", plainPath)
	require.NoError(t, err)
	assert.Equal(t, "no version tags\n", out)
}

func TestInspect_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	txt := filepath.Join(dir, "rec.txt")
	require.NoError(t, os.WriteFile(txt, []byte(`{}`), 0o644))

	for _, path := range []string{bad, txt, filepath.Join(dir, "missing.json")} {
		_, err := run(t, "inspect", path)
		assert.Error(t, err, path)
	}
}
