package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path       string
		format     dataset.Format
		compressed bool
	}{
		{"data.json", dataset.FormatJSON, false},
		{"data.YAML", dataset.FormatYAML, false},
		{"data.yml", dataset.FormatYAML, false},
		{"data.json.lz4", dataset.FormatJSON, true},
		{"data.yaml.lz4", dataset.FormatYAML, true},
		{"-", dataset.FormatJSON, false},
	}

	for _, tt := range tests {
		format, compressed, err := dataset.DetectFormat(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.format, format, tt.path)
		assert.Equal(t, tt.compressed, compressed, tt.path)
	}

	_, _, err := dataset.DetectFormat("data.csv")
	require.ErrorIs(t, err, dataset.ErrUnknownFormat)

	_, _, err = dataset.DetectFormat("data.lz4")
	require.ErrorIs(t, err, dataset.ErrUnknownFormat)
}

func TestLoad_JSONAndYAMLAgree(t *testing.T) {
	t.Parallel()

	fromJSON, err := dataset.Load(writeFile(t, "d.json",
		`{"order":"asc","items":[{"key":1,"value":"a"},{"key":2.5}]}`))
	require.NoError(t, err)

	fromYAML, err := dataset.Load(writeFile(t, "d.yaml",
		"order: asc\nitems:\n  - key: 1\n    value: a\n  - key: 2.5\n"))
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, []float64{1, 2.5}, fromJSON.Keys())
}

func TestSave_CompressedRoundTrip(t *testing.T) {
	t.Parallel()

	doc := &dataset.Document{Order: "desc", Items: []dataset.Record{{Key: 9, Value: "x"}, {Key: 3}}}

	for _, name := range []string{"out.json.lz4", "out.yml.lz4"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, dataset.Save(path, doc))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		// lz4 frame magic number, little endian.
		require.GreaterOrEqual(t, len(raw), 4)
		assert.Equal(t, []byte{0x04, 0x22, 0x4d, 0x18}, raw[:4], name)

		loaded, err := dataset.Load(path)
		require.NoError(t, err)
		assert.Equal(t, doc, loaded, name)
	}
}

func TestSave_EmptyItemsEncodeAsList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, dataset.Save(path, &dataset.Document{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items": []`)

	violations, err := dataset.Validate(path, dataset.KindDocument)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := dataset.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScript(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "script.yaml", `window: {from: 0, to: 20}
steps:
  - op: chunk
    items: [{key: 1}, {key: 2}]
  - op: upsert
    resolve: left
    items: [{key: 2, value: kept}]
  - op: trim
    window: {from: 2, to: 20}
`)

	script, err := dataset.LoadScript(path)
	require.NoError(t, err)

	require.NotNil(t, script.Window)
	assert.Equal(t, sortedarray.Range[float64]{From: 0, To: 20}, *script.Window)
	require.Len(t, script.Steps, 3)
	assert.Equal(t, dataset.OpUpsert, script.Steps[1].Op)
	assert.Equal(t, dataset.ResolveLeft, script.Steps[1].Resolve)
	assert.Equal(t, "kept", script.Steps[1].Items[0].Value)
}

func TestLoadScript_Rejects(t *testing.T) {
	t.Parallel()

	_, err := dataset.LoadScript(writeFile(t, "bad.json", `{"steps":[{"op":"explode"}]}`))
	require.ErrorIs(t, err, dataset.ErrSchema)

	_, err = dataset.LoadScript(writeFile(t, "trim.json", `{"steps":[{"op":"trim"}]}`))
	require.ErrorIs(t, err, dataset.ErrStepWindow)
}
