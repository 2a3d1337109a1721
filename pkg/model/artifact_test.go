package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifact_RoundTrip(t *testing.T) {
	g := sampleGraph(t)

	data, err := Marshal(g)
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, g.Equal(loaded))

	again, err := Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestArtifact_EmptyGraph(t *testing.T) {
	data, err := Marshal(NewGraph())
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":"1","elements":[],"connections":[]}`, string(data))

	g, err := Unmarshal(data)
	require.NoError(t, err)
	elements, connections := g.Len()
	assert.Zero(t, elements)
	assert.Zero(t, connections)
}

func TestArtifact_Layout(t *testing.T) {
	data, err := Marshal(sampleGraph(t))
	require.NoError(t, err)

	var raw map[string][]map[string]string
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	delete(fields, "schemaVersion")
	stripped, err := json.Marshal(fields)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(stripped, &raw))

	require.Len(t, raw["elements"], 3)
	assert.Equal(t, map[string]string{"id": "a", "name": "Animal", "type": "interface"}, raw["elements"][0])

	require.Len(t, raw["connections"], 3)
	assert.Equal(t, map[string]string{"startId": "d", "endId": "a", "type": "implements"}, raw["connections"][0])
}

func TestArtifact_DecodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "unknown element type",
			input:   `{"elements":[{"id":"1","name":"E","type":"enum"}],"connections":[]}`,
			wantErr: ErrUnknownVariant,
		},
		{
			name: "unknown connection type",
			input: `{"elements":[{"id":"1","name":"A","type":"class"},{"id":"2","name":"B","type":"class"}],
				"connections":[{"startId":"1","endId":"2","type":"composes"}]}`,
			wantErr: ErrUnknownVariant,
		},
		{
			name: "dangling end id",
			input: `{"elements":[{"id":"1","name":"A","type":"class"}],
				"connections":[{"startId":"1","endId":"404","type":"uses"}]}`,
			wantErr: ErrReferentialIntegrity,
		},
		{
			name: "dangling start id",
			input: `{"elements":[{"id":"1","name":"A","type":"class"}],
				"connections":[{"startId":"404","endId":"1","type":"extends"}]}`,
			wantErr: ErrReferentialIntegrity,
		},
		{
			name: "duplicate element id",
			input: `{"elements":[{"id":"1","name":"A","type":"class"},{"id":"1","name":"B","type":"interface"}],
				"connections":[]}`,
			wantErr: ErrDuplicateElement,
		},
		{
			name:    "future schema",
			input:   `{"schemaVersion":"2","elements":[],"connections":[]}`,
			wantErr: ErrUnsupportedSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Unmarshal([]byte(tt.input))
			assert.Nil(t, g)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestArtifact_MalformedJSON(t *testing.T) {
	_, err := Unmarshal([]byte(`{"elements": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding artifact")
}

func TestArtifact_LegacyWithoutVersion(t *testing.T) {
	g, err := Unmarshal([]byte(`{"elements":[{"id":"x","name":"X","type":"class"}],"connections":[{"startId":"x","endId":"x","type":"uses"}]}`))
	require.NoError(t, err)
	assert.True(t, g.HasConnection(Connection{Kind: Uses, StartID: "x", EndID: "x"}))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "heron.json")

	t.Run("creates missing file and directories", func(t *testing.T) {
		require.NoError(t, WriteFile(path, sampleGraph(t)))

		loaded, err := ReadFile(path)
		require.NoError(t, err)
		assert.True(t, sampleGraph(t).Equal(loaded))
	})

	t.Run("overwrites existing content", func(t *testing.T) {
		padding := make([]byte, 64*1024)
		for i := range padding {
			padding[i] = ' '
		}
		require.NoError(t, os.WriteFile(path, padding, 0644))

		require.NoError(t, WriteFile(path, NewGraph()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"schemaVersion":"1","elements":[],"connections":[]}`, string(data))
	})

	t.Run("unwritable location", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

		err := WriteFile(filepath.Join(blocker, "heron.json"), NewGraph())
		require.ErrorIs(t, err, ErrOutputIO)

		var oie *OutputIOError
		require.ErrorAs(t, err, &oie)
		assert.Equal(t, "create", oie.Op)
	})
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
