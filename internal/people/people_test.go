package people

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 12, reg.Len())
	list := reg.List()
	assert.Equal(t, "Grant", list[0].Name)
	assert.Equal(t, "Galatians 6:8", list[0].Reference)
	assert.Equal(t, "Hunter", list[len(list)-1].Name)
	for _, p := range list {
		assert.NotEmpty(t, p.Scripture, "scripture for %s", p.Name)
		assert.NotEmpty(t, p.Reference, "reference for %s", p.Name)
	}
}

func TestHasIsExact(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.True(t, reg.Has("Grant"))
	assert.False(t, reg.Has("grant"))
	assert.False(t, reg.Has(" Grant"))
	assert.False(t, reg.Has("Nonexistent"))
	assert.False(t, reg.Has(""))
}

func TestListReturnsCopy(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	list := reg.List()
	list[0].Name = "Mallory"
	assert.Equal(t, "Grant", reg.List()[0].Name)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty document", input: ""},
		{name: "empty list", input: "[]"},
		{name: "missing name", input: "- scripture: x\n  reference: y\n"},
		{name: "duplicate name", input: "- name: Ann\n- name: Ann\n"},
		{name: "not a list", input: "name: Ann\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.yaml")
	doc := "- name: Ann\n  scripture: Be still.\n  reference: Psalm 46:10\n- name: Ben\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Has("Ben"))
	assert.Equal(t, "Psalm 46:10", reg.List()[0].Reference)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, reg.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
