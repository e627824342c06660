package runconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate_RejectsNonPositiveK(t *testing.T) {
	opts := Default()
	opts.K = 0
	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k must be at least 1")
}

func TestValidate_RejectsNegativeSupportThreshold(t *testing.T) {
	opts := Default()
	opts.SupportCountThreshold = -1
	require.Error(t, opts.Validate())
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), opts)
}

func TestLoad_ParsesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	contents := "k: 3\nuseTransitiveClosureMining: true\nignoreIntrBy: true\n" +
		"ignoreInvsOverETypeSet:\n  - DEBUG\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.K)
	assert.True(t, opts.UseTransitiveClosureMining)
	assert.True(t, opts.IgnoreIntrBy)
	assert.Equal(t, []string{"DEBUG"}, opts.IgnoreInvsOverETypeSet)
}

func TestLoad_RejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: [this is not valid: yaml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyOverrides_OnlySetsProvidedKeys(t *testing.T) {
	opts := Default()
	opts.K = 2
	require.NoError(t, ApplyOverrides(opts, map[string]string{"k": "5"}))
	assert.Equal(t, 5, opts.K)
	assert.Equal(t, "t", opts.Relation)
}

func TestIgnoredEventTypeSet(t *testing.T) {
	opts := Default()
	opts.IgnoreInvsOverETypeSet = []string{"DEBUG", "HEARTBEAT"}
	set := opts.IgnoredEventTypeSet()
	_, ok := set["DEBUG"]
	assert.True(t, ok)
	_, ok = set["missing"]
	assert.False(t, ok)
}
