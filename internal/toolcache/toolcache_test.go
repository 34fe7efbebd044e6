package toolcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedSource(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bin", "java"), []byte("#!/bin/sh"), 0755))
	return src
}

func TestNormalizeVersion(t *testing.T) {
	got, err := NormalizeVersion("21.0.3")
	require.NoError(t, err)
	assert.Equal(t, "21.0.3", got)

	got, err = NormalizeVersion("v21.0.3")
	require.NoError(t, err)
	assert.Equal(t, "21.0.3", got)

	_, err = NormalizeVersion("not-a-version")
	assert.Error(t, err)
}

func TestAddAndFind(t *testing.T) {
	cache := New(t.TempDir())

	path, err := cache.Add(populatedSource(t), "jdk", "21.0.3", "x64")
	require.NoError(t, err)

	assert.Equal(t, cache.Dir("jdk", "21.0.3", "x64"), path)
	assert.FileExists(t, filepath.Join(path, "bin", "java"))

	found, ok := cache.Find("jdk", "21.0.3", "x64")
	require.True(t, ok)
	assert.Equal(t, path, found)

	// Different arch is a separate entry
	_, ok = cache.Find("jdk", "21.0.3", "aarch64")
	assert.False(t, ok)

	_, ok = cache.Find("jdk", "17.0.11", "x64")
	assert.False(t, ok)
}

func TestFindRequiresCompletionMarker(t *testing.T) {
	cache := New(t.TempDir())

	// A directory without its marker is a partial install
	dir := cache.Dir("jdk", "21.0.3", "x64")
	require.NoError(t, os.MkdirAll(dir, 0755))

	_, ok := cache.Find("jdk", "21.0.3", "x64")
	assert.False(t, ok)
}

func TestAddReplacesExistingEntry(t *testing.T) {
	cache := New(t.TempDir())

	_, err := cache.Add(populatedSource(t), "jdk", "21.0.3", "x64")
	require.NoError(t, err)

	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "marker.txt"), []byte("new"), 0644))

	path, err := cache.Add(src, "jdk", "21.0.3", "x64")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(path, "marker.txt"))
	assert.NoFileExists(t, filepath.Join(path, "bin", "java"))
}

func TestRemove(t *testing.T) {
	cache := New(t.TempDir())

	path, err := cache.Add(populatedSource(t), "jdk", "21.0.3", "x64")
	require.NoError(t, err)

	require.NoError(t, cache.Remove("jdk", "21.0.3", "x64"))
	assert.NoDirExists(t, path)

	_, ok := cache.Find("jdk", "21.0.3", "x64")
	assert.False(t, ok)

	err = cache.Remove("jdk", "21.0.3", "x64")
	assert.Error(t, err, "removing an absent entry reports it")
}

func TestEntriesSortedNewestFirst(t *testing.T) {
	cache := New(t.TempDir())

	for _, version := range []string{"17.0.11", "21.0.3", "21.0.2"} {
		_, err := cache.Add(populatedSource(t), "jdk", version, "x64")
		require.NoError(t, err)
	}

	entries, err := cache.Entries("jdk")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "21.0.3", entries[0].Version)
	assert.Equal(t, "21.0.2", entries[1].Version)
	assert.Equal(t, "17.0.11", entries[2].Version)

	for _, entry := range entries {
		assert.Equal(t, "jdk", entry.Tool)
		assert.Equal(t, "x64", entry.Arch)
		assert.DirExists(t, entry.Path)
	}
}

func TestEntriesEmptyCache(t *testing.T) {
	cache := New(t.TempDir())

	entries, err := cache.Entries("jdk")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
