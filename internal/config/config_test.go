package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.InstalledJDKs)
	assert.True(t, cfg.UpdateConfig.Enabled)
	assert.True(t, cfg.UpdateConfig.AutoCheck)
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.ToolcacheDir = "/opt/toolcache"
	cfg.AddInstalledJDK(InstalledJDK{
		Version:     "21.0.3",
		Requested:   "21",
		Arch:        "x64",
		Path:        "/opt/toolcache/jdk/21.0.3/x64",
		Distributor: "Oracle JDK",
	})
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/toolcache", loaded.ToolcacheDir)
	require.Len(t, loaded.InstalledJDKs, 1)
	assert.Equal(t, "21.0.3", loaded.InstalledJDKs[0].Version)
	assert.Equal(t, "21", loaded.InstalledJDKs[0].Requested)
}

func TestLoadStripsBOM(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	configDir := filepath.Join(configHome, "ojv")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	// PowerShell writes JSON with a UTF-8 BOM
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"toolcache_dir":"/cache"}`)...)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "ojv.json"), content, 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/cache", cfg.ToolcacheDir)
}

func TestAddInstalledJDKDeduplicates(t *testing.T) {
	cfg := &Config{}

	cfg.AddInstalledJDK(InstalledJDK{Version: "21.0.3", Arch: "x64", Path: "/a"})
	cfg.AddInstalledJDK(InstalledJDK{Version: "21.0.3", Arch: "x64", Path: "/b"})
	require.Len(t, cfg.InstalledJDKs, 1, "same version and arch replaces the record")
	assert.Equal(t, "/b", cfg.InstalledJDKs[0].Path)

	// Same version on a different arch is a distinct install
	cfg.AddInstalledJDK(InstalledJDK{Version: "21.0.3", Arch: "aarch64", Path: "/c"})
	assert.Len(t, cfg.InstalledJDKs, 2)
}

func TestRemoveInstalledJDK(t *testing.T) {
	cfg := &Config{}
	cfg.AddInstalledJDK(InstalledJDK{Version: "21.0.3", Arch: "x64", Path: "/a"})
	cfg.AddInstalledJDK(InstalledJDK{Version: "17.0.11", Arch: "x64", Path: "/b"})

	cfg.RemoveInstalledJDK("21.0.3", "x64")
	require.Len(t, cfg.InstalledJDKs, 1)
	assert.Equal(t, "17.0.11", cfg.InstalledJDKs[0].Version)

	// Removing an unknown pair is a no-op
	cfg.RemoveInstalledJDK("11.0.2", "x64")
	assert.Len(t, cfg.InstalledJDKs, 1)
}

func TestGetInstalledJDK(t *testing.T) {
	cfg := &Config{}
	cfg.AddInstalledJDK(InstalledJDK{Version: "21.0.3", Arch: "x64", Path: "/opt/jdk/21.0.3/x64"})

	found := cfg.GetInstalledJDK("/opt/jdk/21.0.3/x64")
	require.NotNil(t, found)
	assert.Equal(t, "21.0.3", found.Version)

	assert.Nil(t, cfg.GetInstalledJDK("/somewhere/else"))
}
