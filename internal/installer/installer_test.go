package installer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"ojv/internal/config"
	"ojv/internal/toolcache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDistributor returns canned resolution results without any network I/O
type fakeDistributor struct {
	release Release
	err     error
}

func (f *fakeDistributor) Name() string { return "Fake JDK" }

func (f *fakeDistributor) AvailableVersions() ([]JDKRelease, error) {
	return []JDKRelease{{Version: f.release.Version, Major: "21", IsLTS: true}}, nil
}

func (f *fakeDistributor) FindPackageForDownload(versionSpec, hostOS, arch string) (Release, error) {
	return f.release, f.err
}

func testInstaller(t *testing.T) *Installer {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	distributor := &fakeDistributor{}
	return &Installer{
		config:       cfg,
		cache:        toolcache.New(t.TempDir()),
		client:       &http.Client{},
		quiet:        true,
		distributors: map[int]Distributor{1: distributor},
	}
}

func TestInstallVersionNoMatchingBuild(t *testing.T) {
	inst := testInstaller(t)
	distributor := &fakeDistributor{} // zero Release, nil error

	result, err := inst.InstallVersion(distributor, "21", "x64")
	require.NoError(t, err, "an absent build must not surface as an error")
	assert.True(t, result.IsZero())
}

func TestInstallVersionResolutionError(t *testing.T) {
	inst := testInstaller(t)
	distributor := &fakeDistributor{err: fmt.Errorf("baseline version request returned status 503")}

	_, err := inst.InstallVersion(distributor, "21", "x64")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestInstallVersionEndToEnd(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "jdk-21.0.3_linux-x64_bin.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"jdk-21.0.3/bin/" + javaExecutable(): "#!/bin/sh",
		"jdk-21.0.3/release":                 "JAVA_VERSION=21.0.3",
	})

	archiveData, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	sum := sha256.Sum256(archiveData)
	digest := hex.EncodeToString(sum[:])

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/21/archive/jdk-21.0.3_linux-x64_bin.tar.gz":
			w.Write(archiveData)
		case "/21/archive/jdk-21.0.3_linux-x64_bin.tar.gz.sha256":
			fmt.Fprint(w, digest)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	inst := testInstaller(t)
	distributor := &fakeDistributor{release: Release{
		Version: "21.0.3",
		URL:     server.URL + "/21/archive/jdk-21.0.3_linux-x64_bin.tar.gz",
	}}

	result, err := inst.InstallVersion(distributor, "21", "x64")
	require.NoError(t, err)

	assert.Equal(t, "21", result.Version, "the result reports the requested version spec")
	assert.DirExists(t, result.Path)
	assert.FileExists(t, filepath.Join(result.Path, "bin", javaExecutable()))

	cached, ok := inst.cache.Find("jdk", "21.0.3", "x64")
	require.True(t, ok)
	assert.Equal(t, cached, result.Path)

	recorded := inst.config.GetInstalledJDK(result.Path)
	require.NotNil(t, recorded)
	assert.Equal(t, "21.0.3", recorded.Version)
	assert.Equal(t, "21", recorded.Requested)
	assert.Equal(t, "x64", recorded.Arch)
}

func TestInstallVersionChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "jdk.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"jdk-21.0.3/bin/" + javaExecutable(): "#!/bin/sh",
	})
	archiveData, err := os.ReadFile(archivePath)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if filepath.Ext(r.URL.Path) == ".sha256" {
			fmt.Fprint(w, "deadbeef")
			return
		}
		w.Write(archiveData)
	}))
	defer server.Close()

	inst := testInstaller(t)
	distributor := &fakeDistributor{release: Release{
		Version: "21.0.3",
		URL:     server.URL + "/jdk.tar.gz",
	}}

	_, err = inst.InstallVersion(distributor, "21.0.3", "x64")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestInstallVersionAlreadyCached(t *testing.T) {
	inst := testInstaller(t)

	// Pre-populate the cache with a completed entry
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bin", javaExecutable()), []byte("#!/bin/sh"), 0755))
	cachedPath, err := inst.cache.Add(src, "jdk", "21.0.3", "x64")
	require.NoError(t, err)

	var downloadHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloadHits.Add(1)
	}))
	defer server.Close()

	distributor := &fakeDistributor{release: Release{
		Version: "21.0.3",
		URL:     server.URL + "/jdk.tar.gz",
	}}

	result, err := inst.InstallVersion(distributor, "21", "x64")
	require.NoError(t, err)

	assert.Equal(t, "21", result.Version)
	assert.Equal(t, cachedPath, result.Path)
	assert.Equal(t, int32(0), downloadHits.Load(), "a cached version must not be downloaded again")
}
