package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	dirs := make(map[string]bool)
	for name := range files {
		dir := filepath.ToSlash(filepath.Dir(name))
		for dir != "." && !dirs[dir] {
			dirs[dir] = true
			dir = filepath.ToSlash(filepath.Dir(dir))
		}
	}
	for dir := range dirs {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     dir + "/",
			Typeflag: tar.TypeDir,
			Mode:     0755,
		}))
	}

	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0755,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestDownloadFileQuiet(t *testing.T) {
	content := "jdk archive payload"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, content)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "jdk.tar.gz")
	err := DownloadFile(&http.Client{}, server.URL, dest, true)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestDownloadFileNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "jdk.tar.gz")
	err := DownloadFile(&http.Client{}, server.URL, dest, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchChecksum(t *testing.T) {
	digest := "3a45b1c9f2e8d7a6b5c4d3e2f1a0b9c8d7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a2"

	t.Run("bare digest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, digest)
		}))
		defer server.Close()

		got, err := FetchChecksum(&http.Client{}, server.URL)
		require.NoError(t, err)
		assert.Equal(t, digest, got)
	})

	t.Run("digest with filename", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "%s  jdk-21.0.3_linux-x64_bin.tar.gz\n", digest)
		}))
		defer server.Close()

		got, err := FetchChecksum(&http.Client{}, server.URL)
		require.NoError(t, err)
		assert.Equal(t, digest, got)
	})

	t.Run("not published", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		got, err := FetchChecksum(&http.Client{}, server.URL)
		require.NoError(t, err, "a missing sidecar digest is not an error")
		assert.Empty(t, got)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := FetchChecksum(&http.Client{}, server.URL)
		assert.Error(t, err)
	})
}

func TestVerifyChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.bin")
	content := []byte("archive contents")
	require.NoError(t, os.WriteFile(path, content, 0644))

	sum := sha256.Sum256(content)
	digest := hex.EncodeToString(sum[:])

	assert.NoError(t, VerifyChecksum(path, digest))
	assert.NoError(t, VerifyChecksum(path, strings.ToUpper(digest)), "comparison is case-insensitive")

	err := VerifyChecksum(path, "deadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "jdk.tar.gz")
	writeTarGz(t, archive, map[string]string{
		"jdk-21.0.3/bin/java":    "#!/bin/sh",
		"jdk-21.0.3/lib/modules": "modules",
		"jdk-21.0.3/release":     "JAVA_VERSION=21.0.3",
	})

	destDir := filepath.Join(dir, "extract")
	root, err := ExtractTarGz(archive, destDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(destDir, "jdk-21.0.3"), root)
	assert.FileExists(t, filepath.Join(root, "bin", "java"))
	assert.FileExists(t, filepath.Join(root, "lib", "modules"))
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "jdk.zip")
	writeZip(t, archive, map[string]string{
		"jdk-21.0.3/bin/java.exe": "MZ",
		"jdk-21.0.3/release":      "JAVA_VERSION=21.0.3",
	})

	destDir := filepath.Join(dir, "extract")
	root, err := ExtractZip(archive, destDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(destDir, "jdk-21.0.3"), root)
	assert.FileExists(t, filepath.Join(root, "bin", "java.exe"))
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeZip(t, archive, map[string]string{
		"../evil.txt": "payload",
	})

	_, err := ExtractZip(archive, filepath.Join(dir, "extract"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}

func TestExtractUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "jdk.rar")
	require.NoError(t, os.WriteFile(archive, []byte("rar"), 0644))

	_, err := Extract(archive, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}

func TestSanitizeExtractPath(t *testing.T) {
	dest := t.TempDir()

	path, err := sanitizeExtractPath(dest, "jdk-21/bin/java")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "jdk-21", "bin", "java"), path)

	_, err = sanitizeExtractPath(dest, "../outside")
	assert.Error(t, err)
}

func TestTopLevelDir(t *testing.T) {
	assert.Equal(t, "jdk-21.0.3", topLevelDir("jdk-21.0.3/bin/java"))
	assert.Equal(t, "jdk-21.0.3", topLevelDir("./jdk-21.0.3/release"))
	assert.Empty(t, topLevelDir("flatfile"))
}

func TestExtractedRoot(t *testing.T) {
	dest := t.TempDir()

	single := map[string]bool{"jdk-21.0.3": true}
	assert.Equal(t, filepath.Join(dest, "jdk-21.0.3"), extractedRoot(dest, single))

	mixed := map[string]bool{"jdk-21.0.3": true, "docs": true}
	assert.Equal(t, filepath.Join(dest, "jdk-21.0.3"), extractedRoot(dest, mixed))

	assert.Equal(t, dest, extractedRoot(dest, map[string]bool{}))
}
