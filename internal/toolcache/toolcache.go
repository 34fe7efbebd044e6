// Package toolcache stores extracted tool versions in a local cache keyed by
// tool name, normalized version and architecture.
package toolcache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Cache lays tools out as <root>/<tool>/<version>/<arch>, with a sibling
// <arch>.complete marker written once an entry is fully populated.
type Cache struct {
	root string
}

// Entry describes one cached tool version
type Entry struct {
	Tool    string
	Version string
	Arch    string
	Path    string
}

// New creates a cache rooted at the given directory
func New(root string) *Cache {
	return &Cache{root: root}
}

// Default returns the per-user cache under the home directory
func Default() (*Cache, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return New(filepath.Join(homeDir, ".ojv", "toolcache")), nil
}

// Root returns the cache root directory
func (c *Cache) Root() string {
	return c.root
}

// Dir returns the directory an entry lives in, whether or not it exists
func (c *Cache) Dir(tool, version, arch string) string {
	return filepath.Join(c.root, tool, version, arch)
}

// NormalizeVersion canonicalizes a version string for use as a cache key
func NormalizeVersion(version string) (string, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("invalid cache version %q: %w", version, err)
	}
	return v.String(), nil
}

// Find returns the path of a completed cache entry
func (c *Cache) Find(tool, version, arch string) (string, bool) {
	normalized, err := NormalizeVersion(version)
	if err != nil {
		return "", false
	}

	dir := c.Dir(tool, normalized, arch)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", false
	}
	if _, err := os.Stat(dir + ".complete"); err != nil {
		return "", false
	}

	return dir, true
}

// Add moves srcDir into the cache and marks the entry complete.
// An existing entry for the same key is replaced.
func (c *Cache) Add(srcDir, tool, version, arch string) (string, error) {
	normalized, err := NormalizeVersion(version)
	if err != nil {
		return "", err
	}

	dest := c.Dir(tool, normalized, arch)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Replace any partial or stale entry
	os.Remove(dest + ".complete")
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("failed to remove old cache entry: %w", err)
	}

	if err := os.Rename(srcDir, dest); err != nil {
		// Rename fails across filesystems (temp dir on another mount)
		if err := copyTree(srcDir, dest); err != nil {
			return "", fmt.Errorf("failed to move into cache: %w", err)
		}
		os.RemoveAll(srcDir)
	}

	marker, err := os.Create(dest + ".complete")
	if err != nil {
		return "", fmt.Errorf("failed to write completion marker: %w", err)
	}
	marker.Close()

	return dest, nil
}

// Remove deletes a cache entry and its completion marker
func (c *Cache) Remove(tool, version, arch string) error {
	normalized, err := NormalizeVersion(version)
	if err != nil {
		return err
	}

	dir := c.Dir(tool, normalized, arch)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%s %s (%s) is not installed", tool, normalized, arch)
	}

	os.Remove(dir + ".complete")
	return os.RemoveAll(dir)
}

// Entries lists the completed entries for a tool, newest version first
func (c *Cache) Entries(tool string) ([]Entry, error) {
	toolDir := filepath.Join(c.root, tool)
	versionDirs, err := os.ReadDir(toolDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, versionDir := range versionDirs {
		if !versionDir.IsDir() {
			continue
		}
		archDirs, err := os.ReadDir(filepath.Join(toolDir, versionDir.Name()))
		if err != nil {
			continue
		}
		for _, archDir := range archDirs {
			if !archDir.IsDir() {
				continue
			}
			path, ok := c.Find(tool, versionDir.Name(), archDir.Name())
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				Tool:    tool,
				Version: versionDir.Name(),
				Arch:    archDir.Name(),
				Path:    path,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		vi, erri := semver.NewVersion(entries[i].Version)
		vj, errj := semver.NewVersion(entries[j].Version)
		if erri != nil || errj != nil {
			return entries[i].Version > entries[j].Version
		}
		return vi.GreaterThan(vj)
	})

	return entries, nil
}

// copyTree recursively copies a directory, preserving modes and symlinks
func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode())

		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)

		default:
			in, err := os.Open(path)
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
			if err != nil {
				return err
			}
			defer out.Close()

			_, err = io.Copy(out, in)
			return err
		}
	})
}
