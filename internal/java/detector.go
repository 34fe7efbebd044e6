package java

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"ojv/internal/config"
	"ojv/internal/toolcache"
)

// Detector finds JDK installations on the system
type Detector struct {
	standardPaths []string
}

// NewDetector creates a new JDK detector with per-OS standard search paths
func NewDetector() *Detector {
	return &Detector{
		standardPaths: standardSearchPaths(),
	}
}

func standardSearchPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\Java`,
			`C:\Program Files (x86)\Java`,
			`C:\Program Files\Oracle\Java`,
		}
	case "darwin":
		return []string{
			"/Library/Java/JavaVirtualMachines",
		}
	default:
		return []string{
			"/usr/lib/jvm",
			"/usr/java",
		}
	}
}

// FindAll finds all JDK installations (toolcache + system locations)
func (d *Detector) FindAll() ([]Version, error) {
	versions := make([]Version, 0)
	seen := make(map[string]bool)

	// Toolcache entries first: they carry exact version and arch
	if cache := openCache(); cache != nil {
		entries, err := cache.Entries("jdk")
		if err == nil {
			for _, entry := range entries {
				key := strings.ToLower(filepath.Clean(entry.Path))
				if seen[key] {
					continue
				}
				seen[key] = true
				versions = append(versions, Version{
					Version:   entry.Version,
					Path:      entry.Path,
					Arch:      entry.Arch,
					FromCache: true,
				})
			}
		}
	}

	for _, basePath := range d.standardPaths {
		entries, err := os.ReadDir(basePath)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			jdkPath := filepath.Join(basePath, entry.Name())
			// macOS installs nest the home inside the bundle
			if runtime.GOOS == "darwin" {
				jdkPath = filepath.Join(jdkPath, "Contents", "Home")
			}

			if !d.IsValidJavaPath(jdkPath) {
				continue
			}
			key := strings.ToLower(filepath.Clean(jdkPath))
			if seen[key] {
				continue
			}
			seen[key] = true
			versions = append(versions, Version{
				Version: d.GetVersion(jdkPath),
				Path:    filepath.Clean(jdkPath),
			})
		}
	}

	return versions, nil
}

func openCache() *toolcache.Cache {
	cfg, err := config.Load()
	if err == nil && cfg.ToolcacheDir != "" {
		return toolcache.New(cfg.ToolcacheDir)
	}
	cache, err := toolcache.Default()
	if err != nil {
		return nil
	}
	return cache
}

// IsValidJavaPath checks if a path is a valid JDK installation
func (d *Detector) IsValidJavaPath(path string) bool {
	_, err := os.Stat(filepath.Join(path, "bin", javaExecutable()))
	return err == nil
}

func javaExecutable() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

// GetVersion extracts the version from a JDK installation path
func (d *Detector) GetVersion(jdkPath string) string {
	// First, try to get version by running java -version
	java := filepath.Join(jdkPath, "bin", javaExecutable())
	cmd := exec.Command(java, "-version")
	output, err := cmd.CombinedOutput()
	if err == nil {
		if version := parseVersionOutput(string(output)); version != "" {
			return version
		}
	}

	// Fallback: extract from directory name
	return parseVersionFromDirName(filepath.Base(jdkPath))
}

// parseVersionOutput parses the output of 'java -version'
func parseVersionOutput(output string) string {
	// Look for version patterns like: java version "21.0.3"
	re := regexp.MustCompile(`(?:openjdk|java)\s+version\s+"([^"]+)"`)
	matches := re.FindStringSubmatch(output)
	if len(matches) > 1 {
		return matches[1]
	}

	re = regexp.MustCompile(`version\s+"([^"]+)"`)
	matches = re.FindStringSubmatch(output)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// parseVersionFromDirName extracts version from directory names like
// "jdk-21.0.3" or "jdk-21.0.3.jdk"
func parseVersionFromDirName(dirName string) string {
	dirName = strings.ToLower(dirName)

	re := regexp.MustCompile(`jdk-?(\d+(?:\.\d+)*)`)
	matches := re.FindStringSubmatch(dirName)
	if len(matches) > 1 {
		return matches[1]
	}

	re = regexp.MustCompile(`java-?(\d+(?:\.\d+)*)`)
	matches = re.FindStringSubmatch(dirName)
	if len(matches) > 1 {
		return matches[1]
	}

	// Return dir name as-is if no pattern matches
	return dirName
}
