package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DownloadFile downloads a file from URL to destPath with an animated
// progress bar. quiet suppresses the progress UI (tests, scripted runs).
func DownloadFile(client *http.Client, url string, destPath string, quiet bool) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	if quiet {
		if _, err := io.Copy(out, resp.Body); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}

	totalSize := resp.ContentLength

	progressModel := NewProgressModel(totalSize)
	p := tea.NewProgram(progressModel)

	pw := newProgressWriter(totalSize, p)

	// Start the progress UI in a goroutine
	go func() {
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running progress: %v\n", err)
		}
	}()

	// Give the UI a moment to start
	time.Sleep(100 * time.Millisecond)

	// Write to file AND progress tracker
	multiWriter := io.MultiWriter(out, pw)

	written, err := io.Copy(multiWriter, resp.Body)
	if err != nil {
		p.Send(progressErrMsg{err: err})
		p.Quit()
		return fmt.Errorf("failed to write file: %w", err)
	}

	if totalSize > 0 && written != totalSize {
		err := fmt.Errorf("incomplete download: got %d bytes, expected %d", written, totalSize)
		p.Send(progressErrMsg{err: err})
		p.Quit()
		return err
	}

	p.Send(downloadCompleteMsg{})

	// Wait a moment for UI to finish
	time.Sleep(200 * time.Millisecond)

	return nil
}

// FetchChecksum retrieves the hex digest from a sidecar checksum URL.
// Returns an empty string when the server publishes no digest (404).
func FetchChecksum(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch checksum: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checksum request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read checksum: %w", err)
	}

	// Body is either the bare digest or "<digest>  <filename>"
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", fmt.Errorf("checksum file at %s is empty", url)
	}

	return fields[0], nil
}

// VerifyChecksum verifies the SHA256 checksum of a file
func VerifyChecksum(filePath string, expectedChecksum string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}

	actualChecksum := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(actualChecksum, expectedChecksum) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedChecksum, actualChecksum)
	}

	return nil
}

// Extract unpacks an archive to destDir, dispatching on the file extension.
// Returns the path to the extracted JDK root directory.
func Extract(archivePath string, destDir string) (string, error) {
	name := strings.ToLower(filepath.Base(archivePath))
	switch {
	case strings.HasSuffix(name, ".zip"):
		return ExtractZip(archivePath, destDir)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return ExtractTarGz(archivePath, destDir)
	}
	return "", fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
}

// ExtractZip extracts a ZIP file to the destination directory
func ExtractZip(zipPath string, destDir string) (string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer reader.Close()

	rootDirs := make(map[string]bool)

	for _, file := range reader.File {
		filePath, err := sanitizeExtractPath(destDir, file.Name)
		if err != nil {
			return "", err
		}
		if top := topLevelDir(file.Name); top != "" {
			rootDirs[top] = true
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}

		outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
		if err != nil {
			return "", fmt.Errorf("failed to create file: %w", err)
		}

		rc, err := file.Open()
		if err != nil {
			outFile.Close()
			return "", fmt.Errorf("failed to open file in zip: %w", err)
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return "", fmt.Errorf("failed to extract file: %w", err)
		}
	}

	return extractedRoot(destDir, rootDirs), nil
}

// ExtractTarGz extracts a gzipped tar archive to the destination directory
func ExtractTarGz(tarPath string, destDir string) (string, error) {
	f, err := os.Open(tarPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	rootDirs := make(map[string]bool)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read archive: %w", err)
		}

		filePath, err := sanitizeExtractPath(destDir, header.Name)
		if err != nil {
			return "", err
		}
		if top := topLevelDir(header.Name); top != "" {
			rootDirs[top] = true
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
			outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return "", fmt.Errorf("failed to create file: %w", err)
			}
			_, err = io.Copy(outFile, tr)
			outFile.Close()
			if err != nil {
				return "", fmt.Errorf("failed to extract file: %w", err)
			}

		case tar.TypeSymlink:
			// JDK archives link legal notices and macOS bundle paths
			if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
			if err := os.Symlink(header.Linkname, filePath); err != nil && !os.IsExist(err) {
				return "", fmt.Errorf("failed to create symlink: %w", err)
			}
		}
	}

	return extractedRoot(destDir, rootDirs), nil
}

// sanitizeExtractPath joins an archive entry name onto destDir and rejects
// entries that would escape it
func sanitizeExtractPath(destDir, name string) (string, error) {
	filePath := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(filePath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return filePath, nil
}

// topLevelDir returns the first path segment of an archive entry name
func topLevelDir(name string) string {
	name = strings.TrimPrefix(name, "./")
	if idx := strings.IndexByte(name, '/'); idx > 0 {
		return name[:idx]
	}
	return ""
}

// extractedRoot resolves the JDK root inside destDir. Oracle archives unpack
// into a single "jdk-<version>" directory; fall back to destDir otherwise.
func extractedRoot(destDir string, rootDirs map[string]bool) string {
	if len(rootDirs) == 1 {
		for root := range rootDirs {
			return filepath.Join(destDir, root)
		}
	}
	for root := range rootDirs {
		if strings.HasPrefix(root, "jdk") {
			return filepath.Join(destDir, root)
		}
	}
	return destDir
}
