//go:build !windows

package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// envFileName is a managed shell snippet the user sources from their profile
const envFileName = "env.sh"

// RequiresAdmin reports whether SetJavaHome needs elevated privileges
func RequiresAdmin() bool {
	return false
}

func envFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ojv", envFileName), nil
}

// SetJavaHome writes the managed env file exporting JAVA_HOME and PATH
func SetJavaHome(javaPath string) error {
	javaPath = filepath.Clean(javaPath)

	path, err := envFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	content := fmt.Sprintf("export JAVA_HOME=%q\nexport PATH=\"$JAVA_HOME/bin:$PATH\"\n", javaPath)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}

	return nil
}

// GetJavaHome returns the JAVA_HOME recorded in the managed env file
func GetJavaHome() (string, error) {
	path, err := envFilePath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("JAVA_HOME not set: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "export JAVA_HOME="); ok {
			return strings.Trim(value, `"`), nil
		}
	}

	return "", fmt.Errorf("JAVA_HOME not set")
}

// IsAdmin checks if the current process is running as root
func IsAdmin() bool {
	return os.Geteuid() == 0
}

// PrintRefreshInstructions prints instructions for refreshing the current session
func PrintRefreshInstructions() {
	path, err := envFilePath()
	if err != nil {
		return
	}
	fmt.Println("\nTo apply changes in your current shell session, run:")
	fmt.Printf("  source %s\n", path)
	fmt.Println("\nAdd that line to your shell profile to make it permanent.")
}
