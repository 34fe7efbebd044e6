//go:build windows

package env

import (
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	HWND_BROADCAST   = 0xFFFF
	WM_SETTINGCHANGE = 0x001A
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	sendMessageW     = user32.NewProc("SendMessageW")
	systemEnvRegPath = `System\CurrentControlSet\Control\Session Manager\Environment`
)

// RequiresAdmin reports whether SetJavaHome needs elevated privileges
func RequiresAdmin() bool {
	return true
}

// SetJavaHome sets the JAVA_HOME environment variable system-wide
func SetJavaHome(javaPath string) error {
	javaPath = filepath.Clean(javaPath)

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, systemEnvRegPath, registry.SET_VALUE|registry.QUERY_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open registry key (run as administrator): %w", err)
	}
	defer key.Close()

	currentPath, _, err := key.GetStringValue("Path")
	if err != nil {
		return fmt.Errorf("failed to read PATH: %w", err)
	}

	oldJavaHome, _, _ := key.GetStringValue("JAVA_HOME")

	if err := key.SetStringValue("JAVA_HOME", javaPath); err != nil {
		return fmt.Errorf("failed to set JAVA_HOME: %w", err)
	}

	// Update PATH - remove old Java paths and add new one
	newPath := updatePath(currentPath, oldJavaHome)
	if err := key.SetExpandStringValue("Path", newPath); err != nil {
		return fmt.Errorf("failed to update PATH: %w", err)
	}

	// Broadcast WM_SETTINGCHANGE to notify all windows
	broadcastSettingChange()

	return nil
}

// updatePath updates the PATH variable by removing old Java paths and
// prepending %JAVA_HOME%\bin
func updatePath(currentPath, oldJavaHome string) string {
	paths := strings.Split(currentPath, ";")
	newPaths := make([]string, 0, len(paths)+1)

	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if oldJavaHome != "" {
			oldJavaBin := filepath.Join(oldJavaHome, "bin")
			if strings.EqualFold(p, oldJavaBin) {
				continue
			}
			if strings.Contains(strings.ToLower(p), strings.ToLower(oldJavaHome)) {
				continue
			}
		}

		// Skip any existing %JAVA_HOME%\bin references
		if strings.Contains(strings.ToUpper(p), "%JAVA_HOME%") {
			continue
		}

		newPaths = append(newPaths, p)
	}

	newPaths = append([]string{`%JAVA_HOME%\bin`}, newPaths...)

	return strings.Join(newPaths, ";")
}

// broadcastSettingChange sends a WM_SETTINGCHANGE message to notify all windows
func broadcastSettingChange() {
	env := syscall.StringToUTF16Ptr("Environment")
	sendMessageW.Call(
		uintptr(HWND_BROADCAST),
		uintptr(WM_SETTINGCHANGE),
		0,
		uintptr(unsafe.Pointer(env)),
	)
}

// GetJavaHome returns the current JAVA_HOME value from system environment
func GetJavaHome() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, systemEnvRegPath, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("failed to open registry key: %w", err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue("JAVA_HOME")
	if err != nil {
		return "", fmt.Errorf("JAVA_HOME not set: %w", err)
	}

	return value, nil
}

// IsAdmin checks if the current process is running with administrator privileges
func IsAdmin() bool {
	var sid *windows.SID

	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	token := windows.Token(0)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}

// PrintRefreshInstructions prints instructions for refreshing the current session
func PrintRefreshInstructions() {
	fmt.Println("\nTo apply changes in your current terminal session, run:")
	fmt.Println(`  $env:JAVA_HOME = [System.Environment]::GetEnvironmentVariable('JAVA_HOME','Machine'); $env:Path = [System.Environment]::GetEnvironmentVariable('JAVA_HOME','Machine') + '\bin;' + $env:Path`)
	fmt.Println("\nOr simply close and reopen your terminal.")
}
