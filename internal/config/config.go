package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	ToolcacheDir  string         `json:"toolcache_dir"`  // Override for the JDK toolcache root
	InstalledJDKs []InstalledJDK `json:"installed_jdks"` // JDKs installed via ojv install
	UpdateConfig  UpdateConfig   `json:"update_config"`  // Auto-update configuration
	configPath    string
}

// UpdateConfig holds settings for auto-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled"`      // Master toggle for update functionality
	AutoCheck   bool      `json:"auto_check"`   // Check for updates on startup
	LastCheck   time.Time `json:"last_check"`   // Last time update check was performed
	SkipVersion string    `json:"skip_version"` // Version user chose to skip
}

// InstalledJDK represents a JDK installed through ojv install
type InstalledJDK struct {
	Version     string `json:"version"`   // resolved full version, e.g. "21.0.3"
	Requested   string `json:"requested"` // version spec the user asked for
	Arch        string `json:"arch"`
	Path        string `json:"path"`
	Distributor string `json:"distributor"`
	InstalledAt string `json:"installed_at"`
}

// Load loads the configuration from the user's config directory
func Load() (*Config, error) {
	configPath := getConfigPath()

	cfg := &Config{
		InstalledJDKs: make([]InstalledJDK, 0),
		UpdateConfig: UpdateConfig{
			Enabled:   true,
			AutoCheck: true,
		},
		configPath: configPath,
	}

	// If config file doesn't exist, return empty config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Remove BOM if present (UTF-8 BOM is EF BB BF)
	// This handles files created by PowerShell with Set-Content -Encoding UTF8
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.configPath = configPath
	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// AddInstalledJDK records an installed JDK, keyed by version and architecture
func (c *Config) AddInstalledJDK(jdk InstalledJDK) {
	jdk.Path = filepath.Clean(jdk.Path)

	for i, existing := range c.InstalledJDKs {
		if existing.Version == jdk.Version && existing.Arch == jdk.Arch {
			c.InstalledJDKs[i] = jdk
			return
		}
	}

	c.InstalledJDKs = append(c.InstalledJDKs, jdk)
}

// RemoveInstalledJDK drops the record for a version/architecture pair
func (c *Config) RemoveInstalledJDK(version, arch string) {
	for i, jdk := range c.InstalledJDKs {
		if jdk.Version == version && jdk.Arch == arch {
			c.InstalledJDKs = append(c.InstalledJDKs[:i], c.InstalledJDKs[i+1:]...)
			return
		}
	}
}

// GetInstalledJDK returns the record for a given installation path
func (c *Config) GetInstalledJDK(path string) *InstalledJDK {
	path = filepath.Clean(path)

	for _, jdk := range c.InstalledJDKs {
		if strings.EqualFold(jdk.Path, path) {
			return &jdk
		}
	}
	return nil
}

// getConfigPath returns the path to the configuration file
// Following XDG Base Directory specification
func getConfigPath() string {
	// Try XDG_CONFIG_HOME first (standard on Unix systems)
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome != "" {
		return filepath.Join(configHome, "ojv", "ojv.json")
	}

	// Fallback to $HOME/.config/ojv/ojv.json (XDG default)
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", "ojv", "ojv.json")
}
