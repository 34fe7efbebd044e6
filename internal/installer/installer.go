package installer

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"ojv/internal/config"
	"ojv/internal/env"
	"ojv/internal/theme"
	"ojv/internal/toolcache"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Installer handles the JDK installation process
type Installer struct {
	config       *config.Config
	cache        *toolcache.Cache
	client       *http.Client // shared client for archive and checksum downloads
	isAdmin      bool
	quiet        bool
	distributors map[int]Distributor
}

// InstallResult pairs the version string the caller requested with the final
// on-disk path. The toolcache key uses the resolved full version; the result
// deliberately reports what the caller asked for.
type InstallResult struct {
	Version string
	Path    string
}

// IsZero reports whether no matching release was found
func (r InstallResult) IsZero() bool {
	return r.Path == ""
}

// NewInstaller creates a new Installer instance
func NewInstaller(isAdmin bool) (*Installer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cache, err := cacheFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	distributors := make(map[int]Distributor)
	distributors[1] = NewOracleDistributor()
	// Future: distributors[2] = NewGraalVMDistributor()

	return &Installer{
		config:       cfg,
		cache:        cache,
		client:       &http.Client{},
		isAdmin:      isAdmin,
		distributors: distributors,
	}, nil
}

func cacheFromConfig(cfg *config.Config) (*toolcache.Cache, error) {
	if cfg.ToolcacheDir != "" {
		return toolcache.New(cfg.ToolcacheDir), nil
	}
	return toolcache.Default()
}

// Run starts the interactive installation process
func (i *Installer) Run() error {
	title := theme.Title.Padding(0, 2).Render("Oracle JDK Installation")
	fmt.Println()
	fmt.Println(theme.TitleBox.Render(title))
	fmt.Println()

	distributor, err := i.ShowDistributorMenu()
	if err != nil {
		return err
	}

	mode, err := i.SelectInstallMode()
	if err != nil {
		return err
	}

	if mode == "multi" {
		return i.RunMultiInstall(distributor)
	}

	return i.RunSingleInstall(distributor)
}

// DefaultDistributor returns the distributor used for non-interactive installs
func (i *Installer) DefaultDistributor() Distributor {
	return i.distributors[1]
}

// InstallDirect installs the given version specs without prompting. Specs
// with no published build are skipped; their warnings were already printed
// during resolution.
func (i *Installer) InstallDirect(versionSpecs []string) error {
	distributor := i.DefaultDistributor()

	results := []InstallResult{}
	for _, spec := range versionSpecs {
		result, err := i.InstallVersion(distributor, spec, DefaultArch())
		if err != nil {
			return err
		}
		if result.IsZero() {
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil
	}

	return i.finalizeInstallation(results)
}

// RunSingleInstall handles single version installation
func (i *Installer) RunSingleInstall(distributor Distributor) error {
	version, err := i.ShowVersionMenu(distributor, false)
	if err != nil {
		return err
	}

	result, err := i.InstallVersion(distributor, version[0], DefaultArch())
	if err != nil {
		return err
	}
	if result.IsZero() {
		// Resolution already warned; nothing to finalize
		return nil
	}

	return i.finalizeInstallation([]InstallResult{result})
}

// RunMultiInstall handles multiple versions installation. A version with no
// published build is skipped with a warning rather than aborting the batch.
func (i *Installer) RunMultiInstall(distributor Distributor) error {
	versions, err := i.ShowVersionMenu(distributor, true)
	if err != nil {
		return err
	}

	if len(versions) == 0 {
		return fmt.Errorf("no versions selected")
	}

	fmt.Println()
	fmt.Printf("Installing %d JDK versions...\n", len(versions))
	fmt.Println()

	results := []InstallResult{}
	for idx, version := range versions {
		fmt.Printf("[%d/%d] Installing JDK %s...\n", idx+1, len(versions), version)

		result, err := i.InstallVersion(distributor, version, DefaultArch())
		if err != nil {
			fmt.Println(theme.ErrorMessage(fmt.Sprintf("Failed to install JDK %s: %v", version, err)))
			continue
		}
		if result.IsZero() {
			continue
		}

		results = append(results, result)
		fmt.Println(theme.SuccessMessage(fmt.Sprintf("JDK %s installed", version)))
		fmt.Println()
	}

	if len(results) == 0 {
		return fmt.Errorf("no versions were installed")
	}

	return i.finalizeInstallation(results)
}

// InstallVersion resolves, downloads, verifies, extracts and caches the
// requested version. A zero InstallResult with a nil error means no matching
// build is published for the version spec.
func (i *Installer) InstallVersion(distributor Distributor, versionSpec string, arch string) (InstallResult, error) {
	var release Release
	var resolveErr error

	err := i.withSpinner(fmt.Sprintf("Resolving %s %s...", distributor.Name(), versionSpec), func() error {
		release, resolveErr = distributor.FindPackageForDownload(versionSpec, runtime.GOOS, arch)
		return nil
	})
	if err != nil {
		return InstallResult{}, err
	}
	if resolveErr != nil {
		return InstallResult{}, resolveErr
	}
	if release.IsZero() {
		return InstallResult{}, nil
	}

	// Short-circuit when the resolved version is already cached
	if cached, ok := i.cache.Find("jdk", release.Version, arch); ok {
		if !i.quiet {
			fmt.Println(theme.InfoMessage(fmt.Sprintf("JDK %s (%s) already installed", release.Version, arch)))
		}
		i.recordInstall(distributor, release, versionSpec, arch, cached)
		return InstallResult{Version: versionSpec, Path: cached}, nil
	}

	if !i.quiet {
		fmt.Printf("%s %s\n", theme.LabelStyle.Render("Package:"), theme.ValueStyle.Render(release.FileName()))
		fmt.Printf("%s %s\n", theme.LabelStyle.Render("URL:    "), theme.PathStyle.Render(release.URL))
		fmt.Println()
	}

	tempDir, err := os.MkdirTemp("", "ojv-install-")
	if err != nil {
		return InstallResult{}, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	archivePath := filepath.Join(tempDir, release.FileName())
	if err := DownloadFile(i.client, release.URL, archivePath, i.quiet); err != nil {
		return InstallResult{}, fmt.Errorf("download failed: %w", err)
	}

	if err := i.verifyArchive(release, archivePath); err != nil {
		return InstallResult{}, err
	}

	jdkHome, err := i.extractArchive(archivePath, filepath.Join(tempDir, "extract"))
	if err != nil {
		return InstallResult{}, err
	}

	finalPath, err := i.cache.Add(jdkHome, "jdk", release.Version, arch)
	if err != nil {
		return InstallResult{}, fmt.Errorf("failed to register in toolcache: %w", err)
	}

	i.recordInstall(distributor, release, versionSpec, arch, finalPath)

	return InstallResult{Version: versionSpec, Path: finalPath}, nil
}

// verifyArchive checks the archive against the published sha256 sidecar
func (i *Installer) verifyArchive(release Release, archivePath string) error {
	expected, err := FetchChecksum(i.client, release.ChecksumURL())
	if err != nil {
		return fmt.Errorf("failed to fetch checksum: %w", err)
	}
	if expected == "" {
		if !i.quiet {
			fmt.Println(theme.Faint.Render("  No published checksum, skipping verification"))
		}
		return nil
	}

	var verifyErr error
	err = i.withSpinner("Verifying checksum...", func() error {
		verifyErr = VerifyChecksum(archivePath, expected)
		return nil
	})
	if err != nil {
		return err
	}
	if verifyErr != nil {
		return fmt.Errorf("checksum verification failed: %w", verifyErr)
	}
	if !i.quiet {
		fmt.Println(theme.SuccessMessage("Checksum verified"))
	}
	return nil
}

// extractArchive unpacks the archive and locates the usable JDK home,
// validating the java launcher exists
func (i *Installer) extractArchive(archivePath, extractDir string) (string, error) {
	var extractedPath string
	var extractErr error

	err := i.withSpinner("Extracting JDK...", func() error {
		extractedPath, extractErr = Extract(archivePath, extractDir)
		return nil
	})
	if err != nil {
		return "", err
	}
	if extractErr != nil {
		return "", fmt.Errorf("extraction failed: %w", extractErr)
	}

	// macOS archives unpack into a bundle; the usable home sits below it
	if bundleHome := filepath.Join(extractedPath, "Contents", "Home"); dirExists(bundleHome) {
		extractedPath = bundleHome
	}

	java := filepath.Join(extractedPath, "bin", javaExecutable())
	if _, err := os.Stat(java); os.IsNotExist(err) {
		return "", fmt.Errorf("invalid JDK structure: %s not found", filepath.Join("bin", javaExecutable()))
	}

	if !i.quiet {
		fmt.Println(theme.SuccessMessage("JDK extracted"))
	}
	return extractedPath, nil
}

func (i *Installer) recordInstall(distributor Distributor, release Release, versionSpec, arch, path string) {
	i.config.AddInstalledJDK(config.InstalledJDK{
		Version:     release.Version,
		Requested:   versionSpec,
		Arch:        arch,
		Path:        path,
		Distributor: distributor.Name(),
		InstalledAt: time.Now().Format(time.RFC3339),
	})
}

// finalizeInstallation handles config saving and environment setup
func (i *Installer) finalizeInstallation(results []InstallResult) error {
	if err := i.config.Save(); err != nil {
		fmt.Println(theme.WarningMessage(fmt.Sprintf("Failed to save config: %v", err)))
	}

	if len(results) > 0 {
		if err := i.ConfigureEnvironment(results[0].Path); err != nil {
			fmt.Printf("\nNote: %v\n", err)
		}
	}

	fmt.Println()
	title := theme.SuccessStyle.Padding(0, 2).Render("✓ Installation Complete!")
	fmt.Println(theme.SuccessBox.Render(title))
	fmt.Println()

	if len(results) == 1 {
		fmt.Println(theme.LabelStyle.Render(fmt.Sprintf("JDK %s installed to:", results[0].Version)))
		fmt.Printf("  %s\n", theme.PathStyle.Render(results[0].Path))
	} else {
		fmt.Println(theme.LabelStyle.Render(fmt.Sprintf("Installed %d JDK versions:", len(results))))
		for _, result := range results {
			fmt.Printf("  • %s → %s\n",
				theme.SuccessStyle.Render("JDK "+result.Version),
				theme.PathStyle.Render(result.Path))
		}
	}

	fmt.Println()
	fmt.Println(theme.Subtitle.Render("Next steps:"))
	fmt.Printf("  %s %s\n", theme.StepStyle.Render("1."), theme.Code.Render("ojv list"))
	fmt.Printf("  %s %s\n", theme.StepStyle.Render("2."), theme.Code.Render("ojv use <version>"))
	fmt.Println()

	return nil
}

// ShowDistributorMenu displays available distributors and returns the selected one
func (i *Installer) ShowDistributorMenu() (Distributor, error) {
	var selection string

	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render("Select JDK Distributor")).
		Description(theme.Faint.Render("More distributors coming soon")).
		Options(
			huh.NewOption(theme.CurrentStyle.Render("Oracle JDK")+" (download.oracle.com)", "oracle"),
		).
		Value(&selection).
		Run()

	if err != nil {
		return nil, err
	}

	return i.distributors[1], nil // Oracle for now
}

// ShowVersionMenu displays available versions and returns the selection.
// multi enables batch selection.
func (i *Installer) ShowVersionMenu(distributor Distributor, multi bool) ([]string, error) {
	var releases []JDKRelease
	var fetchErr error

	err := i.withSpinner(
		fmt.Sprintf("Fetching available versions from %s...", distributor.Name()),
		func() error {
			releases, fetchErr = distributor.AvailableVersions()
			return nil // Don't propagate, just store
		},
	)
	if err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	installedMajors := i.installedMajors()

	options := make([]huh.Option[string], 0, len(releases))

	// determine max width for the version column (visual)
	maxW := 0
	for _, r := range releases {
		w := lipgloss.Width("JDK " + r.Major + " (" + r.Version + ")")
		if w > maxW {
			maxW = w
		}
	}

	for _, release := range releases {
		base := fmt.Sprintf("JDK %s (%s)", release.Major, release.Version)
		vis := lipgloss.Width(base)
		pad := ""
		if vis < maxW {
			pad = strings.Repeat(" ", maxW-vis)
		}

		// Fixed tag columns: [LTS] and [Installed]
		ltsCol := strings.Repeat(" ", len("[LTS]"))
		if release.IsLTS {
			ltsCol = theme.SuccessStyle.Render("[LTS]")
		}
		instCol := strings.Repeat(" ", len("[Installed]"))
		if installedMajors[release.Major] {
			instCol = theme.InfoStyle.Render("[Installed]")
		}

		left := theme.CurrentStyle.Render("JDK") + " " + release.Major + " " + theme.Faint.Render("("+release.Version+")")
		label := left + pad + " " + ltsCol + "  " + instCol
		options = append(options, huh.NewOption(label, release.Major))
	}

	if multi {
		var selected []string
		err := huh.NewMultiSelect[string]().
			Title(theme.Subtitle.Render("Select JDK Versions to Install")).
			Description(theme.Faint.Render("Use Space to select, Enter to confirm")).
			Options(options...).
			Value(&selected).
			Limit(10).
			Run()
		if err != nil {
			return nil, err
		}
		return selected, nil
	}

	var selected string
	err = huh.NewSelect[string]().
		Title(theme.Subtitle.Render("Select JDK Version")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return nil, err
	}

	return []string{selected}, nil
}

// SelectInstallMode allows choosing between single and multi install
func (i *Installer) SelectInstallMode() (string, error) {
	var mode string

	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render("Installation Mode")).
		Options(
			huh.NewOption(theme.CurrentStyle.Render("Install")+" single version", "single"),
			huh.NewOption(theme.CurrentStyle.Render("Install")+" multiple versions (batch)", "multi"),
		).
		Value(&mode).
		Run()

	if err != nil {
		return "", err
	}

	return mode, nil
}

// ConfigureEnvironment sets JAVA_HOME if not already set
func (i *Installer) ConfigureEnvironment(jdkPath string) error {
	currentJavaHome := os.Getenv("JAVA_HOME")
	if currentJavaHome == "" {
		currentJavaHome, _ = env.GetJavaHome()
	}
	if currentJavaHome != "" {
		fmt.Println()
		fmt.Println(theme.InfoStyle.Render("JAVA_HOME is already set to:"))
		fmt.Printf("  %s\n", theme.PathStyle.Render(currentJavaHome))
		fmt.Println()
		fmt.Println(theme.Faint.Render("To use the newly installed JDK, run:"))
		fmt.Printf("  %s\n", theme.Code.Render("ojv use <version>"))
		return nil
	}

	if env.RequiresAdmin() && !i.isAdmin {
		fmt.Println()
		fmt.Println(theme.WarningMessage("Cannot set JAVA_HOME automatically (requires administrator)"))
		fmt.Println()
		fmt.Println(theme.Faint.Render("Or manually set JAVA_HOME to:"))
		fmt.Printf("  %s\n", theme.PathStyle.Render(jdkPath))
		return nil
	}

	fmt.Println()
	fmt.Println(theme.InfoStyle.Render("Configuring JAVA_HOME..."))
	if err := env.SetJavaHome(jdkPath); err != nil {
		return fmt.Errorf("failed to set JAVA_HOME: %w", err)
	}

	fmt.Println(theme.SuccessMessage("JAVA_HOME configured successfully"))
	fmt.Printf("  JAVA_HOME = %s\n", theme.PathStyle.Render(jdkPath))
	env.PrintRefreshInstructions()

	return nil
}

// installedMajors reports which major lines have a completed toolcache entry
func (i *Installer) installedMajors() map[string]bool {
	majors := make(map[string]bool)
	entries, err := i.cache.Entries("jdk")
	if err != nil {
		return majors
	}
	for _, entry := range entries {
		major, _, _ := strings.Cut(entry.Version, ".")
		majors[major] = true
	}
	return majors
}

// withSpinner wraps WithSpinner, degrading to plain execution in quiet mode
func (i *Installer) withSpinner(message string, fn func() error) error {
	if i.quiet {
		return fn()
	}
	return WithSpinner(message, fn)
}

// javaExecutable returns the launcher file name for the host platform
func javaExecutable() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
