package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"ojv/internal/config"
	"ojv/internal/env"
	"ojv/internal/installer"
	"ojv/internal/java"
	"ojv/internal/theme"
	"ojv/internal/toolcache"
	"ojv/internal/updater"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Version is set during build time via ldflags
var Version = "dev"

// Use OJV custom theme
var (
	successStyle = theme.SuccessStyle
	errorStyle   = theme.ErrorStyle
	warningStyle = theme.WarningStyle
	infoStyle    = theme.InfoStyle
	titleStyle   = theme.Title
	currentStyle = theme.CurrentStyle
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "install":
		handleInstall()
	case "list":
		handleList()
	case "use":
		handleUse()
	case "current":
		handleCurrent()
	case "uninstall":
		handleUninstall()
	case "update":
		handleUpdate()
	case "version", "-v", "--version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	// Background update check (non-blocking, silent)
	go checkForUpdateBackground()
}

func handleInstall() {
	isAdmin := env.IsAdmin()

	inst, err := installer.NewInstaller(isAdmin)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Direct mode with version arguments, interactive otherwise
	if len(os.Args) > 2 {
		if err := inst.InstallDirect(os.Args[2:]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := inst.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func handleList() {
	detector := java.NewDetector()

	var versions []java.Version
	var scanErr error

	// Scan with spinner
	java.WithScanner(func() error {
		var err error
		versions, err = detector.FindAll()
		scanErr = err
		return nil
	})

	if scanErr != nil {
		fmt.Println(errorStyle.Render("Error finding JDK installations: " + scanErr.Error()))
		os.Exit(1)
	}

	if len(versions) == 0 {
		fmt.Println(warningStyle.Render("No JDK installations found."))
		fmt.Println(infoStyle.Render("Run 'ojv install' to install a JDK."))
		return
	}

	// Prefer managed JAVA_HOME, fallback to process env
	current, _ := env.GetJavaHome()
	if current == "" {
		current = os.Getenv("JAVA_HOME")
	}

	fmt.Println(titleStyle.Render("Installed JDK Versions:"))
	fmt.Println()

	for _, v := range versions {
		marker := "  "
		versionStr := v.Version
		if strings.EqualFold(v.Path, current) {
			marker = "→ "
			versionStr = currentStyle.Render(v.Version)
		}

		source := "system"
		sourceStyle := theme.Faint
		if v.FromCache {
			source = "ojv"
			if v.Arch != "" {
				source = "ojv, " + v.Arch
			}
			sourceStyle = successStyle
		}

		// Align version column to width 15 considering visual width
		visW := lipgloss.Width(versionStr)
		pad := 0
		if visW < 15 {
			pad = 15 - visW
		}
		fmt.Printf("%s%s%s %s %s\n", marker, versionStr, strings.Repeat(" ", pad), v.Path, sourceStyle.Render("("+source+")"))
	}

	fmt.Println()

	if current == "" {
		fmt.Println(theme.WarningMessage(" JAVA_HOME is not set"))
		fmt.Println(theme.Faint.Render("  Run 'ojv use <version>' to configure"))
	}
}

func handleUse() {
	detector := java.NewDetector()
	versions, err := detector.FindAll()
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error finding JDK installations: %v", err)))
		os.Exit(1)
	}

	if len(versions) == 0 {
		fmt.Println(warningStyle.Render("No JDK installations found."))
		fmt.Println(infoStyle.Render("Run 'ojv install' to install a JDK."))
		os.Exit(1)
	}

	current, _ := env.GetJavaHome()
	if current == "" {
		current = os.Getenv("JAVA_HOME")
	}

	var target *java.Version

	// Interactive mode if no version specified
	if len(os.Args) < 3 {
		selected, err := selectJavaVersion(versions)
		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("Selection cancelled: %v", err)))
			os.Exit(1)
		}
		target = selected
	} else {
		// Direct mode with version argument
		version := os.Args[2]
		for i, v := range versions {
			if strings.Contains(v.Version, version) {
				target = &versions[i]
				break
			}
		}

		if target == nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("JDK version '%s' not found.", version)))
			fmt.Println(infoStyle.Render("Use 'ojv list' to see installed versions."))
			os.Exit(1)
		}
	}

	if strings.EqualFold(target.Path, current) {
		fmt.Println(infoStyle.Render(fmt.Sprintf("Already using JDK %s. No changes needed.", target.Version)))
		os.Exit(0)
	}

	// Confirm switch
	confirmed, err := confirmAction(
		fmt.Sprintf("Switch to JDK %s?", target.Version),
		fmt.Sprintf("Path: %s", target.Path),
	)
	if err != nil || !confirmed {
		fmt.Println(warningStyle.Render("Operation cancelled."))
		os.Exit(0)
	}

	fmt.Println(infoStyle.Render(fmt.Sprintf("Switching to JDK %s...", target.Version)))

	if err := env.SetJavaHome(target.Path); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		if env.RequiresAdmin() {
			fmt.Println()
			fmt.Println(warningStyle.Render("Note: This command requires administrator privileges."))
			fmt.Println(theme.Faint.Render("Please run your terminal as Administrator and try again."))
		}
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("✓ Successfully updated JAVA_HOME!"))
	env.PrintRefreshInstructions()
}

func handleCurrent() {
	// Prefer managed JAVA_HOME, fallback to process env
	javaHome, _ := env.GetJavaHome()
	if javaHome == "" {
		javaHome = os.Getenv("JAVA_HOME")
	}

	fmt.Println(titleStyle.Render("Current JDK"))
	fmt.Println()

	if javaHome == "" {
		fmt.Println(warningStyle.Render("JAVA_HOME is not set"))
		fmt.Println(theme.Faint.Render("Run 'ojv use <version>' to configure"))
		return
	}

	detector := java.NewDetector()
	version := detector.GetVersion(javaHome)
	isValid := detector.IsValidJavaPath(javaHome)

	content := fmt.Sprintf("%s %s\n%s %s",
		theme.LabelStyle.Render("Version:  "), currentStyle.Render(version),
		theme.LabelStyle.Render("JAVA_HOME:"), theme.PathStyle.Render(javaHome))
	fmt.Println(theme.Box.Render(content))

	if !isValid {
		fmt.Println()
		fmt.Println(warningStyle.Render("JAVA_HOME path looks invalid"))
		fmt.Println(theme.Faint.Render("Use 'ojv use' to point it at a working installation"))
	}
}

func handleUninstall() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	cache, err := openToolcache(cfg)
	if err != nil {
		fmt.Println(errorStyle.Render("Error opening toolcache: " + err.Error()))
		os.Exit(1)
	}

	entries, err := cache.Entries("jdk")
	if err != nil || len(entries) == 0 {
		fmt.Println(theme.InfoMessage("No JDKs installed via ojv"))
		fmt.Println("  " + theme.Faint.Render("Use ") + theme.Code.Render("ojv install") + theme.Faint.Render(" to install one"))
		return
	}

	var target *toolcache.Entry

	// Interactive mode if no version specified
	if len(os.Args) < 3 {
		options := make([]huh.Option[int], len(entries))
		for i, entry := range entries {
			label := fmt.Sprintf("%s %s %s",
				currentStyle.Render("JDK "+entry.Version),
				theme.Faint.Render("("+entry.Arch+")"),
				theme.PathStyle.Render(entry.Path))
			options[i] = huh.NewOption(label, i)
		}

		var selectedIdx int
		err := huh.NewSelect[int]().
			Title(theme.Subtitle.Render("Select JDK to Uninstall")).
			Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
			Options(options...).
			Value(&selectedIdx).
			Run()
		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("Selection cancelled: %v", err)))
			os.Exit(1)
		}
		target = &entries[selectedIdx]
	} else {
		version := os.Args[2]
		for i, entry := range entries {
			if strings.Contains(entry.Version, version) {
				target = &entries[i]
				break
			}
		}

		if target == nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("JDK version '%s' is not installed via ojv.", version)))
			fmt.Println(infoStyle.Render("Use 'ojv list' to see installed versions."))
			os.Exit(1)
		}
	}

	confirmed, err := confirmAction(
		fmt.Sprintf("Uninstall JDK %s?", target.Version),
		fmt.Sprintf("Path: %s\n\nThis removes the installation from disk.", target.Path),
	)
	if err != nil || !confirmed {
		fmt.Println(warningStyle.Render("Operation cancelled."))
		return
	}

	if err := cache.Remove("jdk", target.Version, target.Arch); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Failed to remove JDK: %v", err)))
		os.Exit(1)
	}

	cfg.RemoveInstalledJDK(target.Version, target.Arch)
	if err := cfg.Save(); err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to save config: %v", err)))
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Uninstalled JDK %s", target.Version)))

	// Warn when JAVA_HOME pointed at the removed installation
	current, _ := env.GetJavaHome()
	if current == "" {
		current = os.Getenv("JAVA_HOME")
	}
	if strings.EqualFold(current, target.Path) {
		fmt.Println()
		fmt.Println(theme.WarningMessage("JAVA_HOME pointed at the removed JDK"))
		fmt.Println(theme.Faint.Render("  Run 'ojv use <version>' to switch to another installation"))
	}
}

func openToolcache(cfg *config.Config) (*toolcache.Cache, error) {
	if cfg.ToolcacheDir != "" {
		return toolcache.New(cfg.ToolcacheDir), nil
	}
	return toolcache.Default()
}

func handleUpdate() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	// Check if updates are disabled
	if !cfg.UpdateConfig.Enabled {
		fmt.Println(warningStyle.Render("Updates are disabled in configuration."))
		fmt.Println(theme.Faint.Render("To enable, edit ~/.config/ojv/ojv.json and set update_config.enabled to true"))
		return
	}

	upd, err := updater.NewUpdater(cfg, Version)
	if err != nil {
		fmt.Println(errorStyle.Render("Error initializing updater: " + err.Error()))
		os.Exit(1)
	}

	updater.ShowCheckingForUpdates()

	ctx, cancel := context.WithTimeout(context.Background(), updater.UpdateTimeout)
	defer cancel()

	release, err := upd.CheckForUpdate(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render("Update check failed: " + err.Error()))
		os.Exit(1)
	}

	// No update available
	if release == nil {
		updater.ShowAlreadyUpToDate(Version)
		return
	}

	// Prompt user for action
	action, err := upd.PromptForUpdate(release)
	if err != nil {
		fmt.Println(warningStyle.Render("Update cancelled."))
		return
	}

	if action != "update" {
		if action == "skip" {
			fmt.Println(theme.InfoMessage(fmt.Sprintf("Skipped version %s", release.Version())))
		} else {
			fmt.Println(theme.InfoMessage("Update postponed"))
		}
		return
	}

	updater.ShowDownloadingUpdate(release.Version())

	if err := upd.PerformUpdate(ctx, release); err != nil {
		fmt.Println()
		fmt.Println(errorStyle.Render("Update failed: " + err.Error()))
		fmt.Println()
		fmt.Println(theme.Faint.Render("Please try again or download manually from:"))
		fmt.Println(theme.Faint.Render("https://github.com/CostaBrosky/ojv/releases"))
		os.Exit(1)
	}

	updater.ShowUpdateSuccess(release.Version())
}

func printVersion() {
	linkStyle := lipgloss.NewStyle().
		Foreground(theme.Info).
		Underline(true)

	fmt.Printf("%s %s %s\n",
		theme.Subtitle.Render("Oracle JDK Version Manager (ojv)"),
		theme.Faint.Render("version"),
		theme.HighlightText(Version))
	fmt.Println(linkStyle.Render("https://github.com/CostaBrosky/ojv"))
	fmt.Println()

	fmt.Println(theme.SuccessStyle.Italic(true).Render("✨ Interactive TUI powered by Huh! and Lip Gloss"))
}

func printUsage() {
	// ASCII Art Banner with OJV theme
	banner := ` ██████╗      ██╗██╗   ██╗
██╔═══██╗     ██║██║   ██║
██║   ██║     ██║╚██╗ ██╔╝
██║   ██║██   ██║ ╚████╔╝
╚██████╔╝╚█████╔╝  ╚██╔╝
 ╚═════╝  ╚════╝    ╚═╝   `

	fmt.Println(theme.Banner.Render(banner))
	fmt.Println(theme.Subtitle.Render("Oracle JDK Version Manager"))
	fmt.Println(theme.Faint.Render("Install and switch Oracle JDK builds from download.oracle.com"))
	fmt.Println()

	// Usage section
	fmt.Println(theme.Title.Render("USAGE"))
	fmt.Println(theme.Faint.Render("  ojv <command> [arguments]"))
	fmt.Println()

	// Command categories use theme
	categoryStyle := theme.Subtitle
	commandStyle := theme.CommandStyle
	descStyle := theme.Faint

	fmt.Println(categoryStyle.Render("INSTALLATION"))
	fmt.Printf("  %s [version...]  %s\n",
		commandStyle.Render("install"),
		descStyle.Render("Install Oracle JDK (interactive without arguments)"))
	fmt.Printf("  %s [version]   %s\n",
		commandStyle.Render("uninstall"),
		descStyle.Render("Remove an installed JDK"))
	fmt.Println()

	fmt.Println(categoryStyle.Render("VERSION MANAGEMENT"))
	fmt.Printf("  %s                  %s\n",
		commandStyle.Render("list"),
		descStyle.Render("List installed JDK versions"))
	fmt.Printf("  %s [version]         %s\n",
		commandStyle.Render("use"),
		descStyle.Render("Switch JAVA_HOME to a JDK version"))
	fmt.Printf("  %s               %s\n",
		commandStyle.Render("current"),
		descStyle.Render("Show current JDK version"))
	fmt.Println()

	fmt.Println(categoryStyle.Render("UPDATES"))
	fmt.Printf("  %s                %s\n",
		commandStyle.Render("update"),
		descStyle.Render("Check for and install ojv updates"))
	fmt.Println()

	fmt.Println(categoryStyle.Render("OTHER"))
	fmt.Printf("  %s               %s\n",
		commandStyle.Render("version"),
		descStyle.Render("Show version information"))
	fmt.Printf("  %s                  %s\n",
		commandStyle.Render("help"),
		descStyle.Render("Show this help message"))
	fmt.Println()

	// Examples section
	fmt.Println(theme.Title.Render("EXAMPLES"))
	fmt.Println("  " + theme.Code.Render("ojv install") + "           # Install a JDK interactively")
	fmt.Println("  " + theme.Code.Render("ojv install 21") + "        # Install latest JDK 21")
	fmt.Println("  " + theme.Code.Render("ojv install 21.0.3") + "    # Install an exact version")
	fmt.Println("  " + theme.Code.Render("ojv list") + "              # List installed versions")
	fmt.Println("  " + theme.Code.Render("ojv use 21") + "            # Switch to JDK 21")
	fmt.Println("  " + theme.Code.Render("ojv update") + "            # Check for ojv updates")
	fmt.Println()

	if env.RequiresAdmin() {
		note := theme.WarningBox.Render("⚠  Administrator privileges required for: use, install")
		fmt.Println(note)
		fmt.Println()
	}

	// Footer with theme
	fmt.Println(theme.Faint.Italic(true).Render("For more information: https://github.com/CostaBrosky/ojv"))
}

// selectJavaVersion shows an interactive selector for JDK versions
func selectJavaVersion(versions []java.Version) (*java.Version, error) {
	// Prefer managed JAVA_HOME, fallback to process env
	current, _ := env.GetJavaHome()
	if current == "" {
		current = os.Getenv("JAVA_HOME")
	}

	// Reorder: put current first
	ordered := make([]java.Version, 0, len(versions))
	for _, v := range versions {
		if strings.EqualFold(v.Path, current) {
			ordered = append(ordered, v)
		}
	}
	for _, v := range versions {
		if !strings.EqualFold(v.Path, current) {
			ordered = append(ordered, v)
		}
	}

	options := make([]huh.Option[int], len(ordered))
	for i, v := range ordered {
		// Version part (highlight current or all when no current is set)
		versionPart := v.Version
		if current == "" || strings.EqualFold(v.Path, current) {
			versionPart = currentStyle.Render(v.Version)
		}

		// Compute padding based on visual width to align columns
		versionWidth := lipgloss.Width(versionPart)
		pad := 0
		if versionWidth < 15 {
			pad = 15 - versionWidth
		}
		padSpaces := strings.Repeat(" ", pad)

		sourceTag := "(system)"
		sourceStyle := theme.Faint
		if v.FromCache {
			sourceTag = "(ojv)"
			sourceStyle = successStyle
		}

		label := fmt.Sprintf("%s%s %s %s", versionPart, padSpaces, v.Path, sourceStyle.Render(sourceTag))
		// Mark current explicitly
		if strings.EqualFold(v.Path, current) {
			label += " " + theme.Faint.Render("[current]")
		}

		options[i] = huh.NewOption(label, i)
	}

	var selectedIdx int

	err := huh.NewSelect[int]().
		Title(theme.Subtitle.Render("Select JDK Version")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selectedIdx).
		Run()

	if err != nil {
		return nil, err
	}

	return &ordered[selectedIdx], nil
}

// confirmAction shows a confirmation prompt
func confirmAction(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render(description)).
		Affirmative(theme.SuccessStyle.Render("Yes")).
		Negative(theme.ErrorStyle.Render("No")).
		Value(&confirmed).
		Run()

	return confirmed, err
}

func checkForUpdateBackground() {
	// Don't block program exit
	defer func() {
		if r := recover(); r != nil {
			// Silently ignore panics in background check
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return
	}

	upd, err := updater.NewUpdater(cfg, Version)
	if err != nil {
		return
	}

	if !upd.ShouldCheckForUpdate() {
		return
	}

	// Shorter timeout for background check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	release, err := upd.CheckForUpdate(ctx)
	if err != nil || release == nil {
		return
	}

	// Show subtle notification
	updater.ShowUpdateNotification(Version, release.Version())
}
