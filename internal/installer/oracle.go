package installer

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"ojv/internal/theme"

	"github.com/Masterminds/semver/v3"
)

const (
	oracleDownloadBase = "https://download.oracle.com/java"
	oracleBaselineURL  = "https://javadl-esd-secure.oracle.com/update/baseline.version"

	// Oracle publishes archive builds starting with the 17 line
	oracleMinMajor = 17
)

// LTS lines per the Oracle Java SE support roadmap
var oracleLTSMajors = map[int]bool{
	17: true,
	21: true,
	25: true,
}

// OracleDistributor implements the Distributor interface for Oracle JDK.
// Oracle exposes no queryable release API: download URLs are derived from
// archive naming conventions and confirmed to exist with a HEAD probe, and
// bare major versions are expanded through the out-of-band baseline listing.
type OracleDistributor struct {
	// client talks to the distribution host. The baseline endpoint lives on a
	// separate host with its own availability domain and is queried with a
	// short-lived client instead.
	client       *http.Client
	downloadBase string
	baselineURL  string
	packageType  string
}

// NewOracleDistributor creates a new Oracle JDK distributor
func NewOracleDistributor() *OracleDistributor {
	return &OracleDistributor{
		client:       &http.Client{},
		downloadBase: oracleDownloadBase,
		baselineURL:  oracleBaselineURL,
		packageType:  "jdk",
	}
}

// Name returns the distributor name
func (o *OracleDistributor) Name() string {
	return "Oracle JDK"
}

// normalizePlatform maps a host OS identifier into Oracle's URL vocabulary
func normalizePlatform(hostOS string) (string, error) {
	switch hostOS {
	case "linux":
		return "linux", nil
	case "darwin":
		return "macos", nil
	case "windows":
		return "windows", nil
	}
	return "", fmt.Errorf("unsupported platform %q: Oracle JDK builds are published for linux, darwin and windows", hostOS)
}

// normalizeArch validates a requested architecture against the two CPU
// families Oracle publishes builds for. Runs before any network I/O.
func normalizeArch(arch string) (string, error) {
	switch arch {
	case "x64", "aarch64":
		return arch, nil
	}
	return "", fmt.Errorf("unsupported architecture %q: supported architectures are x64 and aarch64", arch)
}

// DefaultArch maps the Go runtime architecture onto Oracle's naming
func DefaultArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "arm64":
		return "aarch64"
	}
	return runtime.GOARCH
}

// archiveExtension returns the archive format Oracle ships for a platform
func archiveExtension(platform string) string {
	if platform == "windows" {
		return "zip"
	}
	return "tar.gz"
}

// FindPackageForDownload resolves a version spec ("21" or "21.0.3") into a
// verified archive download for the given host OS and architecture.
// A zero Release means no matching build is published on the server.
func (o *OracleDistributor) FindPackageForDownload(versionSpec, hostOS, arch string) (Release, error) {
	platform, err := normalizePlatform(hostOS)
	if err != nil {
		return Release{}, err
	}

	arch, err = normalizeArch(arch)
	if err != nil {
		return Release{}, err
	}

	if o.packageType != "jdk" {
		return Release{}, fmt.Errorf("unsupported package type %q: only full JDK distributions are published", o.packageType)
	}

	if strings.Contains(versionSpec, "-ea") {
		return Release{}, fmt.Errorf("early-access versions are not supported: %s", versionSpec)
	}

	major, _, isFull := strings.Cut(versionSpec, ".")
	majorNum, err := strconv.Atoi(major)
	if err != nil || majorNum <= 0 {
		return Release{}, fmt.Errorf("invalid version %q: major version must be a positive integer", versionSpec)
	}
	if majorNum < oracleMinMajor {
		return Release{}, fmt.Errorf("Oracle JDK %d is not published: archive builds start at JDK %d", majorNum, oracleMinMajor)
	}

	fullVersion := versionSpec
	if !isFull {
		// A bare major must always go through the baseline expansion, even
		// when the expanded value would equal the literal input.
		fullVersion, err = o.resolveLatestVersion(major)
		if err != nil {
			return Release{}, err
		}
		if fullVersion == "" {
			return Release{}, nil
		}
	}

	candidates := o.candidateURLs(major, fullVersion, platform, arch)
	return o.probeCandidates(fullVersion, candidates)
}

// candidateURLs composes the download URLs to probe, most likely first.
// A single shape exists today; newer naming schemes slot in ahead of it.
func (o *OracleDistributor) candidateURLs(major, fullVersion, platform, arch string) []string {
	ext := archiveExtension(platform)
	return []string{
		fmt.Sprintf("%s/%s/archive/jdk-%s_%s-%s_bin.%s", o.downloadBase, major, fullVersion, platform, arch, ext),
	}
}

// probeCandidates issues HEAD probes in order and returns the first candidate
// the server confirms. 404 moves on to the next candidate; any other non-200
// status is a server problem and aborts immediately.
func (o *OracleDistributor) probeCandidates(fullVersion string, candidates []string) (Release, error) {
	for _, candidate := range candidates {
		resp, err := o.client.Head(candidate)
		if err != nil {
			return Release{}, fmt.Errorf("failed to probe %s: %w", candidate, err)
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			return Release{Version: fullVersion, URL: candidate}, nil
		case http.StatusNotFound:
			continue
		default:
			return Release{}, fmt.Errorf("distribution server returned status %d for %s", resp.StatusCode, candidate)
		}
	}

	fmt.Println(theme.WarningMessage(fmt.Sprintf("No Oracle JDK build found for version %s", fullVersion)))
	return Release{}, nil
}

// resolveLatestVersion expands a bare major version into the newest full
// version of that line using Oracle's plaintext baseline listing.
// Returns the empty string when the line has no entry in the listing.
func (o *OracleDistributor) resolveLatestVersion(major string) (string, error) {
	body, err := o.fetchBaseline()
	if err != nil {
		return "", err
	}

	// Anchor on line boundaries so "21" cannot match "210.0.1" or pick up
	// suffixed pre-release identifiers. Baseline bodies may carry CRLF.
	re := regexp.MustCompile(fmt.Sprintf(`(?m)^(%s\.\d+\.\d+)\r?$`, regexp.QuoteMeta(major)))
	match := re.FindStringSubmatch(body)
	if match == nil {
		fmt.Println(theme.WarningMessage(fmt.Sprintf("Could not find the latest version for Oracle JDK %s", major)))
		return "", nil
	}

	return match[1], nil
}

// AvailableVersions lists the release lines advertised in the baseline file,
// newest first, restricted to the majors Oracle publishes archives for.
func (o *OracleDistributor) AvailableVersions() ([]JDKRelease, error) {
	body, err := o.fetchBaseline()
	if err != nil {
		return nil, err
	}

	re := regexp.MustCompile(`(?m)^(\d+)\.\d+\.\d+\r?$`)
	latest := make(map[string]*semver.Version)
	for _, match := range re.FindAllStringSubmatch(body, -1) {
		line := strings.TrimSuffix(match[0], "\r")
		majorNum, err := strconv.Atoi(match[1])
		if err != nil || majorNum < oracleMinMajor {
			continue
		}
		v, err := semver.NewVersion(line)
		if err != nil {
			continue
		}
		if cur, ok := latest[match[1]]; !ok || v.GreaterThan(cur) {
			latest[match[1]] = v
		}
	}

	releases := make([]JDKRelease, 0, len(latest))
	for major, v := range latest {
		majorNum, _ := strconv.Atoi(major)
		releases = append(releases, JDKRelease{
			Version: v.String(),
			Major:   major,
			IsLTS:   oracleLTSMajors[majorNum],
		})
	}

	sort.Slice(releases, func(i, j int) bool {
		vi, _ := strconv.Atoi(releases[i].Major)
		vj, _ := strconv.Atoi(releases[j].Major)
		return vi > vj
	})

	return releases, nil
}

// fetchBaseline retrieves the baseline version listing. The endpoint is a
// hard precondition: any transport failure or non-200 status is fatal.
func (o *OracleDistributor) fetchBaseline() (string, error) {
	client := &http.Client{}

	resp, err := client.Get(o.baselineURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch baseline versions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("baseline version request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read baseline response: %w", err)
	}

	return string(body), nil
}

// ChecksumURL returns the sha256 digest published next to the archive
func (r Release) ChecksumURL() string {
	return r.URL + ".sha256"
}

// FileName returns the archive file name from the download URL
func (r Release) FileName() string {
	return path.Base(r.URL)
}
