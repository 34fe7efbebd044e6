package installer

// Distributor represents a JDK distribution provider
type Distributor interface {
	Name() string
	// AvailableVersions lists the release lines the provider currently publishes
	AvailableVersions() ([]JDKRelease, error)
	// FindPackageForDownload resolves a version spec into a concrete,
	// existence-verified archive download. A zero Release means no matching
	// build is published; that outcome is distinct from an error.
	FindPackageForDownload(versionSpec, hostOS, arch string) (Release, error)
}

// JDKRelease represents an available JDK release line
type JDKRelease struct {
	Version string // latest full version of the line, e.g. "21.0.3"
	Major   string // major component, e.g. "21"
	IsLTS   bool
}

// Release is a resolved archive download confirmed to exist on the
// distribution server. The zero value signals "no matching build found".
type Release struct {
	Version string // resolved full version, e.g. "21.0.3"
	URL     string // verified archive URL
}

// IsZero reports whether the release is the not-found sentinel
func (r Release) IsZero() bool {
	return r.URL == "" && r.Version == ""
}
