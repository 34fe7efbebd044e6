package java

// Version represents a JDK installation
type Version struct {
	Version   string // Version string (e.g., "21.0.3")
	Path      string // Full path to the JDK home
	Arch      string // Architecture, when known (toolcache installs)
	FromCache bool   // Whether this install lives in the ojv toolcache
}
