package buildconfig

// Set with -ldflags "-X github.com/Harshitk-cp/helios/internal/buildconfig.version=..."
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const ServiceName = "helios"

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// UserAgent identifies outbound requests to completion and memory providers.
func UserAgent() string {
	return ServiceName + "/" + version
}

// VersionInfo is served at the API root.
func VersionInfo() map[string]string {
	return map[string]string{
		"service":    ServiceName,
		"version":    version,
		"commit":     commit,
		"build_date": buildDate,
	}
}
