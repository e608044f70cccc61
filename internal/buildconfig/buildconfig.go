package buildconfig

// ServiceName is reported by the root health endpoint.
const ServiceName = "Deepfake Detection API"

// EngineVersion identifies the rule set that produces forensic reports.
// It only changes when the report rules change, independent of releases.
const EngineVersion = "1.0.0"

// Build-time variables injected via ldflags:
//
//	-X github.com/Harshitk-cp/deepfake-api/internal/buildconfig.version=...
var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo returns build and engine version information for /metrics.
func VersionInfo() map[string]string {
	return map[string]string{
		"service": ServiceName,
		"version": version,
		"commit":  commit,
		"engine":  EngineVersion,
	}
}
