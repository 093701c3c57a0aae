package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version of the dashboard binaries.
	Version = "0.3.0"

	// DataFormatVersion changes whenever the CSV/XLSX export columns or the
	// persisted dataset payload change shape.
	DataFormatVersion = "v1"

	// APIVersion covers the /api routes and websocket messages.
	APIVersion = "v1"
)

// Stamped by build.go through -ldflags -X.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the body of GET /api/version.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
}

func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
	}
}

// GetVersionString is the one-line banner used in startup logs.
func GetVersionString() string {
	return "Transformer Dashboard v" + Version
}

// GetFullVersionString adds build provenance to the banner.
func GetFullVersionString() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s, data format %s)",
		GetVersionString(), GitCommit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH, DataFormatVersion)
}
