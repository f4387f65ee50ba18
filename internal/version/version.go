// Package version - метаданные сборки, проставляемые через -ldflags "-X".
package version

import (
	"fmt"
	"runtime"
	"time"
)

const Service = "living"

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// buildEpoch - день отсчета номера сборки.
var buildEpoch = time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	Service    string `json:"service"`
	BuildID    int    `json:"buildId"`
	BuildDate  string `json:"buildDate,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	GoVersion  string `json:"goVersion"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// CalculateBuildID - число дней от buildEpoch до даты сборки.
func CalculateBuildID(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", date)
	}

	// Both dates are UTC midnights, so whole hours divide evenly into days.
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info returns structured version information.
func Info() VersionInfo {
	info := VersionInfo{
		Service:   Service,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}

	id, err := CalculateBuildID(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("%s build unknown (%s) %s", info.Service, info.Error, info.GoVersion)
	}

	return fmt.Sprintf(
		"%s build %d (%s) commit[%s] branch[%s] ci[%s] %s",
		info.Service,
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
		info.GoVersion,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
