// SPDX-License-Identifier: MIT
//
// Package build exposes metadata embedded with linker flags:
//
//	go build -ldflags "-X guitartuner/pkg/build.buildName=guitartuner \
//	    -X guitartuner/pkg/build.buildVersion=0.1.0 ..."
//
// Development builds carry no flags and report "dev" values.
package build

import (
	"fmt"
	"strings"
)

// Description is the one-line summary shown in CLI help.
const Description = "Real-time guitar tuner with voice-style commands"

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// String returns "name version (commit, time)".
func (f *ldFlags) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", f.Name, f.Version, f.Commit, f.Time)
}

// Populated by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = devFlags()
)

func devFlags() *ldFlags {
	return &ldFlags{
		Name:        "guitartuner",
		Description: Description,
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
}

// Initialize copies the linker-provided values into the build flags. Values
// that were not provided keep their development defaults, and the returned
// error names them.
func Initialize() error {
	var missing []string
	set := func(dst *string, val, name string) {
		if val == "" {
			missing = append(missing, name)
			return
		}
		*dst = val
	}

	set(&buildFlags.Name, buildName, "BuildName")
	set(&buildFlags.Time, buildTime, "BuildTime")
	set(&buildFlags.Commit, buildCommit, "BuildCommit")
	set(&buildFlags.Version, buildVersion, "BuildVersion")

	if len(missing) > 0 {
		return fmt.Errorf("missing build flags: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
