// Copyright 2025 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build version of rwsched and checks
// whether two builds can talk to each other.
package version

import (
	"fmt"
	"regexp"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// Version is the semantic version of this build. Release builds
// override it with -ldflags "-X".
var Version = "v0.1.0"

// MinServer is the oldest server release the client can drive.
var MinServer = MustSemver("v0.1.0")

// For example:
//
//	rwsched v0.1.0 (linux/amd64, go1.23.2)
//	rwsched v0.2.0-rc.1 (darwin/arm64, go1.23.2)
var verPattern = regexp.MustCompile(`^rwsched (v\d+\.\d+\.\d+(-[^ ]+)?)( |$)`)

// BuildVersion holds the semantic version of an rwsched build.
type BuildVersion struct {
	version string
}

// Banner returns the human-readable version line that [Parse]
// understands.
func Banner() string {
	return fmt.Sprintf("rwsched %s (%s/%s, %s)", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Current returns the version of the running binary.
func Current() *BuildVersion {
	return MustSemver(Version)
}

// Parse extracts the semantic version from a version banner.
func Parse(banner string) (*BuildVersion, error) {
	found := verPattern.FindStringSubmatch(banner)
	if found == nil {
		return nil, errors.Errorf("could not extract semver from %q", banner)
	}
	if !semver.IsValid(found[1]) {
		return nil, errors.Errorf("not a semver: %q", found[1])
	}
	return &BuildVersion{version: found[1]}, nil
}

// MustSemver panics if the version string is not a valid semantic version.
func MustSemver(version string) *BuildVersion {
	if !semver.IsValid(version) {
		panic("invalid version: " + version)
	}
	return &BuildVersion{version: version}
}

// MinVersion returns true if the version is at least the specified
// minimum.
func (v *BuildVersion) MinVersion(minVersion *BuildVersion) bool {
	return semver.Compare(v.version, minVersion.version) >= 0
}

// Compatible returns true if both versions share a major version and
// the receiver is no older than [MinServer].
func (v *BuildVersion) Compatible(other *BuildVersion) bool {
	return semver.Major(v.version) == semver.Major(other.version) && v.MinVersion(MinServer)
}

// String implements the Stringer interface.
func (v *BuildVersion) String() string {
	return v.version
}
