// Copyright (C) 2024-2025 The minahash Authors
// This file is part of minahash
//
// minahash is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// minahash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with minahash.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"strconv"
)

// VersionMajor and VersionMinor are bumped by hand. Major changes when a
// wire or string encoding changes incompatibly.
const (
	VersionMajor = 0
	VersionMinor = 3
)

// Build variables, set with -ldflags "-X github.com/mina-go/minahash/config.CommitHash=...".
var (
	BuildNumber string
	CommitHash  string
	Branch      string
)

// Version describes the running binary.
type Version struct {
	Major       int
	Minor       int
	BuildNumber int
	CommitHash  string
	Branch      string
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.BuildNumber)
}

// GetCurrentVersion returns the version of this build. A missing or
// malformed build number reads as 0.
func GetCurrentVersion() Version {
	build, _ := strconv.Atoi(BuildNumber)
	return Version{
		Major:       VersionMajor,
		Minor:       VersionMinor,
		BuildNumber: build,
		CommitHash:  CommitHash,
		Branch:      Branch,
	}
}

// FormatVersionAndLicense returns the text printed by minahash --version.
func FormatVersionAndLicense() string {
	v := GetCurrentVersion()
	commit, branch := v.CommitHash, v.Branch
	if commit == "" {
		commit = "unknown"
	}
	if branch == "" {
		branch = "dev"
	}
	return fmt.Sprintf("%s [%s] (commit #%s)\n%s", v, branch, commit, GetLicenseInfo())
}

// GetLicenseInfo retrieves the current license information
func GetLicenseInfo() string {
	return "minahash is licensed with AGPLv3.0"
}
