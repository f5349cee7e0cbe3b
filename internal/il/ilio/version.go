// Package ilio is the IL textual codec of spec.md §4.4: a line-oriented
// parser and printer pair, each the exact inverse of the other.
package ilio

import (
	"regexp"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`^\d+(\.\d+){0,3}$`)
var dotSplit = regexp.MustCompile(`\.`)

// ValidVersion reports whether v has the shape the module prologue's
// mandatory `il <version>` directive requires (spec.md §4.4/§6). The
// grammar itself only asks for a bare dotted-numeric token; this is
// intentionally looser than semver so "il 0.1" (spec.md §8 scenario 5)
// keeps parsing.
func ValidVersion(v string) bool {
	return versionPattern.MatchString(v)
}

// CompareVersions orders two dotted-numeric version strings using
// golang.org/x/mod/semver by normalizing them into valid semver
// (padding missing components and adding the "v" prefix semver.Compare
// requires). Used by MinVersion gating (SPEC_FULL.md §2); not invoked
// by the default parse path.
func CompareVersions(a, b string) int {
	return semver.Compare(normalizeSemver(a), normalizeSemver(b))
}

// MinVersion reports whether v meets or exceeds floor, for callers that
// only accept IL at or above a given version (SPEC_FULL.md §2).
func MinVersion(v, floor string) bool {
	return CompareVersions(v, floor) >= 0
}

func normalizeSemver(v string) string {
	parts := dotSplit.Split(v, -1)
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	out := "v" + parts[0]
	for _, p := range parts[1:3] {
		out += "." + p
	}
	return out
}
