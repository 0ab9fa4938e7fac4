// Package tokenweave is a structured text-editing engine: the raw value is
// a plain string while recognized tokens render as arbitrary visual content.
// See the engine, structured and editor packages.
package tokenweave

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

// SemVer is a parsed SemVer 2.0.0 version.
type SemVer struct {
	Major, Minor, Patch int
	Pre                 string
	Build               string
}

// ParseSemver parses v, which must not carry a leading `v`.
func ParseSemver(v string) (SemVer, error) {
	m := semverRE.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return SemVer{}, fmt.Errorf("invalid semver %q", v)
	}
	var out SemVer
	for i, dst := range []*int{&out.Major, &out.Minor, &out.Patch} {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return SemVer{}, fmt.Errorf("invalid semver %q: %w", v, err)
		}
		*dst = n
	}
	out.Pre, out.Build = m[4], m[5]
	return out, nil
}

func (s SemVer) String() string {
	out := fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
	if s.Pre != "" {
		out += "-" + s.Pre
	}
	if s.Build != "" {
		out += "+" + s.Build
	}
	return out
}

// Version returns the module version without the leading `v`.
func Version() string { return strings.TrimSpace(embeddedVersion) }

// VersionTag returns Version as a git tag.
func VersionTag() string { return "v" + Version() }

// IsSemver reports whether v is a valid SemVer 2.0.0 string.
func IsSemver(v string) bool {
	_, err := ParseSemver(v)
	return err == nil
}
