package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var nightlyDatePattern = regexp.MustCompile(`(\d{8})`)

// IsNightly reports whether a reported version string names a nightly
// build (date-tagged development release) rather than a stable release.
func IsNightly(version string) bool {
	return strings.Contains(strings.ToLower(version), "nightly")
}

// NightlyDate extracts the embedded 8-digit build date from a nightly
// version or tag, e.g. "nightly-20250831-5-gc2d911f7" yields 20250831.
func NightlyDate(s string) (int, bool) {
	match := nightlyDatePattern.FindString(s)
	if match == "" {
		return 0, false
	}
	date, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return date, true
}

// Normalize strips the leading "v" and any trailing "-suffix" so the
// remainder can be compared as a version number.
func Normalize(version string) string {
	v := strings.TrimSpace(version)
	v = strings.TrimPrefix(v, "v")
	if idx := strings.Index(v, "-"); idx >= 0 {
		v = v[:idx]
	}
	return v
}

// Compare orders two stable version strings. Missing minor/patch
// components count as zero ("1.2" == "1.2.0"). Returns -1, 0 or 1.
func Compare(a, b string) (int, error) {
	va, err := semver.NewVersion(Normalize(a))
	if err != nil {
		return 0, fmt.Errorf("unparseable version %q: %w", a, err)
	}
	vb, err := semver.NewVersion(Normalize(b))
	if err != nil {
		return 0, fmt.Errorf("unparseable version %q: %w", b, err)
	}
	return va.Compare(vb), nil
}
