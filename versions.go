package reqheaders

import (
	"fmt"
	"strconv"
	"strings"
)

// CompareVersions compares two dotted-numeric version strings ("2.10.1").
//
// It returns -1, 0, or 1 when a sorts before, equal to, or after b. Missing
// trailing components compare as zero, so "2.1" == "2.1.0". A component that
// is not a plain non-negative integer fails with ErrInvalidVersion;
// pre-release suffixes are out of scope for the client version headers this
// package targets.
func CompareVersions(a, b string) (int, error) {
	aParts, err := splitVersion(a)
	if err != nil {
		return 0, err
	}
	bParts, err := splitVersion(b)
	if err != nil {
		return 0, err
	}

	for i := 0; i < len(aParts) || i < len(bParts); i++ {
		av, bv := 0, 0
		if i < len(aParts) {
			av = aParts[i]
		}
		if i < len(bParts) {
			bv = bParts[i]
		}

		if av < bv {
			return -1, nil
		}
		if av > bv {
			return 1, nil
		}
	}

	return 0, nil
}

func splitVersion(version string) ([]int, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, fmt.Errorf("%w: empty version", ErrInvalidVersion)
	}

	segments := strings.Split(version, ".")
	parts := make([]int, len(segments))
	for i, segment := range segments {
		n, err := strconv.Atoi(segment)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: component %q in %q", ErrInvalidVersion, segment, version)
		}
		parts[i] = n
	}

	return parts, nil
}

// VersionAtLeast reports whether the named version header is present,
// parseable, and at least min.
//
// Absent and unparseable versions evaluate false, keeping
// minimum-app-version policy rules fail-closed.
func VersionAtLeast(bag HeaderBag, header, min string) bool {
	value, ok := bag.Get(header)
	if !ok {
		return false
	}

	cmp, err := CompareVersions(value, min)
	if err != nil {
		return false
	}
	return cmp >= 0
}
