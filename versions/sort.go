package versions

import (
	"slices"
	"strings"
)

// SortVersions orders versions newest first. Runs of digits compare by
// numeric value, so "1.10.0" sorts before "1.9.0".
func SortVersions(versions []string) []string {
	out := slices.Clone(versions)
	slices.SortStableFunc(out, func(a, b string) int { return Compare(b, a) })
	return out
}

// Latest returns the newest version, or false when the list is empty.
func Latest(versions []string) (string, bool) {
	if len(versions) == 0 {
		return "", false
	}
	return SortVersions(versions)[0], true
}

// Compare compares a and b with numeric-aware ordering and returns -1, 0 or 1.
func Compare(a, b string) int {
	for a != "" && b != "" {
		ad, bd := isDigit(a[0]), isDigit(b[0])
		switch {
		case ad && bd:
			na, ra := digitRun(a)
			nb, rb := digitRun(b)
			if c := compareDigits(na, nb); c != 0 {
				return c
			}
			a, b = ra, rb
		case ad != bd:
			// digits sort before other characters
			if ad {
				return -1
			}
			return 1
		default:
			if c := strings.Compare(strings.ToLower(a[:1]), strings.ToLower(b[:1])); c != 0 {
				return c
			}
			a, b = a[1:], b[1:]
		}
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitRun(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// compareDigits compares two decimal strings without overflowing.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
