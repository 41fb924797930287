package models

import (
	"regexp"
	"strings"
)

const (
	epochSeparatorConstant   = ":"
	releaseSeparatorConstant = "-"
	defaultEpochConstant     = "0"
)

var versionPattern = regexp.MustCompile(`^([0-9]+:)?[A-Za-z0-9][A-Za-z0-9._+]*-[1-9][0-9]*(\.[1-9][0-9]*)?$`)

// Version is a full package version of the form [epoch:]pkgver-pkgrel.
type Version string

// IsValid reports whether the version is a well formed [epoch:]pkgver-pkgrel string.
func (version Version) IsValid() bool {
	return versionPattern.MatchString(string(version))
}

// IsOlderThan reports whether the version sorts before other.
func (version Version) IsOlderThan(other string) bool {
	return Vercmp(string(version), other) < 0
}

// IsNewerThan reports whether the version sorts after other.
func (version Version) IsNewerThan(other string) bool {
	return Vercmp(string(version), other) > 0
}

// Vercmp compares two package versions the way pacman does and returns -1, 0 or 1.
func Vercmp(first string, second string) int {
	if first == second {
		return 0
	}

	firstEpoch, firstVersion, firstRelease := splitEpochVersionRelease(first)
	secondEpoch, secondVersion, secondRelease := splitEpochVersionRelease(second)

	comparison := rpmvercmp(firstEpoch, secondEpoch)
	if comparison != 0 {
		return comparison
	}

	comparison = rpmvercmp(firstVersion, secondVersion)
	if comparison != 0 {
		return comparison
	}

	if len(firstRelease) > 0 && len(secondRelease) > 0 {
		return rpmvercmp(firstRelease, secondRelease)
	}

	return 0
}

func splitEpochVersionRelease(fullVersion string) (string, string, string) {
	epoch := defaultEpochConstant
	remainder := fullVersion

	digitCount := 0
	for digitCount < len(remainder) && isDigit(remainder[digitCount]) {
		digitCount++
	}
	if digitCount < len(remainder) && strings.HasPrefix(remainder[digitCount:], epochSeparatorConstant) {
		if digitCount > 0 {
			epoch = remainder[:digitCount]
		}
		remainder = remainder[digitCount+1:]
	}

	release := ""
	if separatorIndex := strings.LastIndex(remainder, releaseSeparatorConstant); separatorIndex >= 0 {
		release = remainder[separatorIndex+1:]
		remainder = remainder[:separatorIndex]
	}

	return epoch, remainder, release
}

// rpmvercmp compares alternating runs of digits and letters, ignoring separators.
func rpmvercmp(first string, second string) int {
	if first == second {
		return 0
	}

	firstIndex, secondIndex := 0, 0
	firstSegmentStart, secondSegmentStart := 0, 0
	isNumeric := false

	for firstIndex < len(first) && secondIndex < len(second) {
		for firstIndex < len(first) && !isAlphanumeric(first[firstIndex]) {
			firstIndex++
		}
		for secondIndex < len(second) && !isAlphanumeric(second[secondIndex]) {
			secondIndex++
		}

		if firstIndex >= len(first) || secondIndex >= len(second) {
			break
		}

		firstSeparatorLength := firstIndex - firstSegmentStart
		secondSeparatorLength := secondIndex - secondSegmentStart
		if firstSeparatorLength != secondSeparatorLength {
			if firstSeparatorLength < secondSeparatorLength {
				return -1
			}
			return 1
		}

		firstSegmentEnd, secondSegmentEnd := firstIndex, secondIndex
		if isDigit(first[firstSegmentEnd]) {
			for firstSegmentEnd < len(first) && isDigit(first[firstSegmentEnd]) {
				firstSegmentEnd++
			}
			for secondSegmentEnd < len(second) && isDigit(second[secondSegmentEnd]) {
				secondSegmentEnd++
			}
			isNumeric = true
		} else {
			for firstSegmentEnd < len(first) && isAlpha(first[firstSegmentEnd]) {
				firstSegmentEnd++
			}
			for secondSegmentEnd < len(second) && isAlpha(second[secondSegmentEnd]) {
				secondSegmentEnd++
			}
			isNumeric = false
		}

		// numeric segments are always newer than alpha segments
		if secondIndex == secondSegmentEnd {
			if isNumeric {
				return 1
			}
			return -1
		}

		firstSegment := first[firstIndex:firstSegmentEnd]
		secondSegment := second[secondIndex:secondSegmentEnd]

		if isNumeric {
			firstSegment = strings.TrimLeft(firstSegment, "0")
			secondSegment = strings.TrimLeft(secondSegment, "0")
			if len(firstSegment) > len(secondSegment) {
				return 1
			}
			if len(secondSegment) > len(firstSegment) {
				return -1
			}
		}

		if segmentComparison := strings.Compare(firstSegment, secondSegment); segmentComparison != 0 {
			return segmentComparison
		}

		firstIndex, secondIndex = firstSegmentEnd, secondSegmentEnd
		firstSegmentStart, secondSegmentStart = firstSegmentEnd, secondSegmentEnd
	}

	firstExhausted := firstIndex >= len(first)
	secondExhausted := secondIndex >= len(second)
	if firstExhausted && secondExhausted {
		return 0
	}

	// a trailing alpha segment marks a pre-release: 1.0a < 1.0 < 1.0.1
	if (firstExhausted && !isAlpha(second[secondIndex])) || (!firstExhausted && isAlpha(first[firstIndex])) {
		return -1
	}
	return 1
}

func isDigit(character byte) bool {
	return character >= '0' && character <= '9'
}

func isAlpha(character byte) bool {
	return (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z')
}

func isAlphanumeric(character byte) bool {
	return isDigit(character) || isAlpha(character)
}
