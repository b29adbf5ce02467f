package vim

import "math"

// maxCount caps counts instead of letting them overflow.
const maxCount = math.MaxInt32

// appendDigit adds a decimal digit to count.
// Only ASCII digits are accepted; anything else leaves count unchanged.
func appendDigit(count int, r rune) int {
	if r < '0' || r > '9' {
		return count
	}
	digit := int(r - '0')

	// Guard against overflow
	if count > (maxCount-digit)/10 {
		return maxCount
	}
	return count*10 + digit
}

// dropDigit removes the last digit of count, as <Del> does while a count
// is typed.
func dropDigit(count int) int {
	return count / 10
}

// IsCountStart returns true if the character could start a count.
// Note: '0' cannot start a count (it's a motion to line start).
func IsCountStart(r rune) bool {
	return r >= '1' && r <= '9'
}

// IsCountDigit returns true if the character is a digit valid in a count.
func IsCountDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// CombineCounts multiplies two counts together with overflow protection.
// This is used when both a pre-operator count and post-operator count exist.
// e.g., "2d3w" = delete (2*3=6) words
//
// Absent counts are 0 and count as 1, but two absent counts stay absent so
// that commands can tell "no count" from "1".
func CombineCounts(count1, count2 int) int {
	if count1 <= 0 && count2 <= 0 {
		return 0
	}
	if count1 <= 0 {
		count1 = 1
	}
	if count2 <= 0 {
		count2 = 1
	}

	// Guard against overflow
	if count1 > maxCount/count2 {
		return maxCount
	}

	return count1 * count2
}
