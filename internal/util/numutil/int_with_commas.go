package numutil

import "strconv"

// Integer is any signed integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// IntWithCommas returns the decimal form of i with thousands separated by
// commas, 12345 becomes "12,345".
func IntWithCommas[T Integer](i T) string {
	digits := strconv.FormatInt(int64(i), 10)
	sign := ""
	if digits[0] == '-' {
		sign, digits = "-", digits[1:]
	}

	for n := len(digits) - 3; n > 0; n -= 3 {
		digits = digits[:n] + "," + digits[n:]
	}
	return sign + digits
}
