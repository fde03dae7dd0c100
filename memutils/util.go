package memutils

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~int64 | ~uint
}

// CheckPositive returns InvalidSizeError wrapped with the provided name if number is not
// greater than zero
func CheckPositive[T Number](number T, name string) error {
	if number <= 0 {
		return errors.Wrapf(InvalidSizeError, "%s is %d", name, number)
	}
	return nil
}

// ParseSize parses a size string as number[gGmMkK]. The multiplier is optional, and if not
// set, the unit passed in is used. The number can be any base.
func ParseSize(s, unit string) (int, error) {
	sz := strings.TrimRight(s, "gGmMkK")
	if len(sz) == 0 {
		return -1, errors.Wrapf(strconv.ErrSyntax, "%q: can't parse as num[gGmMkK]", s)
	}

	amt, err := strconv.ParseUint(sz, 0, 0)
	if err != nil {
		return -1, errors.Wrapf(err, "%q: can't parse as num[gGmMkK]", s)
	}

	if len(s) > len(sz) {
		unit = s[len(sz):]
	}

	var shift uint
	switch unit {
	case "G", "g":
		shift = 30
	case "M", "m":
		shift = 20
	case "K", "k":
		shift = 10
	case "":
		shift = 0
	default:
		return -1, errors.Wrapf(strconv.ErrSyntax, "can not parse %q as num[gGmMkK]", s)
	}

	if amt > uint64(math.MaxInt)>>shift {
		return -1, errors.Wrapf(strconv.ErrRange, "%q does not fit in %d bits", s, strconv.IntSize)
	}

	size := int(amt << shift)
	return size, CheckPositive(size, "size")
}
