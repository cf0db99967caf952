// Package interval provides binary searches over sorted, duplicate-free date
// slices. Every windowing algorithm extracts its sub-ranges through
// FindDelimiters.
package interval

import (
	"sort"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
)

// lowerBound returns the first index whose value is >= v.
func lowerBound(seq []calendar.Date, v calendar.Date) int {
	return sort.Search(len(seq), func(i int) bool { return !seq[i].Before(v) })
}

// upperBound returns the first index whose value is > v.
func upperBound(seq []calendar.Date, v calendar.Date) int {
	return sort.Search(len(seq), func(i int) bool { return seq[i].After(v) })
}

// IndexOf returns the index of v in seq.
func IndexOf(seq []calendar.Date, v calendar.Date) (int, error) {
	i := lowerBound(seq, v)
	if i == len(seq) || seq[i] != v {
		return -1, errs.New(errs.NotFound, "day %s not found", v)
	}
	return i, nil
}

// FindLT returns the index of the rightmost value strictly less than v.
func FindLT(seq []calendar.Date, v calendar.Date) (int, error) {
	if i := lowerBound(seq, v); i > 0 {
		return i - 1, nil
	}
	return -1, errs.New(errs.NotFound, "no day before %s", v)
}

// FindLTE returns the index of the rightmost value less than or equal to v.
func FindLTE(seq []calendar.Date, v calendar.Date) (int, error) {
	if i := upperBound(seq, v); i > 0 {
		return i - 1, nil
	}
	return -1, errs.New(errs.NotFound, "no day on or before %s", v)
}

// FindGT returns the index of the leftmost value strictly greater than v.
func FindGT(seq []calendar.Date, v calendar.Date) (int, error) {
	if i := upperBound(seq, v); i < len(seq) {
		return i, nil
	}
	return -1, errs.New(errs.NotFound, "no day after %s", v)
}

// FindGTE returns the index of the leftmost value greater than or equal to v.
func FindGTE(seq []calendar.Date, v calendar.Date) (int, error) {
	if i := lowerBound(seq, v); i < len(seq) {
		return i, nil
	}
	return -1, errs.New(errs.NotFound, "no day on or after %s", v)
}

// FindDelimiters returns the first index whose value is >= lo and the last
// index whose value is <= hi. The range [lo, hi] holds no value exactly when
// idxMin > idxMax, so seq[idxMin:idxMax+1] is always the matching window.
func FindDelimiters(seq []calendar.Date, lo, hi calendar.Date) (idxMin, idxMax int) {
	idxMin = lowerBound(seq, lo)
	idxMax = idxMin + upperBound(seq[idxMin:], hi) - 1
	return idxMin, idxMax
}
