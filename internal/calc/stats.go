// Summary statistics over metric samples
package calc

import "slices"

type Number interface {
	~uint64 | ~float64
}

// Calculates mean of supplied values after removing percentage of extreme values (post-sort)
func TrimmedMean[T Number](values []T, trimPercent float64) (mean float64) {
	if trimPercent < 0 {
		trimPercent = 0
	}

	n := len(values)
	if n == 0 {
		return
	}

	nums := slices.Clone(values)
	slices.Sort(nums)

	// How many values to drop from each end
	trimCount := int(float64(n) * trimPercent)
	if trimCount*2 >= n {
		trimCount = (n - 1) / 2
	}

	kept := nums[trimCount : n-trimCount]
	mean = Sum(kept) / float64(len(kept))
	return
}

func Sum[T Number](values []T) (sum float64) {
	for _, v := range values {
		sum += float64(v)
	}
	return
}

// Smallest and largest value, zero for no values
func Extremes[T Number](values []T) (low float64, high float64) {
	if len(values) == 0 {
		return
	}
	low = float64(slices.Min(values))
	high = float64(slices.Max(values))
	return
}
