// Package stats holds the numeric and categorical statistics used by the
// aggregator. Functions never round; callers round at their own boundary.
package stats

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// Average is the arithmetic mean, 0 for empty input.
func Average(numbers []float64) float64 {
	mean, err := stats.Mean(numbers)
	if err != nil {
		return 0
	}
	return mean
}

// Median is the middle element of the sorted input, or the mean of the two
// middle elements for even counts. 0 for empty input. The input is not modified.
func Median(numbers []float64) float64 {
	median, err := stats.Median(numbers)
	if err != nil {
		return 0
	}
	return median
}

// Range returns the smallest and largest value. Both are NaN for empty input.
func Range(numbers []float64) (lo float64, hi float64) {
	lo, err := stats.Min(numbers)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	hi, err = stats.Max(numbers)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}

// Mode returns the most frequent value. Ties go to the value seen first.
// ok is false for empty input.
func Mode[T comparable](values []T) (mode T, ok bool) {
	counts := make(map[T]int, len(values))
	best := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > best {
			best = counts[v]
		}
	}

	// second pass keeps first-seen order among values that reach the best count
	for _, v := range values {
		if counts[v] == best {
			return v, true
		}
	}
	return mode, false
}

// Distribution counts occurrences of every distinct value.
func Distribution[T comparable](values []T) map[T]int {
	dist := make(map[T]int, len(values))
	for _, v := range values {
		dist[v]++
	}
	return dist
}

// Sum adds the input, 0 for empty input.
func Sum(numbers []float64) float64 {
	sum, err := stats.Sum(numbers)
	if err != nil {
		return 0
	}
	return sum
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
