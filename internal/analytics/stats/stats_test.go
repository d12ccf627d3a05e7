package stats

import (
	"math"
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "Should return 0 for empty input", input: nil, expected: 0},
		{name: "Should return single value", input: []float64{4}, expected: 4},
		{name: "Should return arithmetic mean", input: []float64{1, 2, 3, 4, 5}, expected: 3},
		{name: "Should not round", input: []float64{1, 2}, expected: 1.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Average(tc.input))
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "Should return 0 for empty input", input: []float64{}, expected: 0},
		{name: "Should return middle element for odd count", input: []float64{5, 1, 3}, expected: 3},
		{name: "Should average the two middle elements for even count", input: []float64{4, 1, 3, 2}, expected: 2.5},
		{name: "Should handle duplicates", input: []float64{2, 2, 2, 9}, expected: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Median(tc.input))
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	input := []float64{3, 1, 2}
	_ = Median(input)
	require.Equal(t, []float64{3, 1, 2}, input)
}

func TestRange(t *testing.T) {
	lo, hi := Range([]float64{3, -1, 7, 2})
	require.Equal(t, -1.0, lo)
	require.Equal(t, 7.0, hi)

	lo, hi = Range(nil)
	require.True(t, math.IsNaN(lo))
	require.True(t, math.IsNaN(hi))
}

func TestMode(t *testing.T) {
	tests := []struct {
		name       string
		input      []string
		expected   string
		expectedOK bool
	}{
		{name: "Should return most frequent value", input: []string{"a", "b", "a", "c"}, expected: "a", expectedOK: true},
		{name: "Should break ties by first-seen order", input: []string{"x", "y"}, expected: "x", expectedOK: true},
		{name: "Should break ties by first-seen order even when later value is lexicographically smaller", input: []string{"b", "a", "a", "b"}, expected: "b", expectedOK: true},
		{name: "Should report no mode for empty input", input: nil, expected: "", expectedOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mode, ok := Mode(tc.input)
			require.Equal(t, tc.expectedOK, ok)
			require.Equal(t, tc.expected, mode)
		})
	}
}

func TestDistribution(t *testing.T) {
	dist := Distribution([]string{"x", "y", "x", "z"})
	require.Equal(t, map[string]int{"x": 2, "y": 1, "z": 1}, dist)

	numeric := Distribution([]float64{1, 2, 2, 5})
	require.Equal(t, map[float64]int{1: 1, 2: 2, 5: 1}, numeric)

	require.Empty(t, Distribution([]int{}))
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "Should keep two decimals", input: 3.14159, expected: 3.14},
		{name: "Should round half up", input: 2.675, expected: 2.68},
		{name: "Should leave integers untouched", input: 3, expected: 3},
		{name: "Should round repeating decimals", input: 10.0 / 3.0, expected: 3.33},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Round2(tc.input))
		})
	}
}

func TestProperties_RandomSequences(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 50; i++ {
		n := faker.IntRange(1, 40)
		input := make([]float64, n)
		for j := range input {
			input[j] = faker.Float64Range(-100, 100)
		}

		shuffled := slices.Clone(input)
		faker.ShuffleAnySlice(shuffled)

		require.Equal(t, Median(input), Median(shuffled), "median must not depend on order")
		require.InDelta(t, Sum(input), Average(input)*float64(n), 1e-9)

		dist := Distribution(input)
		total := 0
		for _, count := range dist {
			total += count
		}
		require.Equal(t, n, total)
	}
}
