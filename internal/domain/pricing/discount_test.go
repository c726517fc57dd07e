package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeDiscount_SumsExactly(t *testing.T) {
	cases := []struct {
		name       string
		discount   int64
		lineTotals []int64
	}{
		{"even split", 9000, []int64{30000, 30000, 30000}},
		{"rounding drift", 10000, []int64{33333, 33333, 33334}},
		{"single line", 15000, []int64{200000}},
		{"tiny discount many lines", 7, []int64{1000, 1000, 1000, 1000, 1000}},
		{"uneven lines", 12345, []int64{99999, 1, 54321, 777}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allocations := DistributeDiscount(tc.discount, tc.lineTotals)
			require.Len(t, allocations, len(tc.lineTotals))

			var sum int64
			for i, a := range allocations {
				assert.GreaterOrEqual(t, a, int64(0), "allocation %d negative", i)
				sum += a
			}
			assert.Equal(t, tc.discount, sum)
		})
	}
}

func TestDistributeDiscount_ResidueGoesToLastLine(t *testing.T) {
	// 10000 over thirds: first two lines round to 3333, last absorbs 3334.
	allocations := DistributeDiscount(10000, []int64{10000, 10000, 10000})

	assert.Equal(t, []int64{3333, 3333, 3334}, allocations)
}

func TestDistributeDiscount_ResidueSpillsBackWhenLastLineIsSmall(t *testing.T) {
	// Four equal lines round their shares down, so the remainder would be 2
	// against a 1-unit last line. The extra unit flows back to a line with
	// room instead of overdrawing the last one.
	lineTotals := []int64{1000, 1000, 1000, 1000, 1}
	allocations := DistributeDiscount(1806, lineTotals)

	assert.Equal(t, []int64{451, 451, 451, 452, 1}, allocations)

	var sum int64
	for i, a := range allocations {
		assert.LessOrEqual(t, a, lineTotals[i], "allocation %d exceeds its line total", i)
		sum += a
	}
	assert.Equal(t, int64(1806), sum)
}

func TestDistributeDiscount_NoAllocationExceedsItsLine(t *testing.T) {
	cases := []struct {
		name       string
		discount   int64
		lineTotals []int64
	}{
		{"tiny last line", 1806, []int64{1000, 1000, 1000, 1000, 1}},
		{"tiny first and last", 999, []int64{1, 500, 500, 1}},
		{"near-gross discount", 9999, []int64{5000, 4000, 1000}},
		{"full gross", 10001, []int64{5000, 5000, 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allocations := DistributeDiscount(tc.discount, tc.lineTotals)

			var sum, gross int64
			for i, a := range allocations {
				assert.GreaterOrEqual(t, a, int64(0))
				assert.LessOrEqual(t, a, tc.lineTotals[i], "allocation %d exceeds its line total", i)
				sum += a
				gross += tc.lineTotals[i]
			}
			want := tc.discount
			if want > gross {
				want = gross
			}
			assert.Equal(t, want, sum)
		})
	}
}

func TestDistributeDiscount_ZeroGross(t *testing.T) {
	allocations := DistributeDiscount(5000, []int64{0, 0})

	assert.Equal(t, []int64{0, 0}, allocations)
}

func TestDistributeDiscount_ClampsToGross(t *testing.T) {
	allocations := DistributeDiscount(100000, []int64{20000, 10000})

	var sum int64
	for i, a := range allocations {
		assert.LessOrEqual(t, a, []int64{20000, 10000}[i])
		sum += a
	}
	assert.Equal(t, int64(30000), sum)
}

func TestDistributeDiscount_ZeroDiscount(t *testing.T) {
	allocations := DistributeDiscount(0, []int64{100, 200})

	assert.Equal(t, []int64{0, 0}, allocations)
}

func TestDistributeDiscount_EmptyInput(t *testing.T) {
	assert.Empty(t, DistributeDiscount(100, nil))
}

func TestDistributeDiscount_ProportionalShares(t *testing.T) {
	// 75/25 split of 1000
	allocations := DistributeDiscount(1000, []int64{7500, 2500})

	assert.Equal(t, []int64{750, 250}, allocations)
}
