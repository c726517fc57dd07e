package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestComputeTotals_TaxExclusiveWithDiscount(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 100000, Quantity: 2, TaxRatePercent: 10},
	}

	totals := ComputeTotals(items, 15000, false)

	assert.Equal(t, int64(185000), totals.Subtotal)
	assert.Equal(t, int64(18500), totals.Tax)
	assert.Equal(t, int64(15000), totals.Discount)
	assert.Equal(t, int64(203500), totals.Total)
}

func TestComputeTotals_AfterTaxPriceIsAuthoritative(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 50000, Quantity: 1, TaxRatePercent: 8, AfterTaxUnitPrice: ptr(55000)},
	}

	// The nominal 8% rate must be ignored in both tax modes.
	for _, includesTax := range []bool{false, true} {
		totals := ComputeTotals(items, 0, includesTax)
		assert.Equal(t, int64(50000), totals.Subtotal)
		assert.Equal(t, int64(5000), totals.Tax)
		assert.Equal(t, int64(55000), totals.Total)
	}
}

func TestComputeTotals_TaxInclusiveBackCalculation(t *testing.T) {
	// 110000 inclusive at 10% -> 100000 net + 10000 tax
	items := []LineItem{
		{UnitPrice: 110000, Quantity: 1, TaxRatePercent: 10},
	}

	totals := ComputeTotals(items, 0, true)

	assert.Equal(t, int64(100000), totals.Subtotal)
	assert.Equal(t, int64(10000), totals.Tax)
	assert.Equal(t, int64(110000), totals.Total)
}

func TestComputeTotals_TaxInclusiveTotalEqualsGrossMinusDiscount(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 33000, Quantity: 3, TaxRatePercent: 10},
		{UnitPrice: 12000, Quantity: 1, TaxRatePercent: 8},
		{UnitPrice: 5000, Quantity: 2},
	}
	var gross int64
	for _, it := range items {
		gross += it.LineTotal()
	}

	discount := int64(20000)
	totals := ComputeTotals(items, discount, true)

	assert.Equal(t, gross-discount, totals.Total)
	assert.Equal(t, totals.Subtotal+totals.Tax, totals.Total)
}

func TestComputeTotals_TaxInclusiveIdentityHoldsOnSkewedCart(t *testing.T) {
	// The discount remainder lands on a 1-unit last line and must not be
	// swallowed by the post-discount clamp.
	items := []LineItem{
		{UnitPrice: 1000, Quantity: 1, TaxRatePercent: 10},
		{UnitPrice: 1000, Quantity: 1, TaxRatePercent: 10},
		{UnitPrice: 1000, Quantity: 1, TaxRatePercent: 10},
		{UnitPrice: 1000, Quantity: 1, TaxRatePercent: 10},
		{UnitPrice: 1, Quantity: 1, TaxRatePercent: 10},
	}
	var gross int64
	for _, it := range items {
		gross += it.LineTotal()
	}

	discount := int64(1806)
	totals, lines := ComputeTotalsWithLines(items, discount, true)

	assert.Equal(t, gross-discount, totals.Total)
	assert.Equal(t, totals.Subtotal+totals.Tax, totals.Total)

	var allocated int64
	for i, ln := range lines {
		assert.LessOrEqual(t, ln.DiscountAllocation, items[i].LineTotal())
		allocated += ln.DiscountAllocation
	}
	assert.Equal(t, discount, allocated)
}

func TestComputeTotals_ZeroRateLineHasNoTax(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 40000, Quantity: 1},
	}

	for _, includesTax := range []bool{false, true} {
		totals := ComputeTotals(items, 0, includesTax)
		assert.Equal(t, int64(40000), totals.Subtotal)
		assert.Equal(t, int64(0), totals.Tax)
		assert.Equal(t, int64(40000), totals.Total)
	}
}

func TestComputeTotals_DiscountExceedingGrossIsClamped(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 10000, Quantity: 1, TaxRatePercent: 10},
	}

	totals := ComputeTotals(items, 999999, false)

	assert.Equal(t, int64(10000), totals.Discount)
	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Tax)
	assert.Equal(t, int64(0), totals.Total)
}

func TestComputeTotals_NegativeDiscountTreatedAsZero(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 10000, Quantity: 2, TaxRatePercent: 10},
	}

	totals := ComputeTotals(items, -500, false)

	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(20000), totals.Subtotal)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, 5000, false)

	assert.Equal(t, Totals{}, totals)
}

func TestComputeTotalsWithLines_BreakdownReconciles(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 25000, Quantity: 2, TaxRatePercent: 10},
		{UnitPrice: 17500, Quantity: 1, TaxRatePercent: 10},
		{UnitPrice: 9900, Quantity: 3, TaxRatePercent: 5},
	}

	totals, lines := ComputeTotalsWithLines(items, 13000, false)
	require.Len(t, lines, 3)

	var allocSum, subSum, taxSum int64
	for _, ln := range lines {
		allocSum += ln.DiscountAllocation
		subSum += ln.Subtotal
		taxSum += ln.Tax
	}

	assert.Equal(t, totals.Discount, allocSum)
	assert.Equal(t, totals.Subtotal, subSum)
	assert.Equal(t, totals.Tax, taxSum)
	assert.Equal(t, subSum+taxSum, totals.Total)
}

// Preview and checkout call the same function on the same snapshot; the
// results must be bit-identical no matter how often it runs.
func TestComputeTotals_Stable(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 123457, Quantity: 3, TaxRatePercent: 7.5},
		{UnitPrice: 999, Quantity: 11, TaxRatePercent: 10},
	}

	first := ComputeTotals(items, 33333, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeTotals(items, 33333, true))
	}
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, int64(3), Round(2.5))
	assert.Equal(t, int64(2), Round(2.4))
	assert.Equal(t, int64(-3), Round(-2.5))
	assert.Equal(t, int64(-2), Round(-2.4))
	assert.Equal(t, int64(0), Round(0))
}
