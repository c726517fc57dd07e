package pricing

// LineItem is a snapshot of one cart line, priced in minor units. The engine
// never reads the live catalog; callers freeze these values at checkout.
type LineItem struct {
	UnitPrice         int64
	Quantity          int
	TaxRatePercent    float64
	AfterTaxUnitPrice *int64
}

// LineTotal returns the pre-discount gross amount for the line.
func (li LineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Totals is the result of pricing a cart. Subtotal is the sum of
// post-discount line subtotals (tax-exclusive), Tax the sum of line tax
// contributions, Discount the clamped order-level discount. Total is
// Subtotal + Tax in both tax modes: with tax-inclusive prices the line
// subtotal already nets out the embedded tax, so Subtotal + Tax equals the
// gross inclusive amount minus the discount.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// LineBreakdown carries the per-line figures frozen onto order items at
// checkout time.
type LineBreakdown struct {
	DiscountAllocation int64
	Subtotal           int64
	Tax                int64
}

// ComputeTotals prices a cart under a single set of rules shared by the live
// cart preview, checkout, and the receipt. The order-level discount is
// distributed across lines first (see DistributeDiscount) and applied as a
// reduction of each line's gross amount before any tax computation.
//
// Per line, after the discount:
//   - An authoritative after-tax unit price always wins: tax per unit is
//     max(0, afterTax - unitPrice), regardless of the nominal rate or mode.
//   - Tax-inclusive prices: the post-discount amount is divided by
//     (1 + rate/100) to recover the tax-exclusive subtotal; tax is the
//     difference.
//   - Tax-exclusive prices: the post-discount amount is the subtotal; tax is
//     subtotal * rate/100, rounded.
func ComputeTotals(items []LineItem, orderDiscount int64, priceIncludesTax bool) Totals {
	totals, _ := ComputeTotalsWithLines(items, orderDiscount, priceIncludesTax)
	return totals
}

// ComputeTotalsWithLines is ComputeTotals plus the per-line breakdown, in the
// same stable order as the input.
func ComputeTotalsWithLines(items []LineItem, orderDiscount int64, priceIncludesTax bool) (Totals, []LineBreakdown) {
	if orderDiscount < 0 {
		orderDiscount = 0
	}

	lineTotals := make([]int64, len(items))
	var gross int64
	for i, it := range items {
		lineTotals[i] = it.LineTotal()
		gross += lineTotals[i]
	}
	if orderDiscount > gross {
		orderDiscount = gross
	}

	allocations := DistributeDiscount(orderDiscount, lineTotals)

	lines := make([]LineBreakdown, len(items))
	var subtotal, tax int64
	for i, it := range items {
		postDiscount := ClampNonNegative(lineTotals[i] - allocations[i])

		var lineSubtotal, lineTax int64
		switch {
		case it.AfterTaxUnitPrice != nil:
			// Authoritative catalog figure takes precedence over the rate.
			taxPerUnit := ClampNonNegative(*it.AfterTaxUnitPrice - it.UnitPrice)
			lineTax = taxPerUnit * int64(it.Quantity)
			lineSubtotal = postDiscount
		case priceIncludesTax && it.TaxRatePercent > 0:
			lineSubtotal = Round(float64(postDiscount) / (1 + it.TaxRatePercent/100))
			lineTax = postDiscount - lineSubtotal
		default:
			lineSubtotal = postDiscount
			lineTax = Round(float64(postDiscount) * it.TaxRatePercent / 100)
		}

		lines[i] = LineBreakdown{
			DiscountAllocation: allocations[i],
			Subtotal:           lineSubtotal,
			Tax:                lineTax,
		}
		subtotal += lineSubtotal
		tax += lineTax
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: orderDiscount,
		Total:    subtotal + tax,
	}, lines
}
