// Package types contains the shared domain types for BOM cost computation.
package types

import (
	"github.com/shopspring/decimal"

	"bom-cogs/internal/errors"
)

// PartIdentity identifies a distinct pricing lookup. Identical identities
// are priced once per run.
type PartIdentity struct {
	// PartNumber is the manufacturer or internal part number
	PartNumber string

	// Manufacturer is the manufacturer name, empty if unused
	Manufacturer string
}

// BomLine is one row of the input BOM. Read-only after load.
type BomLine struct {
	// PartNumber is the part number column value
	PartNumber string

	// Manufacturer is the manufacturer column value, empty if unused
	Manufacturer string

	// Quantity is the number of units of this part per assembly
	Quantity int
}

// Identity returns the pricing lookup key for this line
func (l BomLine) Identity() PartIdentity {
	return PartIdentity{
		PartNumber:   l.PartNumber,
		Manufacturer: l.Manufacturer,
	}
}

// PriceTable maps purchase-quantity breakpoints to per-unit prices.
//
// Breakpoints are distinct positive integers and prices are non-negative;
// both are enforced when entries are added. Storage implies no ordering:
// resolution treats the table as an unordered set of (quantity, price)
// pairs.
type PriceTable struct {
	prices map[int]decimal.Decimal
}

// NewPriceTable creates an empty price table
func NewPriceTable() *PriceTable {
	return &PriceTable{
		prices: make(map[int]decimal.Decimal),
	}
}

// Set adds or replaces a breakpoint entry. A duplicate breakpoint wins over
// the earlier write.
func (t *PriceTable) Set(breakpoint int, price decimal.Decimal) error {
	if breakpoint <= 0 {
		return errors.Newf(errors.TypeInput, "breakpoint must be positive, got %d", breakpoint)
	}
	if price.IsNegative() {
		return errors.Newf(errors.TypeInput, "unit price must be non-negative, got %s", price)
	}
	t.prices[breakpoint] = price
	return nil
}

// Price returns the unit price at an exact breakpoint
func (t *PriceTable) Price(breakpoint int) (decimal.Decimal, bool) {
	price, ok := t.prices[breakpoint]
	return price, ok
}

// Breakpoints returns the breakpoint quantities in unspecified order
func (t *PriceTable) Breakpoints() []int {
	bps := make([]int, 0, len(t.prices))
	for bp := range t.prices {
		bps = append(bps, bp)
	}
	return bps
}

// Len returns the number of breakpoint entries
func (t *PriceTable) Len() int {
	return len(t.prices)
}

// PartPrices is the result of one pricing lookup: the source's identifier
// for the matched part and its breakpoint price table.
type PartPrices struct {
	// CofactrID is the pricing source's identifier for the part
	CofactrID string

	// Prices is the breakpoint table, never empty when PartPrices is present
	Prices *PriceTable
}

// ResolvedPrice is the outcome of resolving a price table at one target
// purchase quantity.
type ResolvedPrice struct {
	// UnitPrice is the per-unit price at the chosen breakpoint
	UnitPrice decimal.Decimal

	// Breakpoint is the tier quantity that supplied the price
	Breakpoint int
}
