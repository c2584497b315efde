// Package pricing provides breakpoint price resolution.
//
// A price table carries volume-discount breakpoints: buying at least a
// tier's quantity entitles the buyer to that tier's unit price. Resolution
// therefore selects the largest breakpoint not exceeding the target
// purchase quantity.
package pricing

import (
	"bom-cogs/core/types"
)

// Resolve selects the unit price applicable at targetQuantity.
//
// It returns false when table is nil, empty, or when targetQuantity is
// smaller than every breakpoint: no price applies below the smallest tier.
// Resolution is a pure function of its inputs and is independent of the
// table's storage order.
func Resolve(table *types.PriceTable, targetQuantity int) (types.ResolvedPrice, bool) {
	if table == nil || table.Len() == 0 {
		return types.ResolvedPrice{}, false
	}

	best := 0
	for _, bp := range table.Breakpoints() {
		if bp <= targetQuantity && bp > best {
			best = bp
		}
	}
	if best == 0 {
		return types.ResolvedPrice{}, false
	}

	price, _ := table.Price(best)
	return types.ResolvedPrice{
		UnitPrice:  price,
		Breakpoint: best,
	}, true
}
