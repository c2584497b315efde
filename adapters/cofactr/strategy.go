package cofactr

import (
	"bom-cogs/internal/errors"
)

// SearchStrategy selects how Cofactr matches a part query.
type SearchStrategy string

const (
	// StrategyMPNSKUMfr matches on part number, SKU and manufacturer. The
	// query must carry the manufacturer name, so the BOM needs a
	// manufacturer column.
	StrategyMPNSKUMfr SearchStrategy = "mpn_sku_mfr"

	// StrategyFuzzy matches on part number only. On the wire it maps to
	// Cofactr's "default" strategy, which is tuned for search results.
	StrategyFuzzy SearchStrategy = "fuzzy"
)

// ParseSearchStrategy validates a strategy name from configuration
func ParseSearchStrategy(s string) (SearchStrategy, error) {
	switch SearchStrategy(s) {
	case StrategyMPNSKUMfr, StrategyFuzzy:
		return SearchStrategy(s), nil
	}
	return "", errors.Newf(errors.TypeConfig,
		"unknown search strategy %q, expected %q or %q", s, StrategyMPNSKUMfr, StrategyFuzzy)
}

// QueryValue returns the search_strategy query parameter value
func (s SearchStrategy) QueryValue() string {
	if s == StrategyFuzzy {
		return "default"
	}
	return string(s)
}

// NeedsManufacturer reports whether queries include the manufacturer name
func (s SearchStrategy) NeedsManufacturer() bool {
	return s == StrategyMPNSKUMfr
}
