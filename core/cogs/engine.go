// Package cogs provides the COGS aggregation engine.
//
// The engine drives price resolution across all BOM lines and all requested
// purchase quantities, building one output row per line and running
// per-quantity totals. All I/O lives in the collaborators that supply the
// lines and the lookup; the engine itself only computes.
package cogs

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bom-cogs/core/pricing"
	"bom-cogs/core/types"
	"bom-cogs/internal/errors"
	"bom-cogs/internal/logging"
)

// Lookup fetches the price table for a part identity. A nil result means no
// pricing data; implementations absorb and log their own failures so that
// one unpriceable part never aborts the run.
type Lookup func(ctx context.Context, identity types.PartIdentity) *types.PartPrices

// Cell is one resolved (unit price, extended cost) pair of a row. A missing
// resolution is a nil *Cell, rendered as absent rather than zero.
type Cell struct {
	// UnitPrice is the resolved per-unit price at this tier
	UnitPrice decimal.Decimal

	// Extended is UnitPrice multiplied by the line's order quantity
	Extended decimal.Decimal
}

// Row is the aggregation output for one BOM line. Cells are in tier order
// and always have one entry per requested tier.
type Row struct {
	PartNumber   string
	Manufacturer string

	// CofactrID is the pricing source's identifier, empty when the lookup
	// found nothing
	CofactrID string

	// Quantity is the line's order quantity
	Quantity int

	Cells []*Cell
}

// Result is the complete aggregation output handed to the report emitter.
type Result struct {
	// Tiers holds the requested purchase quantities in caller order
	Tiers []int

	// Rows holds one entry per BOM line, in input order
	Rows []Row

	// Totals maps each tier to the sum of extended costs across all lines
	// that resolved at that tier
	Totals map[int]decimal.Decimal
}

// Engine aggregates COGS across BOM lines.
type Engine struct {
	lookup  Lookup
	workers int
	logger  *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithWorkers bounds the number of concurrent pricing lookups. The default
// of 1 keeps lookups strictly sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an aggregation engine backed by the given lookup
func NewEngine(lookup Lookup, opts ...Option) *Engine {
	e := &Engine{
		lookup:  lookup,
		workers: 1,
		logger:  logging.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aggregate resolves every line at every tier and accumulates totals.
//
// Lines are processed in input order and rows come back in the same order,
// regardless of lookup concurrency. A line without pricing data still
// produces a row with all cells absent. When no line resolves any price at
// any tier the run fails with a NO_PRICES_FOUND error.
func (e *Engine) Aggregate(ctx context.Context, lines []types.BomLine, tiers []int) (*Result, error) {
	if len(tiers) == 0 {
		return nil, errors.Input("at least one quantity tier is required")
	}

	log := e.logger.With(zap.String("run_id", uuid.NewString()))
	log.Info("computing COGS",
		zap.Int("parts", len(lines)),
		zap.Ints("quantities", tiers))

	prices, err := e.fetchAll(ctx, lines, log)
	if err != nil {
		return nil, err
	}

	totals := make(map[int]decimal.Decimal, len(tiers))
	for _, tier := range tiers {
		totals[tier] = decimal.Zero
	}

	rows := make([]Row, 0, len(lines))
	resolvedAny := false

	for _, line := range lines {
		row := Row{
			PartNumber:   line.PartNumber,
			Manufacturer: line.Manufacturer,
			Quantity:     line.Quantity,
			Cells:        make([]*Cell, len(tiers)),
		}

		var table *types.PriceTable
		if pp := prices[line.Identity()]; pp != nil {
			row.CofactrID = pp.CofactrID
			table = pp.Prices
		}

		for i, tier := range tiers {
			resolved, ok := pricing.Resolve(table, tier)
			if !ok {
				// Line-level miss: recorded as absent, never fatal.
				log.Debug("no applicable price",
					zap.String("part_number", line.PartNumber),
					zap.Int("quantity", tier))
				continue
			}

			extended := resolved.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			row.Cells[i] = &Cell{
				UnitPrice: resolved.UnitPrice,
				Extended:  extended,
			}
			totals[tier] = totals[tier].Add(extended)
			resolvedAny = true
		}

		rows = append(rows, row)
	}

	if !resolvedAny {
		log.Warn("no prices found for any parts")
		return nil, errors.NoPrices()
	}

	log.Info("computed COGS", zap.Int("rows", len(rows)))

	return &Result{
		Tiers:  append([]int(nil), tiers...),
		Rows:   rows,
		Totals: totals,
	}, nil
}

// fetchAll prices every distinct identity once. Duplicate identities are
// deduplicated before dispatch, so at most one lookup is ever in flight per
// identity. Identities whose lookup returns nothing, or an empty table, are
// simply absent from the returned map.
func (e *Engine) fetchAll(ctx context.Context, lines []types.BomLine, log *zap.Logger) (map[types.PartIdentity]*types.PartPrices, error) {
	identities := make([]types.PartIdentity, 0, len(lines))
	seen := make(map[types.PartIdentity]struct{}, len(lines))
	for _, line := range lines {
		id := line.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		identities = append(identities, id)
	}

	log.Info("fetching prices", zap.Int("unique_parts", len(identities)))

	results := make(map[types.PartIdentity]*types.PartPrices, len(identities))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, id := range identities {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pp := e.lookup(gctx, id)
			if pp == nil || pp.Prices == nil || pp.Prices.Len() == 0 {
				return nil
			}
			mu.Lock()
			results[id] = pp
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("found prices", zap.Int("parts_with_prices", len(results)))
	return results, nil
}
