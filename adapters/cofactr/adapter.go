// Package cofactr is the pricing lookup adapter for the Cofactr part search
// API. It maps a part identity to a breakpoint price table; transient
// failures and empty search results are logged here and surface to the
// engine only as "no pricing data".
package cofactr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bom-cogs/core/cogs"
	"bom-cogs/core/types"
	"bom-cogs/internal/config"
	"bom-cogs/internal/errors"
	"bom-cogs/internal/logging"
)

// productsPath is the Cofactr part search endpoint
const productsPath = "/products/"

// Client queries Cofactr for part pricing.
type Client struct {
	baseURL    string
	apiKey     string
	clientID   string
	strategy   SearchStrategy
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Cofactr client. Credentials are validated up front so
// a misconfigured run fails before any lookup is attempted.
func NewClient(cfg config.CofactrConfig, strategy SearchStrategy) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		clientID:   cfg.ClientID,
		strategy:   strategy,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.Logger,
	}, nil
}

// searchResponse is the subset of the product-offers-v0 schema we consume
type searchResponse struct {
	Data []searchProduct `json:"data"`
}

type searchProduct struct {
	ID              string           `json:"id"`
	ReferencePrices []referencePrice `json:"reference_prices"`
}

// referencePrice tolerates both string and numeric quantity/price values;
// the upstream schema is loose about which it sends.
type referencePrice struct {
	Quantity looseNumber `json:"quantity"`
	Price    looseNumber `json:"price"`
}

type looseNumber string

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = looseNumber(s)
		return nil
	}
	*n = looseNumber(b)
	return nil
}

// FetchPrices queries Cofactr for one part identity.
//
// It returns (nil, nil) when the search matched nothing and an error for
// transport failures, non-200 responses and undecodable bodies. Callers
// that feed the aggregation engine should go through Lookup, which folds
// both outcomes into "absent".
func (c *Client) FetchPrices(ctx context.Context, identity types.PartIdentity) (*types.PartPrices, error) {
	query := identity.PartNumber
	if c.strategy.NeedsManufacturer() && identity.Manufacturer != "" {
		query += " " + identity.Manufacturer
	}

	params := url.Values{
		"q":               {query},
		"search_strategy": {c.strategy.QueryValue()},
		"schema":          {"product-offers-v0"},
		"external":        {"true"},
		"limit":           {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+productsPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "building pricing request", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("X-CLIENT-ID", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Network("pricing request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.TypeNetwork,
			"received status code %d from pricing source", resp.StatusCode)
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "decoding pricing response", err)
	}

	if len(search.Data) == 0 {
		return nil, nil
	}

	product := search.Data[0]
	table := types.NewPriceTable()
	for _, ref := range product.ReferencePrices {
		qty, err := strconv.Atoi(string(ref.Quantity))
		if err != nil {
			c.logger.Debug("skipping reference price with bad quantity",
				zap.String("part_number", identity.PartNumber),
				zap.String("quantity", string(ref.Quantity)))
			continue
		}
		price, err := decimal.NewFromString(string(ref.Price))
		if err != nil {
			c.logger.Debug("skipping reference price with bad price",
				zap.String("part_number", identity.PartNumber),
				zap.String("price", string(ref.Price)))
			continue
		}
		if err := table.Set(qty, price); err != nil {
			c.logger.Debug("skipping invalid reference price",
				zap.String("part_number", identity.PartNumber),
				zap.Error(err))
		}
	}

	if table.Len() == 0 {
		return nil, nil
	}

	return &types.PartPrices{
		CofactrID: product.ID,
		Prices:    table,
	}, nil
}

// Lookup adapts the client to the engine's lookup contract: failures and
// empty results are logged with the part identity and become nil.
func (c *Client) Lookup() cogs.Lookup {
	return func(ctx context.Context, identity types.PartIdentity) *types.PartPrices {
		prices, err := c.FetchPrices(ctx, identity)
		if err != nil {
			c.logger.Warn("pricing lookup failed",
				zap.String("part_number", identity.PartNumber),
				zap.String("manufacturer", identity.Manufacturer),
				zap.Error(err))
			return nil
		}
		if prices == nil {
			c.logger.Warn("no results found",
				zap.String("part_number", identity.PartNumber),
				zap.String("manufacturer", identity.Manufacturer))
			return nil
		}
		return prices
	}
}
