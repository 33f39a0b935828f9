package stripe

import (
	"context"
	"fmt"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// TierPrice is a stripe price linked to one of our tiers through its
// metadata.
type TierPrice struct {
	PriceID      string
	TierID       string
	MonthlyPrice float64
}

type PriceSource interface {
	ActivePrices(ctx context.Context, platformID string) ([]TierPrice, error)
}

type PriceClient struct {
	api *client.API
}

func NewPriceClient(secretKey string) *PriceClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &PriceClient{api: api}
}

// ActivePrices lists active monthly recurring prices tagged with
// platformID.
func (c *PriceClient) ActivePrices(ctx context.Context, platformID string) ([]TierPrice, error) {
	params := &stripego.PriceListParams{}
	params.Context = ctx
	params.Active = stripego.Bool(true)
	params.Type = stripego.String("recurring")

	it := c.api.Prices.List(params)

	var out []TierPrice
	for it.Next() {
		if tp, ok := TierPriceFrom(it.Price(), platformID); ok {
			out = append(out, tp)
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list stripe prices: %w", err)
	}
	return out, nil
}

// TierPriceFrom keeps active monthly prices whose metadata names both
// platformID and a tier.
func TierPriceFrom(p *stripego.Price, platformID string) (TierPrice, bool) {
	if p == nil || !p.Active || p.Recurring == nil {
		return TierPrice{}, false
	}
	if p.Recurring.Interval != stripego.PriceRecurringIntervalMonth {
		return TierPrice{}, false
	}
	if p.Metadata == nil || p.Metadata["platform_id"] != platformID || p.Metadata["tier_id"] == "" {
		return TierPrice{}, false
	}
	return TierPrice{
		PriceID:      p.ID,
		TierID:       p.Metadata["tier_id"],
		MonthlyPrice: float64(p.UnitAmount) / 100.0,
	}, true
}
