package realtimebidding

import (
	"context"

	rtbv1 "google.golang.org/api/realtimebidding/v1"
)

// GetBuyer gets a buyer account by resource name (buyers/{id})
func (c *Client) GetBuyer(ctx context.Context, name string) (*Buyer, error) {
	return c.svc.Buyers.Get(name).Context(ctx).Do()
}

// BuyerPages pages through the buyer accounts visible to the caller
func (c *Client) BuyerPages() Lister[Buyer] {
	return func(ctx context.Context, visit func([]*Buyer) error) error {
		return c.svc.Buyers.List().PageSize(c.pageSize).Pages(ctx, func(r *rtbv1.ListBuyersResponse) error {
			return visit(r.Buyers)
		})
	}
}
