package realtimebidding

import (
	"context"

	rtbv1 "google.golang.org/api/realtimebidding/v1"
)

// GetBidder gets a bidder account by resource name (bidders/{id})
func (c *Client) GetBidder(ctx context.Context, name string) (*Bidder, error) {
	return c.svc.Bidders.Get(name).Context(ctx).Do()
}

// BidderPages pages through the bidder accounts visible to the caller
func (c *Client) BidderPages() Lister[Bidder] {
	return func(ctx context.Context, visit func([]*Bidder) error) error {
		return c.svc.Bidders.List().PageSize(c.pageSize).Pages(ctx, func(r *rtbv1.ListBiddersResponse) error {
			return visit(r.Bidders)
		})
	}
}
