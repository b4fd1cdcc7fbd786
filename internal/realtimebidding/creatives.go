package realtimebidding

import (
	"context"
	"strings"

	rtbv1 "google.golang.org/api/realtimebidding/v1"
)

// Creative views
const (
	ViewFull                = "FULL"
	ViewServingDecisionOnly = "SERVING_DECISION_ONLY"
)

// DefaultCreativeFilter selects approved HTML creatives
const DefaultCreativeFilter = "creativeServingDecision.openAuctionServingStatus.status=APPROVED AND creativeFormat=HTML"

// BidderCreativePages pages through the creatives of every buyer under a bidder
func (c *Client) BidderCreativePages(parent string, opts *ListOptions) Lister[Creative] {
	return func(ctx context.Context, visit func([]*Creative) error) error {
		call := c.svc.Bidders.Creatives.List(parent).PageSize(c.pageSize)
		if f := opts.filter(); f != "" {
			call = call.Filter(f)
		}
		if v := opts.view(); v != "" {
			call = call.View(v)
		}
		return call.Pages(ctx, func(r *rtbv1.ListCreativesResponse) error {
			return visit(r.Creatives)
		})
	}
}

// WatchCreatives enables creative status notifications for a bidder and
// returns the Pub/Sub topic and subscription that receive them
func (c *Client) WatchCreatives(ctx context.Context, parent string) (*WatchCreativesResponse, error) {
	return c.svc.Bidders.Creatives.Watch(parent, &rtbv1.WatchCreativesRequest{}).Context(ctx).Do()
}

// CreateCreative creates a creative under a buyer (buyers/{id})
func (c *Client) CreateCreative(ctx context.Context, parent string, creative *Creative) (*Creative, error) {
	return c.svc.Buyers.Creatives.Create(parent, creative).Context(ctx).Do()
}

// GetCreative gets a creative by resource name (buyers/{id}/creatives/{creativeId})
func (c *Client) GetCreative(ctx context.Context, name, view string) (*Creative, error) {
	call := c.svc.Buyers.Creatives.Get(name)
	if view != "" {
		call = call.View(view)
	}
	return call.Context(ctx).Do()
}

// CreativePages pages through a buyer's creatives
func (c *Client) CreativePages(parent string, opts *ListOptions) Lister[Creative] {
	return func(ctx context.Context, visit func([]*Creative) error) error {
		call := c.svc.Buyers.Creatives.List(parent).PageSize(c.pageSize)
		if f := opts.filter(); f != "" {
			call = call.Filter(f)
		}
		if v := opts.view(); v != "" {
			call = call.View(v)
		}
		return call.Pages(ctx, func(r *rtbv1.ListCreativesResponse) error {
			return visit(r.Creatives)
		})
	}
}

// PatchCreative updates the fields of a creative named in updateMask
func (c *Client) PatchCreative(ctx context.Context, name string, creative *Creative, updateMask []string) (*Creative, error) {
	call := c.svc.Buyers.Creatives.Patch(name, creative)
	if len(updateMask) > 0 {
		call = call.UpdateMask(strings.Join(updateMask, ","))
	}
	return call.Context(ctx).Do()
}
