package realtimebidding

import (
	"context"
	"strings"

	rtbv1 "google.golang.org/api/realtimebidding/v1"
)

// GetEndpoint gets a bidder endpoint by resource name
func (c *Client) GetEndpoint(ctx context.Context, name string) (*Endpoint, error) {
	return c.svc.Bidders.Endpoints.Get(name).Context(ctx).Do()
}

// EndpointPages pages through a bidder's endpoints
func (c *Client) EndpointPages(parent string) Lister[Endpoint] {
	return func(ctx context.Context, visit func([]*Endpoint) error) error {
		return c.svc.Bidders.Endpoints.List(parent).PageSize(c.pageSize).Pages(ctx, func(r *rtbv1.ListEndpointsResponse) error {
			return visit(r.Endpoints)
		})
	}
}

// PatchEndpoint updates the fields of an endpoint named in updateMask
func (c *Client) PatchEndpoint(ctx context.Context, name string, endpoint *Endpoint, updateMask []string) (*Endpoint, error) {
	call := c.svc.Bidders.Endpoints.Patch(name, endpoint)
	if len(updateMask) > 0 {
		call = call.UpdateMask(strings.Join(updateMask, ","))
	}
	return call.Context(ctx).Do()
}
