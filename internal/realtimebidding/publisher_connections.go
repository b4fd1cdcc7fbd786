package realtimebidding

import (
	"context"
	"fmt"

	rtbv1 "google.golang.org/api/realtimebidding/v1"

	"rtbsamples/internal/validate"
)

// Publisher connection defaults
const (
	DefaultPublisherConnectionFilter  = "publisherPlatform = GOOGLE_AD_MANAGER"
	DefaultPublisherConnectionOrderBy = "createTime DESC"
)

// GetPublisherConnection gets a publisher connection by resource name
func (c *Client) GetPublisherConnection(ctx context.Context, name string) (*PublisherConnection, error) {
	return c.svc.Bidders.PublisherConnections.Get(name).Context(ctx).Do()
}

// PublisherConnectionPages pages through a bidder's publisher connections
func (c *Client) PublisherConnectionPages(parent string, opts *ListOptions) Lister[PublisherConnection] {
	return func(ctx context.Context, visit func([]*PublisherConnection) error) error {
		call := c.svc.Bidders.PublisherConnections.List(parent).PageSize(c.pageSize)
		if f := opts.filter(); f != "" {
			call = call.Filter(f)
		}
		if o := opts.orderBy(); o != "" {
			call = call.OrderBy(o)
		}
		return call.Pages(ctx, func(r *rtbv1.ListPublisherConnectionsResponse) error {
			return visit(r.PublisherConnections)
		})
	}
}

func validateConnectionNames(action string, names []string) error {
	if err := validate.Var(names, "required,min=1,dive,required"); err != nil {
		return fmt.Errorf("%s: invalid connection names: %w", action, err)
	}
	return nil
}

// BatchApprovePublisherConnections approves the named connections
func (c *Client) BatchApprovePublisherConnections(ctx context.Context, parent string, names []string) ([]*PublisherConnection, error) {
	if err := validateConnectionNames("batchApprove", names); err != nil {
		return nil, err
	}
	req := &rtbv1.BatchApprovePublisherConnectionsRequest{Names: names}
	resp, err := c.svc.Bidders.PublisherConnections.BatchApprove(parent, req).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.PublisherConnections, nil
}

// BatchRejectPublisherConnections rejects the named connections
func (c *Client) BatchRejectPublisherConnections(ctx context.Context, parent string, names []string) ([]*PublisherConnection, error) {
	if err := validateConnectionNames("batchReject", names); err != nil {
		return nil, err
	}
	req := &rtbv1.BatchRejectPublisherConnectionsRequest{Names: names}
	resp, err := c.svc.Bidders.PublisherConnections.BatchReject(parent, req).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.PublisherConnections, nil
}
