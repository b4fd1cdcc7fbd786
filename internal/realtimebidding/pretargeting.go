package realtimebidding

import (
	"context"
	"fmt"
	"strings"

	rtbv1 "google.golang.org/api/realtimebidding/v1"

	"rtbsamples/internal/validate"
)

// Pretargeting configuration states and targeting modes
const (
	StateActive    = "ACTIVE"
	StateSuspended = "SUSPENDED"

	TargetingModeInclusive = "INCLUSIVE"
	TargetingModeExclusive = "EXCLUSIVE"
)

// CreatePretargetingConfig creates a pretargeting configuration under a bidder
func (c *Client) CreatePretargetingConfig(ctx context.Context, parent string, config *PretargetingConfig) (*PretargetingConfig, error) {
	return c.svc.Bidders.PretargetingConfigs.Create(parent, config).Context(ctx).Do()
}

// GetPretargetingConfig gets a pretargeting configuration by resource name
func (c *Client) GetPretargetingConfig(ctx context.Context, name string) (*PretargetingConfig, error) {
	return c.svc.Bidders.PretargetingConfigs.Get(name).Context(ctx).Do()
}

// PretargetingConfigPages pages through a bidder's pretargeting configurations
func (c *Client) PretargetingConfigPages(parent string) Lister[PretargetingConfig] {
	return func(ctx context.Context, visit func([]*PretargetingConfig) error) error {
		call := c.svc.Bidders.PretargetingConfigs.List(parent).PageSize(c.pageSize)
		return call.Pages(ctx, func(r *rtbv1.ListPretargetingConfigsResponse) error {
			return visit(r.PretargetingConfigs)
		})
	}
}

// PatchPretargetingConfig updates the fields named in updateMask
func (c *Client) PatchPretargetingConfig(ctx context.Context, name string, config *PretargetingConfig, updateMask []string) (*PretargetingConfig, error) {
	call := c.svc.Bidders.PretargetingConfigs.Patch(name, config)
	if len(updateMask) > 0 {
		call = call.UpdateMask(strings.Join(updateMask, ","))
	}
	return call.Context(ctx).Do()
}

// DeletePretargetingConfig deletes a pretargeting configuration
func (c *Client) DeletePretargetingConfig(ctx context.Context, name string) error {
	_, err := c.svc.Bidders.PretargetingConfigs.Delete(name).Context(ctx).Do()
	return err
}

// ActivatePretargetingConfig activates a suspended configuration
func (c *Client) ActivatePretargetingConfig(ctx context.Context, name string) (*PretargetingConfig, error) {
	return c.svc.Bidders.PretargetingConfigs.Activate(name, &rtbv1.ActivatePretargetingConfigRequest{}).Context(ctx).Do()
}

// SuspendPretargetingConfig suspends an active configuration
func (c *Client) SuspendPretargetingConfig(ctx context.Context, name string) (*PretargetingConfig, error) {
	return c.svc.Bidders.PretargetingConfigs.Suspend(name, &rtbv1.SuspendPretargetingConfigRequest{}).Context(ctx).Do()
}

type addTargeting struct {
	Values []string `validate:"required,min=1,dive,required"`
	Mode   string   `validate:"required,oneof=INCLUSIVE EXCLUSIVE"`
}

type removeTargeting struct {
	Values []string `validate:"required,min=1,dive,required"`
}

// AddTargetedApps appends app IDs to a configuration's mobile app targeting
func (c *Client) AddTargetedApps(ctx context.Context, name, mode string, appIDs []string) (*PretargetingConfig, error) {
	if err := validate.Struct(addTargeting{Values: appIDs, Mode: mode}); err != nil {
		return nil, fmt.Errorf("addTargetedApps: %w", err)
	}
	req := &rtbv1.AddTargetedAppsRequest{AppIds: appIDs, TargetingMode: mode}
	return c.svc.Bidders.PretargetingConfigs.AddTargetedApps(name, req).Context(ctx).Do()
}

// RemoveTargetedApps removes app IDs from a configuration's mobile app targeting
func (c *Client) RemoveTargetedApps(ctx context.Context, name string, appIDs []string) (*PretargetingConfig, error) {
	if err := validate.Struct(removeTargeting{Values: appIDs}); err != nil {
		return nil, fmt.Errorf("removeTargetedApps: %w", err)
	}
	req := &rtbv1.RemoveTargetedAppsRequest{AppIds: appIDs}
	return c.svc.Bidders.PretargetingConfigs.RemoveTargetedApps(name, req).Context(ctx).Do()
}

// AddTargetedPublishers appends publisher IDs to a configuration's publisher targeting
func (c *Client) AddTargetedPublishers(ctx context.Context, name, mode string, publisherIDs []string) (*PretargetingConfig, error) {
	if err := validate.Struct(addTargeting{Values: publisherIDs, Mode: mode}); err != nil {
		return nil, fmt.Errorf("addTargetedPublishers: %w", err)
	}
	req := &rtbv1.AddTargetedPublishersRequest{PublisherIds: publisherIDs, TargetingMode: mode}
	return c.svc.Bidders.PretargetingConfigs.AddTargetedPublishers(name, req).Context(ctx).Do()
}

// RemoveTargetedPublishers removes publisher IDs from a configuration's publisher targeting
func (c *Client) RemoveTargetedPublishers(ctx context.Context, name string, publisherIDs []string) (*PretargetingConfig, error) {
	if err := validate.Struct(removeTargeting{Values: publisherIDs}); err != nil {
		return nil, fmt.Errorf("removeTargetedPublishers: %w", err)
	}
	req := &rtbv1.RemoveTargetedPublishersRequest{PublisherIds: publisherIDs}
	return c.svc.Bidders.PretargetingConfigs.RemoveTargetedPublishers(name, req).Context(ctx).Do()
}

// AddTargetedSites appends site URLs to a configuration's web targeting
func (c *Client) AddTargetedSites(ctx context.Context, name, mode string, sites []string) (*PretargetingConfig, error) {
	if err := validate.Struct(addTargeting{Values: sites, Mode: mode}); err != nil {
		return nil, fmt.Errorf("addTargetedSites: %w", err)
	}
	req := &rtbv1.AddTargetedSitesRequest{Sites: sites, TargetingMode: mode}
	return c.svc.Bidders.PretargetingConfigs.AddTargetedSites(name, req).Context(ctx).Do()
}

// RemoveTargetedSites removes site URLs from a configuration's web targeting
func (c *Client) RemoveTargetedSites(ctx context.Context, name string, sites []string) (*PretargetingConfig, error) {
	if err := validate.Struct(removeTargeting{Values: sites}); err != nil {
		return nil, fmt.Errorf("removeTargetedSites: %w", err)
	}
	req := &rtbv1.RemoveTargetedSitesRequest{Sites: sites}
	return c.svc.Bidders.PretargetingConfigs.RemoveTargetedSites(name, req).Context(ctx).Do()
}
