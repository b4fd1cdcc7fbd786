package printer

import (
	"fmt"

	rtb "rtbsamples/internal/realtimebidding"
)

// Print writes any supported resource, or its JSON in JSON mode
func (p *Printer) Print(v interface{}) error {
	if p.format == FormatJSON {
		return p.JSON(v)
	}

	switch r := v.(type) {
	case *rtb.Bidder:
		p.Bidder(r)
	case *rtb.Buyer:
		p.Buyer(r)
	case *rtb.Creative:
		p.Creative(r)
	case *rtb.Endpoint:
		p.Endpoint(r)
	case *rtb.PretargetingConfig:
		p.PretargetingConfig(r)
	case *rtb.PublisherConnection:
		p.PublisherConnection(r)
	case []*rtb.PublisherConnection:
		for _, c := range r {
			p.PublisherConnection(c)
		}
	case *rtb.UserList:
		p.UserList(r)
	case *rtb.WatchCreativesResponse:
		p.Watch(r)
	default:
		return fmt.Errorf("printer: unsupported type %T", v)
	}
	return nil
}

// Bidder writes a bidder account
func (p *Printer) Bidder(b *rtb.Bidder) {
	p.Field("Bidder name", b.Name, 0)
	p.Field("Cookie Matching URL", b.CookieMatchingUrl, 1)
	p.Field("Cookie Matching Network ID", b.CookieMatchingNetworkId, 1)
	p.Field("Bypass Non-Guaranteed Deals Pretargeting", b.BypassNonguaranteedDealsPretargeting, 1)
	p.Field("Deals Billing ID", b.DealsBillingId, 1)
}

// Buyer writes a buyer account
func (p *Printer) Buyer(b *rtb.Buyer) {
	p.Field("Buyer name", b.Name, 0)
	p.Field("Display name", b.DisplayName, 1)
	p.Field("Bidder", b.Bidder, 1)
	p.Field("Active creative count", b.ActiveCreativeCount, 1)
	p.Field("Maximum active creative count", b.MaximumActiveCreativeCount, 1)
	p.List("Billing IDs", b.BillingIds, 1)
}

// Creative writes a creative with its serving decision and whichever of the
// HTML, native or video contents it carries
func (p *Printer) Creative(c *rtb.Creative) {
	p.Field("Creative name", c.Name, 0)
	p.Field("Advertiser name", c.AdvertiserName, 1)
	p.Field("Version", c.Version, 1)
	p.Field("Creative format", c.CreativeFormat, 1)
	p.Field("API update time", c.ApiUpdateTime, 1)

	if d := c.CreativeServingDecision; d != nil {
		p.Section("Creative serving decision", 1)
		p.policy("Deals policy compliance status", d.DealsPolicyCompliance)
		p.policy("Network policy compliance status", d.NetworkPolicyCompliance)
		p.policy("Platform policy compliance status", d.PlatformPolicyCompliance)
		p.policy("China policy compliance status", d.ChinaPolicyCompliance)
		p.policy("Russia policy compliance status", d.RussiaPolicyCompliance)
		p.Field("Last status update", d.LastStatusUpdate, 2)
	}

	p.List("Declared click-through URLs", c.DeclaredClickThroughUrls, 1)
	p.List("Declared attributes", c.DeclaredAttributes, 1)
	p.Int64List("Declared vendor IDs", c.DeclaredVendorIds, 1)
	p.List("Declared restricted categories", c.DeclaredRestrictedCategories, 1)
	p.List("Impression tracking URLs", c.ImpressionTrackingUrls, 1)
	p.List("Deal IDs", c.DealIds, 1)

	if h := c.Html; h != nil {
		p.Section("HTML creative contents", 1)
		p.Long("Snippet", h.Snippet, 2)
		p.Field("Height", h.Height, 2)
		p.Field("Width", h.Width, 2)
	}

	if n := c.Native; n != nil {
		p.Section("Native creative contents", 1)
		p.Field("Headline", n.Headline, 2)
		p.Field("Body", n.Body, 2)
		p.Field("Call to action", n.CallToAction, 2)
		p.Field("Advertiser name", n.AdvertiserName, 2)
		p.Field("Star rating", n.StarRating, 2)
		p.Field("Click link URL", n.ClickLinkUrl, 2)
		p.Field("Click tracking URL", n.ClickTrackingUrl, 2)
		p.Field("Price display text", n.PriceDisplayText, 2)
		p.Field("Video URL", n.VideoUrl, 2)
		p.image("Image contents", n.Image)
		p.image("Logo contents", n.Logo)
		p.image("App icon contents", n.AppIcon)
	}

	if v := c.Video; v != nil {
		p.Section("Video creative contents", 1)
		p.Field("Video URL", v.VideoUrl, 2)
		p.Long("Video VAST XML", v.VideoVastXml, 2)
	}
}

func (p *Printer) policy(label string, pc *rtb.PolicyCompliance) {
	if pc == nil {
		return
	}
	p.Field(label, pc.Status, 2)
}

func (p *Printer) image(label string, img *rtb.Image) {
	if img == nil {
		return
	}
	p.Section(label, 2)
	p.Field("URL", img.Url, 3)
	p.Field("Height", img.Height, 3)
	p.Field("Width", img.Width, 3)
}

// Endpoint writes a bidder endpoint
func (p *Printer) Endpoint(e *rtb.Endpoint) {
	p.Field("Endpoint name", e.Name, 0)
	p.Field("URL", e.Url, 1)
	p.Field("Maximum QPS", e.MaximumQps, 1)
	p.Field("Trading location", e.TradingLocation, 1)
	p.Field("Bid protocol", e.BidProtocol, 1)
}

// PretargetingConfig writes a pretargeting configuration. Targeting
// dimensions that are unset are left out.
func (p *Printer) PretargetingConfig(c *rtb.PretargetingConfig) {
	p.Field("Pretargeting configuration name", c.Name, 0)
	p.Field("Display name", c.DisplayName, 1)
	p.Field("Billing ID", c.BillingId, 1)
	p.Field("State", c.State, 1)
	p.Field("Maximum QPS", c.MaximumQps, 1)
	p.Field("Interstitial targeting", c.InterstitialTargeting, 1)
	p.Field("Minimum viewability decile", c.MinimumViewabilityDecile, 1)
	p.List("Included formats", c.IncludedFormats, 1)
	p.numeric("Geo targeting", "geo IDs", c.GeoTargeting)
	p.Int64List("Invalid geo IDs", c.InvalidGeoIds, 1)
	p.numeric("User list targeting", "user list IDs", c.UserListTargeting)
	p.List("Allowed user targeting modes", c.AllowedUserTargetingModes, 1)
	p.Int64List("Excluded content label IDs", c.ExcludedContentLabelIds, 1)
	p.List("Included user ID types", c.IncludedUserIdTypes, 1)
	p.List("Included languages", c.IncludedLanguages, 1)
	p.Int64List("Included mobile operating system IDs", c.IncludedMobileOperatingSystemIds, 1)
	p.numeric("Vertical targeting", "vertical IDs", c.VerticalTargeting)
	p.List("Included platforms", c.IncludedPlatforms, 1)

	if len(c.IncludedCreativeDimensions) > 0 {
		p.Section("Included creative dimensions", 1)
		for _, d := range c.IncludedCreativeDimensions {
			p.line(2, fmt.Sprintf("Height: %d; Width: %d", d.Height, d.Width))
		}
	}

	p.List("Included environments", c.IncludedEnvironments, 1)
	p.stringTargeting("Web targeting", "Site URLs", c.WebTargeting, 1)

	if a := c.AppTargeting; a != nil {
		p.Section("App targeting", 1)
		p.stringTargeting("Mobile app targeting", "Mobile app IDs", a.MobileAppTargeting, 2)
		if m := a.MobileAppCategoryTargeting; m != nil {
			p.Section("Mobile app category targeting", 2)
			p.Int64List("Included mobile app category targeting IDs", m.IncludedIds, 3)
			p.Int64List("Excluded mobile app category targeting IDs", m.ExcludedIds, 3)
		}
	}

	p.stringTargeting("Publisher targeting", "Publisher IDs", c.PublisherTargeting, 1)
}

func (p *Printer) numeric(label, ids string, d *rtb.NumericTargetingDimension) {
	if d == nil {
		return
	}
	p.Section(label, 1)
	p.Int64List("Included "+ids, d.IncludedIds, 2)
	p.Int64List("Excluded "+ids, d.ExcludedIds, 2)
}

func (p *Printer) stringTargeting(label, values string, d *rtb.StringTargetingDimension, level int) {
	if d == nil {
		return
	}
	p.Section(label, level)
	p.Field("Targeting mode", d.TargetingMode, level+1)
	p.List(values, d.Values, level+1)
}

// PublisherConnection writes a publisher connection
func (p *Printer) PublisherConnection(c *rtb.PublisherConnection) {
	p.Field("Publisher connection name", c.Name, 0)
	p.Field("Publisher platform", c.PublisherPlatform, 1)
	p.Field("Display name", c.DisplayName, 1)
	p.Field("State", c.BiddingState, 1)
	p.Field("Create time", c.CreateTime, 1)
}

// UserList writes a user list and its URL restriction
func (p *Printer) UserList(l *rtb.UserList) {
	p.Field("User list name", l.Name, 0)
	p.Field("Display name", l.DisplayName, 1)
	p.Field("Description", l.Description, 1)
	if r := l.UrlRestriction; r != nil {
		p.Section("URL restriction", 1)
		p.Field("URL", r.Url, 2)
		p.Field("Restriction type", r.RestrictionType, 2)
		p.Field("Start date", rtb.FormatDate(r.StartDate), 2)
		p.Field("End date", rtb.FormatDate(r.EndDate), 2)
	}
	p.Field("Status", l.Status, 1)
	p.Field("Membership duration days", l.MembershipDurationDays, 1)
}

// Watch writes the Pub/Sub resources that receive creative status changes
func (p *Printer) Watch(w *rtb.WatchCreativesResponse) {
	p.Field("Topic", w.Topic, 1)
	p.Field("Subscription", w.Subscription, 1)
}
