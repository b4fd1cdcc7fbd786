package realtimebidding

import rtbv1 "google.golang.org/api/realtimebidding/v1"

// Resource types are the generated Real-time Bidding v1 types, re-exported so
// callers only import this package.
type (
	Bidder                    = rtbv1.Bidder
	Buyer                     = rtbv1.Buyer
	Creative                  = rtbv1.Creative
	CreativeServingDecision   = rtbv1.CreativeServingDecision
	PolicyCompliance          = rtbv1.PolicyCompliance
	HtmlContent               = rtbv1.HtmlContent
	NativeContent             = rtbv1.NativeContent
	VideoContent              = rtbv1.VideoContent
	Image                     = rtbv1.Image
	Endpoint                  = rtbv1.Endpoint
	PretargetingConfig        = rtbv1.PretargetingConfig
	NumericTargetingDimension = rtbv1.NumericTargetingDimension
	StringTargetingDimension  = rtbv1.StringTargetingDimension
	AppTargeting              = rtbv1.AppTargeting
	CreativeDimensions        = rtbv1.CreativeDimensions
	PublisherConnection       = rtbv1.PublisherConnection
	UserList                  = rtbv1.UserList
	UrlRestriction            = rtbv1.UrlRestriction
	Date                      = rtbv1.Date
	WatchCreativesResponse    = rtbv1.WatchCreativesResponse
)
