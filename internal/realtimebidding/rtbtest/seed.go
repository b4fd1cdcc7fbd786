package rtbtest

import (
	"strconv"

	rtb "rtbsamples/internal/realtimebidding"
)

// Seed fills the fake with one bidder account and a little of everything
// under it, for local runs.
func (s *Server) Seed(accountID string) {
	bidder := rtb.BidderName(accountID)
	buyer := rtb.BuyerName(accountID)
	numericID, _ := strconv.ParseInt(accountID, 10, 64)

	s.AddBidder(rtb.Bidder{
		Name:                    bidder,
		CookieMatchingUrl:       "https://cm.example.com/match",
		CookieMatchingNetworkId: "example_network",
		DealsBillingId:          "1234567",
	})
	s.AddBuyer(rtb.Buyer{
		Name:                       buyer,
		DisplayName:                "Example Bidder",
		Bidder:                     bidder,
		ActiveCreativeCount:        1,
		MaximumActiveCreativeCount: 100000,
		BillingIds:                 []string{"1234567"},
	})
	s.AddEndpoint(rtb.Endpoint{
		Name:            rtb.EndpointName(accountID, "1"),
		Url:             "https://bid.example.com/rtb",
		MaximumQps:      1000,
		TradingLocation: "US_EAST",
		BidProtocol:     "GOOGLE_RTB",
	})
	s.AddPretargetingConfig(rtb.PretargetingConfig{
		Name:                  rtb.PretargetingConfigName(accountID, "1"),
		DisplayName:           "Default",
		BillingId:             1234567,
		State:                 rtb.StateActive,
		MaximumQps:            500,
		InterstitialTargeting: "ONLY_NON_INTERSTITIAL_REQUESTS",
		IncludedFormats:       []string{"HTML", "VAST"},
		GeoTargeting:          &rtb.NumericTargetingDimension{IncludedIds: []int64{2840}},
	})
	s.AddPublisherConnection(rtb.PublisherConnection{
		Name:              rtb.PublisherConnectionName(accountID, "pub-1111111111111111"),
		PublisherPlatform: "GOOGLE_AD_MANAGER",
		DisplayName:       "Example Publisher",
		BiddingState:      "PENDING",
		CreateTime:        "2024-01-02T03:04:05Z",
	})
	s.AddCreative(rtb.Creative{
		Name:                     rtb.BuyerCreativeName(accountID, "HTML_Creative_seed"),
		AccountId:                numericID,
		CreativeId:               "HTML_Creative_seed",
		AdvertiserName:           "Test",
		CreativeFormat:           "HTML",
		Version:                  1,
		DeclaredClickThroughUrls: []string{"http://test.com"},
		Html:                     &rtb.HtmlContent{Snippet: "<iframe></iframe>", Height: 250, Width: 300},
		CreativeServingDecision: &rtb.CreativeServingDecision{
			NetworkPolicyCompliance:  &rtb.PolicyCompliance{Status: "APPROVED"},
			PlatformPolicyCompliance: &rtb.PolicyCompliance{Status: "APPROVED"},
		},
	})
	s.AddUserList(rtb.UserList{
		Name:                   rtb.UserListName(accountID, "1"),
		DisplayName:            "Mars visitors",
		Status:                 "OPEN",
		MembershipDurationDays: 30,
		UrlRestriction: &rtb.UrlRestriction{
			Url:             "https://luxurymarscruises.com",
			RestrictionType: "EQUALS",
			StartDate:       &rtb.Date{Year: 2024, Month: 1, Day: 1},
		},
	})
}
