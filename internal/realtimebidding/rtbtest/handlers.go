package rtbtest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	rtbv1 "google.golang.org/api/realtimebidding/v1"

	rtb "rtbsamples/internal/realtimebidding"
)

func (s *Server) handleListBidders(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	items := s.bidders.list("bidders/")
	s.mu.RUnlock()

	page, next, err := paginate(r, items)
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rtbv1.ListBiddersResponse{Bidders: page, NextPageToken: next})
}

func (s *Server) handleGetBidder(w http.ResponseWriter, r *http.Request) {
	name := rtb.BidderName(chi.URLParam(r, "bidder"))

	s.mu.RLock()
	b, ok := s.bidders.get(name)
	s.mu.RUnlock()
	if !ok {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleListBidderCreatives(w http.ResponseWriter, r *http.Request) {
	bidder := chi.URLParam(r, "bidder")

	s.mu.RLock()
	var items []*rtb.Creative
	for _, buyer := range s.buyers.list("buyers/") {
		if buyer.Bidder != rtb.BidderName(bidder) && buyer.Name != rtb.BuyerName(bidder) {
			continue
		}
		items = append(items, s.creatives.list(buyer.Name+"/creatives/")...)
	}
	s.mu.RUnlock()

	s.writeCreativePage(w, r, items)
}

func (s *Server) handleWatchCreatives(w http.ResponseWriter, r *http.Request) {
	bidder := chi.URLParam(r, "bidder")
	writeJSON(w, http.StatusOK, rtb.WatchCreativesResponse{
		Topic:        fmt.Sprintf("projects/realtimebidding-pubsub/topics/rtbcreative-%s", bidder),
		Subscription: fmt.Sprintf("projects/realtimebidding-pubsub/subscriptions/rtbcreative-%s", bidder),
	})
}

func (s *Server) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	parent := rtb.BidderName(chi.URLParam(r, "bidder"))

	s.mu.RLock()
	items := s.endpoints.list(parent + "/endpoints/")
	s.mu.RUnlock()

	page, next, err := paginate(r, items)
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rtbv1.ListEndpointsResponse{Endpoints: page, NextPageToken: next})
}

func (s *Server) handleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	name := rtb.EndpointName(chi.URLParam(r, "bidder"), chi.URLParam(r, "endpoint"))

	s.mu.RLock()
	e, ok := s.endpoints.get(name)
	s.mu.RUnlock()
	if !ok {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handlePatchEndpoint(w http.ResponseWriter, r *http.Request) {
	name := rtb.EndpointName(chi.URLParam(r, "bidder"), chi.URLParam(r, "endpoint"))

	var patch rtb.Endpoint
	if err := decodeBody(r, &patch); err != nil {
		invalidArgument(w, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.endpoints.get(name)
	if !ok {
		notFound(w, name)
		return
	}
	updated := *e
	if err := applyMask(&updated, &patch, updateMask(r)); err != nil {
		invalidArgument(w, err.Error())
		return
	}
	updated.Name = name
	s.endpoints.put(name, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListPretargetingConfigs(w http.ResponseWriter, r *http.Request) {
	parent := rtb.BidderName(chi.URLParam(r, "bidder"))

	s.mu.RLock()
	items := s.configs.list(parent + "/pretargetingConfigs/")
	s.mu.RUnlock()

	page, next, err := paginate(r, items)
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rtbv1.ListPretargetingConfigsResponse{PretargetingConfigs: page, NextPageToken: next})
}

func (s *Server) handleCreatePretargetingConfig(w http.ResponseWriter, r *http.Request) {
	bidder := chi.URLParam(r, "bidder")

	var config rtb.PretargetingConfig
	if err := decodeBody(r, &config); err != nil {
		invalidArgument(w, err.Error())
		return
	}
	if config.DisplayName == "" {
		invalidArgument(w, "displayName is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.configs.list(rtb.BidderName(bidder) + "/pretargetingConfigs/") {
		if existing.DisplayName == config.DisplayName {
			writeError(w, http.StatusConflict, "ALREADY_EXISTS", "displayName must be unique")
			return
		}
	}

	id := s.nextIDLocked()
	config.Name = rtb.PretargetingConfigName(bidder, strconv.FormatInt(id, 10))
	config.BillingId = id
	config.State = rtb.StateActive
	s.configs.put(config.Name, config)
	writeJSON(w, http.StatusOK, config)
}

func (s *Server) handleGetPretargetingConfig(w http.ResponseWriter, r *http.Request) {
	name := rtb.PretargetingConfigName(chi.URLParam(r, "bidder"), chi.URLParam(r, "config"))

	s.mu.RLock()
	c, ok := s.configs.get(name)
	s.mu.RUnlock()
	if !ok {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handlePatchPretargetingConfig(w http.ResponseWriter, r *http.Request) {
	name := rtb.PretargetingConfigName(chi.URLParam(r, "bidder"), chi.URLParam(r, "config"))

	var patch rtb.PretargetingConfig
	if err := decodeBody(r, &patch); err != nil {
		invalidArgument(w, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.configs.get(name)
	if !ok {
		notFound(w, name)
		return
	}
	updated := *c
	if err := applyMask(&updated, &patch, updateMask(r)); err != nil {
		invalidArgument(w, err.Error())
		return
	}
	updated.Name = name
	s.configs.put(name, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePretargetingConfig(w http.ResponseWriter, r *http.Request) {
	name := rtb.PretargetingConfigName(chi.URLParam(r, "bidder"), chi.URLParam(r, "config"))

	s.mu.Lock()
	deleted := s.configs.del(name)
	s.mu.Unlock()
	if !deleted {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// handlePretargetingAction serves the custom methods, e.g. {config}:activate
func (s *Server) handlePretargetingAction(w http.ResponseWriter, r *http.Request) {
	id, action, ok := strings.Cut(chi.URLParam(r, "config"), ":")
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, "UNIMPLEMENTED", "POST requires a custom method")
		return
	}
	name := rtb.PretargetingConfigName(chi.URLParam(r, "bidder"), id)

	var body struct {
		AppIDs        []string `json:"appIds"`
		PublisherIDs  []string `json:"publisherIds"`
		Sites         []string `json:"sites"`
		TargetingMode string   `json:"targetingMode"`
	}
	if err := decodeBody(r, &body); err != nil {
		invalidArgument(w, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, found := s.configs.get(name)
	if !found {
		notFound(w, name)
		return
	}
	updated := *c

	var err error
	switch action {
	case "activate":
		updated.State = rtb.StateActive
	case "suspend":
		updated.State = rtb.StateSuspended
	case "addTargetedApps":
		apps := appTargeting(updated.AppTargeting)
		apps.MobileAppTargeting, err = addTargeted(apps.MobileAppTargeting, body.TargetingMode, body.AppIDs)
		updated.AppTargeting = apps
	case "removeTargetedApps":
		if updated.AppTargeting != nil {
			apps := appTargeting(updated.AppTargeting)
			apps.MobileAppTargeting = removeTargeted(apps.MobileAppTargeting, body.AppIDs)
			updated.AppTargeting = apps
		}
	case "addTargetedPublishers":
		updated.PublisherTargeting, err = addTargeted(updated.PublisherTargeting, body.TargetingMode, body.PublisherIDs)
	case "removeTargetedPublishers":
		updated.PublisherTargeting = removeTargeted(updated.PublisherTargeting, body.PublisherIDs)
	case "addTargetedSites":
		updated.WebTargeting, err = addTargeted(updated.WebTargeting, body.TargetingMode, body.Sites)
	case "removeTargetedSites":
		updated.WebTargeting = removeTargeted(updated.WebTargeting, body.Sites)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("unknown method %q", action))
		return
	}
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}

	s.configs.put(name, updated)
	writeJSON(w, http.StatusOK, updated)
}

// appTargeting copies at so edits do not reach the stored config
func appTargeting(at *rtb.AppTargeting) *rtb.AppTargeting {
	if at == nil {
		return &rtb.AppTargeting{}
	}
	c := *at
	return &c
}

func addTargeted(dim *rtb.StringTargetingDimension, mode string, values []string) (*rtb.StringTargetingDimension, error) {
	if mode == "" {
		return dim, fmt.Errorf("targetingMode is required")
	}
	if dim == nil {
		dim = &rtb.StringTargetingDimension{}
	}
	if dim.TargetingMode != "" && dim.TargetingMode != mode && len(dim.Values) > 0 {
		return dim, fmt.Errorf("targetingMode %s does not match existing mode %s", mode, dim.TargetingMode)
	}

	out := &rtb.StringTargetingDimension{TargetingMode: mode, Values: append([]string(nil), dim.Values...)}
	seen := make(map[string]bool, len(out.Values))
	for _, v := range out.Values {
		seen[v] = true
	}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out.Values = append(out.Values, v)
		}
	}
	return out, nil
}

func removeTargeted(dim *rtb.StringTargetingDimension, values []string) *rtb.StringTargetingDimension {
	if dim == nil {
		return nil
	}
	drop := make(map[string]bool, len(values))
	for _, v := range values {
		drop[v] = true
	}
	out := &rtb.StringTargetingDimension{TargetingMode: dim.TargetingMode}
	for _, v := range dim.Values {
		if !drop[v] {
			out.Values = append(out.Values, v)
		}
	}
	return out
}

func (s *Server) handleListPublisherConnections(w http.ResponseWriter, r *http.Request) {
	parent := rtb.BidderName(chi.URLParam(r, "bidder"))

	s.mu.RLock()
	items := s.connections.list(parent + "/publisherConnections/")
	s.mu.RUnlock()

	page, next, err := paginate(r, items)
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rtbv1.ListPublisherConnectionsResponse{PublisherConnections: page, NextPageToken: next})
}

func (s *Server) handleGetPublisherConnection(w http.ResponseWriter, r *http.Request) {
	name := rtb.PublisherConnectionName(chi.URLParam(r, "bidder"), chi.URLParam(r, "connection"))

	s.mu.RLock()
	c, ok := s.connections.get(name)
	s.mu.RUnlock()
	if !ok {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleBatchPublisherConnections(state string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Names []string `json:"names"`
		}
		if err := decodeBody(r, &req); err != nil {
			invalidArgument(w, err.Error())
			return
		}
		if len(req.Names) == 0 {
			invalidArgument(w, "names must not be empty")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, name := range req.Names {
			if _, ok := s.connections.get(name); !ok {
				notFound(w, name)
				return
			}
		}

		var resp rtbv1.BatchApprovePublisherConnectionsResponse
		for _, name := range req.Names {
			c, _ := s.connections.get(name)
			c.BiddingState = state
			s.connections.put(name, *c)
			resp.PublisherConnections = append(resp.PublisherConnections, c)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleListBuyers(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	items := s.buyers.list("buyers/")
	s.mu.RUnlock()

	page, next, err := paginate(r, items)
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rtbv1.ListBuyersResponse{Buyers: page, NextPageToken: next})
}

func (s *Server) handleGetBuyer(w http.ResponseWriter, r *http.Request) {
	name := rtb.BuyerName(chi.URLParam(r, "buyer"))

	s.mu.RLock()
	b, ok := s.buyers.get(name)
	s.mu.RUnlock()
	if !ok {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleListCreatives(w http.ResponseWriter, r *http.Request) {
	parent := rtb.BuyerName(chi.URLParam(r, "buyer"))

	s.mu.RLock()
	items := s.creatives.list(parent + "/creatives/")
	s.mu.RUnlock()

	s.writeCreativePage(w, r, items)
}

func (s *Server) writeCreativePage(w http.ResponseWriter, r *http.Request, items []*rtb.Creative) {
	page, next, err := paginate(r, items)
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}
	view := r.URL.Query().Get("view")
	for i := range page {
		page[i] = creativeView(page[i], view)
	}
	writeJSON(w, http.StatusOK, rtbv1.ListCreativesResponse{Creatives: page, NextPageToken: next})
}

// creativeView trims a creative to the fields the requested view returns
func creativeView(c *rtb.Creative, view string) *rtb.Creative {
	if view != rtb.ViewServingDecisionOnly {
		return c
	}
	return &rtb.Creative{Name: c.Name, CreativeServingDecision: c.CreativeServingDecision}
}

func (s *Server) handleCreateCreative(w http.ResponseWriter, r *http.Request) {
	buyer := chi.URLParam(r, "buyer")

	var creative rtb.Creative
	if err := decodeBody(r, &creative); err != nil {
		invalidArgument(w, err.Error())
		return
	}
	if creative.CreativeId == "" {
		invalidArgument(w, "creativeId is required")
		return
	}

	var format string
	switch {
	case creative.Html != nil:
		format = "HTML"
	case creative.Native != nil:
		format = "NATIVE"
	case creative.Video != nil:
		format = "VIDEO"
	default:
		invalidArgument(w, "one of html, native or video is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	name := rtb.BuyerCreativeName(buyer, creative.CreativeId)
	if _, exists := s.creatives.get(name); exists {
		writeError(w, http.StatusConflict, "ALREADY_EXISTS", fmt.Sprintf("creative %s already exists", name))
		return
	}

	pending := &rtb.PolicyCompliance{Status: "PENDING_REVIEW"}
	creative.Name = name
	creative.AccountId, _ = strconv.ParseInt(buyer, 10, 64)
	creative.Version = 1
	creative.CreativeFormat = format
	creative.ApiUpdateTime = now()
	creative.CreativeServingDecision = &rtb.CreativeServingDecision{
		DealsPolicyCompliance:    pending,
		NetworkPolicyCompliance:  pending,
		PlatformPolicyCompliance: pending,
		ChinaPolicyCompliance:    pending,
		RussiaPolicyCompliance:   pending,
	}
	s.creatives.put(name, creative)
	writeJSON(w, http.StatusOK, creative)
}

func (s *Server) handleGetCreative(w http.ResponseWriter, r *http.Request) {
	name := rtb.BuyerCreativeName(chi.URLParam(r, "buyer"), chi.URLParam(r, "creative"))

	s.mu.RLock()
	c, ok := s.creatives.get(name)
	s.mu.RUnlock()
	if !ok {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, creativeView(c, r.URL.Query().Get("view")))
}

func (s *Server) handlePatchCreative(w http.ResponseWriter, r *http.Request) {
	name := rtb.BuyerCreativeName(chi.URLParam(r, "buyer"), chi.URLParam(r, "creative"))

	var patch rtb.Creative
	if err := decodeBody(r, &patch); err != nil {
		invalidArgument(w, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.creatives.get(name)
	if !ok {
		notFound(w, name)
		return
	}
	updated := *c
	if err := applyMask(&updated, &patch, updateMask(r)); err != nil {
		invalidArgument(w, err.Error())
		return
	}
	updated.Name = name
	updated.Version++
	updated.ApiUpdateTime = now()
	s.creatives.put(name, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListUserLists(w http.ResponseWriter, r *http.Request) {
	parent := rtb.BuyerName(chi.URLParam(r, "buyer"))

	s.mu.RLock()
	items := s.userLists.list(parent + "/userLists/")
	s.mu.RUnlock()

	page, next, err := paginate(r, items)
	if err != nil {
		invalidArgument(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rtbv1.ListUserListsResponse{UserLists: page, NextPageToken: next})
}

func (s *Server) handleCreateUserList(w http.ResponseWriter, r *http.Request) {
	buyer := chi.URLParam(r, "buyer")

	var list rtb.UserList
	if err := decodeBody(r, &list); err != nil {
		invalidArgument(w, err.Error())
		return
	}
	if list.DisplayName == "" {
		invalidArgument(w, "displayName is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list.Name = rtb.UserListName(buyer, strconv.FormatInt(s.nextIDLocked(), 10))
	list.Status = "OPEN"
	s.userLists.put(list.Name, list)
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetUserList(w http.ResponseWriter, r *http.Request) {
	name := rtb.UserListName(chi.URLParam(r, "buyer"), chi.URLParam(r, "list"))

	s.mu.RLock()
	l, ok := s.userLists.get(name)
	s.mu.RUnlock()
	if !ok {
		notFound(w, name)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateUserList(w http.ResponseWriter, r *http.Request) {
	name := rtb.UserListName(chi.URLParam(r, "buyer"), chi.URLParam(r, "list"))

	var list rtb.UserList
	if err := decodeBody(r, &list); err != nil {
		invalidArgument(w, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.userLists.get(name)
	if !ok {
		notFound(w, name)
		return
	}
	list.Name = name
	list.Status = existing.Status
	s.userLists.put(name, list)
	writeJSON(w, http.StatusOK, list)
}

// handleUserListAction serves {list}:open and {list}:close
func (s *Server) handleUserListAction(w http.ResponseWriter, r *http.Request) {
	id, action, ok := strings.Cut(chi.URLParam(r, "list"), ":")
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, "UNIMPLEMENTED", "POST requires a custom method")
		return
	}
	name := rtb.UserListName(chi.URLParam(r, "buyer"), id)

	var status string
	switch action {
	case "open":
		status = "OPEN"
	case "close":
		status = "CLOSED"
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("unknown method %q", action))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l, found := s.userLists.get(name)
	if !found {
		notFound(w, name)
		return
	}
	updated := *l
	updated.Status = status
	s.userLists.put(name, updated)
	writeJSON(w, http.StatusOK, updated)
}
