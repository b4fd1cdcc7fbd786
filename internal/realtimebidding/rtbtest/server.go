// Package rtbtest provides an in-memory fake of the Real-time Bidding v1 API
// for tests and local runs.
package rtbtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rtb "rtbsamples/internal/realtimebidding"
)

// Request is a request received by the fake
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Server is an in-memory Real-time Bidding API
type Server struct {
	mu          sync.RWMutex
	bidders     *table[rtb.Bidder]
	buyers      *table[rtb.Buyer]
	creatives   *table[rtb.Creative]
	endpoints   *table[rtb.Endpoint]
	configs     *table[rtb.PretargetingConfig]
	connections *table[rtb.PublisherConnection]
	userLists   *table[rtb.UserList]
	nextID      int64
	token       string
	verify      func(token string) error
	requests    []Request
	router      chi.Router
}

// New creates an empty fake. The routes are mounted under /v1.
func New(mws ...func(http.Handler) http.Handler) *Server {
	s := &Server{
		bidders:     newTable[rtb.Bidder](),
		buyers:      newTable[rtb.Buyer](),
		creatives:   newTable[rtb.Creative](),
		endpoints:   newTable[rtb.Endpoint](),
		configs:     newTable[rtb.PretargetingConfig](),
		connections: newTable[rtb.PublisherConnection](),
		userLists:   newTable[rtb.UserList](),
		nextID:      1000,
		router:      chi.NewRouter(),
	}
	s.setupRoutes(mws)
	return s
}

// RequireToken makes the fake reject requests without "Bearer <token>"
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// VerifyToken makes the fake pass every bearer token to verify and reject
// the request when it returns an error. It takes precedence over RequireToken.
func (s *Server) VerifyToken(verify func(token string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verify = verify
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Requests returns the requests received so far
func (s *Server) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request
func (s *Server) LastRequest() Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// AddBidder stores a bidder
func (s *Server) AddBidder(b rtb.Bidder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bidders.put(b.Name, b)
}

// AddBuyer stores a buyer
func (s *Server) AddBuyer(b rtb.Buyer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buyers.put(b.Name, b)
}

// AddCreative stores a creative
func (s *Server) AddCreative(c rtb.Creative) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creatives.put(c.Name, c)
}

// AddEndpoint stores an endpoint
func (s *Server) AddEndpoint(e rtb.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints.put(e.Name, e)
}

// AddPretargetingConfig stores a pretargeting configuration
func (s *Server) AddPretargetingConfig(c rtb.PretargetingConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs.put(c.Name, c)
}

// AddPublisherConnection stores a publisher connection
func (s *Server) AddPublisherConnection(c rtb.PublisherConnection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections.put(c.Name, c)
}

// AddUserList stores a user list
func (s *Server) AddUserList(l rtb.UserList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLists.put(l.Name, l)
}

// PretargetingConfig returns a stored configuration
func (s *Server) PretargetingConfig(name string) (rtb.PretargetingConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.configs.get(name)
	if !ok {
		return rtb.PretargetingConfig{}, false
	}
	return *c, true
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes(mws []func(http.Handler) http.Handler) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	for _, mw := range mws {
		s.router.Use(mw)
	}
	s.router.Use(s.record)
	s.router.Use(s.authenticate)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/bidders", s.handleListBidders)
		r.Get("/bidders/{bidder}", s.handleGetBidder)
		r.Get("/bidders/{bidder}/creatives", s.handleListBidderCreatives)
		r.Post("/bidders/{bidder}/creatives:watch", s.handleWatchCreatives)
		r.Get("/bidders/{bidder}/endpoints", s.handleListEndpoints)
		r.Get("/bidders/{bidder}/endpoints/{endpoint}", s.handleGetEndpoint)
		r.Patch("/bidders/{bidder}/endpoints/{endpoint}", s.handlePatchEndpoint)
		r.Get("/bidders/{bidder}/pretargetingConfigs", s.handleListPretargetingConfigs)
		r.Post("/bidders/{bidder}/pretargetingConfigs", s.handleCreatePretargetingConfig)
		r.Get("/bidders/{bidder}/pretargetingConfigs/{config}", s.handleGetPretargetingConfig)
		r.Patch("/bidders/{bidder}/pretargetingConfigs/{config}", s.handlePatchPretargetingConfig)
		r.Delete("/bidders/{bidder}/pretargetingConfigs/{config}", s.handleDeletePretargetingConfig)
		r.Post("/bidders/{bidder}/pretargetingConfigs/{config}", s.handlePretargetingAction)
		r.Get("/bidders/{bidder}/publisherConnections", s.handleListPublisherConnections)
		r.Post("/bidders/{bidder}/publisherConnections:batchApprove", s.handleBatchPublisherConnections("APPROVED"))
		r.Post("/bidders/{bidder}/publisherConnections:batchReject", s.handleBatchPublisherConnections("REJECTED"))
		r.Get("/bidders/{bidder}/publisherConnections/{connection}", s.handleGetPublisherConnection)

		r.Get("/buyers", s.handleListBuyers)
		r.Get("/buyers/{buyer}", s.handleGetBuyer)
		r.Get("/buyers/{buyer}/creatives", s.handleListCreatives)
		r.Post("/buyers/{buyer}/creatives", s.handleCreateCreative)
		r.Get("/buyers/{buyer}/creatives/{creative}", s.handleGetCreative)
		r.Patch("/buyers/{buyer}/creatives/{creative}", s.handlePatchCreative)
		r.Get("/buyers/{buyer}/userLists", s.handleListUserLists)
		r.Post("/buyers/{buyer}/userLists", s.handleCreateUserList)
		r.Get("/buyers/{buyer}/userLists/{list}", s.handleGetUserList)
		r.Put("/buyers/{buyer}/userLists/{list}", s.handleUpdateUserList)
		r.Post("/buyers/{buyer}/userLists/{list}", s.handleUserListAction)
	})
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		token, verify := s.token, s.verify
		s.mu.RUnlock()

		if token == "" && verify == nil {
			next.ServeHTTP(w, r)
			return
		}

		bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if ok && verify != nil {
			ok = verify(bearer) == nil
		} else if ok {
			ok = bearer == token
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Request had invalid authentication credentials.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// paginate slices items according to the pageSize and pageToken query parameters
func paginate[T any](r *http.Request, items []T) ([]T, string, error) {
	size := 100
	if v := r.URL.Query().Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, "", fmt.Errorf("invalid pageSize %q", v)
		}
		if n > 0 {
			size = n
		}
	}

	offset := 0
	if v := r.URL.Query().Get("pageToken"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > len(items) {
			return nil, "", fmt.Errorf("invalid pageToken %q", v)
		}
		offset = n
	}

	end := offset + size
	if end >= len(items) {
		return items[offset:], "", nil
	}
	return items[offset:end], strconv.Itoa(end), nil
}

func (s *Server) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	return nil
}

func updateMask(r *http.Request) []string {
	v := r.URL.Query().Get("updateMask")
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, status, message string) {
	writeJSON(w, code, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func notFound(w http.ResponseWriter, name string) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Requested entity was not found: %s", name))
}

func invalidArgument(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", message)
}
