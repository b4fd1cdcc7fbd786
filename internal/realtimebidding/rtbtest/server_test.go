package rtbtest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	rtbv1 "google.golang.org/api/realtimebidding/v1"

	rtb "rtbsamples/internal/realtimebidding"
)

func TestServer_RequireToken(t *testing.T) {
	s := New()
	s.Seed("1")
	s.RequireToken("secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/bidders/1", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/bidders/1", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body)
	}

	var bidder rtb.Bidder
	if err := json.NewDecoder(rec.Body).Decode(&bidder); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bidder.Name != "bidders/1" {
		t.Errorf("unexpected bidder: %+v", bidder)
	}
}

func TestServer_VerifyToken(t *testing.T) {
	s := New()
	s.Seed("1")
	s.RequireToken("static")
	var seen []string
	s.VerifyToken(func(token string) error {
		seen = append(seen, token)
		if token != "signed" {
			return errors.New("bad signature")
		}
		return nil
	})

	for _, tc := range []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer static", http.StatusUnauthorized},
		{"Bearer signed", http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/v1/bidders/1", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("Authorization %q: expected %d, got %d", tc.header, tc.want, rec.Code)
		}
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 verified tokens, got %v", seen)
	}
}

func TestServer_WatchCreatives(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/v1/bidders/42/creatives:watch", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp rtb.WatchCreativesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasSuffix(resp.Subscription, "/subscriptions/rtbcreative-42") {
		t.Errorf("unexpected subscription: %s", resp.Subscription)
	}
	if last := s.LastRequest(); last.Method != http.MethodPost || last.Path != "/v1/bidders/42/creatives:watch" {
		t.Errorf("unexpected recorded request: %+v", last)
	}
}

func TestServer_NotFoundEnvelope(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/v1/buyers/404", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code   int    `json:"code"`
			Status string `json:"status"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != 404 || body.Error.Status != "NOT_FOUND" {
		t.Errorf("unexpected envelope: %+v", body)
	}
}

func TestServer_BidderCreativesSpanBuyers(t *testing.T) {
	s := New()
	s.AddBuyer(rtb.Buyer{Name: "buyers/1", Bidder: "bidders/1"})
	s.AddBuyer(rtb.Buyer{Name: "buyers/2", Bidder: "bidders/1"})
	s.AddBuyer(rtb.Buyer{Name: "buyers/3", Bidder: "bidders/3"})
	s.AddCreative(rtb.Creative{Name: "buyers/1/creatives/a"})
	s.AddCreative(rtb.Creative{Name: "buyers/2/creatives/b"})
	s.AddCreative(rtb.Creative{Name: "buyers/3/creatives/c"})

	req := httptest.NewRequest(http.MethodGet, "/v1/bidders/1/creatives", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp rtbv1.ListCreativesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Creatives) != 2 {
		t.Errorf("expected 2 creatives, got %+v", resp.Creatives)
	}
}
