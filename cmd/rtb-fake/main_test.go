package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"rtbsamples/internal/auth"
	rtb "rtbsamples/internal/realtimebidding"
)

// testCredentials generates a throwaway service account key
func testCredentials(t *testing.T) *auth.Credentials {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		t.Fatalf("Failed to marshal key: %v", err)
	}
	data, err := json.Marshal(auth.ServiceAccountKey{
		Type:        "service_account",
		PrivateKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		ClientEmail: "fake@test-project.iam.gserviceaccount.com",
	})
	if err != nil {
		t.Fatalf("Failed to marshal key JSON: %v", err)
	}
	creds, err := auth.ParseServiceAccount(data)
	if err != nil {
		t.Fatalf("Failed to parse key: %v", err)
	}
	return creds
}

func getBidders(t *testing.T, url, token string) int {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url+"/v1/bidders", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET bidders: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewServer("", ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if body["status"] != "healthy" || body["version"] != version {
		t.Errorf("unexpected health response: %v", body)
	}
}

func TestSeededAPI(t *testing.T) {
	srv := httptest.NewServer(NewServer("12345678", ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/bidders/12345678")
	if err != nil {
		t.Fatalf("GET bidder: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var bidder rtb.Bidder
	if err := json.NewDecoder(resp.Body).Decode(&bidder); err != nil {
		t.Fatalf("decoding bidder: %v", err)
	}
	if bidder.Name != "bidders/12345678" {
		t.Errorf("unexpected bidder: %+v", bidder)
	}
}

func TestRequireToken(t *testing.T) {
	srv := httptest.NewServer(NewServer("12345678", "secret"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/bidders")
	if err != nil {
		t.Fatalf("GET bidders: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/bidders", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET bidders with token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with a token, got %d", resp.StatusCode)
	}
}

func TestMetricsRecordRoutes(t *testing.T) {
	srv := httptest.NewServer(NewServer("12345678", ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/buyers/12345678")
	if err != nil {
		t.Fatalf("GET buyer: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := `rtb_fake_http_request_duration_seconds_count{endpoint="/v1/buyers/{buyer}",method="GET",status="200"}`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics missing %s", want)
	}
}

func TestVerifySelfSignedJWT(t *testing.T) {
	creds := testCredentials(t)
	server := NewServer("12345678", "")
	if err := server.VerifySelfSignedJWT(creds); err != nil {
		t.Fatalf("VerifySelfSignedJWT: %v", err)
	}
	srv := httptest.NewServer(server)
	defer srv.Close()

	signer, err := auth.NewSelfSignedJWT(creds.Key, auth.RealtimeBiddingScope)
	if err != nil {
		t.Fatalf("NewSelfSignedJWT: %v", err)
	}
	tok, err := signer.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got := getBidders(t, srv.URL, tok.AccessToken); got != http.StatusOK {
		t.Errorf("expected 200 with a minted token, got %d", got)
	}

	other, _ := auth.NewSelfSignedJWT(testCredentials(t).Key, auth.RealtimeBiddingScope)
	forged, err := other.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	for name, token := range map[string]string{
		"other key": forged.AccessToken,
		"garbage":   "not-a-jwt",
		"missing":   "",
	} {
		if got := getBidders(t, srv.URL, token); got != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, got)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")

	l, err := newLogger(defaultLogLevel, false)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if !l.Core().Enabled(zapcore.InfoLevel) || l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default level should log info but not debug")
	}

	l, err = newLogger("error", true)
	if err != nil {
		t.Fatalf("newLogger verbose: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose should enable debug")
	}

	if _, err := newLogger("loud", false); err == nil {
		t.Error("expected an unknown level to fail")
	}
}
