package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeOAuth, false},
		{"oauth", ModeOAuth, false},
		{"Self-Signed-JWT", ModeSelfSignedJWT, false},
		{" none ", ModeNone, false},
		{"basic", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadServiceAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		_, data := testKey(t, "https://oauth2.googleapis.com/token")
		path := writeKeyFile(t, data)

		creds, err := LoadServiceAccount(path)
		if err != nil {
			t.Fatalf("LoadServiceAccount failed: %v", err)
		}
		if creds.Key.ClientEmail != "sa@test-project.iam.gserviceaccount.com" {
			t.Errorf("unexpected client email: %s", creds.Key.ClientEmail)
		}
		if creds.Path != path {
			t.Errorf("unexpected path: %s", creds.Path)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := LoadServiceAccount("")
		if err == nil || !strings.Contains(err.Error(), "key file") {
			t.Errorf("expected key file error, got %v", err)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := LoadServiceAccount("/nonexistent/key.json")
		if err == nil || !strings.Contains(err.Error(), "/nonexistent/key.json") {
			t.Errorf("expected error naming the file, got %v", err)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		path := writeKeyFile(t, []byte(`{"type":"authorized_user","client_email":"a@b.com","private_key":"x"}`))
		if _, err := LoadServiceAccount(path); err == nil {
			t.Error("expected error for non service account key")
		}
	})

	t.Run("missing email", func(t *testing.T) {
		path := writeKeyFile(t, []byte(`{"type":"service_account","private_key":"x"}`))
		_, err := LoadServiceAccount(path)
		if err == nil || !strings.Contains(err.Error(), "ClientEmail") {
			t.Errorf("expected ClientEmail validation error, got %v", err)
		}
	})
}

func TestTokenSource_OAuth(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("unexpected grant_type: %s", got)
		}
		if r.PostForm.Get("assertion") == "" {
			t.Error("expected a signed assertion")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "exchanged-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer tokenServer.Close()

	_, data := testKey(t, tokenServer.URL)
	creds, err := ParseServiceAccount(data)
	if err != nil {
		t.Fatalf("ParseServiceAccount failed: %v", err)
	}

	ts, err := creds.TokenSource(context.Background(), ModeOAuth, RealtimeBiddingScope)
	if err != nil {
		t.Fatalf("TokenSource failed: %v", err)
	}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer exchanged-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
	}))
	defer api.Close()

	resp, err := NewHTTPClient(ts, nil).Get(api.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
}

func TestTokenSource_None(t *testing.T) {
	_, data := testKey(t, "")
	creds, err := ParseServiceAccount(data)
	if err != nil {
		t.Fatalf("ParseServiceAccount failed: %v", err)
	}

	ts, err := creds.TokenSource(context.Background(), ModeNone, RealtimeBiddingScope)
	if err != nil || ts != nil {
		t.Fatalf("expected nil source, got %v, %v", ts, err)
	}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
	}))
	defer api.Close()

	resp, err := NewHTTPClient(nil, nil).Get(api.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
}
