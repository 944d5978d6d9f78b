// Package integration exercises the assembled server end to end: real HTTP
// over a TCP listener, the full middleware chain, and the in-memory store.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/config"
	"github.com/openhiking/trailhub/pkg/identity"
	"github.com/openhiking/trailhub/pkg/server"
	"github.com/openhiking/trailhub/pkg/server/endpoints"
	"github.com/openhiking/trailhub/pkg/server/store/memory"
)

const secret = "integration-test-secret"

// ServerInstance is a fully wired server listening on a loopback port.
type ServerInstance struct {
	URL      string
	verifier *authn.LocalVerifier
	ts       *httptest.Server
	client   *http.Client
}

// StartServer assembles and starts a server instance. The listener URL
// doubles as the base URL so self links in responses are followable.
func StartServer(t *testing.T) *ServerInstance {
	t.Helper()

	var srv *server.Server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.Router.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		BindAddress: "127.0.0.1",
		Port:        "0",
		BaseURL:     ts.URL,
		PageSize:    5,
		Store:       "memory",
		Verifier:    "local",
		LocalSecret: secret,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should validate: %v", err)
	}

	verifier := authn.NewLocalVerifier([]byte(secret))
	srv = server.NewServer(cfg, memory.New(), verifier, nil)
	endpoints.RegisterAll(srv)

	return &ServerInstance{
		URL:      ts.URL,
		verifier: verifier,
		ts:       ts,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Token mints a bearer token accepted by the instance's verifier.
func (s *ServerInstance) Token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := s.verifier.Mint(&identity.Claim{Subject: subject}, time.Minute)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return "Bearer " + tok
}

// Do sends a request and decodes the JSON response body when there is one.
func (s *ServerInstance) Do(t *testing.T, method, url, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("response is not JSON: %s", raw)
		}
	}
	return resp.StatusCode, decoded
}

func (s *ServerInstance) path(format string, args ...interface{}) string {
	return s.URL + fmt.Sprintf(format, args...)
}
