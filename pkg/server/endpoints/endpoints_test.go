package endpoints_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/config"
	"github.com/openhiking/trailhub/pkg/identity"
	"github.com/openhiking/trailhub/pkg/server"
	"github.com/openhiking/trailhub/pkg/server/endpoints"
	"github.com/openhiking/trailhub/pkg/server/store/memory"
)

const (
	testBaseURL = "http://api.test"
	testSecret  = "endpoint-test-secret"
)

type testServer struct {
	srv      *server.Server
	verifier *authn.LocalVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		BindAddress: "127.0.0.1",
		Port:        "0",
		BaseURL:     testBaseURL,
		PageSize:    5,
		Store:       "memory",
		Verifier:    "local",
		LocalSecret: testSecret,
	}

	verifier := authn.NewLocalVerifier([]byte(testSecret))
	srv := server.NewServer(cfg, memory.New(), verifier, nil)
	endpoints.RegisterAll(srv)

	return &testServer{srv: srv, verifier: verifier}
}

// token mints a bearer token for the given subject.
func (ts *testServer) token(t *testing.T, subject, givenName, familyName string) string {
	t.Helper()
	tok, err := ts.verifier.Mint(&identity.Claim{
		Subject:    subject,
		GivenName:  givenName,
		FamilyName: familyName,
	}, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok
}

type request struct {
	method string
	path   string
	token  string
	accept string
	body   interface{}
}

// do runs a request through the real router and decodes any JSON body.
func (ts *testServer) do(t *testing.T, req request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(req.method, req.path, body)
	if req.token != "" {
		r.Header.Set("Authorization", req.token)
	}
	if req.accept != "" {
		r.Header.Set("Accept", req.accept)
	}

	w := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(w, r)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded),
			"response body should be JSON: %s", w.Body.String())
	}
	return w, decoded
}

// createTrail posts a trail and returns its id.
func (ts *testServer) createTrail(t *testing.T, token, name string) int64 {
	t.Helper()
	w, body := ts.do(t, request{
		method: "POST", path: "/trails", token: token,
		body: map[string]interface{}{"name": name, "type": "loop", "length": 7.2},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %v", body)
	return int64(body["id"].(float64))
}

// createTrailhead posts a trailhead and returns its id.
func (ts *testServer) createTrailhead(t *testing.T, name string) int64 {
	t.Helper()
	w, body := ts.do(t, request{
		method: "POST", path: "/trailheads",
		body: map[string]interface{}{
			"name":     name,
			"location": map[string]interface{}{"latitude": 46.24, "longitude": -117.69},
			"fee":      0,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %v", body)
	return int64(body["id"].(float64))
}

func linkPath(trailID, trailheadID int64) string {
	return fmt.Sprintf("/trails/%d/trailheads/%d", trailID, trailheadID)
}
