package endpoints_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailsRequireAuthentication(t *testing.T) {
	ts := newTestServer(t)

	// Valid bodies throughout: validation runs before the claim check, and a
	// 400 would mask the 401 under test.
	valid := map[string]interface{}{"name": "Ridge", "type": "loop", "length": 7.2}

	testCases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/trails", nil},
		{"POST", "/trails", valid},
		{"GET", "/trails/1", nil},
		{"PUT", "/trails/1", valid},
		{"PATCH", "/trails/1", map[string]interface{}{}},
		{"DELETE", "/trails/1", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w, _ := ts.do(t, request{method: tc.method, path: tc.path, body: tc.body})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestInvalidTokenIsUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(t, request{method: "GET", path: "/trails", token: "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndGetTrail(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")

	w, body := ts.do(t, request{
		method: "POST", path: "/trails", token: alice,
		body: map[string]interface{}{"name": "Forest Lake Loop", "type": "loop", "length": 7.2},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	id := int64(body["id"].(float64))
	assert.Equal(t, "Forest Lake Loop", body["name"])
	assert.Equal(t, "alice-subject", body["ownerId"])
	assert.Equal(t, fmt.Sprintf("%s/trails/%d", testBaseURL, id), body["self"])
	assert.Equal(t, []interface{}{}, body["trailheads"])

	w, got := ts.do(t, request{method: "GET", path: fmt.Sprintf("/trails/%d", id), token: alice})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body["self"], got["self"])
}

func TestCreateTrailValidation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")

	t.Run("missing attribute", func(t *testing.T) {
		w, body := ts.do(t, request{
			method: "POST", path: "/trails", token: alice,
			body: map[string]interface{}{"name": "Ridge", "type": "loop"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "length")
	})

	t.Run("bad trail type", func(t *testing.T) {
		w, _ := ts.do(t, request{
			method: "POST", path: "/trails", token: alice,
			body: map[string]interface{}{"name": "Ridge", "type": "spiral", "length": 2.0},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "POST", path: "/trails", token: alice, body: "not an object"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrailOwnershipIsOpaque(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")
	bob := ts.token(t, "bob-subject", "Bob", "Reyes")

	id := ts.createTrail(t, alice, "Ridge")

	t.Run("someone else's trail", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "GET", path: fmt.Sprintf("/trails/%d", id), token: bob})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("nonexistent trail gets the same answer", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "GET", path: "/trails/999999", token: bob})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete is equally opaque", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "DELETE", path: fmt.Sprintf("/trails/%d", id), token: bob})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed id gets the same answer as a miss", func(t *testing.T) {
		w, body := ts.do(t, request{method: "GET", path: "/trails/abc", token: bob})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, body, "error", "malformed ids still answer in JSON")
	})
}

func TestReplaceTrail(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")
	id := ts.createTrail(t, alice, "Ridge")

	t.Run("full body returns the new representation", func(t *testing.T) {
		w, body := ts.do(t, request{
			method: "PUT", path: fmt.Sprintf("/trails/%d", id), token: alice,
			body: map[string]interface{}{"name": "New Ridge", "type": "out-and-back", "length": 3.1},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "New Ridge", body["name"])
		assert.Equal(t, "out-and-back", body["type"])
	})

	t.Run("partial body is rejected", func(t *testing.T) {
		w, _ := ts.do(t, request{
			method: "PUT", path: fmt.Sprintf("/trails/%d", id), token: alice,
			body: map[string]interface{}{"name": "Only Name"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPatchTrailKeepsOtherAttributes(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")
	id := ts.createTrail(t, alice, "Ridge")

	w, body := ts.do(t, request{
		method: "PATCH", path: fmt.Sprintf("/trails/%d", id), token: alice,
		body: map[string]interface{}{"length": 9.9},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 9.9, body["length"])
	assert.Equal(t, "Ridge", body["name"])
}

func TestDeleteTrail(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")
	id := ts.createTrail(t, alice, "Ridge")

	w, _ := ts.do(t, request{method: "DELETE", path: fmt.Sprintf("/trails/%d", id), token: alice})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = ts.do(t, request{method: "GET", path: fmt.Sprintf("/trails/%d", id), token: alice})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListTrailsPagination(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")

	for i := 0; i < 7; i++ {
		ts.createTrail(t, alice, fmt.Sprintf("Trail %d", i))
	}

	w, body := ts.do(t, request{method: "GET", path: "/trails", token: alice})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), body["count"])
	assert.Len(t, body["items"], 5)
	assert.Equal(t, testBaseURL+"/trails", body["self"])

	next, ok := body["next"].(string)
	require.True(t, ok, "first page must link to the next")
	u, err := url.Parse(next)
	require.NoError(t, err)

	w, body = ts.do(t, request{method: "GET", path: "/trails?" + u.RawQuery, token: alice})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), body["count"])
	assert.Len(t, body["items"], 2)
	assert.Nil(t, body["next"], "final page carries no next link")
}

func TestListTrailsFiltersByOwner(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")
	bob := ts.token(t, "bob-subject", "Bob", "Reyes")

	ts.createTrail(t, alice, "Alice trail")
	ts.createTrail(t, bob, "Bob trail")

	w, body := ts.do(t, request{method: "GET", path: "/trails", token: bob})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Bob trail", items[0].(map[string]interface{})["name"])
}

func TestListTrailsBadCursor(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")

	w, _ := ts.do(t, request{method: "GET", path: "/trails?cursor=not!!valid", token: alice})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrailsContentNegotiation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")

	t.Run("html is not acceptable", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "GET", path: "/trails", token: alice, accept: "text/html"})
		assert.Equal(t, http.StatusNotAcceptable, w.Code)
	})

	t.Run("json works", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "GET", path: "/trails", token: alice,
			accept: "application/json; charset=utf-8"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wildcards work", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "GET", path: "/trails", token: alice,
			accept: "text/html, */*;q=0.8"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("partial wildcards do not", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "GET", path: "/trails", token: alice,
			accept: "application/*"})
		assert.Equal(t, http.StatusNotAcceptable, w.Code)
	})
}

func TestTrailsMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice-subject", "Alice", "Walker")
	id := ts.createTrail(t, alice, "Ridge")

	t.Run("collection", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "DELETE", path: "/trails", token: alice})
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	})

	t.Run("item", func(t *testing.T) {
		w, _ := ts.do(t, request{method: "POST", path: fmt.Sprintf("/trails/%d", id), token: alice,
			body: map[string]interface{}{}})
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, PUT, PATCH, DELETE", w.Header().Get("Allow"))
	})
}
