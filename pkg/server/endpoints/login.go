package endpoints

import (
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"net/http"

	"github.com/openhiking/trailhub/pkg/audit"
	"github.com/openhiking/trailhub/pkg/server"
)

const stateCookie = "trailhub_oauth_state"

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>trailhub</title></head>
<body>
<h1>trailhub</h1>
<p><a href="{{.AuthURL}}">Sign in with Google</a></p>
</body>
</html>
`))

var callbackTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>trailhub</title></head>
<body>
<h1>Welcome, {{.GivenName}} {{.FamilyName}}</h1>
<p>Your user id: <code>{{.Subject}}</code></p>
<p>Your bearer token for API requests: <code>{{.Token}}</code></p>
</body>
</html>
`))

// RegisterAuthEndpoints registers the login page and the OAuth callback.
// Both are thin plumbing around the Exchanger and Verifier; the only core
// work in the callback is mirroring the verified claim into the User roster.
func RegisterAuthEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleLogin(s)).Methods("GET")
	s.Router.HandleFunc("/user", handleOAuthCallback(s)).Methods("GET")
}

func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := randomState()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/",
			HttpOnly: true,
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = loginTemplate.Execute(w, map[string]string{
			"AuthURL": s.Exchanger.AuthCodeURL(state),
		})
	}
}

func handleOAuthCallback(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(stateCookie)
		if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
			respondWithError(w, http.StatusForbidden, "state mismatch")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			respondWithError(w, http.StatusBadRequest, "missing authorization code")
			return
		}

		rawIDToken, err := s.Exchanger.Exchange(r.Context(), code)
		if err != nil {
			writeError(w, err)
			return
		}

		claim, err := s.Verifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			audit.Log(audit.SignInEvent{ErrorMessage: err.Error()})
			writeError(w, err)
			return
		}

		if _, err := s.Engine.UpsertRosterUser(r.Context(), claim); err != nil {
			writeError(w, err)
			return
		}
		audit.Log(audit.SignInEvent{Subject: claim.Subject, Success: true})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = callbackTemplate.Execute(w, map[string]string{
			"GivenName":  claim.GivenName,
			"FamilyName": claim.FamilyName,
			"Subject":    claim.Subject,
			"Token":      rawIDToken,
		})
	}
}

func randomState() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
