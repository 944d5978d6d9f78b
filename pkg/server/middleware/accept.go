package middleware

import (
	"net/http"
	"strings"
)

// AcceptJSON rejects requests whose Accept header names neither */* nor
// application/json, before any other validation runs. An absent header is
// treated as */*.
func AcceptJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		if accept != "" && !acceptsJSON(accept) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotAcceptable)
			_, _ = w.Write([]byte(`{"error":"response must be acceptable as application/json"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func acceptsJSON(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaRange := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mediaRange == "*/*" || mediaRange == "application/json" {
			return true
		}
	}
	return false
}
