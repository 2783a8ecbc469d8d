package middleware

import (
	"net"
	"net/http"

	portalAuth "github.com/leanda/portalAuth"
)

// RequestContext copies the client address and User-Agent into the request
// context so engine audit events can record them.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := portalAuth.WithClientIP(r.Context(), clientIP(r.RemoteAddr))
		ctx = portalAuth.WithUserAgent(ctx, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
