package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/EmployeeStore/internal/core"
)

// withRequestMetadata tags ctx with the client IP for import logging.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClientIP(ctx, clientIP(r))
}

// withImportTimeout bounds a single import by UPLOAD_TIMEOUT.
func (s *Server) withImportTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Upload.Timeout)
}

// clientIP returns the host part of RemoteAddr, already rewritten by
// TrustedRealIP for requests from trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
