package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/TableEdit/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for audit
// entries. RemoteAddr has already been resolved by TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithRequestMeta(ctx, core.RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}
