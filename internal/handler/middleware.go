package handler

import (
	"net/http"
	"time"

	"github.com/dardiyafa/booking-engine/internal/tenant"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// AccessLog logs one structured line per request.
func AccessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

// CORS applies a permissive policy; the real deployment sits behind a
// gateway that narrows it.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Org-ID, X-Org-Role")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TenantContext lifts the gateway-resolved {orgId, role} headers into a
// tenant.Context. The engine trusts these headers: authenticating the
// caller and proving org membership happened upstream, before the
// request reached this service.
func TenantContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := r.Header.Get("X-Org-ID")
		role := r.Header.Get("X-Org-Role")
		if orgID == "" || role == "" {
			writeError(w, http.StatusUnauthorized, "missing organization context")
			return
		}
		ctx := tenant.WithContext(r.Context(), tenant.Context{OrgID: orgID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
