package server

import (
	"context"
	"net/http"
	"strings"
)

type contextKey int

const employeeIDKey contextKey = iota

// employeeID returns the authenticated employee from the request context.
func employeeID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(employeeIDKey).(int64)
	return id, ok
}

// authMiddleware resolves the bearer token into an employee id and stores it
// in the request context. There is no ambient session state: every request
// carries its own identity.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, err := s.sessions.Resolve(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), employeeIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
