package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

const maxAuditBodySize = 4 << 10

// auditLogMiddleware records every API request as an AuditLogEntry. Bodies are
// captured truncated so a large payload cannot bloat the audit trail.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := AuditLogEntry{
			Timestamp: time.Now().UTC(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   handlerName(r),
		}

		if userID, ok := employeeID(r.Context()); ok {
			entry.UserID = userID
		}
		if orderID, ok := mux.Vars(r)["id"]; ok {
			entry.OrderID = orderID
		}

		if r.Body != nil && r.URL.Path != "/api/login" {
			requestBody, _ := io.ReadAll(io.LimitReader(r.Body, maxAuditBodySize))
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), r.Body))
			entry.Request = string(requestBody)
		}

		wrw := newAuditResponseWriter(w)
		next.ServeHTTP(wrw, r)

		entry.StatusCode = wrw.statusCode
		entry.Response = wrw.body.String()

		s.audit.LogEntry(r.Context(), entry)
	})
}

func handlerName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return r.Method + " " + tpl
		}
	}
	return r.Method + " " + r.URL.Path
}

// auditResponseWriter tees the response status and body for the audit entry.
type auditResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       strings.Builder
}

func newAuditResponseWriter(w http.ResponseWriter) *auditResponseWriter {
	return &auditResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *auditResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *auditResponseWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxAuditBodySize {
		w.body.Write(b[:min(len(b), maxAuditBodySize-w.body.Len())])
	}
	return w.ResponseWriter.Write(b)
}
