package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

const (
	storeRetryAttempts = 3
	storeRetryDelay    = 200 * time.Millisecond
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps storage errors onto HTTP statuses. Unknown errors are
// reported as 500 without leaking their text to the client.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrObjectNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, repository.ErrDuplicateOrder):
		return http.StatusConflict, "Order number already exists"
	case errors.Is(err, repository.ErrCellOccupied):
		return http.StatusBadRequest, "Cell is already occupied"
	case errors.Is(err, repository.ErrInvalidTransition):
		return http.StatusConflict, "Operation not allowed in current order status"
	case errors.Is(err, repository.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Storage temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func (s *Server) respondStorageError(w http.ResponseWriter, operation string, err error) {
	status, msg := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("storage operation failed", zap.String("operation", operation), zap.Error(err))
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
	}
	respondError(w, status, msg)
}

// withRetry re-runs fn while it keeps failing with ErrStoreUnavailable.
// Other errors are returned immediately.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < storeRetryAttempts; attempt++ {
		if err = fn(); !errors.Is(err, repository.ErrStoreUnavailable) {
			return err
		}
		time.Sleep(storeRetryDelay)
	}
	return err
}

func orderIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if loginRequest.Phone == "" || loginRequest.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing phone or password")
		return
	}

	user, err := s.storage.GetUserByPhone(r.Context(), loginRequest.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.respondStorageError(w, "login", err)
		return
	}

	if user.Role != storage.RoleEmployee || user.PasswordHash == nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(loginRequest.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("session create failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user": map[string]interface{}{
			"id":   user.ID,
			"name": user.FullName,
			"role": user.Role,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if err := s.sessions.Delete(r.Context(), token); err != nil {
		s.logger.Warn("session delete failed", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleSearchOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing 'q' parameter")
		return
	}
	var searchType string
	switch r.URL.Query().Get("type") {
	case "", "number", "order_number":
		searchType = "number"
	case "phone", "client_phone":
		searchType = "phone"
	default:
		respondError(w, http.StatusBadRequest, "Invalid 'type' parameter")
		return
	}

	var orders []storage.OrderSummary
	err := withRetry(func() error {
		var err error
		orders, err = s.storage.SearchOrders(r.Context(), query, searchType)
		return err
	})
	if err != nil {
		s.respondStorageError(w, "search_orders", err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := s.storage.GetOrder(r.Context(), orderID)
	if err != nil {
		s.respondStorageError(w, "get_order", err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleIssueOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	userID, ok := employeeID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	receipt, err := s.storage.IssueOrder(r.Context(), orderID, userID)
	if err != nil {
		s.respondStorageError(w, "issue_order", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Order issued successfully",
		"receipt_number": receipt,
	})
}

func (s *Server) handleReturnOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var returnRequest struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&returnRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if returnRequest.Reason == "" {
		respondError(w, http.StatusBadRequest, "Missing return reason")
		return
	}

	returnID, err := s.storage.ReturnOrder(r.Context(), orderID, returnRequest.Reason)
	if err != nil {
		s.respondStorageError(w, "return_order", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Order returned successfully",
		"return_id": returnID,
	})
}

func (s *Server) handleAssignCell(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var assignRequest struct {
		CellID int64 `json:"cell_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&assignRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if assignRequest.CellID <= 0 {
		respondError(w, http.StatusBadRequest, "Missing cell_id")
		return
	}

	if err := s.storage.AssignCell(r.Context(), orderID, assignRequest.CellID); err != nil {
		s.respondStorageError(w, "assign_cell", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cell assigned successfully",
	})
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	history, err := s.storage.OrderHistory(r.Context(), orderID)
	if err != nil {
		s.respondStorageError(w, "order_history", err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleFreeCells(w http.ResponseWriter, r *http.Request) {
	cells, err := s.storage.FreeCells(r.Context())
	if err != nil {
		s.respondStorageError(w, "free_cells", err)
		return
	}

	respondJSON(w, http.StatusOK, cells)
}

func (s *Server) handleListReturns(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 20

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'page' parameter")
			return
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'limit' parameter")
			return
		}
	}

	returns, err := s.storage.Returns(r.Context(), page, limit)
	if err != nil {
		s.respondStorageError(w, "list_returns", err)
		return
	}

	respondJSON(w, http.StatusOK, returns)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats *storage.Stats
	err := withRetry(func() error {
		var err error
		stats, err = s.storage.Stats(r.Context())
		return err
	})
	if err != nil {
		s.respondStorageError(w, "stats", err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
