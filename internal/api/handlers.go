package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/newsletter-optin/internal/pkg/logger"
	"github.com/ignite/newsletter-optin/internal/service/subscription"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	svc *subscription.Service
	db  *sql.DB // nil is allowed; health reports it as not configured
}

// NewHandlers creates the handler set. db may be nil (health check only).
func NewHandlers(svc *subscription.Service, db *sql.DB) *Handlers {
	return &Handlers{svc: svc, db: db}
}

type subscribeRequest struct {
	Email         string `json:"email"`
	MailingListID string `json:"mailinglist_id"`
}

// HandleSubscribe accepts a subscription request and triggers the
// confirmation email. The response is deliberately uniform: it never reveals
// whether the address was already pending or confirmed.
//
//	POST /api/newsletter/subscribe
func (h *Handlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.RequestSubscription(r.Context(), req.Email, req.MailingListID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusAccepted, map[string]string{
			"message": "Please check your inbox to confirm your subscription.",
		})
	case errors.Is(err, subscription.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid email address or mailing list")
	default:
		logger.Error("subscribe request failed", "err", err)
		respondError(w, http.StatusInternalServerError, "subscription request failed")
	}
}

// HandleConfirm finalizes a subscription from a confirmation link.
//
// Every failure collapses to the same 404 response. Distinguishing "bad
// token" from "never requested" from "already confirmed" would let anyone
// probe which addresses are subscribed.
//
//	GET /newsletter/confirm?timestamp=&email=&mailinglistId=
func (h *Handlers) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	createdAt, email, listID, err := subscription.ParseConfirmQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusNotFound, "confirmation link is invalid or has already been used")
		return
	}

	if err := h.svc.ConfirmSubscription(r.Context(), createdAt, email, listID); err != nil {
		logger.Warn("confirmation failed", "err", err)
		respondError(w, http.StatusNotFound, "confirmation link is invalid or has already been used")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Your subscription has been confirmed. Welcome aboard!",
	})
}

// HandleListOptions returns the selectable mailing lists as id → name.
//
//	GET /api/newsletter/lists
func (h *Handlers) HandleListOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.svc.ListOptions(r.Context())
	if err != nil {
		logger.Error("listing mailing lists failed", "err", err)
		respondError(w, http.StatusBadGateway, "mailing lists are temporarily unavailable")
		return
	}
	respondJSON(w, http.StatusOK, options)
}

// HandleListDetail returns one mailing list by id.
//
//	GET /api/newsletter/lists/{id}
func (h *Handlers) HandleListDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	list, err := h.svc.GetList(r.Context(), id)
	if err != nil {
		logger.Error("fetching mailing list failed", "list_id", id, "err", err)
		respondError(w, http.StatusBadGateway, "mailing list is temporarily unavailable")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// HandleHealth reports process and database health. Always returns 200; the
// status field conveys degradation so load balancers don't flap on a slow DB.
//
//	GET /health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "not_configured"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = "degraded"
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
