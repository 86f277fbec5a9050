package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"skyseat/internal/auth"
	"skyseat/internal/sessions/service"
	"skyseat/pkg/config"
	httputil "skyseat/pkg/http"
	"skyseat/pkg/middleware"
	"skyseat/pkg/model"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type SessionHandler struct {
	service service.SessionService
	cfg     *config.Config
}

func NewSessionHandler(service service.SessionService, cfg *config.Config) *SessionHandler {
	return &SessionHandler{
		service: service,
		cfg:     cfg,
	}
}

// identityFromRequest gathers everything the gate needs: account claims
// parsed by the identity middleware, guest id and raw secret from cookies.
func (h *SessionHandler) identityFromRequest(r *http.Request) auth.Identity {
	identity := auth.Identity{
		GuestID:       httputil.ReadCookie(r, h.cfg.GuestCookieName),
		SessionSecret: httputil.ReadCookie(r, h.cfg.SecretCookieName),
	}
	if claims := middleware.AccountFromContext(r.Context()); claims != nil {
		identity.AccountID = claims.AccountID
	}
	return identity
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.cfg.Log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	owner := service.Owner{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}

	newGuest := false
	if claims := middleware.AccountFromContext(r.Context()); claims != nil {
		owner.Type = model.OwnerTypeAccount
		owner.AccountID = claims.AccountID
	} else {
		owner.Type = model.OwnerTypeGuest
		owner.GuestID = httputil.ReadCookie(r, h.cfg.GuestCookieName)
		if owner.GuestID == "" {
			owner.GuestID = uuid.New().String()
			newGuest = true
		}
	}

	result, err := h.service.Create(r.Context(), &req, owner)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.cfg.Log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if newGuest {
		httputil.SetSessionCookie(w, h.cfg.GuestCookieName, owner.GuestID,
			time.Now().Add(h.cfg.GuestCookieTTL), h.cfg.CookieSecure)
	}
	if result.RawSecret != "" {
		httputil.SetSessionCookie(w, h.cfg.SecretCookieName, result.RawSecret,
			result.Session.ExpiresAt, h.cfg.CookieSecure)
	}

	if result.Reused {
		if err := httputil.WriteSuccess(w, result.Session); err != nil {
			h.cfg.Log.Error("failed to write success response", "handler", "Create", "operation", "WriteSuccess", "error", err)
		}
		return
	}
	if err := httputil.WriteCreated(w, result.Session); err != nil {
		h.cfg.Log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.Get(r.Context(), ps.ByName("publicId"), h.identityFromRequest(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.cfg.Log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) AssignSeat(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.AssignSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.cfg.Log.Error("failed to write JSON response", "handler", "AssignSeat", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	identity := h.identityFromRequest(r)
	session, err := h.service.AssignSeat(r.Context(), ps.ByName("publicId"), identity, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.cfg.Log.Error("failed to write error response", "handler", "AssignSeat", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	h.refreshSecretCookie(w, identity, session)
	if err := httputil.WriteSuccess(w, session); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "AssignSeat", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity := h.identityFromRequest(r)
	session, err := h.service.Checkout(r.Context(), ps.ByName("publicId"), identity)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.cfg.Log.Error("failed to write error response", "handler", "Checkout", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	h.refreshSecretCookie(w, identity, session)
	if err := httputil.WriteSuccess(w, session); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Checkout", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, err := h.service.Confirm(r.Context(), ps.ByName("publicId"), h.identityFromRequest(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.cfg.Log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, err := h.service.Cancel(r.Context(), ps.ByName("publicId"), h.identityFromRequest(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.cfg.Log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

// refreshSecretCookie pushes the guest secret cookie deadline out to the
// session's new expiry after a mutation extended it.
func (h *SessionHandler) refreshSecretCookie(w http.ResponseWriter, identity auth.Identity, session *model.BookingSession) {
	if session.OwnerType == model.OwnerTypeGuest && identity.SessionSecret != "" {
		httputil.SetSessionCookie(w, h.cfg.SecretCookieName, identity.SessionSecret,
			session.ExpiresAt, h.cfg.CookieSecure)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/booking-sessions", h.Create)
	router.GET("/api/v1/booking-sessions/:publicId", h.Get)
	router.PUT("/api/v1/booking-sessions/:publicId/seats", h.AssignSeat)
	router.POST("/api/v1/booking-sessions/:publicId/checkout", h.Checkout)
	router.POST("/api/v1/booking-sessions/:publicId/confirm", h.Confirm)
	router.POST("/api/v1/booking-sessions/:publicId/cancel", h.Cancel)
}
