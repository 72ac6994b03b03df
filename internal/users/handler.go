package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"homebound-backend/internal/httpx"
	"homebound-backend/internal/mailer"
	"homebound-backend/internal/middleware"
	"homebound-backend/internal/notify"
	"homebound-backend/internal/transport"
	"homebound-backend/internal/validation"
)

type Handler struct {
	service  *Service
	notifier *notify.Service
	mail     *mailer.Dispatcher
	val      *validation.Validator
	log      *slog.Logger
}

func NewHandler(service *Service, notifier *notify.Service, mail *mailer.Dispatcher, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		notifier: notifier,
		mail:     mail,
		val:      val,
		log:      log,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req RegisterRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("register: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("register: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	user, token, err := h.service.Register(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			log.Warn("register: duplicate email")
			transport.WriteError(w, http.StatusBadRequest, "email already registered", nil)
			return
		}
		log.Error("register: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if _, err := h.notifier.Create(ctx, user.ID,
		"Welcome to HomeBound Care! 🎉",
		"Your account is ready. Start browsing services now!",
		notify.TypeSuccess, ""); err != nil {
		log.Warn("register: welcome notification failed", slog.String("error", err.Error()))
	}

	if html, err := mailer.WelcomeHTML(user.Name); err == nil {
		h.mail.Enqueue(mailer.Message{
			To:      user.Email,
			ToName:  user.Name,
			Subject: "Welcome to HomeBound Care",
			HTML:    html,
		})
	}

	log.Info("register: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusCreated, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	user, token, err := h.service.Login(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("login: invalid credentials", slog.String("email", req.Email))
			transport.WriteError(w, http.StatusUnauthorized, "incorrect email or password", nil)
			return
		}
		log.Error("login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("login: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
			return
		}
		log.Error("me: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Erase(ctx, principal.ID); err != nil {
		log.Error("user delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("user delete: ok", slog.String("user_id", principal.ID))
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "All your data has been permanently deleted",
	})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
