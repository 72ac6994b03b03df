package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"homebound-backend/internal/cache"
	"homebound-backend/internal/middleware"
	"homebound-backend/internal/transport"
)

const servicesCacheKey = "services:all"

type Handler struct {
	service  *CatalogService
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewHandler(service *CatalogService, cacheStore cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if h.cache != nil {
		if cached, ok, err := h.cache.Get(r.Context(), servicesCacheKey); err == nil && ok {
			log.Info("services: cache hit")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("services: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if payload, err := json.Marshal(items); err == nil && h.cache != nil {
		_ = h.cache.Set(r.Context(), servicesCacheKey, payload, h.cacheTTL)
	}

	log.Info("services: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	restrictions := h.service.CurrentRestrictions()
	transport.WriteJSON(w, http.StatusOK, SuggestionsResponse{
		Suggestions:  h.service.Suggest(principal, restrictions),
		Restrictions: restrictions,
	})
}

func (h *Handler) Restrictions(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, h.service.CurrentRestrictions())
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
