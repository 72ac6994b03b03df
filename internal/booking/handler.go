package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"homebound-backend/internal/httpx"
	"homebound-backend/internal/mailer"
	"homebound-backend/internal/middleware"
	"homebound-backend/internal/notify"
	"homebound-backend/internal/qr"
	"homebound-backend/internal/transport"
	"homebound-backend/internal/users"
	"homebound-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

// AdminDirectory lists admin accounts so booking events can fan out
// notifications to every admin.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]users.User, error)
}

type Handler struct {
	service  *Service
	admins   AdminDirectory
	notifier *notify.Service
	mail     *mailer.Dispatcher
	val      *validation.Validator
	log      *slog.Logger
}

func NewHandler(service *Service, admins AdminDirectory, notifier *notify.Service, mail *mailer.Dispatcher, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		admins:   admins,
		notifier: notifier,
		mail:     mail,
		val:      val,
		log:      log,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("booking create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	b, svc, err := h.service.Create(ctx, principal, req)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			log.Warn("booking create: service not found", slog.String("service_id", req.ServiceID))
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
			return
		}
		log.Error("booking create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if _, err := h.notifier.Create(ctx, b.UserID,
		"Booking Request Submitted",
		fmt.Sprintf("Your %s booking is pending admin approval.", b.ServiceType),
		notify.TypeInfo, b.ID); err != nil {
		log.Warn("booking create: user notification failed", slog.String("error", err.Error()))
	}

	admins, err := h.admins.ListAdmins(ctx)
	if err != nil {
		log.Warn("booking create: admin lookup failed", slog.String("error", err.Error()))
	}
	for _, admin := range admins {
		if _, err := h.notifier.Create(ctx, admin.ID,
			"New Booking Request! 📋",
			fmt.Sprintf("%s requested %s service.", b.UserName, b.ServiceType),
			notify.TypeInfo, b.ID); err != nil {
			log.Warn("booking create: admin notification failed", slog.String("error", err.Error()))
		}
	}

	restrictions := h.service.catalog.CurrentRestrictions()
	if html, err := mailer.BookingConfirmationHTML(mailer.ConfirmationData{
		Name:         b.UserName,
		ServiceName:  svc.Name,
		BookingID:    b.ID,
		CovidMessage: restrictions.Message,
	}); err == nil {
		h.mail.Enqueue(mailer.Message{
			To:      b.UserEmail,
			ToName:  b.UserName,
			Subject: "Service Request Confirmation",
			HTML:    html,
		})
	}

	log.Info("booking create: ok", slog.String("booking_id", b.ID), slog.String("user_id", b.UserID))
	transport.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListMine(ctx, principal.ID)
	if err != nil {
		log.Error("bookings list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListAll(ctx)
	if err != nil {
		log.Error("admin bookings list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin bookings list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminDecide(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req ActionRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking decide: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("booking decide: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	b, err := h.service.Decide(ctx, id, req.Action, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAction):
			transport.WriteError(w, http.StatusBadRequest, "invalid action", nil)
		case errors.Is(err, ErrNotFound):
			log.Warn("booking decide: not found", slog.String("booking_id", id))
			transport.WriteError(w, http.StatusNotFound, "booking not found", nil)
		case errors.Is(err, ErrDecided):
			log.Warn("booking decide: already decided", slog.String("booking_id", id))
			transport.WriteError(w, http.StatusConflict, "booking already decided", nil)
		default:
			log.Error("booking decide: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	accepted := b.Status == StatusAccepted

	userTitle := "Booking Update"
	userType := notify.TypeInfo
	if accepted {
		userTitle = "Booking Accepted! 🎉"
		userType = notify.TypeSuccess
	}
	if _, err := h.notifier.Create(ctx, b.UserID, userTitle,
		fmt.Sprintf("Your %s booking has been %s.", b.ServiceType, b.Status),
		userType, b.ID); err != nil {
		log.Warn("booking decide: user notification failed", slog.String("error", err.Error()))
	}

	var qrImage []byte
	if accepted {
		if qrImage, err = qr.PNG(b.ReceiptText()); err != nil {
			log.Warn("booking decide: qr generation failed", slog.String("error", err.Error()))
			qrImage = nil
		}
	}

	statusTitle := strings.ToUpper(b.Status[:1]) + b.Status[1:]
	if html, err := mailer.BookingDecisionHTML(mailer.DecisionData{
		Name:            b.UserName,
		ServiceType:     b.ServiceType,
		Status:          b.Status,
		StatusTitle:     statusTitle,
		BookingID:       b.ID,
		Date:            b.PreferredDate,
		DurationMinutes: b.Duration,
		Cost:            b.Cost,
		AdminNotes:      b.AdminNotes,
		Accepted:        accepted && qrImage != nil,
	}); err == nil {
		h.mail.Enqueue(mailer.Message{
			To:      b.UserEmail,
			ToName:  b.UserName,
			Subject: fmt.Sprintf("Booking %s - HomeBound Care", statusTitle),
			HTML:    html,
			QRImage: qrImage,
		})
	}

	if _, err := h.notifier.Create(ctx, principal.ID,
		"Booking Updated",
		fmt.Sprintf("You %s booking %s for %s", b.Status, b.ID, b.UserName),
		notify.TypeSuccess, b.ID); err != nil {
		log.Warn("booking decide: admin notification failed", slog.String("error", err.Error()))
	}

	log.Info("booking decide: ok",
		slog.String("booking_id", b.ID),
		slog.String("status", b.Status),
	)
	transport.WriteJSON(w, http.StatusOK, DecisionResponse{
		Message:     fmt.Sprintf("Booking %s", b.Status),
		BookingID:   b.ID,
		QRGenerated: accepted,
	})
}

func (h *Handler) QR(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	img, err := h.service.ReceiptPNG(ctx, id, principal)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			transport.WriteError(w, http.StatusNotFound, "booking not found", nil)
		case errors.Is(err, ErrForbidden):
			log.Warn("booking qr: access denied", slog.String("booking_id", id), slog.String("user_id", principal.ID))
			transport.WriteError(w, http.StatusForbidden, "access denied", nil)
		case errors.Is(err, ErrNotAccepted):
			transport.WriteError(w, http.StatusBadRequest, "QR code only available for accepted bookings", nil)
		default:
			log.Error("booking qr: error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "qr generation error", nil)
		}
		return
	}

	transport.WritePNG(w, img)
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
