// Package contact handles the public contact form and the admin inbox.
package contact

import (
	"errors"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	contactstore "github.com/peakformhq/peakform/internal/app/store/contact"
	"github.com/peakformhq/peakform/internal/app/system/inputval"
	"github.com/peakformhq/peakform/internal/app/system/jsonutil"
	"github.com/peakformhq/peakform/internal/app/system/mailer"
	"github.com/peakformhq/peakform/internal/app/system/normalize"

	"github.com/go-chi/chi/v5"
)

// Handler serves contact endpoints.
type Handler struct {
	store       *contactstore.Store
	mail        *mailer.Mailer
	notifyEmail string
	log         *zap.Logger
}

// NewHandler creates a Handler. notifyEmail is the address that receives
// new-message notifications; empty disables them.
func NewHandler(store *contactstore.Store, mail *mailer.Mailer, notifyEmail string, log *zap.Logger) *Handler {
	return &Handler{store: store, mail: mail, notifyEmail: notifyEmail, log: log}
}

// SubmitInput is the public contact form payload.
type SubmitInput struct {
	Name    string `json:"name" validate:"required,max=200" label:"Name"`
	Email   string `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone   string `json:"phone" validate:"max=40" label:"Phone"`
	Message string `json:"message" validate:"required,max=5000" label:"Message"`
}

// Submit stores a new contact message and sends a best-effort notification
// email. Notification failures are logged, never surfaced; the visitor's
// message is already safe in the inbox.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var input SubmitInput
	if err := jsonutil.Decode(r, &input); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}

	input.Name = normalize.Name(input.Name)
	input.Email = normalize.Email(input.Email)

	if result := inputval.Validate(input); result.HasErrors() {
		jsonutil.BadRequest(w, result.First())
		return
	}

	msg, err := h.store.Create(r.Context(), contactstore.CreateInput{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Message: input.Message,
	})
	if err != nil {
		h.log.Error("contact message create failed", zap.Error(err))
		jsonutil.InternalError(w, "could not save message")
		return
	}

	h.notify(msg.Name, msg.Email, msg.Phone, msg.Message)

	jsonutil.Created(w, map[string]any{
		"id":      msg.ID.Hex(),
		"message": "Thanks for reaching out. We'll get back to you soon.",
	})
}

func (h *Handler) notify(name, email, phone, message string) {
	if h.notifyEmail == "" || !h.mail.Configured() {
		return
	}
	note := mailer.ContactNotification(h.notifyEmail, name, email, phone, message)
	if err := h.mail.Send(note); err != nil {
		h.log.Warn("contact notification email failed", zap.Error(err))
	}
}

// List returns one page of inbox messages, newest first. Query parameters:
// page, unread (true limits to unread messages).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := contactstore.ListOptions{
		UnreadOnly: q.Get("unread") == "true" || q.Get("unread") == "1",
	}
	if page, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && page > 0 {
		opts.Page = page
	}

	items, page, err := h.store.List(r.Context(), opts)
	if err != nil {
		h.log.Error("contact inbox list failed", zap.Error(err))
		jsonutil.InternalError(w, "could not load messages")
		return
	}

	unread, err := h.store.UnreadCount(r.Context())
	if err != nil {
		h.log.Warn("unread count failed", zap.Error(err))
	}

	jsonutil.OK(w, map[string]any{
		"messages":   items,
		"unread":     unread,
		"pagination": page,
	})
}

// MarkRead flags a message as read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid message id")
		return
	}

	if err := h.store.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "message not found")
			return
		}
		h.log.Error("mark read failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "could not update message")
		return
	}
	jsonutil.OK(w, map[string]any{"id": id.Hex(), "isRead": true})
}
