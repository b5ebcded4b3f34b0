// Package devserver is a stub backend implementing the REST contract the
// client consumes. It backs local development and the integration tests;
// it holds no real data and performs no real authorization.
package devserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/melkban/dealdesk/internal/deal"
	"github.com/melkban/dealdesk/internal/ledger"
	"github.com/melkban/dealdesk/internal/money"
)

const csrfCookie = "csrftoken"

var errNotFound = errors.New("not found")

// conflictError carries a user-facing message for rejected transitions.
type conflictError string

func (e conflictError) Error() string { return string(e) }

func errConflict(msg string) error { return conflictError(msg) }

// New builds the stub server's router.
func New(store *Store) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRFToken"},
		AllowCredentials: true,
	}))

	h := &handler{store: store}

	router.Get("/api/csrf/", h.csrf)
	router.Get("/receipts/{id}.png", h.receipt)

	router.Group(func(r chi.Router) {
		r.Use(requireCSRF)

		r.Route("/api/deals", func(r chi.Router) {
			r.Get("/", h.list)
			r.Get("/{id}/", h.detail)
			r.Delete("/{id}/", h.delete)
			r.Patch("/{id}/approve/", h.approve)
			r.Post("/{id}/reject/", h.reject)
			r.Post("/{id}/consultant-approval/", h.consultantApproval)
			r.Get("/{id}/accounts/", h.accounts)
			r.Post("/{id}/payments/", h.registerPayment)
		})

		r.Route("/api/payments/pending", func(r chi.Router) {
			r.Post("/{id}/approve/", h.approvePending)
			r.Post("/{id}/reject/", h.rejectPending)
		})
	})

	return router
}

// requireCSRF checks the anti-forgery header against the session cookie on
// every mutating request.
func requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			cookie, err := r.Cookie(csrfCookie)
			if err != nil || cookie.Value == "" || r.Header.Get("X-CSRFToken") != cookie.Value {
				writeJSON(w, http.StatusForbidden, map[string]any{
					"success": false,
					"message": "توکن امنیتی نامعتبر است.",
				})

				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

type handler struct {
	store *Store
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeActionError(w http.ResponseWriter, err error) {
	var conflict conflictError

	switch {
	case errors.Is(err, errNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "موردی یافت نشد."})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": conflict.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func (h *handler) csrf(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:  csrfCookie,
		Value: "dev-" + strconv.FormatInt(int64(len(r.UserAgent()))+1, 36),
		Path:  "/",
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	result := h.store.List(q.Get("search"), deal.Status(q.Get("status")), page, size)
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	d, found := h.store.Get(id)
	if !found {
		writeActionError(w, errNotFound)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *handler) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	if err := h.store.Approve(id); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "معامله تایید شد."})
}

func (h *handler) reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	var body struct {
		RejectionReason string `json:"rejection_reason"`
	}

	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.store.Reject(id, body.RejectionReason); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "معامله رد شد."})
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *handler) consultantApproval(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	var submission deal.ApprovalSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "بدنه درخواست نامعتبر است."})
		return
	}

	if submission.Status != deal.ApprovalApproved && submission.Status != deal.ApprovalReview {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "وضعیت نامعتبر است."})
		return
	}

	if submission.Status == deal.ApprovalReview &&
		(submission.SuggestedAmount == nil || *submission.SuggestedAmount <= 0) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "مبلغ پیشنهادی الزامی است."})
		return
	}

	if err := h.store.SubmitApproval(id, submission); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "نظر شما ثبت شد."})
}

func (h *handler) accounts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	book, found := h.store.Book(id)
	if !found {
		writeActionError(w, errNotFound)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *handler) registerPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "فرم نامعتبر است."})
		return
	}

	amount, ok := money.ParseAmount(r.FormValue("amount"))
	if !ok || amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "مبلغ را به درستی وارد کنید."})
		return
	}

	tx := ledger.PendingTransaction{
		Account:     r.FormValue("account"),
		Date:        r.FormValue("date"),
		Direction:   "بستانکار",
		Amount:      amount,
		Method:      r.FormValue("method"),
		Description: r.FormValue("description"),
	}

	if err := h.store.AddPending(id, tx); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "تراکنش ثبت شد و در انتظار تایید است."})
}

func (h *handler) approvePending(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	if err := h.store.ApprovePending(id); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "تراکنش تایید شد."})
}

func (h *handler) rejectPending(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeActionError(w, errNotFound)
		return
	}

	var body struct {
		RejectionReason string `json:"rejection_reason"`
	}

	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.store.RejectPending(id, body.RejectionReason); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "تراکنش رد شد."})
}

// receiptPNG is a 1x1 transparent PNG, enough for preview round-trips.
var receiptPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0D, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

func (h *handler) receipt(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(receiptPNG); err != nil {
		slog.Error("failed to write receipt", "error", err)
	}
}
