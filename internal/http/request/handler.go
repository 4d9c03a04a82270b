package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/http/respond"
	"github.com/pennyjar/pennyjar/internal/request"
)

type Handler struct {
	svc *request.Service
}

func NewHandler(svc *request.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.submit)
	r.Get("/pending", h.pending)
	r.Get("/history", h.history)
	r.Get("/{id}", h.get)
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
}

// ChildRoutes expects to be mounted under a subtree carrying a childID URL
// param.
func (h *Handler) ChildRoutes(r chi.Router) {
	r.Get("/requests", h.listForChild)
	r.Get("/debts", h.listDebts)
}

type submitRequest struct {
	ChildID     uuid.UUID       `json:"child_id"`
	Kind        request.Kind    `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.Submit(r.Context(), request.SubmitParams{
		ChildID:     req.ChildID,
		Kind:        req.Kind,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	req, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(req))
}

type approveRequest struct {
	ApproverID uuid.UUID `json:"approver_id"`
	Comment    *string   `json:"comment,omitempty"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	approved, err := h.svc.Approve(r.Context(), id, req.ApproverID, req.Comment)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(approved))
}

type rejectRequest struct {
	DeciderID uuid.UUID `json:"decider_id"`
	Reason    string    `json:"reason"`
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rejected, err := h.svc.Reject(r.Context(), id, req.DeciderID, req.Reason)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(rejected))
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.PendingForFamily(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(reqs))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.HistoryForFamily(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(reqs))
}

func (h *Handler) listForChild(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	reqs, err := h.svc.ListForChild(r.Context(), childID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(reqs))
}

func (h *Handler) listDebts(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	debts, err := h.svc.DebtsForChild(r.Context(), childID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDebtResponseList(debts))
}
