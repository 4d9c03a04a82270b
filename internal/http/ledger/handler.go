package ledger

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/http/respond"
	"github.com/pennyjar/pennyjar/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects to be mounted under a subtree carrying a childID URL param.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.list)
	r.Post("/transactions", h.create)
	r.Get("/balance", h.balance)
}

type createTransactionRequest struct {
	Type        ledger.Type     `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	tx, err := h.svc.Append(r.Context(), childID, ledger.AppendParams{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), childID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

type balanceResponse struct {
	ChildID uuid.UUID       `json:"child_id"`
	Balance decimal.Decimal `json:"balance"`
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	balance, err := h.svc.Balance(r.Context(), childID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, balanceResponse{ChildID: childID, Balance: balance})
}
