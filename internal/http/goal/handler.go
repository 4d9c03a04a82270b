package goal

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/goal"
	"github.com/pennyjar/pennyjar/internal/http/respond"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects to be mounted under a subtree carrying a childID URL param.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{goalID}/deposit", h.deposit)
}

type createGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Create(r.Context(), goal.CreateParams{
		ChildID:      childID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	goals, err := h.svc.List(r.Context(), childID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(goals))
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	childID, err := uuid.Parse(chi.URLParam(r, "childID"))
	if err != nil {
		http.Error(w, "invalid child id", http.StatusBadRequest)
		return
	}

	goalID, err := uuid.Parse(chi.URLParam(r, "goalID"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Deposit(r.Context(), childID, goalID, req.Amount)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

type goalResponse struct {
	ID              uuid.UUID       `json:"id"`
	ChildID         uuid.UUID       `json:"child_id"`
	Name            string          `json:"name"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	CurrentAmount   decimal.Decimal `json:"current_amount"`
	ProgressPercent int             `json:"progress_percent"`
	Completed       bool            `json:"completed"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:              g.ID,
		ChildID:         g.ChildID,
		Name:            g.Name,
		TargetAmount:    g.TargetAmount,
		CurrentAmount:   g.CurrentAmount,
		ProgressPercent: g.ProgressPercent(),
		Completed:       g.IsCompleted(),
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		CompletedAt:     g.CompletedAt,
	}
}

func toResponseList(goals []*goal.Goal) []goalResponse {
	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	return resp
}
