package family

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/http/respond"
)

type Handler struct {
	svc *family.Service
}

func NewHandler(svc *family.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/children", h.addChild)
	r.Patch("/children/{id}", h.updateChild)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.GetOrCreate(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toFamilyResponse(f))
}

type addChildRequest struct {
	Name              string          `json:"name"`
	AllowanceAmount   decimal.Decimal `json:"allowance_amount"`
	MonthlyLimit      decimal.Decimal `json:"monthly_limit"`
	ApprovalThreshold decimal.Decimal `json:"approval_threshold"`
}

func (h *Handler) addChild(w http.ResponseWriter, r *http.Request) {
	var req addChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	child, err := h.svc.AddChild(r.Context(), family.AddChildParams{
		Name:              req.Name,
		AllowanceAmount:   req.AllowanceAmount,
		MonthlyLimit:      req.MonthlyLimit,
		ApprovalThreshold: req.ApprovalThreshold,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toChildResponse(child))
}

type updateChildRequest struct {
	AllowanceAmount   *decimal.Decimal `json:"allowance_amount,omitempty"`
	MonthlyLimit      *decimal.Decimal `json:"monthly_limit,omitempty"`
	ApprovalThreshold *decimal.Decimal `json:"approval_threshold,omitempty"`
}

func (h *Handler) updateChild(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	child, err := h.svc.UpdateChildSettings(r.Context(), id, family.ChildSettings{
		AllowanceAmount:   req.AllowanceAmount,
		MonthlyLimit:      req.MonthlyLimit,
		ApprovalThreshold: req.ApprovalThreshold,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toChildResponse(child))
}

type familyResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Children  []childResponse `json:"children"`
	CreatedAt time.Time       `json:"created_at"`
}

type childResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	AllowanceAmount   decimal.Decimal `json:"allowance_amount"`
	MonthlyLimit      decimal.Decimal `json:"monthly_limit"`
	ApprovalThreshold decimal.Decimal `json:"approval_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
}

func toFamilyResponse(f *family.Family) familyResponse {
	resp := familyResponse{
		ID:        f.ID,
		Name:      f.Name,
		Children:  make([]childResponse, len(f.Children)),
		CreatedAt: f.CreatedAt,
	}

	for i, c := range f.Children {
		resp.Children[i] = toChildResponse(c)
	}

	return resp
}

func toChildResponse(c *family.Child) childResponse {
	return childResponse{
		ID:                c.ID,
		Name:              c.Name,
		AllowanceAmount:   c.AllowanceAmount,
		MonthlyLimit:      c.MonthlyLimit,
		ApprovalThreshold: c.ApprovalThreshold,
		CreatedAt:         c.CreatedAt,
	}
}
