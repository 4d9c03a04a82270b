package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/request"
)

type requestResponse struct {
	ID            uuid.UUID       `json:"id"`
	ChildID       uuid.UUID       `json:"child_id"`
	Kind          request.Kind    `json:"kind"`
	Status        request.Status  `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	ApprovedBy    *uuid.UUID      `json:"approved_by,omitempty"`
	ParentComment *string         `json:"parent_comment,omitempty"`
}

func toResponse(req *request.Request) requestResponse {
	return requestResponse{
		ID:            req.ID,
		ChildID:       req.ChildID,
		Kind:          req.Kind,
		Status:        req.Status,
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		CreatedAt:     req.CreatedAt,
		ProcessedAt:   req.ProcessedAt,
		ApprovedBy:    req.ApprovedBy,
		ParentComment: req.ParentComment,
	}
}

func toResponseList(reqs []*request.Request) []requestResponse {
	resp := make([]requestResponse, len(reqs))
	for i, req := range reqs {
		resp[i] = toResponse(req)
	}

	return resp
}

type debtResponse struct {
	ID          uuid.UUID       `json:"id"`
	ChildID     uuid.UUID       `json:"child_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toDebtResponseList(debts []*request.Debt) []debtResponse {
	resp := make([]debtResponse, len(debts))
	for i, d := range debts {
		resp[i] = debtResponse{
			ID:          d.ID,
			ChildID:     d.ChildID,
			Amount:      d.Amount,
			Description: d.Description,
			Status:      d.Status,
			CreatedAt:   d.CreatedAt,
		}
	}

	return resp
}
