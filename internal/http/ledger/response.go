package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/ledger"
)

type transactionResponse struct {
	ID           uuid.UUID       `json:"id"`
	ChildID      uuid.UUID       `json:"child_id"`
	Type         ledger.Type     `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Timestamp    time.Time       `json:"timestamp"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID,
		ChildID:      tx.ChildID,
		Type:         tx.Type,
		Amount:       tx.Amount,
		Description:  tx.Description,
		Timestamp:    tx.Timestamp,
		BalanceAfter: tx.BalanceAfter,
		CreatedAt:    tx.CreatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
