package http

import (
	"encoding/json"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
)

type createAccountRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// movementRequest 入金與扣款共用的請求格式
// Amount 以 json.Number 承接，解析交給 domain 的 decimal 換算
type movementRequest struct {
	AccountID   string      `json:"account_id" validate:"required"`
	Amount      json.Number `json:"amount" validate:"required"`
	ReferenceID string      `json:"reference_id" validate:"omitempty,max=100"`
}

type accountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Balance   string `json:"balance"` // 兩位小數字串，例如 "50.00"
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type movementResponse struct {
	AccountID            string `json:"account_id"`
	NewBalance           string `json:"new_balance"`
	TransactionID        string `json:"transaction_id"`
	TransactionReference string `json:"transaction_reference"`
}

type errorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	TransactionID string `json:"transaction_id,omitempty"`
}

func toAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   domain.FormatAmount(account.Balance),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
