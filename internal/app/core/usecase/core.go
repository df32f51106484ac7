package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
)

const maxAccountNameLen = 100

// WalletUseCase 是錢包核心業務邏輯層
type WalletUseCase struct {
	ledger Ledger
}

func NewWalletUseCase(ledger Ledger) *WalletUseCase {
	return &WalletUseCase{
		ledger: ledger,
	}
}

// CreateAccount 建立一個餘額為零的新帳戶
// 名稱由上游驗證過，這裡防禦性再檢查一次
func (u *WalletUseCase) CreateAccount(ctx context.Context, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxAccountNameLen {
		return nil, domain.ErrInvalidName
	}

	account := domain.NewAccount(uuid.NewString(), name, time.Now().Unix())
	if err := u.ledger.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount 取得帳戶，純查詢無副作用
func (u *WalletUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return u.ledger.GetAccount(ctx, id)
}

// TopUp 入金
func (u *WalletUseCase) TopUp(ctx context.Context, accountID, amount, referenceID string) (*MovementResult, error) {
	return u.applyMovement(ctx, accountID, domain.TransactionTypeTopUp, amount, referenceID)
}

// Charge 扣款，餘額不足時整筆拒絕
func (u *WalletUseCase) Charge(ctx context.Context, accountID, amount, referenceID string) (*MovementResult, error) {
	return u.applyMovement(ctx, accountID, domain.TransactionTypeCharge, amount, referenceID)
}

func (u *WalletUseCase) applyMovement(ctx context.Context, accountID string, txType domain.TransactionType, amount, referenceID string) (*MovementResult, error) {
	minorUnits, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	// 呼叫端未提供 reference 時自動補上，確保每筆交易都有追蹤號
	if referenceID == "" {
		referenceID = uuid.NewString()
	}

	return u.ledger.ApplyMovement(ctx, Movement{
		AccountID:   accountID,
		Type:        txType,
		Amount:      minorUnits,
		ReferenceID: referenceID,
	})
}
