package usecase

import (
	"context"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
)

// Movement 單次資金異動的輸入，金額已換算為最小單位且永遠為正
type Movement struct {
	AccountID   string
	Type        domain.TransactionType
	Amount      int64
	ReferenceID string // 冪等追蹤號，非空時全域至多套用一次
}

// MovementResult 異動成功後的帳戶與交易
type MovementResult struct {
	Account     *domain.Account
	Transaction *domain.Transaction
}

// Ledger 是帳務儲存層的介面
type Ledger interface {
	// CreateAccount 寫入一個新帳戶
	CreateAccount(ctx context.Context, account *domain.Account) error
	// GetAccount 取得帳戶，不存在時回傳 domain.ErrAccountNotFound
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	// ApplyMovement 以單一原子單位套用一筆資金異動
	//
	// 實作必須保證:
	//  - 同帳戶的並發異動被序列化 (互不相干的帳戶不互相阻塞)
	//  - 餘額任何時刻不為負，違反時整個單位回滾不留痕跡
	//  - 相同 ReferenceID 至多入帳一次，重複時回傳 *domain.DuplicateError
	ApplyMovement(ctx context.Context, mv Movement) (*MovementResult, error)
}
