package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
)

// MutexLedger 是以 Mutex 實現的記憶體帳本
//
// 與 MySQL 實作的可觀察語意一致: reference 冪等、餘額不為負、
// 異動序列化。供測試與本機開發用，正式環境一律走資料庫。
type MutexLedger struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	// 依時間序的完整交易紀錄 (只增不改)
	transactions []*domain.Transaction
	// 已處理過的 reference -> 交易
	byReference map[string]*domain.Transaction
}

// NewMutexLedger 建立一個空的記憶體帳本
func NewMutexLedger() *MutexLedger {
	return &MutexLedger{
		accounts:    make(map[string]*domain.Account),
		byReference: make(map[string]*domain.Transaction),
	}
}

// CreateAccount 寫入一個新帳戶
func (m *MutexLedger) CreateAccount(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

// GetAccount 取得帳戶
func (m *MutexLedger) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// ApplyMovement 套用一筆資金異動
// 整把鎖序列化所有異動，語意上等同資料庫的列鎖 + 交易
func (m *MutexLedger) ApplyMovement(ctx context.Context, mv usecase.Movement) (*usecase.MovementResult, error) {
	if !mv.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if mv.Amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 冪等檢查
	if mv.ReferenceID != "" {
		if prior, ok := m.byReference[mv.ReferenceID]; ok {
			return nil, &domain.DuplicateError{TransactionID: prior.ID}
		}
	}

	account, ok := m.accounts[mv.AccountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	newBalance := account.Balance + mv.Type.Delta(mv.Amount)
	if newBalance < 0 {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now().Unix()
	tran := &domain.Transaction{
		ID:        uuid.NewString(),
		AccountID: mv.AccountID,
		Type:      mv.Type,
		Amount:    mv.Amount,
		CreatedAt: now,
	}
	if mv.ReferenceID != "" {
		ref := mv.ReferenceID
		tran.ReferenceID = &ref
		m.byReference[mv.ReferenceID] = tran
	}
	m.transactions = append(m.transactions, tran)

	account.Balance = newBalance
	account.UpdatedAt = now

	accountCopy := *account
	tranCopy := *tran
	return &usecase.MovementResult{
		Account:     &accountCopy,
		Transaction: &tranCopy,
	}, nil
}

// TransactionsByAccount 回傳帳戶的所有交易紀錄 (測試用)
func (m *MutexLedger) TransactionsByAccount(accountID string) []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Transaction
	for _, tran := range m.transactions {
		if tran.AccountID == accountID {
			cp := *tran
			result = append(result, &cp)
		}
	}
	return result
}

var _ usecase.Ledger = (*MutexLedger)(nil)
