package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	gosqlmysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-wallet-ledger/pkg/mysql"
)

// MySQL duplicate entry 錯誤碼，reference_id 唯一索引衝突時觸發
const mysqlErrDuplicateEntry = 1062

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:100;not null"`
	Balance   int64  `gorm:"not null;default:0"`
	CreatedAt int64  `gorm:"not null"` // Unix 秒
	UpdatedAt int64  `gorm:"not null"`
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

func (a *sqlAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID          string  `gorm:"primaryKey;size:36"`
	AccountID   string  `gorm:"column:account_id;size:36;not null;index"`
	Type        string  `gorm:"size:10;not null"`
	Amount      int64   `gorm:"not null"` // 永遠為正，方向由 Type 決定
	ReferenceID *string `gorm:"column:reference_id;size:100;uniqueIndex"`
	CreatedAt   int64   `gorm:"not null"`
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

func (t *sqlTransaction) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        domain.TransactionType(t.Type),
		Amount:      t.Amount,
		ReferenceID: t.ReferenceID,
		CreatedAt:   t.CreatedAt,
	}
}

// MySQLLedger 以 MySQL 為後端的帳本實作
type MySQLLedger struct {
	client *mysql.Client
}

func NewMySQLLedger(client *mysql.Client) *MySQLLedger {
	return &MySQLLedger{
		client: client,
	}
}

// CreateAccount 寫入一個新帳戶
func (l *MySQLLedger) CreateAccount(ctx context.Context, account *domain.Account) error {
	row := sqlAccount{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	if err := l.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetAccount 取得帳戶
func (l *MySQLLedger) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var row sqlAccount
	err := l.client.DB().WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	return row.toDomain(), nil
}

// ApplyMovement 在單一資料庫交易中套用一筆資金異動
//
// 流程:
//  1. 檢查 reference_id 是否已處理過 (快速路徑)
//  2. SELECT ... FOR UPDATE 鎖定帳戶列，序列化同帳戶的並發異動
//  3. 計算新餘額，不得為負
//  4. 寫入交易紀錄
//  5. 更新餘額與 updated_at
//
// 唯一性最終由 reference_id 的 unique index 保證；步驟 1 只是讓常見的
// 重複請求提早以較低的成本失敗。任何一步出錯整個單位回滾。
func (l *MySQLLedger) ApplyMovement(ctx context.Context, mv usecase.Movement) (*usecase.MovementResult, error) {
	if !mv.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if mv.Amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}

	var result *usecase.MovementResult
	err := l.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 重複交易快速檢查
		if mv.ReferenceID != "" {
			var existing sqlTransaction
			err := tx.Where("reference_id = ?", mv.ReferenceID).First(&existing).Error
			switch {
			case err == nil:
				return &domain.DuplicateError{TransactionID: existing.ID}
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("query transaction by reference: %w", err)
			}
		}

		// 2. 取得帳戶並鎖定 (悲觀鎖)
		var account sqlAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", mv.AccountID).
			First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		// 3. 新餘額不得為負
		newBalance := account.Balance + mv.Type.Delta(mv.Amount)
		if newBalance < 0 {
			return domain.ErrInsufficientFunds
		}

		// 4. 寫入交易紀錄
		now := time.Now().Unix()
		row := sqlTransaction{
			ID:        uuid.NewString(),
			AccountID: mv.AccountID,
			Type:      string(mv.Type),
			Amount:    mv.Amount,
			CreatedAt: now,
		}
		if mv.ReferenceID != "" {
			ref := mv.ReferenceID
			row.ReferenceID = &ref
		}
		if err := tx.Create(&row).Error; err != nil {
			// 步驟 1 的檢查跟這裡的 insert 之間可能與並發請求競爭，
			// unique index 的 1062 才是最終的重複判定
			if isDuplicateKeyErr(err) {
				return &domain.DuplicateError{}
			}
			return fmt.Errorf("insert transaction: %w", err)
		}

		// 5. 更新餘額與異動時間
		updates := map[string]interface{}{"balance": newBalance, "updated_at": now}
		if err := tx.Model(&sqlAccount{}).Where("id = ?", mv.AccountID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		account.Balance = newBalance
		account.UpdatedAt = now
		result = &usecase.MovementResult{
			Account:     account.toDomain(),
			Transaction: row.toDomain(),
		}
		return nil
	})
	if err != nil {
		// 唯一索引衝突代表並發請求已先入帳，整個單位已回滾；
		// 補查先前成功的交易 ID 讓呼叫端可以回報先前結果
		var dup *domain.DuplicateError
		if errors.As(err, &dup) && dup.TransactionID == "" && mv.ReferenceID != "" {
			if prior, findErr := l.FindTransactionByReference(ctx, mv.ReferenceID); findErr == nil {
				dup.TransactionID = prior.ID
			}
		}
		return nil, err
	}
	return result, nil
}

// FindTransactionByReference 依 reference_id 查詢交易
func (l *MySQLLedger) FindTransactionByReference(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	var row sqlTransaction
	err := l.client.DB().WithContext(ctx).Where("reference_id = ?", referenceID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query transaction by reference: %w", err)
	}
	return row.toDomain(), nil
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *gosqlmysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

var _ usecase.Ledger = (*MySQLLedger)(nil)
