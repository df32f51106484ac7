package domain

import "errors"

var (
	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrInvalidAmount 金額格式錯誤或超過兩位小數
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidName 帳戶名稱長度必須在 1 到 100 字元之間
	ErrInvalidName = errors.New("invalid account name")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateTransaction 交易已處理
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrInvalidTransactionType 不支援的交易類型
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// DuplicateError 重複交易錯誤
//
// 攜帶先前成功入帳的交易 ID，讓呼叫端可以回報先前的結果
// 而不是默默地當作沒事。errors.Is(err, ErrDuplicateTransaction) 成立。
type DuplicateError struct {
	TransactionID string
}

func (e *DuplicateError) Error() string {
	if e.TransactionID == "" {
		return "duplicate transaction"
	}
	return "duplicate transaction: already processed as " + e.TransactionID
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateTransaction
}
