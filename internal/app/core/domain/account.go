package domain

// Account 錢包帳戶
//
// Balance 以最小貨幣單位 (cents) 儲存，任何可觀察的瞬間皆不得為負。
// 餘額只能透過帳本的原子異動操作修改。
type Account struct {
	ID        string
	Name      string
	Balance   int64
	CreatedAt int64 // Unix 秒
	UpdatedAt int64 // Unix 秒，每次餘額異動時刷新
}

// NewAccount 建立一個餘額為零的新帳戶
func NewAccount(id, name string, now int64) *Account {
	return &Account{
		ID:        id,
		Name:      name,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Credit 入帳
func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}

	a.Balance = a.Balance + amount
	return nil
}

// Debit 扣款，餘額不足時回傳 ErrInsufficientFunds 且不改變狀態
func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}

	if a.Balance < amount {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance - amount
	return nil
}
