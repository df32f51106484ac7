package domain

// TransactionType 交易類型
type TransactionType string

const (
	// 入金
	TransactionTypeTopUp TransactionType = "top_up"
	// 扣款
	TransactionTypeCharge TransactionType = "charge"
)

// Valid 檢查交易類型是否合法
func (t TransactionType) Valid() bool {
	return t == TransactionTypeTopUp || t == TransactionTypeCharge
}

// Delta 回傳帶方向的金額: top_up 為正、charge 為負
func (t TransactionType) Delta(amount int64) int64 {
	if t == TransactionTypeCharge {
		return -amount
	}
	return amount
}

// Transaction 一筆已入帳的資金異動
//
// 交易紀錄只增不改，構成帳戶的不可變審計軌跡。
// Amount 永遠為正，方向由 Type 決定。
type Transaction struct {
	ID          string
	AccountID   string
	Type        TransactionType
	Amount      int64
	ReferenceID *string // 呼叫端提供的冪等追蹤號，非空值全域唯一
	CreatedAt   int64
}

// Reference 回傳 reference_id，未設定時回傳空字串
func (t *Transaction) Reference() string {
	if t.ReferenceID == nil {
		return ""
	}
	return *t.ReferenceID
}
