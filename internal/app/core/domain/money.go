package domain

import "github.com/shopspring/decimal"

// 金額以 int64 儲存最小貨幣單位 (cents)，邊界輸入輸出使用十進位字串。
// 換算一律走 decimal，金額永遠不碰二進位浮點數。

var centsPerUnit = decimal.NewFromInt(100)

// ToMinorUnits 將十進位金額轉成整數分
//
// 金額必須為正數且最多兩位小數 (末尾補零視為等值，例如 12.340)，
// 否則回傳 ErrInvalidAmount。
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}

	cents := amount.Mul(centsPerUnit)
	if !cents.IsInteger() {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseAmount 解析字串金額並轉成整數分
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return ToMinorUnits(d)
}

// ToDecimal 將整數分轉回十進位金額，固定兩位小數
func ToDecimal(minorUnits int64) decimal.Decimal {
	return decimal.New(minorUnits, -2)
}

// FormatAmount 以兩位小數字串表示整數分，供 API 回應使用
func FormatAmount(minorUnits int64) string {
	return ToDecimal(minorUnits).StringFixed(2)
}
