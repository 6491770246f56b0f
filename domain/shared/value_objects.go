package shared

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Money 值对象 - 表示金额
type Money struct {
	amount   int64  // 以最小货币单位存储（如分）
	currency string // ISO 4217 货币代码（如 BRL, USD）
}

// NewMoney 创建新的Money值对象
func NewMoney(amount int64, currency string) (Money, error) {
	if !currencyRegex.MatchString(currency) {
		return Money{}, NewValidationError("money", "currency", currency, "currency must be a three-letter ISO 4217 code")
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney is NewMoney for literals known to be valid. It panics otherwise.
func MustMoney(amount int64, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsNegative() bool { return m.amount < 0 }

// Add 金额相加，返回新的Money值对象
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, NewBusinessRuleViolationError("money", "same_currency", "cannot add money with different currencies")
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, NewBusinessRuleViolationError("money", "no_overflow", "money addition overflows")
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract 金额相减，返回新的Money值对象
func (m Money) Subtract(other Money) (Money, error) {
	if other.amount == math.MinInt64 {
		return Money{}, NewBusinessRuleViolationError("money", "no_overflow", "money subtraction overflows")
	}
	return m.Add(Money{amount: -other.amount, currency: other.currency})
}

// Multiply 按整数倍数相乘，带溢出检查
func (m Money) Multiply(factor int) (Money, error) {
	if factor == 0 || m.amount == 0 {
		return Money{amount: 0, currency: m.currency}, nil
	}
	product := m.amount * int64(factor)
	if product/int64(factor) != m.amount {
		return Money{}, NewBusinessRuleViolationError("money", "no_overflow", "money multiplication overflows")
	}
	return Money{amount: product, currency: m.currency}, nil
}

// IsGreaterThan 比较金额是否大于另一个金额（币种不同时返回 false）
func (m Money) IsGreaterThan(other Money) bool {
	return m.currency == other.currency && m.amount > other.amount
}

// IsGreaterThanOrEqual 比较金额是否大于或等于另一个金额
func (m Money) IsGreaterThanOrEqual(other Money) bool {
	return m.currency == other.currency && m.amount >= other.amount
}

func (m Money) TypeName() string       { return "Money" }
func (m Money) PrimitiveValues() []any { return []any{m.amount, m.currency} }

func (m Money) Equals(other ValueObject) bool { return Equal(m, other) }
func (m Money) HashCode() int32                { return HashCode(m) }

// Clone returns a copy; Money holds no reference fields.
func (m Money) Clone() Money { return m }

func (m Money) String() string {
	sign := ""
	amount := uint64(m.amount)
	if m.amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, m.currency)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}{m.amount, m.currency})
}

var _ ValueObject = Money{}
