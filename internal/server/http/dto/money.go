package dto

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// Rupees is a major-unit amount rendered as a JSON number with two decimals.
// Decoding accepts both numbers and numeric strings.
type Rupees struct {
	decimal.Decimal
}

// NewRupees converts paise into rupees.
func NewRupees(m model.Money) Rupees {
	return Rupees{Decimal: m.Major()}
}

// MarshalJSON renders the amount unquoted.
func (r Rupees) MarshalJSON() ([]byte, error) {
	return []byte(r.StringFixed(2)), nil
}

// Money converts the amount into paise.
func (r Rupees) Money() (model.Money, error) {
	return model.MoneyFromMajor(r.Decimal)
}
