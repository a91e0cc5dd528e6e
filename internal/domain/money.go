package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used for carts that have no lines and no backend state yet.
var DefaultCurrency = currency.USD

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

type moneyJSON struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func NewMoney(amount, currencyCode string) (Money, error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("amount[%s] is not valid: %w", amount, err)
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return Money{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

// Scale is the number of minor-unit digits of the currency, 2 when unknown.
func (m Money) Scale() int32 {
	if m.Currency == (currency.Unit{}) {
		return 2
	}
	scale, _ := currency.Standard.Rounding(m.Currency)
	return int32(scale)
}

// Add sums two amounts. The receiver's currency wins unless it is unset.
func (m Money) Add(other Money) Money {
	cur := m.Currency
	if cur == (currency.Unit{}) {
		cur = other.Currency
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: cur}
}

// Round rounds the amount to the currency's minor units.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(m.Scale()), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// AmountString renders the amount with the currency's minor units, e.g. "10.00".
func (m Money) AmountString() string {
	return m.Amount.StringFixed(m.Scale())
}

func (m Money) CurrencyCode() string {
	if m.Currency == (currency.Unit{}) {
		return ""
	}
	return m.Currency.String()
}

func (m Money) String() string {
	return m.AmountString() + " " + m.CurrencyCode()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:       m.AmountString(),
		CurrencyCode: m.CurrencyCode(),
	})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	amount := decimal.Zero
	if raw.Amount != "" {
		parsed, err := decimal.NewFromString(raw.Amount)
		if err != nil {
			return fmt.Errorf("amount[%s] is not valid: %w", raw.Amount, err)
		}
		amount = parsed
	}

	var cur currency.Unit
	if raw.CurrencyCode != "" {
		parsed, err := currency.ParseISO(raw.CurrencyCode)
		if err != nil {
			return fmt.Errorf("currency[%s] is not valid: %w", raw.CurrencyCode, err)
		}
		cur = parsed
	}

	*m = Money{Amount: amount, Currency: cur}
	return nil
}
