package values

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoneyFromString("4800000", KRW)
	require.NoError(t, err)
	assert.Equal(t, KRW, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(4800000)))
}

func TestMoneyRejectsUnknownCurrency(t *testing.T) {
	_, err := NewMoneyFromString("100", "XXX")
	assert.Error(t, err)

	_, err = NewMoneyFromString("100", "")
	assert.Error(t, err)
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"4800000", KRW, "₩4800000"},
		{"123.45", USD, "$123.45"},
		{"123.4", EUR, "€123.40"},
		{"500", JPY, "¥500"},
	}

	for _, tt := range tests {
		m, err := NewMoneyFromString(tt.amount, tt.currency)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.String())
	}
}

func TestMoneyCompare(t *testing.T) {
	a := MustNewMoney(decimal.NewFromInt(100), KRW)
	b := MustNewMoney(decimal.NewFromInt(200), KRW)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))

	other := MustNewMoney(decimal.NewFromInt(100), USD)
	assert.Panics(t, func() { a.Compare(other) })
}

func TestMoneyArithmetic(t *testing.T) {
	a := MustNewMoney(decimal.NewFromInt(100), KRW)
	b := MustNewMoney(decimal.NewFromInt(50), KRW)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(50)))

	_, err = a.Add(MustNewMoney(decimal.NewFromInt(1), USD))
	assert.Error(t, err)

	_, err = a.Div(decimal.Zero)
	assert.Error(t, err)
}

func TestMoneyJSON(t *testing.T) {
	m := MustNewMoney(decimal.NewFromInt(4800000), KRW)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"4800000","currency":"KRW"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equal(back))
}

func TestMoneyScanDefaultsToKRW(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("12345"))
	assert.Equal(t, KRW, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(12345)))
}
