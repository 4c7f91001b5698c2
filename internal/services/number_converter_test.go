package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "ZERO PESOS AND 00/100"},
		{1, "ONE PESOS AND 00/100"},
		{15, "FIFTEEN PESOS AND 00/100"},
		{42.5, "FORTY-TWO PESOS AND 50/100"},
		{500, "FIVE HUNDRED PESOS AND 00/100"},
		{1500.50, "ONE THOUSAND FIVE HUNDRED PESOS AND 50/100"},
		{9166.67, "NINE THOUSAND ONE HUNDRED SIXTY-SIX PESOS AND 67/100"},
		{1000000, "ONE MILLION PESOS AND 00/100"},
		{2345678.99, "TWO MILLION THREE HUNDRED FORTY-FIVE THOUSAND SIX HUNDRED SEVENTY-EIGHT PESOS AND 99/100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountInWords(tt.amount), "amount %v", tt.amount)
	}
}
