package services

import (
	"fmt"
	"math"
	"strings"
)

// AmountInWords spells out a peso amount the way it is printed on receipts
// Example: 1500.50 -> "ONE THOUSAND FIVE HUNDRED PESOS AND 50/100"
func AmountInWords(amount float64) string {
	cents := int64(math.Round(amount * 100))
	integerPart := cents / 100
	decimalPart := cents % 100
	if decimalPart < 0 {
		decimalPart = -decimalPart
	}

	return fmt.Sprintf("%s PESOS AND %02d/100", convertNumberToWords(integerPart), decimalPart)
}

func convertNumberToWords(n int64) string {
	if n == 0 {
		return "ZERO"
	}

	if n < 0 {
		return "MINUS " + convertNumberToWords(-n)
	}

	if n < 20 {
		return units[n]
	}

	if n < 100 {
		u := n % 10
		t := n / 10
		if u == 0 {
			return tens[t]
		}
		return fmt.Sprintf("%s-%s", tens[t], units[u])
	}

	if n < 1000 {
		remainder := n % 100
		text := units[n/100] + " HUNDRED"
		if remainder == 0 {
			return text
		}
		return text + " " + convertNumberToWords(remainder)
	}

	for _, scale := range scales {
		if n >= scale.value {
			text := convertNumberToWords(n/scale.value) + " " + scale.name
			if remainder := n % scale.value; remainder != 0 {
				text += " " + convertNumberToWords(remainder)
			}
			return strings.TrimSpace(text)
		}
	}

	return "AMOUNT TOO LARGE"
}

var scales = []struct {
	value int64
	name  string
}{
	{1000000000, "BILLION"},
	{1000000, "MILLION"},
	{1000, "THOUSAND"},
}

var units = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN", "SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tens = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}
