package services

import "math"

// MonthlyPayment computes the simple-interest amortized payment, rounded to centavos:
// (principal + principal*rate/100*term/12) / term
func MonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	term := float64(termMonths)
	totalInterest := principal * (annualRatePercent / 100) * (term / 12)
	return roundCentavos((principal + totalInterest) / term)
}

func roundCentavos(v float64) float64 {
	return math.Round(v*100) / 100
}
