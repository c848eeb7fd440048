package payroll

import "github.com/shopspring/decimal"

// Simplified withholding table. The break points and offsets are policy
// constants from the legacy schedule, not configuration.
const (
	taxFreeThreshold   = 88000
	dependentDeduction = 25000
	lowBracketCeiling  = 150000
	midBracketCeiling  = 300000
)

var (
	lowBracketRate = decimal.NewFromFloat(0.02)
	midBracketRate = decimal.NewFromFloat(0.05)
	topBracketRate = decimal.NewFromFloat(0.10)
	midBracketOff  = decimal.NewFromInt(2000)
	topBracketOff  = decimal.NewFromInt(10000)
)

// WithholdingTax returns the monthly withholding amount for a taxable
// income and dependent count. The result is floored and never negative.
func WithholdingTax(taxableIncome decimal.Decimal, dependents int) decimal.Decimal {
	if taxableIncome.LessThan(decimal.NewFromInt(taxFreeThreshold)) {
		return decimal.Zero
	}

	adjusted := taxableIncome.Sub(decimal.NewFromInt(int64(dependents) * dependentDeduction))
	if adjusted.LessThan(decimal.NewFromInt(taxFreeThreshold)) {
		return decimal.Zero
	}

	var tax decimal.Decimal
	switch {
	case adjusted.LessThan(decimal.NewFromInt(lowBracketCeiling)):
		tax = adjusted.Mul(lowBracketRate)
	case adjusted.LessThan(decimal.NewFromInt(midBracketCeiling)):
		tax = adjusted.Mul(midBracketRate).Sub(midBracketOff)
	default:
		tax = adjusted.Mul(topBracketRate).Sub(topBracketOff)
	}

	tax = tax.Floor()
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}
