package payroll

import "github.com/shopspring/decimal"

// Computation constants shared by the engine.
const (
	// standardMonthlyHours converts a monthly salary into an hourly
	// equivalent for overtime pricing.
	standardMonthlyHours = 160
)

var (
	overtimePremium     = decimal.NewFromFloat(1.25)
	socialInsuranceRate = decimal.NewFromFloat(0.145)
)

// Compute derives the pay result for one employee and one attendance
// record. Transport is paid per work day and is non-taxable.
func Compute(emp Employee, att Attendance) PayResult {
	rate := decimal.NewFromInt(emp.BaseRate)

	var basePay, overtimePay decimal.Decimal
	switch emp.Basis {
	case PayBasisHourly:
		basePay = rate.Mul(decimal.NewFromInt(int64(att.WorkHours)))
		overtimePay = rate.Mul(overtimePremium).Mul(decimal.NewFromInt(int64(att.OvertimeHours)))
	default: // Monthly
		basePay = rate
		overtimePay = rate.
			Div(decimal.NewFromInt(standardMonthlyHours)).
			Mul(overtimePremium).
			Mul(decimal.NewFromInt(int64(att.OvertimeHours)))
	}

	transportPay := decimal.NewFromInt(emp.TransportDaily).Mul(decimal.NewFromInt(int64(att.WorkDays)))
	positionAllowance := decimal.NewFromInt(emp.PositionAllowance)

	totalPayment := basePay.Add(overtimePay).Add(transportPay).Add(positionAllowance)

	socialInsurance := totalPayment.Mul(socialInsuranceRate).Floor()
	taxableIncome := totalPayment.Sub(socialInsurance).Sub(transportPay)
	incomeTax := WithholdingTax(taxableIncome, emp.Dependents)
	deductionTotal := socialInsurance.Add(incomeTax)

	return PayResult{
		EmployeeID:        emp.ID,
		Name:              emp.Name,
		TargetMonth:       att.TargetMonth,
		Basis:             emp.Basis,
		WorkDays:          att.WorkDays,
		WorkHours:         att.WorkHours,
		OvertimeHours:     att.OvertimeHours,
		Dependents:        emp.Dependents,
		BasePay:           basePay,
		OvertimePay:       overtimePay,
		TransportPay:      transportPay,
		PositionAllowance: positionAllowance,
		TotalPayment:      totalPayment,
		SocialInsurance:   socialInsurance,
		TaxableIncome:     taxableIncome,
		IncomeTax:         incomeTax,
		DeductionTotal:    deductionTotal,
		NetPayment:        totalPayment.Sub(deductionTotal),
		Bank: BankAccount{
			BankCode:        emp.BankCode,
			BankNameKana:    emp.BankNameKana,
			BranchCode:      emp.BranchCode,
			BranchNameKana:  emp.BranchNameKana,
			AccountType:     emp.AccountType,
			AccountNumber:   emp.AccountNumber,
			AccountNameKana: emp.AccountNameKana,
		},
	}
}

// Run joins attendance rows against the roster and computes pay for
// each. An attendance row without a matching roster entry fails that
// row only; the rest of the run proceeds.
func Run(employees []Employee, attendance []Attendance) *RunResult {
	roster := make(map[string]Employee, len(employees))
	for _, emp := range employees {
		roster[emp.ID] = emp
	}

	result := &RunResult{}
	for _, att := range attendance {
		emp, ok := roster[att.EmployeeID]
		if !ok {
			result.Failed = append(result.Failed, RowError{
				EmployeeID: att.EmployeeID,
				Err:        ErrUnknownEmployee,
			})
			continue
		}
		// The run is labelled by its computed rows; a failed leading
		// row must not set the month.
		if result.TargetMonth == "" {
			result.TargetMonth = att.TargetMonth
		}
		result.Rows = append(result.Rows, Compute(emp, att))
	}
	return result
}
