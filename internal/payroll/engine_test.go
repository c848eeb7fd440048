package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eq(t *testing.T, expected int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(expected)), "%s = %s, want %d", field, got, expected)
}

func TestComputeHourlyRoundTrip(t *testing.T) {
	// Hourly 1200/h, 160h, no overtime, no transport, no dependents.
	emp := Employee{
		ID:       "E001",
		Name:     "Yamada Taro",
		BaseRate: 1200,
		Basis:    PayBasisHourly,
	}
	att := Attendance{
		EmployeeID:  "E001",
		TargetMonth: "2026-02",
		WorkDays:    20,
		WorkHours:   160,
	}

	row := Compute(emp, att)

	eq(t, 192000, row.BasePay, "base_pay")
	eq(t, 0, row.OvertimePay, "overtime_pay")
	eq(t, 0, row.TransportPay, "transport_pay")
	eq(t, 192000, row.TotalPayment, "total_payment")
	eq(t, 27840, row.SocialInsurance, "social_insurance")
	eq(t, 164160, row.TaxableIncome, "taxable_income")
	eq(t, 6208, row.IncomeTax, "income_tax")
	eq(t, 34048, row.DeductionTotal, "deduction_total")
	eq(t, 157952, row.NetPayment, "net_payment")
}

func TestComputeMonthly(t *testing.T) {
	emp := Employee{
		ID:             "E003",
		BaseRate:       320000,
		Basis:          PayBasisMonthly,
		TransportDaily: 1000,
		Dependents:     1,
	}
	att := Attendance{
		EmployeeID:    "E003",
		TargetMonth:   "2026-02",
		WorkDays:      20,
		WorkHours:     160,
		OvertimeHours: 8,
	}

	row := Compute(emp, att)

	// Monthly base pay is the salary itself, regardless of hours.
	eq(t, 320000, row.BasePay, "base_pay")
	// 320000/160 * 1.25 * 8 = 20000
	eq(t, 20000, row.OvertimePay, "overtime_pay")
	eq(t, 20000, row.TransportPay, "transport_pay")
	eq(t, 360000, row.TotalPayment, "total_payment")
	// floor(360000 * 0.145) = 52200
	eq(t, 52200, row.SocialInsurance, "social_insurance")
	// 360000 - 52200 - 20000 = 287800 (transport non-taxable)
	eq(t, 287800, row.TaxableIncome, "taxable_income")
	// adjusted 262800 -> 262800*0.05 - 2000 = 11140
	eq(t, 11140, row.IncomeTax, "income_tax")

	assert.True(t, row.NetPayment.Equal(row.TotalPayment.Sub(row.SocialInsurance).Sub(row.IncomeTax)))
}

func TestComputePositionAllowance(t *testing.T) {
	emp := Employee{ID: "E010", BaseRate: 250000, Basis: PayBasisMonthly, PositionAllowance: 30000}
	att := Attendance{EmployeeID: "E010", TargetMonth: "2026-02", WorkDays: 20, WorkHours: 160}

	row := Compute(emp, att)
	eq(t, 280000, row.TotalPayment, "total_payment")
}

func TestComputeSocialInsuranceTruncates(t *testing.T) {
	// 1151 * 160 = 184160; 184160 * 0.145 = 26703.2 -> 26703, not 26704.
	emp := Employee{ID: "E011", BaseRate: 1151, Basis: PayBasisHourly}
	att := Attendance{EmployeeID: "E011", WorkHours: 160}

	row := Compute(emp, att)
	eq(t, 26703, row.SocialInsurance, "social_insurance")
}

func TestRunLeftJoin(t *testing.T) {
	employees := []Employee{
		{ID: "E001", Name: "A", BaseRate: 1200, Basis: PayBasisHourly},
		{ID: "E002", Name: "B", BaseRate: 300000, Basis: PayBasisMonthly},
	}
	attendance := []Attendance{
		{EmployeeID: "E001", TargetMonth: "2026-02", WorkDays: 20, WorkHours: 160},
		{EmployeeID: "E002", TargetMonth: "2026-02", WorkDays: 19, WorkHours: 152},
		{EmployeeID: "E999", TargetMonth: "2026-02", WorkDays: 20, WorkHours: 160},
	}

	result := Run(employees, attendance)

	require.Len(t, result.Rows, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "E999", result.Failed[0].EmployeeID)
	assert.ErrorIs(t, result.Failed[0], ErrUnknownEmployee)
	assert.Equal(t, "2026-02", result.TargetMonth)
}

func TestRunTargetMonthFromComputedRow(t *testing.T) {
	employees := []Employee{
		{ID: "E001", Name: "A", BaseRate: 1200, Basis: PayBasisHourly},
	}
	// The leading row has no roster match; its month must not label
	// the run.
	attendance := []Attendance{
		{EmployeeID: "E999", TargetMonth: "2025-12", WorkDays: 20, WorkHours: 160},
		{EmployeeID: "E001", TargetMonth: "2026-02", WorkDays: 20, WorkHours: 160},
	}

	result := Run(employees, attendance)

	require.Len(t, result.Rows, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "2026-02", result.TargetMonth)
}

func TestRunSummary(t *testing.T) {
	employees := []Employee{
		{ID: "E001", BaseRate: 1000, Basis: PayBasisHourly},
		{ID: "E002", BaseRate: 2000, Basis: PayBasisHourly},
	}
	attendance := []Attendance{
		{EmployeeID: "E001", WorkHours: 100},
		{EmployeeID: "E002", WorkHours: 100},
	}

	result := Run(employees, attendance)

	eq(t, 300000, result.TotalPayout(), "total_payout")
	eq(t, 150000, result.AveragePayout(), "average_payout")

	_, ok := result.FindRow("E001")
	assert.True(t, ok)
	_, ok = result.FindRow("E404")
	assert.False(t, ok)
}

func TestRunEmptyInputs(t *testing.T) {
	result := Run(nil, nil)
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Failed)
	assert.True(t, result.AveragePayout().IsZero())
}

func TestParsePayBasis(t *testing.T) {
	tests := []struct {
		in      string
		want    PayBasis
		wantErr bool
	}{
		{in: "Hourly", want: PayBasisHourly},
		{in: "Monthly", want: PayBasisMonthly},
		{in: " Hourly ", want: PayBasisHourly},
		{in: "hourly", wantErr: true},
		{in: "Daily", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePayBasis(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
		} else {
			require.NoError(t, err, "input %q", tt.in)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestParseAccountType(t *testing.T) {
	_, err := ParseAccountType(1)
	assert.NoError(t, err)
	_, err = ParseAccountType(2)
	assert.NoError(t, err)
	_, err = ParseAccountType(3)
	assert.Error(t, err)
}

func TestEmployeeValidate(t *testing.T) {
	valid := Employee{ID: "E001", Basis: PayBasisHourly}
	assert.NoError(t, valid.Validate())

	noID := Employee{Basis: PayBasisHourly}
	assert.Error(t, noID.Validate())

	badDeps := Employee{ID: "E001", Basis: PayBasisHourly, Dependents: -1}
	assert.Error(t, badDeps.Validate())
}
