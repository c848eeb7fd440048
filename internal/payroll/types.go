package payroll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownEmployee is returned when an attendance row references an
// employee identifier that is not in the roster.
var ErrUnknownEmployee = errors.New("employee not found in roster")

// PayBasis is the pay computation basis for an employee.
type PayBasis string

const (
	PayBasisHourly  PayBasis = "Hourly"
	PayBasisMonthly PayBasis = "Monthly"
)

// ParsePayBasis validates a pay basis read from the roster file.
func ParsePayBasis(s string) (PayBasis, error) {
	switch PayBasis(strings.TrimSpace(s)) {
	case PayBasisHourly:
		return PayBasisHourly, nil
	case PayBasisMonthly:
		return PayBasisMonthly, nil
	default:
		return "", fmt.Errorf("unknown pay basis %q", s)
	}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller so unknown values are
// rejected at load time instead of falling through at use time.
func (b *PayBasis) UnmarshalCSV(s string) error {
	parsed, err := ParsePayBasis(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (b PayBasis) MarshalCSV() (string, error) {
	return string(b), nil
}

// AccountType is the bank account type code used in transfer records.
type AccountType int

const (
	AccountTypeOrdinary AccountType = 1
	AccountTypeChecking AccountType = 2
)

// ParseAccountType validates an account type code.
func ParseAccountType(code int) (AccountType, error) {
	switch AccountType(code) {
	case AccountTypeOrdinary, AccountTypeChecking:
		return AccountType(code), nil
	default:
		return 0, fmt.Errorf("unknown account type code %d", code)
	}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. An empty cell defaults
// to an ordinary account, matching the legacy roster files.
func (t *AccountType) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*t = AccountTypeOrdinary
		return nil
	}
	var code int
	if _, err := fmt.Sscanf(s, "%d", &code); err != nil {
		return fmt.Errorf("invalid account type %q", s)
	}
	parsed, err := ParseAccountType(code)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t AccountType) MarshalCSV() (string, error) {
	return fmt.Sprintf("%d", int(t)), nil
}

// Employee is one roster record. Bank code fields stay strings to
// preserve leading zeros.
type Employee struct {
	ID                string      `csv:"employee_id" json:"employee_id"`
	Name              string      `csv:"name" json:"name"`
	BaseRate          int64       `csv:"base_salary" json:"base_salary"`
	Basis             PayBasis    `csv:"salary_type" json:"salary_type"`
	TransportDaily    int64       `csv:"transportation_daily" json:"transportation_daily"`
	Dependents        int         `csv:"dependents" json:"dependents"`
	PositionAllowance int64       `csv:"allowance_position" json:"allowance_position"`
	BankCode          string      `csv:"bank_code" json:"bank_code"`
	BankNameKana      string      `csv:"bank_name_kana" json:"bank_name_kana"`
	BranchCode        string      `csv:"branch_code" json:"branch_code"`
	BranchNameKana    string      `csv:"branch_name_kana" json:"branch_name_kana"`
	AccountType       AccountType `csv:"account_type" json:"account_type"`
	AccountNumber     string      `csv:"account_number" json:"account_number"`
	AccountNameKana   string      `csv:"account_name_kana" json:"account_name_kana"`
}

// Validate checks roster invariants at load time.
func (e *Employee) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("employee_id is empty")
	}
	if e.Basis != PayBasisHourly && e.Basis != PayBasisMonthly {
		return fmt.Errorf("employee %s: invalid pay basis %q", e.ID, e.Basis)
	}
	if e.Dependents < 0 {
		return fmt.Errorf("employee %s: negative dependent count %d", e.ID, e.Dependents)
	}
	return nil
}

// Attendance is one monthly attendance record keyed by employee ID.
// LateNightHours is carried through but not priced.
type Attendance struct {
	EmployeeID     string `csv:"employee_id" json:"employee_id"`
	TargetMonth    string `csv:"target_month" json:"target_month"`
	WorkDays       int    `csv:"work_days" json:"work_days"`
	WorkHours      int    `csv:"work_hours" json:"work_hours"`
	OvertimeHours  int    `csv:"overtime_hours" json:"overtime_hours"`
	LateNightHours int    `csv:"late_night_hours" json:"late_night_hours"`
}

// PayResult is the computed pay for one employee for one run. It is
// derived data and never persisted on its own.
type PayResult struct {
	EmployeeID        string          `csv:"employee_id" json:"employee_id"`
	Name              string          `csv:"name" json:"name"`
	TargetMonth       string          `csv:"target_month" json:"target_month"`
	Basis             PayBasis        `csv:"salary_type" json:"salary_type"`
	WorkDays          int             `csv:"work_days" json:"work_days"`
	WorkHours         int             `csv:"work_hours" json:"work_hours"`
	OvertimeHours     int             `csv:"overtime_hours" json:"overtime_hours"`
	Dependents        int             `csv:"dependents" json:"dependents"`
	BasePay           decimal.Decimal `csv:"base_pay" json:"base_pay"`
	OvertimePay       decimal.Decimal `csv:"overtime_pay" json:"overtime_pay"`
	TransportPay      decimal.Decimal `csv:"transport_pay" json:"transport_pay"`
	PositionAllowance decimal.Decimal `csv:"allowance_position" json:"allowance_position"`
	TotalPayment      decimal.Decimal `csv:"total_payment" json:"total_payment"`
	SocialInsurance   decimal.Decimal `csv:"social_insurance" json:"social_insurance"`
	TaxableIncome     decimal.Decimal `csv:"taxable_income" json:"taxable_income"`
	IncomeTax         decimal.Decimal `csv:"income_tax" json:"income_tax"`
	DeductionTotal    decimal.Decimal `csv:"deduction_total" json:"deduction_total"`
	NetPayment        decimal.Decimal `csv:"net_payment" json:"net_payment"`
	Bank              BankAccount     `csv:"-" json:"-"`
}

// BankAccount is the transfer destination carried from the roster into
// the pay result for batch-file generation.
type BankAccount struct {
	BankCode        string
	BankNameKana    string
	BranchCode      string
	BranchNameKana  string
	AccountType     AccountType
	AccountNumber   string
	AccountNameKana string
}

// RowError records a per-row computation failure. A failed row is
// excluded from the result set without failing the whole run.
type RowError struct {
	EmployeeID string
	Err        error
}

func (e RowError) Error() string {
	return fmt.Sprintf("employee %s: %v", e.EmployeeID, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// RunResult holds the outcome of one payroll run.
type RunResult struct {
	TargetMonth string
	Rows        []PayResult
	Failed      []RowError
	Warnings    []string
}

// TotalPayout sums total_payment over all computed rows.
func (r *RunResult) TotalPayout() decimal.Decimal {
	total := decimal.Zero
	for _, row := range r.Rows {
		total = total.Add(row.TotalPayment)
	}
	return total
}

// AveragePayout is the mean total_payment, zero for an empty run.
func (r *RunResult) AveragePayout() decimal.Decimal {
	if len(r.Rows) == 0 {
		return decimal.Zero
	}
	return r.TotalPayout().Div(decimal.NewFromInt(int64(len(r.Rows)))).Round(0)
}

// FindRow returns the pay result for one employee.
func (r *RunResult) FindRow(employeeID string) (PayResult, bool) {
	for _, row := range r.Rows {
		if row.EmployeeID == employeeID {
			return row, true
		}
	}
	return PayResult{}, false
}
