// Package payslip renders one-page PDF payslips from computed pay
// results.
package payslip

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vibecoding/backoffice/internal/payroll"
)

const fontFamily = "payslip"

// Renderer produces payslip PDFs. A TTF with CJK coverage can be
// supplied for employee names; without one the core Helvetica font is
// used and non-Latin characters will not render.
type Renderer struct {
	companyName string
	fontPath    string
	logger      *zap.Logger
}

func NewRenderer(companyName, fontPath string, logger *zap.Logger) *Renderer {
	return &Renderer{companyName: companyName, fontPath: fontPath, logger: logger}
}

// FileName returns the download name for one payslip.
func (r *Renderer) FileName(row payroll.PayResult) string {
	return fmt.Sprintf("payslip_%s.pdf", row.EmployeeID)
}

// Render draws the single payslip page: title with the target month,
// employee line, earnings and deductions blocks, the boxed net payment
// and the attendance remarks.
func (r *Renderer) Render(row payroll.PayResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	family := fontFamily
	if r.fontPath != "" {
		pdf.AddUTF8Font(family, "", r.fontPath)
		if pdf.Err() {
			return nil, fmt.Errorf("load payslip font %s: %w", r.fontPath, pdf.Error())
		}
	} else {
		r.logger.Warn("no payslip font configured, falling back to Helvetica")
		family = "Helvetica"
	}

	pdf.AddPage()

	pdf.SetFont(family, "", 20)
	pdf.Text(20, 27, fmt.Sprintf("Payslip (%s)", row.TargetMonth))

	pdf.SetFont(family, "", 12)
	pdf.Text(20, 42, fmt.Sprintf("Employee: %s", row.Name))
	pdf.Text(130, 42, r.companyName)
	pdf.Line(20, 47, 190, 47)

	const top = 67.0
	pdf.Text(20, top, "Earnings")
	pdf.Text(30, top+10, fmt.Sprintf("Base pay: %s", yen(row.BasePay)))
	pdf.Text(30, top+20, fmt.Sprintf("Overtime pay: %s", yen(row.OvertimePay)))
	pdf.Text(30, top+30, fmt.Sprintf("Transport: %s", yen(row.TransportPay)))
	pdf.Text(30, top+40, fmt.Sprintf("Position allowance: %s", yen(row.PositionAllowance)))

	pdf.SetFont(family, "", 14)
	pdf.Text(30, top+60, fmt.Sprintf("Total payment: %s", yen(row.TotalPayment)))

	pdf.SetFont(family, "", 12)
	pdf.Text(110, top, "Deductions")
	pdf.Text(120, top+10, fmt.Sprintf("Social insurance: %s", yen(row.SocialInsurance)))
	pdf.Text(120, top+20, fmt.Sprintf("Income tax: %s", yen(row.IncomeTax)))
	pdf.Text(120, top+40, fmt.Sprintf("Deduction total: %s", yen(row.DeductionTotal)))

	pdf.Rect(110, top+52, 80, 15, "D")
	pdf.SetFont(family, "", 16)
	pdf.Text(115, top+62, fmt.Sprintf("Net payment: %s", yen(row.NetPayment)))

	pdf.SetFont(family, "", 10)
	pdf.Text(20, 147, "Attendance remarks")
	pdf.Text(20, 157, fmt.Sprintf("Dependents: %d", row.Dependents))
	pdf.Text(20, 167, fmt.Sprintf("Work days: %d / worked: %dh / overtime: %dh",
		row.WorkDays, row.WorkHours, row.OvertimeHours))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

var yenPrinter = message.NewPrinter(language.Japanese)

// yen formats an amount with thousands grouping. Fractions only occur
// on monthly overtime remainders and are dropped for display.
func yen(d decimal.Decimal) string {
	return yenPrinter.Sprintf("JPY %d", d.IntPart())
}
