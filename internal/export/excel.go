package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/payroll"
)

// ExcelExporter builds the payroll result workbook.
type ExcelExporter struct {
	companyName string
	logger      *zap.Logger
}

func NewExcelExporter(companyName string, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{companyName: companyName, logger: logger}
}

var resultColumns = []string{
	"Employee ID", "Name", "Basis", "Base Pay", "Overtime Pay", "Transport Pay",
	"Position Allowance", "Total Payment", "Social Insurance", "Income Tax",
	"Deduction Total", "Net Payment",
}

// Build renders the run as an xlsx workbook: a summary block followed
// by one row per employee.
func (e *ExcelExporter) Build(result *payroll.RunResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payroll"
	f.SetSheetName(f.GetSheetName(0), sheet)

	e.setCell(f, sheet, "A1", e.companyName)
	e.setCell(f, sheet, "A2", fmt.Sprintf("Payroll result %s", result.TargetMonth))
	e.setCell(f, sheet, "A3", "Total payout")
	e.setCell(f, sheet, "B3", yen(result.TotalPayout()))
	e.setCell(f, sheet, "A4", "Headcount")
	e.setCell(f, sheet, "B4", int64(len(result.Rows)))
	e.setCell(f, sheet, "A5", "Average payout")
	e.setCell(f, sheet, "B5", yen(result.AveragePayout()))

	const headerRow = 7
	for col, title := range resultColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return nil, err
		}
		e.setCell(f, sheet, cell, title)
	}

	for i, row := range result.Rows {
		values := []interface{}{
			row.EmployeeID, row.Name, string(row.Basis),
			yen(row.BasePay), yen(row.OvertimePay), yen(row.TransportPay),
			yen(row.PositionAllowance), yen(row.TotalPayment), yen(row.SocialInsurance),
			yen(row.IncomeTax), yen(row.DeductionTotal), yen(row.NetPayment),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, headerRow+1+i)
			if err != nil {
				return nil, err
			}
			e.setCell(f, sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// yen renders an amount as a whole-yen number for the sheet. Pay
// amounts are integral except monthly overtime remainders, which keep
// their fraction.
func yen(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
