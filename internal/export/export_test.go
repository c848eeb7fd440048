package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/payroll"
)

func sampleResult() *payroll.RunResult {
	return &payroll.RunResult{
		TargetMonth: "2026-02",
		Rows: []payroll.PayResult{
			{
				EmployeeID:      "E001",
				Name:            "山田 太郎",
				TargetMonth:     "2026-02",
				Basis:           payroll.PayBasisHourly,
				WorkDays:        20,
				WorkHours:       160,
				BasePay:         decimal.NewFromInt(192000),
				TransportPay:    decimal.NewFromInt(10000),
				TotalPayment:    decimal.NewFromInt(202000),
				SocialInsurance: decimal.NewFromInt(29290),
				IncomeTax:       decimal.NewFromInt(6254),
				DeductionTotal:  decimal.NewFromInt(35544),
				NetPayment:      decimal.NewFromInt(166456),
			},
		},
	}
}

func TestResultCSV(t *testing.T) {
	data, err := ResultCSV(sampleResult())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, utf8BOM), "download must carry a UTF-8 BOM")

	body := string(bytes.TrimPrefix(data, utf8BOM))
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "employee_id")
	assert.Contains(t, lines[0], "net_payment")
	assert.Contains(t, lines[1], "E001")
	assert.Contains(t, lines[1], "山田 太郎")
	assert.Contains(t, lines[1], "166456")
}

func TestExcelExporterBuild(t *testing.T) {
	exporter := NewExcelExporter("Vibe Coding Inc.", zap.NewNop())

	data, err := exporter.Build(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Payroll"
	company, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Vibe Coding Inc.", company)

	title, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Payroll result 2026-02", title)

	total, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "202000", total)

	head, err := f.GetCellValue(sheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Employee ID", head)

	id, err := f.GetCellValue(sheet, "A8")
	require.NoError(t, err)
	assert.Equal(t, "E001", id)

	name, err := f.GetCellValue(sheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", name)

	net, err := f.GetCellValue(sheet, "L8")
	require.NoError(t, err)
	assert.Equal(t, "166456", net)
}
