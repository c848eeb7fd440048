// Package export renders a payroll run for download: a CSV with a
// UTF-8 byte-order mark and an Excel workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/vibecoding/backoffice/internal/payroll"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ResultCSV encodes the result table as UTF-8 CSV with a BOM so that
// spreadsheet tools open it without mangling names.
func ResultCSV(result *payroll.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	rows := result.Rows
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return nil, fmt.Errorf("encode result csv: %w", err)
	}
	return buf.Bytes(), nil
}
