package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/thywilljoshua/pdf-to-claims/internal/convert"
)

const (
	sheetName   = "Claims"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{
	"Claim Number",
	"Accident Date",
	"Notice Date",
	"Close Date",
	"Incident Description",
}

// ClaimsXLSX renders claims as a single-sheet workbook, one row per claim
// in input order.
func ClaimsXLSX(claims []convert.ClaimRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i, c := range claims {
		row := []string{c.ClaimNumber, c.AccidentDate, c.NoticeDate, c.CloseDate, c.IncidentDescription}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			// Dates stay text; Excel would otherwise reinterpret NN/NN/NNNN by locale.
			if err := f.SetCellStr(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx row %d: %w", i+1, err)
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 18)
	_ = f.SetColWidth(sheetName, "B", "D", 14)
	_ = f.SetColWidth(sheetName, "E", "E", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
