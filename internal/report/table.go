package report

import "github.com/xuri/excelize/v2"

// workbook starts a file whose only sheet is named sheet.
func workbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)
	return f, nil
}

func headerStyle(f *excelize.File) int {
	bold, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
	})
	return bold
}

// writeTable writes header on row 1 and rows below it. Columns listed in
// moneyCols (1-based) get the currency format.
func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, moneyCols ...int) {
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle(f))

	if len(rows) == 0 {
		return
	}
	money, _ := f.NewStyle(&excelize.Style{NumFmt: 4})
	for _, col := range moneyCols {
		top, _ := excelize.CoordinatesToCellName(col, 2)
		bottom, _ := excelize.CoordinatesToCellName(col, len(rows)+1)
		_ = f.SetCellStyle(sheet, top, bottom, money)
	}
}

func bytesOf(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
