package exports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelOptions configures ledger workbook output
type ExcelOptions struct {
	SheetName    string
	FreezeHeader bool
	AutoFilter   bool
	HeaderFill   string
	HeaderFont   string
}

// DefaultExcelOptions returns the standard ledger workbook settings
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:    "Shipments",
		FreezeHeader: true,
		AutoFilter:   true,
		HeaderFill:   "1E40AF",
		HeaderFont:   "FFFFFF",
	}
}

// WriteExcel writes the shipment ledger as an Excel workbook
func WriteExcel(w io.Writer, rows []LedgerRow, options ExcelOptions) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := options.SheetName
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: options.HeaderFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{options.HeaderFill}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range ledgerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	dateFmt := 22 // m/d/yy h:mm
	dateStyle, _ := file.NewStyle(&excelize.Style{NumFmt: dateFmt})
	percentFmt := "0.0%"
	percentStyle, _ := file.NewStyle(&excelize.Style{CustomNumFmt: &percentFmt})

	widths := make([]float64, len(ledgerColumns))
	for rowIdx, row := range rows {
		rowNum := rowIdx + 2
		for colIdx, val := range row.values() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			switch v := val.(type) {
			case time.Time:
				if v.IsZero() {
					continue
				}
				file.SetCellValue(sheet, cell, v)
				file.SetCellStyle(sheet, cell, cell, dateStyle)
			default:
				file.SetCellValue(sheet, cell, v)
			}
			if ledgerColumns[colIdx] == "Progress" {
				file.SetCellStyle(sheet, cell, cell, percentStyle)
			}
			if width := float64(len(fmt.Sprintf("%v", val))) * 1.2; width > widths[colIdx] {
				widths[colIdx] = width
			}
		}
	}

	for i, width := range widths {
		if width < 10 {
			width = 10
		}
		if width > 50 {
			width = 50
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		file.SetColWidth(sheet, colName, colName, width)
	}

	if options.FreezeHeader {
		file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
	if options.AutoFilter && len(rows) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(ledgerColumns), len(rows)+1)
		file.AutoFilter(sheet, "A1:"+lastCell, nil)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
