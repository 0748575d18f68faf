package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/printquote/internal/quote"
)

const workbookSheet = "Quotes"

var workbookHeaders = []string{
	"Created",
	"Name",
	"Status",
	"Filament",
	"Print Time (h)",
	"Weight (g)",
	"Total",
	"Risk",
}

// WriteWorkbook writes saved quotes as an XLSX workbook, one row per quote.
func WriteWorkbook(w io.Writer, quotes []quote.Quote) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", workbookSheet); err != nil {
		return fmt.Errorf("name quotes sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	for i, h := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(workbookSheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(workbookHeaders), 1)
	_ = f.SetCellStyle(workbookSheet, "A1", last, header)

	for i, q := range quotes {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(workbookSheet, cell, v)
		}

		write(1, q.CreatedAt.Format("2006-01-02 15:04"))
		write(2, q.Name)
		write(3, string(q.Status))
		write(4, q.Job.FilamentType)
		write(5, q.Job.PrintTime)
		write(6, q.Job.FilamentWeight)
		write(7, q.TotalCost)
		write(8, string(q.Insights.RiskLevel))

		cell, _ := excelize.CoordinatesToCellName(7, row)
		_ = f.SetCellStyle(workbookSheet, cell, cell, money)
	}

	_ = f.SetColWidth(workbookSheet, "A", "A", 18) // created
	_ = f.SetColWidth(workbookSheet, "B", "B", 32) // name
	_ = f.SetColWidth(workbookSheet, "C", "D", 14)
	_ = f.SetColWidth(workbookSheet, "E", "G", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
