// Package export renders the current view of a page as a downloadable file.
package export

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

type Table struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     [][]string
}

// Section is a titled list of label/value pairs.
type Section struct {
	Heading string
	Lines   [][2]string
}

func XLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("xlsx close failed", "err", err)
		}
	}()

	sheet := "Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2C373B"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	row := 1
	if t.Title != "" {
		if err := f.SetCellValue(sheet, "A1", t.Title); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
			return nil, err
		}
		row++
	}
	if t.Subtitle != "" {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.Subtitle); err != nil {
			return nil, err
		}
		row++
	}
	if row > 1 {
		row++
	}

	for col, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	if len(t.Headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), row)
		if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
			return nil, err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(t.Headers))
		if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
			return nil, err
		}
		row++
	}

	for _, r := range t.Rows {
		for col, value := range r {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func TablePDF(t Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, t.Title)
	pdf.Ln(10)
	if t.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, t.Subtitle)
		pdf.Ln(8)
	}

	if len(t.Headers) > 0 {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		colW := (pageW - left - right) / float64(len(t.Headers))

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(44, 55, 59)
		pdf.SetTextColor(255, 255, 255)
		for _, header := range t.Headers {
			pdf.CellFormat(colW, 8, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, r := range t.Rows {
			for i := range t.Headers {
				value := ""
				if i < len(r) {
					value = r[i]
				}
				pdf.CellFormat(colW, 7, value, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	return output(pdf)
}

func StatementPDF(title string, sections []Section) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(12)
	for _, section := range sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, section.Heading)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range section.Lines {
			pdf.CellFormat(70, 7, line[0], "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, line[1], "", 0, "R", false, 0, "")
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}
	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
