package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Schedules"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType of the rendered payload.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension of the rendered payload.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the title on row 1 merged across all columns, headers on row 2 and data below.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	lastCol := colName(len(data.Headers) - 1)
	row := 1
	if data.Title != "" {
		_ = f.SetCellValue(xlsxSheet, cell("A", row), data.Title)
		_ = f.MergeCell(xlsxSheet, cell("A", row), cell(lastCol, row))
		row++
	}

	for i, h := range data.Headers {
		_ = f.SetCellValue(xlsxSheet, cell(colName(i), row), h)
		_ = f.SetColWidth(xlsxSheet, colName(i), colName(i), 18)
	}
	_ = f.SetCellStyle(xlsxSheet, cell("A", row), cell(lastCol, row), headerStyle)
	row++

	for _, r := range data.Rows {
		for i, value := range data.Record(r) {
			_ = f.SetCellValue(xlsxSheet, cell(colName(i), row), value)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
