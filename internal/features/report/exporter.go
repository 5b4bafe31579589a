package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// Artifact is a fully serialized export, ready to be written out in one piece
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

type formatSpec struct {
	ext         string
	contentType string
}

var formats = map[ExportFormat]formatSpec{
	ExportFormatCSV:         {ext: ".csv", contentType: "text/csv; charset=utf-8"},
	ExportFormatExcel:       {ext: ".xlsx", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	ExportFormatPDF:         {ext: ".txt", contentType: "text/plain; charset=utf-8"},
	ExportFormatPDFDocument: {ext: ".pdf", contentType: "application/pdf"},
}

// ParseExportFormat validates a client-supplied format name
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return ExportFormatCSV, nil
	}
	if _, ok := formats[f]; !ok {
		return "", validationErr("format", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s))
	}
	return f, nil
}

// Extension returns the file extension the format is written with
func (f ExportFormat) Extension() string {
	return formats[f].ext
}

// table is what every exporter consumes
type table struct {
	title       string
	reportType  ReportType
	generatedAt time.Time
	rows        []Row
	columns     []Column
}

// Exporter serializes rows into downloadable artifacts
type Exporter struct {
	now func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// ExportReport serializes a generated report, using its schema for labels and formats
func (e *Exporter) ExportReport(report *GeneratedReport, format ExportFormat, filename string) (*Artifact, error) {
	if report == nil {
		return nil, &ExportError{Format: format, Err: fmt.Errorf("no report to export")}
	}
	return e.export(table{
		title:       report.Title,
		reportType:  report.ReportType,
		generatedAt: report.GeneratedAt,
		rows:        report.Rows,
		columns:     report.Columns,
	}, format, filename)
}

// ExportRows serializes a bare row set; headers come from the observed keys
func (e *Exporter) ExportRows(rows []Row, format ExportFormat, filename string) (*Artifact, error) {
	return e.export(table{title: "Report", generatedAt: e.now(), rows: rows}, format, filename)
}

func (e *Exporter) export(t table, format ExportFormat, filename string) (artifact *Artifact, err error) {
	spec, ok := formats[format]
	if !ok {
		return nil, &ExportError{Format: format, Err: ErrUnsupportedFormat}
	}

	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = &ExportError{Format: format, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	var data []byte
	switch format {
	case ExportFormatCSV:
		data, err = writeCSV(t)
	case ExportFormatExcel:
		data, err = writeExcel(t)
	case ExportFormatPDF:
		data, err = writeText(t)
	case ExportFormatPDFDocument:
		data, err = writePDF(t)
	}
	if err != nil {
		return nil, &ExportError{Format: format, Err: err}
	}

	return &Artifact{
		Filename:    e.filename(filename, t.reportType) + spec.ext,
		ContentType: spec.contentType,
		Data:        data,
	}, nil
}

// filename cleans the caller's base name, defaulting to <report-type>-<timestamp>
func (e *Exporter) filename(base string, reportType ReportType) string {
	base = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r == ':':
			return '-'
		case r < 0x20:
			return -1
		}
		return r
	}, strings.TrimSpace(base))
	base = strings.Trim(base, ". ")
	if base != "" {
		return base
	}
	prefix := string(reportType)
	if prefix == "" {
		prefix = "report"
	}
	return prefix + "-" + e.now().Format("20060102-150405")
}

// headerKeys is the union of row keys in first-seen order, or the schema when no rows exist
func headerKeys(t table) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range t.rows {
		for _, f := range row {
			if !seen[f.Key] {
				seen[f.Key] = true
				keys = append(keys, f.Key)
			}
		}
	}
	if len(keys) == 0 {
		for _, c := range t.columns {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

func columnIndex(columns []Column) map[string]Column {
	idx := make(map[string]Column, len(columns))
	for _, c := range columns {
		idx[c.Key] = c
	}
	return idx
}

func writeCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	keys := headerKeys(t)
	if err := w.Write(keys); err != nil {
		return nil, err
	}
	record := make([]string, len(keys))
	for _, row := range t.rows {
		for i, key := range keys {
			v, _ := row.Get(key)
			record[i] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExcel(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	currencyFmt, dateFmt := "$#,##0.00", "yyyy-mm-dd"
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return nil, err
	}
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, err
	}

	keys := headerKeys(t)
	schema := columnIndex(t.columns)

	for i, key := range keys {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		label := key
		if c, ok := schema[key]; ok {
			label = c.Label
		}
		if err := f.SetCellValue(sheetName, cell, label); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range t.rows {
		for colIdx, key := range keys {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			v, ok := row.Get(key)
			if !ok || v == nil {
				continue
			}

			style := 0
			switch schema[key].Type {
			case ColumnTypeCurrency:
				style = currencyStyle
			case ColumnTypeDate:
				if d, ok := dateValue(v); ok {
					v, style = d, dateStyle
				}
			}

			if err := f.SetCellValue(sheetName, cell, excelValue(v)); err != nil {
				return nil, err
			}
			if style != 0 {
				if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
					return nil, err
				}
			}
		}
	}

	for i := range keys {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, 15); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// excelValue maps row values onto types excelize writes natively
func excelValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case json.Number:
		return formatValue(x)
	default:
		return v
	}
}

func writeText(t table) ([]byte, error) {
	rows := t.rows
	if rows == nil {
		rows = []Row{}
	}
	body, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(t.title)
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("=", len(t.title)))
	buf.WriteString("\n\n")
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 6.0
	pdfPageHeight = 210.0 // A4 landscape
	pdfPageWidth  = 297.0
)

func writePDF(t table) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.title, true)
	pdf.SetCreator("PropDesk Reports", true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	keys := headerKeys(t)
	schema := columnIndex(t.columns)
	colWidth := pdfPageWidth - 2*pdfMargin
	if len(keys) > 0 {
		colWidth /= float64(len(keys))
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(224, 224, 224)
		pdf.SetTextColor(0, 0, 0)
		for _, key := range keys {
			label := key
			if c, ok := schema[key]; ok {
				label = c.Label
			}
			pdf.CellFormat(colWidth, pdfRowHeight, fitText(pdf, tr(label), colWidth), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(t.title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(96, 96, 96)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s, %d records", t.generatedAt.Format("2006-01-02 15:04 MST"), len(t.rows)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for _, row := range t.rows {
		if pdf.GetY()+pdfRowHeight > pdfPageHeight-2*pdfMargin {
			pdf.AddPage()
			header()
		}
		for _, key := range keys {
			v, _ := row.Get(key)
			align := "L"
			switch schema[key].Type {
			case ColumnTypeCurrency, ColumnTypeNumber:
				align = "R"
			}
			pdf.CellFormat(colWidth, pdfRowHeight, fitText(pdf, tr(formatValue(v)), colWidth), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf generation error: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output error: %w", err)
	}
	return buf.Bytes(), nil
}

// fitText truncates s with an ellipsis so it fits a cell of width w.
// s is already cp1252 encoded, one byte per glyph, so it is cut on bytes.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > limit {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}

// formatValue stringifies a row value for text formats
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Equal(truncateDay(x)) {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
