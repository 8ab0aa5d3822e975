// Package export renders an event's attendee list as CSV, Excel or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

const timeLayout = "2006-01-02 15:04:05"

// AttendeeRow is one RSVP line of the export.
type AttendeeRow struct {
	RSVPID      uint
	UserID      uint
	Username    string
	Email       string
	Status      policy.RSVPStatus
	RespondedAt time.Time
}

var headers = []string{"RSVP ID", "User ID", "Username", "Email", "Status", "Responded At"}

func (r AttendeeRow) values() []string {
	return []string{
		strconv.FormatUint(uint64(r.RSVPID), 10),
		strconv.FormatUint(uint64(r.UserID), 10),
		r.Username,
		r.Email,
		r.Status.Label(),
		r.RespondedAt.UTC().Format(timeLayout),
	}
}

// AttendeeExporter turns attendee rows into a downloadable file.
type AttendeeExporter interface {
	Export(eventTitle, format string, rows []AttendeeRow) (data []byte, filename string, contentType string, err error)
}

type attendeeExporter struct {
	now func() time.Time
}

func NewAttendeeExporter() AttendeeExporter {
	return &attendeeExporter{now: time.Now}
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

func slug(title string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(title), "_"), "_")
	if s == "" {
		return "event"
	}
	return s
}

// ParseFormat normalizes the format query parameter. Empty means CSV.
func ParseFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatExcel, "xlsx":
		return FormatExcel, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", policy.Invalid("format", "Format must be one of: csv, excel, pdf")
	}
}

func (e *attendeeExporter) Export(eventTitle, format string, rows []AttendeeRow) ([]byte, string, string, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, "", "", err
	}
	base := fmt.Sprintf("%s_attendees_%s", slug(eventTitle), e.now().Format("20060102_150405"))

	switch format {
	case FormatExcel:
		data, err := e.exportExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, base + ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportPDF(eventTitle, rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, base + ".pdf", "application/pdf", nil

	default:
		data, err := e.exportCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, base + ".csv", "text/csv", nil
	}
}

func (e *attendeeExporter) exportCSV(rows []AttendeeRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := writer.Write(r.values()); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *attendeeExporter) exportExcel(rows []AttendeeRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attendees"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.RSVPID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Username)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Status.Label())
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.RespondedAt.UTC().Format(timeLayout))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *attendeeExporter) exportPDF(eventTitle string, rows []AttendeeRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Attendees: "+eventTitle)
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{20, 20, 50, 80, 30, 45}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		for i, v := range r.values() {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
