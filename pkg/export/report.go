package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// SheetName is the worksheet holding the Excel report
const SheetName = "Dashboard"

// Headers are the report columns in order
var Headers = []string{
	"Total Leads",
	"Total Users",
	"Assigned Leads",
	"Unassigned Leads",
	"Telemarketer Name",
	"Lead Name",
	"Call Disposition",
	"Number of Emails",
	"Booked Count",
	"Warm Lead Count",
	"Not Eligible Count",
	"Already Installed Count",
	"Not Working Count",
	"Residential Count",
	"Callback Count",
	"Do Not Call Count",
	"No Answer Count",
	"Not Interested Count",
	"Voicemail Count",
}

// reportDispositions back the "... Count" columns
var reportDispositions = []models.Disposition{
	models.DispositionBooked,
	models.DispositionWarmLead,
	models.DispositionNotEligible,
	models.DispositionAlreadyInstalled,
	models.DispositionWrongNotWorking,
	models.DispositionResidential,
	models.DispositionCallback,
	models.DispositionDoNotCall,
	models.DispositionNoAnswer,
	models.DispositionNotInterested,
	models.DispositionVoicemail,
}

// Report is the dashboard snapshot rendered by the exporters
type Report struct {
	Inventory *models.Inventory
	Bookings  []models.Booking
	AsOf      time.Time
}

// FormatAsOf renders a time like "June 2nd 2024, 7:00:00 am"
func FormatAsOf(t time.Time) string {
	return t.Format("January ") + strconv.Itoa(t.Day()) + ordinal(t.Day()) + t.Format(" 2006, 3:04:05 pm")
}

func ordinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// Rows lays the report out as a grid: a title row, the header row, the
// totals row and one row per booking.
func (r Report) Rows() [][]string {
	inv := r.Inventory
	if inv == nil {
		inv = &models.Inventory{}
	}
	itoa := func(n int64) string { return strconv.FormatInt(n, 10) }

	totals := []string{
		itoa(inv.NumberOfLeads),
		itoa(inv.NumberOfUsers),
		itoa(inv.NumberOfAssignedLeads),
		itoa(inv.NumberOfUnassignedLeads),
		"", "", "",
		itoa(inv.NumberOfEmails),
	}
	for _, d := range reportDispositions {
		totals = append(totals, itoa(inv.DispositionCount(d)))
	}

	rows := [][]string{
		{"DASHBOARD REPORT", "As of " + FormatAsOf(r.AsOf)},
		Headers,
		totals,
	}
	for _, b := range r.Bookings {
		row := make([]string, len(Headers))
		row[4] = textCell(b.TelemarketerName)
		row[5] = textCell(b.LeadName)
		row[6] = string(b.CallDisposition)
		rows = append(rows, row)
	}
	return rows
}

// textCell quotes free text that a spreadsheet would evaluate as a formula
func textCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

// WriteCSV renders the report as CSV
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(r.Rows()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteExcel renders the report into the Dashboard sheet. Totals are
// written as numbers and the header row is bold.
func WriteExcel(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, row := range r.Rows() {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if i == 2 && v != "" {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					values[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "B1", titleStyle); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A2", lastCol+"2", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
