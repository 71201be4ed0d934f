package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/backup"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

var asOf = time.Date(2024, 6, 2, 7, 5, 9, 0, time.UTC)

func sampleInventory() *models.Inventory {
	return &models.Inventory{
		NumberOfLeads:           10,
		NumberOfUsers:           4,
		NumberOfAssignedLeads:   6,
		NumberOfUnassignedLeads: 4,
		NumberOfEmails:          3,
		CallDispositionCounts: map[string]int64{
			"Booked":      2,
			"Do Not Call": 1,
			"Voicemail":   5,
		},
		UpdatedAt: asOf,
	}
}

func sampleBookings() []models.Booking {
	return []models.Booking{
		{TelemarketerName: "Ann", LeadName: "Jane Doe", CallDisposition: models.DispositionBooked},
		{TelemarketerName: "Bob", LeadName: "John Roe", CallDisposition: models.DispositionBooked},
	}
}

type stubSource struct {
	err   error
	limit int
}

func (s *stubSource) Report(ctx context.Context, actor auth.Identity, limit int) (*models.Inventory, []models.Booking, error) {
	if !actor.Can(auth.CapDashboardView) {
		return nil, nil, domain.NewForbiddenError("Forbidden")
	}
	return s.ReportData(ctx, limit)
}

func (s *stubSource) ReportData(ctx context.Context, limit int) (*models.Inventory, []models.Booking, error) {
	s.limit = limit
	if s.err != nil {
		return nil, nil, s.err
	}
	return sampleInventory(), sampleBookings(), nil
}

type stubArchiver struct {
	names []string
	err   error
}

func (a *stubArchiver) Archive(ctx context.Context, filename, contentType string, data []byte) (*backup.ArchiveResult, error) {
	a.names = append(a.names, filename)
	return &backup.ArchiveResult{Key: filename}, a.err
}

func TestFormatAsOf(t *testing.T) {
	assert.Equal(t, "June 2nd 2024, 7:05:09 am", FormatAsOf(asOf))
	assert.Equal(t, "June 11th 2024, 7:05:09 pm", FormatAsOf(time.Date(2024, 6, 11, 19, 5, 9, 0, time.UTC)))
	assert.Equal(t, "March 23rd 2024, 12:00:00 pm", FormatAsOf(time.Date(2024, 3, 23, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "March 1st 2024, 12:00:00 am", FormatAsOf(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWriteCSV_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Report{Inventory: sampleInventory(), Bookings: sampleBookings(), AsOf: asOf}))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, []string{"DASHBOARD REPORT", "As of June 2nd 2024, 7:05:09 am"}, rows[0])
	assert.Equal(t, Headers, rows[1])
	require.Len(t, rows[1], 19)

	totals := rows[2]
	require.Len(t, totals, 19)
	assert.Equal(t, []string{"10", "4", "6", "4", "", "", "", "3"}, totals[:8])
	assert.Equal(t, "2", totals[8], "Booked Count")
	assert.Equal(t, "1", totals[15], "Do Not Call Count")
	assert.Equal(t, "5", totals[18], "Voicemail Count")
	assert.Equal(t, "0", totals[9], "Warm Lead Count")

	booking := rows[3]
	require.Len(t, booking, 19)
	assert.Equal(t, []string{"", "", "", ""}, booking[:4])
	assert.Equal(t, []string{"Ann", "Jane Doe", "Booked"}, booking[4:7])
	assert.Empty(t, booking[7])
}

func TestRows_QuotesFormulaLikeNames(t *testing.T) {
	rows := Report{
		Inventory: sampleInventory(),
		AsOf:      asOf,
		Bookings: []models.Booking{
			{TelemarketerName: "@ann", LeadName: "=HYPERLINK(\"http://x\")", CallDisposition: models.DispositionBooked},
			{TelemarketerName: "Bob", LeadName: "-1+2", CallDisposition: models.DispositionBooked},
			{TelemarketerName: "Cy", LeadName: "Jo-Ann Smith", CallDisposition: models.DispositionBooked},
		},
	}.Rows()

	require.Len(t, rows, 6)
	assert.Equal(t, []string{"'@ann", "'=HYPERLINK(\"http://x\")"}, rows[3][4:6])
	assert.Equal(t, []string{"Bob", "'-1+2"}, rows[4][4:6])
	assert.Equal(t, []string{"Cy", "Jo-Ann Smith"}, rows[5][4:6])
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, Report{Inventory: sampleInventory(), Bookings: sampleBookings(), AsOf: asOf}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	title, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "DASHBOARD REPORT", title)

	header, err := f.GetCellValue(SheetName, "S2")
	require.NoError(t, err)
	assert.Equal(t, "Voicemail Count", header)

	total, err := f.GetCellValue(SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "10", total)

	tm, err := f.GetCellValue(SheetName, "E4")
	require.NoError(t, err)
	assert.Equal(t, "Ann", tm)

	styleID, err := f.GetCellStyle(SheetName, "A2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, "excel": FormatExcel, "xlsx": FormatExcel} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.True(t, domain.IsValidation(err))
}

func TestDashboard(t *testing.T) {
	src := &stubSource{}
	svc := NewService(src, 15)
	tl := auth.Identity{ID: "tl", Role: auth.RoleTeamLeader}

	file, err := svc.Dashboard(context.Background(), tl, FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "dashboard_report_2024-06-02.xlsx", file.Name)
	assert.Equal(t, FormatExcel.ContentType(), file.ContentType)
	assert.NotEmpty(t, file.Data)
	assert.Equal(t, 15, src.limit)

	_, err = svc.Dashboard(context.Background(), auth.Identity{ID: "x", Role: auth.RoleTelemarketer}, FormatCSV)
	assert.True(t, domain.IsForbidden(err))
}

func TestDaily_Archives(t *testing.T) {
	arch := &stubArchiver{err: errors.New("s3 down")}
	svc := NewService(&stubSource{}, 10, WithArchiver(arch))

	file, err := svc.Daily(context.Background())
	require.NoError(t, err, "archive failures do not fail the report")
	assert.Equal(t, "dashboard_report_2024-06-02.csv", file.Name)
	assert.Equal(t, []string{file.Name}, arch.names)
}

func TestDaily_SourceError(t *testing.T) {
	svc := NewService(&stubSource{err: errors.New("mongo down")}, 10)
	_, err := svc.Daily(context.Background())
	assert.Error(t, err)
}
