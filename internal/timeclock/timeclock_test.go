package timeclock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/database"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db := database.OpenTest(t)
	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler(false)})
	app.Get("/api/time-entries", ListTimeEntriesHandler(db))
	app.Get("/api/time-entries/summary", SummaryHandler(db))
	app.Post("/api/time-entries", CreateTimeEntryHandler(db))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func TestCreateTimeEntry(t *testing.T) {
	app := newTestApp(t)

	status, b := call(t, app, http.MethodPost, "/api/time-entries",
		`{"employeeName":"  Ana ","type":"clock_in","timestamp":"2025-08-01T14:00:00.000Z"}`)
	require.Equal(t, http.StatusOK, status, string(b))
	assert.JSONEq(t, `{"ok":true,"timeEntryId":1}`, string(b))

	status, b = call(t, app, http.MethodGet, "/api/time-entries?employeeName=Ana", "")
	require.Equal(t, http.StatusOK, status)
	var entries []models.TimeEntry
	require.NoError(t, json.Unmarshal(b, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Ana", entries[0].EmployeeName)
	assert.Equal(t, models.ClockIn, entries[0].Type)
}

func TestCreateTimeEntry_Rejects(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		body string
		want string
	}{
		{`{"type":"clock_in","timestamp":"2025-08-01T14:00:00Z"}`, "Missing required fields"},
		{`{"employeeName":"   ","type":"clock_in","timestamp":"2025-08-01T14:00:00Z"}`, "Missing required fields"},
		{`{"employeeName":"Ana","type":"lunch","timestamp":"2025-08-01T14:00:00Z"}`, "Invalid type. Must be clock_in or clock_out"},
		{`{"employeeName":"Ana","type":"clock_out","timestamp":"yesterday"}`, "Invalid timestamp"},
	}
	for _, tt := range tests {
		status, b := call(t, app, http.MethodPost, "/api/time-entries", tt.body)
		assert.Equal(t, http.StatusBadRequest, status, tt.body)
		assert.JSONEq(t, `{"error":"`+tt.want+`"}`, string(b))
	}
}

func TestListTimeEntries_DateFilter(t *testing.T) {
	app := newTestApp(t)
	for _, ts := range []string{"2025-08-01T09:00:00Z", "2025-08-02T09:00:00Z", "2025-08-03T09:00:00Z"} {
		status, _ := call(t, app, http.MethodPost, "/api/time-entries",
			`{"employeeName":"Luis","type":"clock_in","timestamp":"`+ts+`"}`)
		require.Equal(t, http.StatusOK, status)
	}

	_, b := call(t, app, http.MethodGet, "/api/time-entries?startDate=2025-08-02&endDate=2025-08-02", "")
	var entries []models.TimeEntry
	require.NoError(t, json.Unmarshal(b, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Timestamp.Day())
}

func at(hour, min int) time.Time {
	return time.Date(2025, 8, 1, hour, min, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	entries := []models.TimeEntry{
		{EmployeeName: "Ana", Type: models.ClockOut, Timestamp: at(17, 0)},
		{EmployeeName: "Ana", Type: models.ClockIn, Timestamp: at(9, 0)},
		{EmployeeName: "Luis", Type: models.ClockIn, Timestamp: at(10, 0)},
		// forgot to clock out; the second clock_in restarts the shift
		{EmployeeName: "Luis", Type: models.ClockIn, Timestamp: at(12, 0)},
		{EmployeeName: "Luis", Type: models.ClockOut, Timestamp: at(13, 30)},
		{EmployeeName: "Luis", Type: models.ClockOut, Timestamp: at(18, 0)},
	}

	got := Summarize(entries)
	require.Len(t, got, 2)

	assert.Equal(t, EmployeeSummary{
		Name: "Luis", ClockIns: 2, ClockOuts: 2, TotalHours: 1.5, LastActivity: at(18, 0),
	}, got[0])
	assert.Equal(t, EmployeeSummary{
		Name: "Ana", ClockIns: 1, ClockOuts: 1, TotalHours: 8, LastActivity: at(17, 0),
	}, got[1])
}

func TestSummaryHandler(t *testing.T) {
	app := newTestApp(t)
	call(t, app, http.MethodPost, "/api/time-entries", `{"employeeName":"Ana","type":"clock_in","timestamp":"2025-08-01T09:00:00Z"}`)
	call(t, app, http.MethodPost, "/api/time-entries", `{"employeeName":"Ana","type":"clock_out","timestamp":"2025-08-01T11:15:00Z"}`)

	status, b := call(t, app, http.MethodGet, "/api/time-entries/summary", "")
	require.Equal(t, http.StatusOK, status)
	var got []EmployeeSummary
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got, 1)
	assert.Equal(t, 2.25, got[0].TotalHours)
}
