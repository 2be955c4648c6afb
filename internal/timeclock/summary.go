package timeclock

import (
	"math"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"gorm.io/gorm"
)

type EmployeeSummary struct {
	Name         string    `json:"name"`
	ClockIns     int       `json:"clockIns"`
	ClockOuts    int       `json:"clockOuts"`
	TotalHours   float64   `json:"totalHours"`
	LastActivity time.Time `json:"lastActivity"`
}

// GET /api/time-entries/summary?startDate&endDate
func SummaryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := period.Parse(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := List(db, r, c.Query("employeeName"))
		if err != nil {
			return err
		}
		return c.JSON(Summarize(entries))
	}
}

// Summarize totals punches per employee, most recently active first. Each
// clock_in pairs with the next clock_out; a clock_in while a shift is open
// restarts that shift and a clock_out without one is only counted.
func Summarize(entries []models.TimeEntry) []EmployeeSummary {
	sorted := make([]models.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	type state struct {
		sum    EmployeeSummary
		open   *time.Time
		worked time.Duration
	}
	byName := make(map[string]*state)
	for _, e := range sorted {
		st, ok := byName[e.EmployeeName]
		if !ok {
			st = &state{sum: EmployeeSummary{Name: e.EmployeeName}}
			byName[e.EmployeeName] = st
		}

		switch e.Type {
		case models.ClockIn:
			st.sum.ClockIns++
			ts := e.Timestamp
			st.open = &ts
		case models.ClockOut:
			st.sum.ClockOuts++
			if st.open != nil {
				st.worked += e.Timestamp.Sub(*st.open)
				st.open = nil
			}
		}
		if e.Timestamp.After(st.sum.LastActivity) {
			st.sum.LastActivity = e.Timestamp
		}
	}

	out := make([]EmployeeSummary, 0, len(byName))
	for _, st := range byName {
		st.sum.TotalHours = math.Round(st.worked.Hours()*100) / 100
		out = append(out, st.sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].LastActivity.After(out[j].LastActivity)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
