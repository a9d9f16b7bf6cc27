package report

import (
	"time"

	"github.com/powerpay/reportdesk/internal/models"
)

// SeedReports returns the sample collection the UI ships with before any
// conversation has produced a real report.
func SeedReports() []models.Report {
	return []models.Report{
		{
			ID:          "1",
			Title:       "Q4 Payroll Summary Report",
			Description: "Comprehensive quarterly payroll analysis including salary distributions, overtime costs, and tax withholdings.",
			Content:     "Sample payroll content...",
			CreatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
			Status:      models.StatusPublished,
			Type:        "Payroll",
		},
		{
			ID:          "2",
			Title:       "Employee Benefits Analysis",
			Description: "Detailed breakdown of healthcare, retirement contributions, and other employee benefits costs.",
			Content:     "Sample benefits content...",
			CreatedAt:   time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
			Status:      models.StatusDraft,
			Type:        "Benefits",
		},
		{
			ID:          "3",
			Title:       "Monthly Attendance Report",
			Description: "Analysis of employee attendance patterns, PTO usage, and overtime trends across departments.",
			Content:     "Sample attendance content...",
			CreatedAt:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
			Status:      models.StatusPublished,
			Type:        "Attendance",
		},
		{
			ID:          "4",
			Title:       "Workforce Demographics Study",
			Description: "Comprehensive demographic analysis including diversity metrics, age distribution, and tenure statistics.",
			Content:     "Sample demographics content...",
			CreatedAt:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			Status:      models.StatusPublished,
			Type:        "Demographics",
		},
		{
			ID:          "5",
			Title:       "Compensation Benchmarking Report",
			Description: "Market comparison of salary ranges, bonus structures, and total compensation packages.",
			Content:     "Sample compensation content...",
			CreatedAt:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
			Status:      models.StatusDraft,
			Type:        "Payroll",
		},
		{
			ID:          "6",
			Title:       "Performance Review Analytics",
			Description: "Statistical analysis of performance ratings, goal completion rates, and promotion trends.",
			Content:     "Sample performance content...",
			CreatedAt:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			Status:      models.StatusPublished,
			Type:        "Performance",
		},
	}
}
