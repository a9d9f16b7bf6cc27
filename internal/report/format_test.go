package report

import (
	"strings"
	"testing"

	"github.com/powerpay/reportdesk/internal/models"
)

func TestMarkdownTableEmpty(t *testing.T) {
	if got := MarkdownTable(nil, nil); got != "" {
		t.Fatalf("expected empty string for empty input, got %q", got)
	}
	if got := MarkdownTable([]string{"a"}, nil); got != "" {
		t.Fatalf("expected empty string for no rows, got %q", got)
	}
}

func TestMarkdownTableShape(t *testing.T) {
	columns := []string{"Dept", "Count"}
	rows := []models.Row{
		{"Dept": "Eng", "Count": 10},
		{"Dept": "Sales", "Count": 5},
		{"Dept": "HR", "Count": 2},
	}

	table := MarkdownTable(columns, rows)
	lines := strings.Split(table, "\n")
	if len(lines) != len(rows)+2 {
		t.Fatalf("expected %d lines, got %d:\n%s", len(rows)+2, len(lines), table)
	}
	if lines[0] != "| Dept | Count |" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "|----------|----------|" {
		t.Fatalf("unexpected separator line: %q", lines[1])
	}
	if lines[2] != "| Eng | 10 |" {
		t.Fatalf("unexpected first data line: %q", lines[2])
	}
}

func TestMarkdownTableMissingCell(t *testing.T) {
	columns := []string{"Dept", "Count"}
	rows := []models.Row{{"Dept": "Eng"}}

	table := MarkdownTable(columns, rows)
	lines := strings.Split(table, "\n")
	if lines[2] != "| Eng |  |" {
		t.Fatalf("expected missing cell to render empty, got %q", lines[2])
	}
}

func TestContentFromAPIData(t *testing.T) {
	data := models.APIData{
		Title:   "Query Results",
		Type:    "Query Results",
		Columns: []string{"a"},
		Rows:    []models.Row{{"a": 1}, {"a": 2}},
	}

	content := ContentFromAPIData(data, "show me everything")
	for _, want := range []string{
		"# Query Results",
		`Based on your request: "show me everything"`,
		"Total records analyzed: 2",
		"Data type: Query Results",
		"| a |",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("content missing %q:\n%s", want, content)
		}
	}
}

func TestMockReportContentUsesTypeTable(t *testing.T) {
	content := MockReportContent("payroll please", "Payroll")
	if !strings.Contains(content, "# Payroll Report Analysis") {
		t.Fatalf("missing title heading:\n%s", content)
	}
	if !strings.Contains(content, "| Engineering | 45 |") {
		t.Fatalf("expected payroll table rows:\n%s", content)
	}
	if !strings.Contains(content, `Based on your request: "payroll please"`) {
		t.Fatalf("expected prompt echo:\n%s", content)
	}
}

func TestMockTableDataCategories(t *testing.T) {
	cases := map[string]string{
		"Payroll":      "| Department | Employee Count |",
		"Benefits":     "| Benefit Type |",
		"Attendance":   "| Employee ID |",
		"Demographics": "| Age Group |",
		"Performance":  "| Review Cycle |",
	}
	for reportType, want := range cases {
		if got := MockTableData(reportType); !strings.HasPrefix(got, want) {
			t.Fatalf("%s table should start with %q, got %q", reportType, want, got[:40])
		}
	}
	if got := MockTableData("Something Else"); !strings.Contains(got, "| Revenue |") {
		t.Fatalf("unknown type should fall back to quarterly metrics, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 60)
	if got := truncate(long, 50); got != strings.Repeat("x", 50)+"..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("short", 50); got != "short" {
		t.Fatalf("short input should be unchanged, got %q", got)
	}
	exact := strings.Repeat("y", 50)
	if got := truncate(exact, 50); got != exact {
		t.Fatalf("exact-length input should be unchanged, got %q", got)
	}
}
