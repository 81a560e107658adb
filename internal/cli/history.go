package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var historyColumns = []struct {
	title string
	width int
}{
	{"When", 20},
	{"Merchant", 24},
	{"Amount", 10},
	{"Result", 8},
	{"Score", 7},
	{"Message", 40},
}

// RenderHistory formats journaled submissions as a table, newest first.
func RenderHistory(records []model.SubmissionRecord) string {
	if len(records) == 0 {
		return FormatInfo("No submissions recorded yet")
	}

	header := make([]string, 0, len(historyColumns))
	for _, col := range historyColumns {
		header = append(header, TableCellStyle.Width(col.width).Render(col.title))
	}

	rows := []string{TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...))}
	for _, r := range records {
		result := SuccessStyle.Render("ok")
		if !r.Succeeded {
			result = ErrorStyle.Render("failed")
		}

		score := "-"
		if r.FraudScore != nil {
			score = ScoreStyle(*r.FraudScore).Render(fmt.Sprintf("%.2f", *r.FraudScore))
		}

		cells := []string{
			r.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(r.Merchant, historyColumns[1].width-2),
			fmt.Sprintf("%.2f", r.Amount),
			result,
			score,
			truncate(r.Message, historyColumns[5].width-2),
		}

		row := make([]string, 0, len(cells))
		for i, cell := range cells {
			row = append(row, TableCellStyle.Width(historyColumns[i].width).Render(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return strings.Join(rows, "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
