package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gcbaptista/go-ir-engine/internal/evaluation"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/services"
)

var rule = strings.Repeat("=", 80)

type styles struct {
	docID  lipgloss.Style
	label  lipgloss.Style
	query  lipgloss.Style
	header lipgloss.Style
}

// newStyles binds the styles to out, so colors are dropped when out is not a terminal.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		docID:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		label:  r.NewStyle().Faint(true),
		query:  r.NewStyle().Italic(true),
		header: r.NewStyle().Bold(true),
	}
}

func (c *CLI) renderResults(query string, method search.Method, result services.SearchResult) {
	c.printf("\n%s\nQuery: '%s'\nMethod: '%s'\nFound %d documents\n%s\n", rule, query, method, result.Total, rule)

	for rank, hit := range result.Hits {
		c.printf("\n%s\n", c.styles.docID.Render(fmt.Sprintf("%d. %s", rank+1, hit.DocumentID)))
		c.printf("%s %.4f\n", c.styles.label.Render("Score:"), hit.Score)
		c.printf("%s %s\n", c.styles.label.Render("Preview:"), hit.Preview)
		c.printf("%s %s\n", c.styles.label.Render("Categories:"), strings.Join(hit.Categories, ", "))
	}
}

// renderQueryReports prints the measures of every query, grouped by query.
func (c *CLI) renderQueryReports(report *evaluation.Report) {
	lastQuery := ""
	for i, q := range report.Queries {
		if i == 0 || q.QueryID != lastQuery {
			if i > 0 {
				c.printf("\n")
			}
			c.printf("%s\n", c.styles.query.Render(fmt.Sprintf("Evaluating query: '%s'", q.Query)))
			lastQuery = q.QueryID
		}
		c.printf("%s: P=%.3f, R=%.3f, F1=%.3f, AP=%.3f\n",
			strings.ToUpper(string(q.Method)), q.Precision, q.Recall, q.F1, q.AveragePrecision)
	}
	c.printf("\n")
}

// renderSummary prints the per-method means of a dataset as a table.
func (c *CLI) renderSummary(dataset string, report *evaluation.Report) {
	c.printf("\n%s\nEvaluation Results - %s\n%s\n", rule, dataset, rule)
	c.printf("%s\n", c.styles.header.Render(fmt.Sprintf("%-15s %-12s %-12s %-12s %-16s",
		"Method", "Precision", "Recall", "F1-Score", "Avg. Precision")))
	c.printf("%s\n", strings.Repeat("-", 80))

	for _, s := range report.Methods {
		c.printf("%-15s %-12.4f %-12.4f %-12.4f %-15.4f\n",
			strings.ToUpper(string(s.Method)), s.Precision, s.Recall, s.F1, s.AveragePrecision)
	}
	c.printf("%s\n\n", rule)
}
