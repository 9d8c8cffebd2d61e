package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func summaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the budget summary of a month",
		Long:  `Print budget, spending and remaining amounts per category for a month (default: the current month).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := valueobject.MonthOf(time.Now())
			if month != "" {
				parsed, err := valueobject.ParseMonth(month)
				if err != nil {
					return err
				}
				target = parsed
			}

			summary, err := newClient().FetchMonthSummary(cmd.Context(), target)
			if err != nil {
				return fmt.Errorf("failed to fetch summary: %w", err)
			}
			return printSummary(os.Stdout, summary)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to show, as YYYY-MM")
	return cmd
}

func printSummary(out io.Writer, summary *entity.MonthSummary) error {
	fmt.Fprintln(out, headerStyle.Render("Budget for "+summary.Month.String()))

	if len(summary.ByCategory) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No categories found. Use 'budgetctl tui' to create one."))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", "CATEGORY", "LIMIT", "SPENT", "REMAINING", "USED")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 20), strings.Repeat("-", 9), strings.Repeat("-", 9),
		strings.Repeat("-", 9), strings.Repeat("-", 6))

	for _, row := range summary.ByCategory {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.Category.Name,
			money(row.MonthlyLimit),
			money(row.SpentThisMonth),
			money(row.Remaining),
			tierStyle(row).Render(valueobject.ToFixed(row.PercentUsed, 1).StringFixed(1)+"%"))
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
		"Total", money(summary.TotalBudget), money(summary.TotalSpent), money(summary.TotalRemaining))
	return w.Flush()
}

func tierStyle(row entity.CategorySummary) lipgloss.Style {
	if row.IsOverBudget() {
		return errorStyle
	}
	switch row.Tier {
	case valueobject.TierOver:
		return errorStyle
	case valueobject.TierWarning:
		return warningStyle
	default:
		return successStyle
	}
}
