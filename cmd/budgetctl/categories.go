package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func categoriesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List expense categories",
		Long:  `List active categories in display order. Use --all to include deactivated ones.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := newClient().FetchCategories(cmd.Context(), all)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			return printCategories(os.Stdout, categories)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive categories")
	return cmd
}

func printCategories(out io.Writer, categories []*entity.Category) error {
	if len(categories) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No categories found."))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "ORDER", "NAME", "SLUG", "STATUS")
	for _, cat := range categories {
		status := "active"
		if !cat.IsActive {
			status = mutedStyle.Render("inactive")
		}
		name := cat.Name
		if cat.Icon != nil && *cat.Icon != "" {
			name = *cat.Icon + " " + name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", strconv.Itoa(cat.SortOrder), name, cat.Slug, status)
	}
	return w.Flush()
}

func money(d decimal.Decimal) string {
	return valueobject.ToCurrency(d).StringFixed(valueobject.CurrencyPlaces)
}
