// Package search implements the price comparison command.
package search

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pharmalens/pricelens/internal/bootstrap"
	"github.com/pharmalens/pricelens/internal/domain"
)

const maxNameWidth = 48

// Command returns the search command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var dosage string

	cmd := &cobra.Command{
		Use:   "search <medicine name>",
		Short: "Compare prices for a medicine across pharmacies",
		Long: `Search every enabled pharmacy for a medicine and print a price
comparison table sorted by price.

Examples:
  # Compare prices for Dolo 650
  pricelens search "Dolo 650mg"

  # Supply the dosage separately
  pricelens search Augmentin -d 625mg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, strings.Join(args, " "), dosage, *cfgFile, *debug)
		},
	}
	cmd.Flags().StringVarP(&dosage, "dosage", "d", "", "explicit dosage (e.g. 650mg)")
	return cmd
}

// run executes the search and renders the comparison table.
func run(cmd *cobra.Command, name, dosage, cfgFile string, debug bool) error {
	app, err := bootstrap.New(cfgFile, debug)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	result, err := app.Aggregator.Search(cmd.Context(), name, dosage)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Printf("Query: %s\n", result.Query.CanonicalQuery)
	if len(result.Query.AlternativeNames) > 0 {
		fmt.Printf("Alternatives: %s\n", strings.Join(result.Query.AlternativeNames, ", "))
	}
	fmt.Println()

	if len(result.Records) == 0 {
		fmt.Println("No prices found.")
		printErrors(result)
		return nil
	}

	renderTable(result)
	printErrors(result)
	return nil
}

// renderTable prints the price comparison, cheapest first.
func renderTable(result *domain.AggregateResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Pharmacy", "Product", "Pack", "Price", "MRP", "Discount"})

	for i, r := range result.Records {
		name := r.ProductName
		if len(name) > maxNameWidth {
			name = name[:maxNameWidth-3] + "..."
		}
		mrp := "-"
		if r.OriginalPrice > 0 {
			mrp = fmt.Sprintf("₹%.2f", r.OriginalPrice)
		}
		discount := "-"
		if r.DiscountPct > 0 {
			discount = fmt.Sprintf("%.1f%%", r.DiscountPct)
		}
		t.AppendRow(table.Row{
			i + 1, r.SourceID, name, r.PackSize,
			fmt.Sprintf("₹%.2f", r.Price), mrp, discount,
		})
	}
	t.AppendFooter(table.Row{
		"", "", "", "",
		fmt.Sprintf("Save ₹%.2f", result.Savings), "", "",
	})
	t.Render()
}

// printErrors lists sources that failed, if any.
func printErrors(result *domain.AggregateResult) {
	if len(result.Errors) == 0 {
		return
	}
	fmt.Println()
	for id, msg := range result.Errors {
		fmt.Printf("  %s: %s\n", id, msg)
	}
}
