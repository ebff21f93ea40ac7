// Package sources implements the source listing command.
package sources

import (
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	enginesources "github.com/pharmalens/pricelens/internal/sources"
)

// Command returns the sources command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List known pharmacy sources",
		Long:  `List every known pharmacy source, its extraction strategy, and whether it is enabled by default.`,
		Run: func(cmd *cobra.Command, args []string) {
			defaults := enginesources.DefaultEnabled()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"ID", "Name", "Strategy", "Heavy", "Default"})

			for _, desc := range enginesources.AllDescriptors() {
				enabled := ""
				if slices.Contains(defaults, desc.ID) {
					enabled = "yes"
				}
				t.AppendRow(table.Row{
					desc.ID, desc.DisplayName, string(desc.Strategy), desc.Heavy, enabled,
				})
			}
			t.Render()
		},
	}
}
