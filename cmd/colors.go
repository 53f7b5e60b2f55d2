package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smazurov/m5node/internal/device"
	"github.com/spf13/cobra"
)

// CreateColorsCmd creates the colors command.
func CreateColorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "Print the display color palette",
		Long:  "Lists the color names accepted by set_display_color and set_display_text, with their RGB values.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return printPalette(c.OutOrStdout())
		},
	}
}

func printPalette(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tR\tG\tB\tHEX")
	for _, nc := range device.Palette() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", nc.Name, nc.Color.R, nc.Color.G, nc.Color.B, nc.Color)
	}
	return w.Flush()
}
