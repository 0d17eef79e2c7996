package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"firestige.xyz/attrcodec/pkg/attr"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported attribute types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTypes(cmd.OutOrStdout())
	},
}

func runTypes(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tWIDTH")
	for _, t := range attr.Types() {
		width := "variable"
		if n := t.Width(); n > 0 {
			width = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(w, "%s\t%s\n", t, width)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
