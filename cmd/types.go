package cmd

import (
	"fmt"
	"io"

	"auto-cast/internal/typemap"

	"github.com/spf13/cobra"
)

var opinionated bool

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print the storage type to cast directive table",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := typemap.Defaults()
		if opinionated {
			m = typemap.Opinionated()
		}
		printTypes(cmd.OutOrStdout(), m)
		return nil
	},
}

func printTypes(w io.Writer, m typemap.TypeMap) {
	for _, t := range m.Types() {
		kw, ok := m.Lookup(t)
		if !ok {
			kw = "-"
		}
		fmt.Fprintf(w, "%-22s %s\n", t, kw)
	}
}

func init() {
	RootCmd.AddCommand(typesCmd)
	typesCmd.Flags().BoolVar(&opinionated, "opinionated", false, "Show the opinionated map")
}
