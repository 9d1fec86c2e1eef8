package cmd

import (
	"fmt"

	"auto-cast/internal/manifest"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var manifestPath string

var showCmd = &cobra.Command{
	Use:   "show <entity> [column]",
	Short: "Look up resolved casts in a published manifest",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := manifestPath
		if path == "" {
			path = viper.GetString("manifest.output")
		}
		m, err := manifest.LoadFile(afero.NewOsFs(), path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		entity := args[0]
		if len(args) == 2 {
			d, ok := m.ForColumn(entity, args[1])
			if !ok {
				return fmt.Errorf("no cast resolved for %s.%s", entity, args[1])
			}
			fmt.Fprintln(out, d)
			return nil
		}

		cols := m.ForEntity(entity)
		if cols.Len() == 0 {
			fmt.Fprintf(out, "%s has no resolved casts\n", entity)
			return nil
		}
		cols.Each(func(name, d string) bool {
			fmt.Fprintf(out, "%-30s %s\n", name, d)
			return true
		})
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest to read (default is manifest.output)")
}
