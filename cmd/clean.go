package cmd

import (
	"context"
	"fmt"

	"auto-cast/internal/publish"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the published manifest so models fall back to their explicit casts",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		p, target, err := publisher(v, afero.NewOsFs())
		if err != nil {
			return err
		}

		r, ok := p.(publish.Remover)
		if !ok {
			return fmt.Errorf("publish target %q cannot remove documents", v.GetString("manifest.publish"))
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := r.Remove(ctx, target); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Manifest %s removed\n", target)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
}
