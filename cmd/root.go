package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	logger  = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var RootCmd = &cobra.Command{
	Use:   "auto-cast",
	Short: "Generate model cast directives from the database schema",
	Long: `
    _   _   _ _____ ___     ___   _   ___ _____
   /_\ | | | |_   _/ _ \   / __| /_\ / __|_   _|
  / _ \| |_| | | || (_) | | (__ / _ \\__ \ | |
 /_/ \_\\___/  |_| \___/   \___/_/ \_\___/ |_|

AUTO CAST - resolves every model column to a cast directive
`,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./auto-cast.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every resolved entity")

	setDefaults(viper.GetViper())
}

// setDefaults registers the fallback of every key read by the commands.
func setDefaults(v *viper.Viper) {
	v.SetDefault("schema.source", "database")
	v.SetDefault("discover.directory", "app/Models")
	v.SetDefault("casts.type_mapper", "default")
	v.SetDefault("casts.default_caster", "default")
	v.SetDefault("manifest.output", "config/auto-cast.json")
	v.SetDefault("manifest.publish", "file")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("auto-cast")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("AUTO_CAST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}
