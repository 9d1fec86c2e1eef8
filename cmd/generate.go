package cmd

import (
	"context"
	"fmt"
	"time"

	"auto-cast/internal/discovery"
	"auto-cast/internal/engine"
	"auto-cast/internal/manifest"
	"auto-cast/internal/publish"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dryRun    bool
	output    string
	publishTo string
)

// progressDiscoverer sizes the progress bar once entities are known.
type progressDiscoverer struct {
	discovery.Discoverer
	bar *uiprogress.Bar
}

func (p *progressDiscoverer) Discover(params discovery.Params) ([]discovery.Entity, error) {
	entities, err := p.Discoverer.Discover(params)
	if err != nil {
		return nil, err
	}
	if len(entities) > 0 {
		p.bar = uiprogress.AddBar(len(entities)).AppendCompleted().PrependElapsed()
		p.bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Resolving: "
		})
	}
	return entities, nil
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve the casts of every model and publish the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		fs := afero.NewOsFs()

		cfg, opts, err := engineConfig(v)
		if err != nil {
			return err
		}

		in, closeSources, err := openIntrospector(v, fs)
		if err != nil {
			return err
		}
		defer closeSources()

		start := time.Now()

		// 1. Setup Progress Bar
		d := &progressDiscoverer{Discoverer: discovery.NewFinder(fs)}
		if !dryRun {
			uiprogress.Start()
		}
		opts = append(opts,
			engine.WithLogger(logger),
			engine.WithProgress(func(string) {
				if d.bar != nil {
					d.bar.Incr()
				}
			}),
		)

		// 2. Resolve
		m, err := engine.Run(cfg, d, in, opts...)
		if !dryRun {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		data, err := m.JSON()
		if err != nil {
			return err
		}

		// Dry Run
		if dryRun {
			return publish.Stdout{W: cmd.OutOrStdout()}.Publish(cmd.Context(), "", data)
		}

		// 3. Publish
		p, target, err := publisher(v, fs)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := p.Publish(ctx, target, data); err != nil {
			return err
		}

		// 4. Final Report
		report(m)
		fmt.Printf("Manifest published to %s (%s) in %s\n", target, v.GetString("manifest.publish"), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

// publisher picks the destination named by manifest.publish.
func publisher(v *viper.Viper, fs afero.Fs) (publish.Publisher, string, error) {
	target := v.GetString("manifest.output")
	switch kind := v.GetString("manifest.publish"); kind {
	case "file", "":
		return publish.NewFilePublisher(fs, ""), target, nil
	case "minio":
		var mc publish.MinioConfig
		if err := v.UnmarshalKey("minio", &mc); err != nil {
			return nil, "", fmt.Errorf("failed to parse minio config: %w", err)
		}
		p, err := publish.NewMinioPublisher(mc)
		if err != nil {
			return nil, "", err
		}
		return p, target, nil
	default:
		return nil, "", fmt.Errorf("unknown manifest.publish %q (use file or minio)", kind)
	}
}

func report(m *manifest.Manifest) {
	fmt.Println("\n📊 Summary Report (Discovery Order):")
	entities := m.Entities()
	total := 0
	for i, name := range entities {
		cols := m.ForEntity(name)
		identity := m.DefaultCaster
		if custom, ok := m.CustomCasters.Get(name); ok {
			identity = custom
		}
		fmt.Printf("[%02d/%02d] %-40s : %d casts (%s)\n", i+1, len(entities), name, cols.Len(), identity)
		total += cols.Len()
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total Casts: %d\n", total)
}

func init() {
	RootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the manifest instead of publishing it")
	generateCmd.Flags().StringVarP(&output, "output", "o", "", "Manifest path or object key (overrides config)")
	generateCmd.Flags().StringVar(&publishTo, "publish", "", "Publish target: file or minio (overrides config)")

	viper.BindPFlag("manifest.output", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("manifest.publish", generateCmd.Flags().Lookup("publish"))
}
