package cli

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/shafwanhasyim/sikad-gg/internal/logging"
	"github.com/shafwanhasyim/sikad-gg/internal/seed"
	"github.com/spf13/cobra"
)

func seedCmd(a *app) *cobra.Command {
	var (
		files  []string
		object string
		folder string
		dryRun bool
	)

	c := &cobra.Command{
		Use:   "seed",
		Short: "Load students, courses and grades from YAML fixtures",
		Example: `  sikadctl seed --file fixtures/ganjil-2023.yaml
  sikadctl seed --object seeds/ganjil-2023.yaml
  sikadctl seed --folder seeds/ --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources := 0
			for _, set := range []bool{len(files) > 0, object != "", folder != ""} {
				if set {
					sources++
				}
			}
			if sources != 1 {
				return fmt.Errorf("exactly one of --file, --object or --folder is required")
			}

			ctx := cmd.Context()
			fixture := &seed.Fixture{}

			switch {
			case len(files) > 0:
				for _, path := range files {
					f, err := seed.LoadFile(path)
					if err != nil {
						return err
					}
					fixture.Merge(f)
				}
			default:
				b, err := a.connect(ctx)
				if err != nil {
					return err
				}
				bucket, err := b.bucket(ctx)
				if err != nil {
					return err
				}

				var objects map[string][]byte
				if object != "" {
					data, err := bucket.DownloadFile(ctx, object)
					if err != nil {
						return err
					}
					objects = map[string][]byte{object: data}
				} else {
					objects, err = bucket.DownloadFolder(ctx, folder, ".yaml", ".yml")
					if err != nil {
						return err
					}
					if len(objects) == 0 {
						return fmt.Errorf("no fixtures found under %s", folder)
					}
				}

				fixture, err = seed.ParseAll(objects)
				if err != nil {
					return err
				}
			}

			if dryRun {
				if err := fixture.Validate(); err != nil {
					return fmt.Errorf("invalid fixture: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "fixture OK: %d students, %d courses, %d grades\n",
					len(fixture.Students), len(fixture.Courses), len(fixture.Grades))
				return nil
			}

			b, err := a.connect(ctx)
			if err != nil {
				return err
			}

			var summary seed.Summary
			err = logging.TimeFunction(log.With(a.logger, "step", "seed"), "seed import", func() error {
				var applyErr error
				summary, applyErr = seed.Apply(ctx, b.store, fixture)
				return applyErr
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", summary)
			return nil
		},
	}

	c.Flags().StringArrayVarP(&files, "file", "f", nil, "local fixture file (repeatable)")
	c.Flags().StringVar(&object, "object", "", "fixture object in the storage bucket")
	c.Flags().StringVar(&folder, "folder", "", "bucket folder whose .yaml/.yml objects are all loaded")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "validate only, write nothing")
	return c
}
