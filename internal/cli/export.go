package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shafwanhasyim/sikad-gg/internal/logging"
	"github.com/shafwanhasyim/sikad-gg/internal/types"
	"github.com/spf13/cobra"
)

type snapshot struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Count       int                `json:"count"`
	Enrollments []types.Enrollment `json:"enrollments"`
}

// exportPath names an uploaded snapshot, e.g. exports/20240201T080000Z.json.
func exportPath(now time.Time) string {
	return "exports/" + now.UTC().Format("20060102T150405Z") + ".json"
}

func exportCmd(a *app) *cobra.Command {
	var (
		out    string
		upload bool
	)

	c := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of every resolved grade",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := a.connect(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			var data []byte
			err = logging.TimeFunction(log.With(a.logger, "step", "export"), "export", func() error {
				enrollments, err := b.store.Enrollments(ctx, types.EnrollmentFilter{})
				if err != nil {
					return err
				}

				data, err = json.MarshalIndent(snapshot{
					GeneratedAt: now.UTC(),
					Count:       len(enrollments),
					Enrollments: enrollments,
				}, "", "  ")
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to export grades: %w", err)
			}

			if upload {
				bucket, err := b.bucket(ctx)
				if err != nil {
					return err
				}
				path := exportPath(now)
				if err := bucket.UploadFile(ctx, path, data); err != nil {
					return err
				}
				level.Info(a.logger).Log("msg", "snapshot uploaded", "path", path, "bytes", len(data))
			}

			switch out {
			case "":
				if upload {
					return nil
				}
				fallthrough
			case "-":
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			default:
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				return nil
			}
		},
	}

	c.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default stdout unless --upload)")
	c.Flags().BoolVar(&upload, "upload", false, "upload the snapshot to the storage bucket under exports/")
	return c
}
