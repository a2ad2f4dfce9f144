package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"snapex/internal/infra/logx"
)

func newDownloadCmd(o *options) *cobra.Command {
	var (
		outPath string
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "download SNAPSHOT PATH",
		Short: "Download a file from a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := o.setupCLI(cmd)
			if err != nil {
				return err
			}
			snapshot, full := args[0], strings.TrimSpace(args[1])

			if outPath == "-" {
				_, err := client.Download(cmd.Context(), snapshot, full, cmd.OutOrStdout(), nil)
				return err
			}
			if outPath == "" {
				outPath = path.Base(full)
			}

			// write next to the target and rename once complete
			part := outPath + ".part"
			f, err := os.Create(part)
			if err != nil {
				return fmt.Errorf("create %s: %w", part, err)
			}

			var bar *progressbar.ProgressBar
			var progress func(total int64) io.Writer
			if !quiet && isTerminal(cmd.ErrOrStderr()) {
				progress = func(total int64) io.Writer {
					bar = newProgressBar(total, path.Base(full), cmd.ErrOrStderr())
					return bar
				}
			}

			n, err := client.Download(cmd.Context(), snapshot, full, f, progress)
			if bar != nil {
				_ = bar.Finish()
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(part)
				return err
			}
			if err := os.Rename(part, outPath); err != nil {
				return fmt.Errorf("rename %s: %w", part, err)
			}
			logx.Infof("downloaded %s:%s to %s (%d bytes)", snapshot, full, outPath, n)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", outPath, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file; - writes to stdout (default: base name of PATH)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

func newProgressBar(total int64, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
